package game

import (
	"github.com/wallgame/quoridor/board"
	"github.com/wallgame/quoridor/move"
)

type BackupMode int

const (
	// NoBackup never performs game backups. Search copies use it; Undo
	// always fails in this mode.
	NoBackup BackupMode = iota
	// InteractiveGameplayMode keeps a snapshot before every committed
	// action so that the game can be rolled back one turn at a time.
	InteractiveGameplayMode
)

// stateBackup is a subset of Game, meant only for backup purposes.
type stateBackup struct {
	board   *board.Board
	players playerStates
	onturn  int
	winner  int
	turnnum int
}

// SetBackupMode switches the snapshot policy. Switching to NoBackup drops
// any snapshots already taken.
func (g *Game) SetBackupMode(m BackupMode) {
	g.backupMode = m
	if m == NoBackup {
		g.clearHistory()
	}
}

func (g *Game) BackupMode() BackupMode {
	return g.backupMode
}

func (g *Game) backupState() {
	if g.backupMode == NoBackup {
		return
	}
	if g.stackPtr == len(g.stateStack) {
		// Grow the stack; popped entries below are reused to avoid allocs.
		g.stateStack = append(g.stateStack, &stateBackup{
			board:   g.board.Copy(),
			players: copyPlayers(g.players),
		})
	}
	st := g.stateStack[g.stackPtr]
	st.board.CopyFrom(g.board)
	st.players.copyFrom(g.players)
	st.onturn = g.onturn
	st.winner = g.winner
	st.turnnum = g.turnnum
	g.stackPtr++
}

// Undo restores the state from before the last committed action. It
// returns false if there is nothing to undo.
func (g *Game) Undo() bool {
	if g.stackPtr == 0 {
		return false
	}
	b := g.stateStack[g.stackPtr-1]
	g.stackPtr--

	g.board.CopyFrom(b.board)
	g.players.copyFrom(b.players)
	g.onturn = b.onturn
	g.winner = b.winner
	g.turnnum = b.turnnum
	if len(g.history) > 0 {
		g.history = g.history[:len(g.history)-1]
	}
	return true
}

// HistoryLen is the number of actions that can currently be undone.
func (g *Game) HistoryLen() int {
	return g.stackPtr
}

func (g *Game) clearHistory() {
	g.stackPtr = 0
	g.history = nil
	g.partialHistory = true
}

// HistoryComplete reports whether Turns reaches back to the start of the
// game. It turns false for good once the position is set up by hand, the
// game is switched to NoBackup, or the game is a Copy.
func (g *Game) HistoryComplete() bool {
	return !g.partialHistory
}

// Copy creates a deep copy of the board and players. The undo stack and
// the move history are not copied; the copy starts with no backups and in
// NoBackup mode, which is what search wants.
func (g *Game) Copy() *Game {
	return &Game{
		rules:          g.rules,
		board:          g.board.Copy(),
		players:        copyPlayers(g.players),
		onturn:         g.onturn,
		winner:         g.winner,
		turnnum:        g.turnnum,
		backupMode:     NoBackup,
		partialHistory: true,
	}
}

// Turns returns the actions played so far, oldest first. Only games with
// backups enabled record them.
func (g *Game) Turns() []*move.Move {
	out := make([]*move.Move, len(g.history))
	copy(out, g.history)
	return out
}
