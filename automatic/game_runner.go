// Package automatic plays computer-vs-computer games and collects
// statistics about them.
package automatic

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"

	"github.com/wallgame/quoridor/ai/alphabeta"
	"github.com/wallgame/quoridor/config"
	"github.com/wallgame/quoridor/game"
	"github.com/wallgame/quoridor/move"
)

// Reasons a self-play game ends.
const (
	EndWin        = "win"
	EndRepetition = "repetition"
	EndMaxTurns   = "max-turns"
	EndNoMove     = "no-move"
)

const (
	DefaultMaxTurns = 400
	// A position seen this many times ends the game as a draw.
	repetitionLimit = 3
)

// GameResult is one finished self-play game.
type GameResult struct {
	GameID     int
	Winner     int
	Turns      int
	FirstMover int
	Reason     string
	Moves      []string
}

// CSVLine formats the result the way the log file stores it.
func (gr *GameResult) CSVLine() string {
	return fmt.Sprintf("%d,%d,%d,%d,%s,%s\n", gr.GameID, gr.Winner, gr.Turns,
		gr.FirstMover, gr.Reason, strings.Join(gr.Moves, " "))
}

// GameRunner plays games between two solvers with the same rules.
type GameRunner struct {
	rules   *game.GameRules
	solvers [2]*alphabeta.Solver
	depths  [2]int

	maxTurns     int
	randomFirst  bool
	openingPlies int
	logchan      chan string
}

// NewGameRunner makes a runner from the config's board size, wall count,
// search depth and wall radius.
func NewGameRunner(logchan chan string, cfg *config.Config) (*GameRunner, error) {
	rules, err := game.NewBasicGameRules(cfg.GetInt(config.ConfigBoardSize),
		cfg.GetInt(config.ConfigStartingWalls))
	if err != nil {
		return nil, err
	}
	r := &GameRunner{
		rules:       rules,
		maxTurns:    DefaultMaxTurns,
		randomFirst: true,
		logchan:     logchan,
	}
	depth := cfg.GetInt(config.ConfigSearchDepth)
	for i := range r.solvers {
		r.solvers[i] = alphabeta.NewSolver()
		r.solvers[i].SetWallRadius(cfg.GetInt(config.ConfigWallRadius))
		r.depths[i] = depth
	}
	return r, nil
}

func (r *GameRunner) SetDepth(playerIdx, depth int) {
	r.depths[playerIdx] = depth
}

func (r *GameRunner) SetMaxTurns(n int) {
	r.maxTurns = n
}

// SetRandomFirst chooses whether the first mover is drawn at random for
// each game. When off, player 0 always starts.
func (r *GameRunner) SetRandomFirst(b bool) {
	r.randomFirst = b
}

// SetOpeningPlies makes the first n plies of every game random pawn
// steps, so deterministic solvers don't replay the same game.
func (r *GameRunner) SetOpeningPlies(n int) {
	r.openingPlies = n
}

func (r *GameRunner) newGame() (*game.Game, int, error) {
	g, err := game.NewGame(r.rules, []string{"p1", "p2"})
	if err != nil {
		return nil, 0, err
	}
	g.SetAIFor(0, true)
	g.SetAIFor(1, true)
	g.SetBackupMode(game.NoBackup)
	first := 0
	if r.randomFirst && frand.Intn(2) == 1 {
		first = 1
	}
	if err := g.SetPlayerOnTurn(first); err != nil {
		return nil, 0, err
	}
	return g, first, nil
}

func (r *GameRunner) randomStep(g *game.Game) *move.Move {
	dests := g.LegalMoves(g.PlayerOnTurn())
	if len(dests) == 0 {
		return nil
	}
	return move.NewPawnMove(dests[frand.Intn(len(dests))])
}

// PlayGame plays one game to the end: a win, a threefold repetition,
// the turn limit, or a player with no move.
func (r *GameRunner) PlayGame(ctx context.Context, gameID int) (*GameResult, error) {
	g, first, err := r.newGame()
	if err != nil {
		return nil, err
	}
	res := &GameResult{GameID: gameID, Winner: game.NoWinner, FirstMover: first}
	seen := map[uint64]int{g.PositionKey(): 1}

	for {
		if w, over := g.Winner(); over {
			res.Winner = w
			res.Reason = EndWin
			break
		}
		if res.Turns >= r.maxTurns {
			res.Reason = EndMaxTurns
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		onturn := g.PlayerOnTurn()
		var m *move.Move
		if res.Turns < r.openingPlies {
			m = r.randomStep(g)
		} else {
			m = r.solvers[onturn].ChooseMove(g, onturn, r.depths[onturn])
		}
		if m == nil {
			res.Reason = EndNoMove
			break
		}
		if err := g.PlayMove(m); err != nil {
			return nil, fmt.Errorf("game %d turn %d: %w", gameID, res.Turns, err)
		}
		res.Turns++
		res.Moves = append(res.Moves, m.ShortDescription())

		key := g.PositionKey()
		seen[key]++
		if seen[key] >= repetitionLimit && g.Playing() {
			res.Reason = EndRepetition
			break
		}
	}
	log.Debug().Int("game", gameID).Int("winner", res.Winner).Int("turns", res.Turns).
		Str("reason", res.Reason).Msg("game-finished")
	if r.logchan != nil {
		r.logchan <- res.CSVLine()
	}
	return res, nil
}
