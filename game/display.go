package game

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/wallgame/quoridor/board"
)

func addText(lines []string, row int, hpad int, text string) []string {
	for len(lines) <= row {
		lines = append(lines, "")
	}
	lines[row] = lines[row] + strings.Repeat(" ", hpad) + text
	return lines
}

// ToDisplayText turns the current state of the game into a displayable
// string: the board with player and turn information to its right.
func (g *Game) ToDisplayText() string {
	pawns := []board.Pos{g.players[0].pos, g.players[1].pos}
	bt := g.board.ToDisplayText(pawns)
	bts := strings.Split(strings.TrimRight(bt, "\n"), "\n")

	width := 0
	for _, l := range bts {
		width = max(width, len(l))
	}
	for i := range bts {
		bts[i] += strings.Repeat(" ", width-len(bts[i]))
	}
	hpadding := 3
	vpadding := 1

	log.Debug().Int("onturn", g.onturn).Msg("todisplaytext")
	for pi := 0; pi < 2; pi++ {
		bts = addText(bts, vpadding+pi, hpadding,
			g.players[pi].stateString(g.Playing() && g.onturn == pi))
	}
	bts = addText(bts, vpadding+3, hpadding, fmt.Sprintf("Turn %d", g.turnnum))
	if n := len(g.history); n > 0 {
		bts = addText(bts, vpadding+4, hpadding,
			fmt.Sprintf("Last move: %s", g.history[n-1].ShortDescription()))
	}
	if w, ok := g.Winner(); ok {
		bts = addText(bts, vpadding+6, hpadding,
			fmt.Sprintf("Game is over. %s wins.", g.players[w].nickname))
	}
	for i := range bts {
		bts[i] = strings.TrimRight(bts[i], " ")
	}
	return strings.Join(bts, "\n") + "\n"
}
