package shell

import (
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/wallgame/quoridor/move"
)

// ShellCompleter provides context-aware autocomplete for shell commands
type ShellCompleter struct {
	sc *ShellController
}

func NewShellCompleter(sc *ShellController) *ShellCompleter {
	return &ShellCompleter{sc: sc}
}

// CommandMetadata holds autocomplete information for a command
type CommandMetadata struct {
	Options []string
	Args    []string
}

var commandMetadata = map[string]CommandMetadata{
	"autoplay": {
		Options: []string{"-depth", "-threads", "-size", "-opening", "-maxturns", "-file"},
	},
	"set": {
		Args: []string{"depth", "radius", "threads", "ai0", "ai1", "save"},
	},
}

var commandNames = []string{
	"help", "new", "show", "moves", "move", "wall", "undo", "aiplay", "set",
	"save", "load", "autoplay", "script", "exit",
}

var boolValues = []string{"true", "false"}

// Do implements the readline.AutoComplete interface.
func (c *ShellCompleter) Do(line []rune, pos int) ([][]rune, int) {
	text := string(line[:pos])

	fields, err := shellquote.Split(text)
	if err != nil {
		// an open quote; fall back to plain splitting
		fields = strings.Fields(text)
	}
	endsWithSpace := len(text) > 0 && text[len(text)-1] == ' '

	var prefix string
	var completions []string

	if len(fields) == 0 || (len(fields) == 1 && !endsWithSpace) {
		if len(fields) == 1 {
			prefix = fields[0]
		}
		completions = commandNames
	} else {
		cmdName := fields[0]
		if !endsWithSpace {
			prefix = fields[len(fields)-1]
		}
		// number of arguments already complete
		done := len(fields) - 1
		if !endsWithSpace {
			done--
		}

		switch {
		case cmdName == "help" && done == 0:
			completions = helpTopics()
		case cmdName == "move" && done == 0:
			completions = c.pawnSquares()
		case cmdName == "set" && done == 1 && strings.HasPrefix(fields[1], "ai"):
			completions = boolValues
		default:
			if metadata, exists := commandMetadata[cmdName]; exists {
				if strings.HasPrefix(prefix, "-") || len(metadata.Args) == 0 {
					completions = metadata.Options
				} else if done == 0 {
					completions = metadata.Args
				}
			}
		}
	}

	var matches [][]rune
	for _, completion := range completions {
		if strings.HasPrefix(completion, prefix) {
			// only the part that needs to be added
			matches = append(matches, []rune(completion[len(prefix):]))
		}
	}
	return matches, len(prefix)
}

// pawnSquares are the legal pawn moves for the player on turn.
func (c *ShellCompleter) pawnSquares() []string {
	g := c.sc.game
	if g == nil || !g.Playing() {
		return nil
	}
	var squares []string
	for _, p := range g.LegalMoves(g.PlayerOnTurn()) {
		squares = append(squares, move.NewPawnMove(p).ShortDescription())
	}
	return squares
}
