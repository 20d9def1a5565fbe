package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog/log"

	"github.com/wallgame/quoridor/ai/alphabeta"
	"github.com/wallgame/quoridor/config"
	"github.com/wallgame/quoridor/game"
)

var (
	errNoData            = errors.New("no data in line")
	errWrongOptionSyntax = errors.New("wrong format; all options need arguments")
	errNoGame            = errors.New("please start a game first with the `new` command")
	errQuit              = errors.New("sending quit signal")
)

type ShellController struct {
	l   *readline.Instance
	out io.Writer

	config     *config.Config
	execPath   string
	gitVersion string

	ctx    context.Context
	cancel context.CancelFunc

	game   *game.Game
	solver *alphabeta.Solver
	depth  int
	// AI flags for the next new game; the current game keeps its own.
	ai [2]bool
}

type shellcmd struct {
	cmd     string
	args    []string
	options CmdOptions
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

// newController sets everything up but the terminal, and starts a game
// with the configured rules.
func newController(cfg *config.Config, execPath, gitVersion string, out io.Writer) *ShellController {
	ctx, cancel := context.WithCancel(context.Background())
	sc := &ShellController{
		out:        out,
		config:     cfg,
		execPath:   execPath,
		gitVersion: gitVersion,
		ctx:        ctx,
		cancel:     cancel,
		solver:     alphabeta.NewSolver(),
		depth:      cfg.GetInt(config.ConfigSearchDepth),
	}
	sc.solver.SetWallRadius(cfg.GetInt(config.ConfigWallRadius))
	sc.solver.SetThreads(cfg.GetInt(config.ConfigSearchThreads))
	if err := sc.startGame(cfg.GetInt(config.ConfigBoardSize)); err != nil {
		log.Err(err).Msg("could-not-start-game")
	}
	return sc
}

func NewShellController(cfg *config.Config, execPath, gitVersion string) *ShellController {
	prompt := "quoridor>"
	if gitVersion != "" {
		prompt = "quoridor " + gitVersion + ">"
	}
	sc := newController(cfg, execPath, gitVersion, os.Stdout)
	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[31m" + prompt + "\033[0m ",
		HistoryFile:     filepath.Join(os.TempDir(), "quoridor_readline.tmp"),
		AutoComplete:    NewShellCompleter(sc),
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		panic(err)
	}
	sc.l = l
	sc.out = l.Stdout()
	return sc
}

func (sc *ShellController) showMessage(msg string) {
	io.WriteString(sc.out, msg)
	io.WriteString(sc.out, "\n")
}

func (sc *ShellController) showError(err error) {
	sc.showMessage("Error: " + err.Error())
}

// extractFields splits a line into a command, positional arguments and
// -option value pairs. Quoting follows shell rules.
func extractFields(line string) (*shellcmd, error) {
	fields, err := shellquote.Split(line)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errNoData
	}
	cmd := &shellcmd{cmd: fields[0], options: CmdOptions{}}
	for i := 1; i < len(fields); i++ {
		f := fields[i]
		if isOption(f) {
			if i == len(fields)-1 {
				return nil, errWrongOptionSyntax
			}
			key := strings.TrimPrefix(f, "-")
			cmd.options[key] = append(cmd.options[key], fields[i+1])
			i++
			continue
		}
		cmd.args = append(cmd.args, f)
	}
	return cmd, nil
}

// isOption is true for -name but not for negative numbers.
func isOption(f string) bool {
	if len(f) < 2 || f[0] != '-' {
		return false
	}
	_, err := strconv.Atoi(f)
	return err != nil
}

func (sc *ShellController) standardModeSwitch(line string, sig chan os.Signal) (*Response, error) {
	cmd, err := extractFields(line)
	if err != nil {
		return nil, err
	}
	if cmd.cmd == "exit" {
		sig <- syscall.SIGINT
		return nil, errQuit
	}
	return sc.dispatch(cmd)
}

func (sc *ShellController) dispatch(cmd *shellcmd) (*Response, error) {
	switch cmd.cmd {
	case "help":
		return sc.help(cmd)
	case "new":
		return sc.newGame(cmd)
	case "show":
		return sc.show(cmd)
	case "moves":
		return sc.moves(cmd)
	case "move", "m":
		return sc.pawnMove(cmd)
	case "wall", "w":
		return sc.wall(cmd)
	case "undo":
		return sc.undo(cmd)
	case "aiplay":
		return sc.aiplay(cmd)
	case "set":
		return sc.set(cmd)
	case "save":
		return sc.save(cmd)
	case "load":
		return sc.load(cmd)
	case "autoplay":
		return sc.autoplay(cmd)
	case "script":
		return sc.script(cmd)
	default:
		log.Debug().Str("cmd", strconv.Quote(cmd.cmd)).Msg("unknown-command")
		return nil, fmt.Errorf("command %q not found; type help for a list", cmd.cmd)
	}
}

// Execute runs a single line, as when commands are passed on the command
// line.
func (sc *ShellController) Execute(sig chan os.Signal, line string) {
	resp, err := sc.standardModeSwitch(line, sig)
	if err != nil {
		if !errors.Is(err, errQuit) {
			sc.showError(err)
		}
		return
	}
	if resp != nil && resp.message != "" {
		sc.showMessage(resp.message)
	}
}

func (sc *ShellController) Loop(sig chan os.Signal) {
	defer sc.l.Close()

	for {
		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				sig <- syscall.SIGINT
				break
			}
			continue
		} else if err == io.EOF {
			sig <- syscall.SIGINT
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		resp, err := sc.standardModeSwitch(line, sig)
		if errors.Is(err, errQuit) {
			break
		}
		if err != nil {
			sc.showError(err)
			continue
		}
		if resp != nil && resp.message != "" {
			sc.showMessage(resp.message)
		}
	}
	log.Debug().Msg("exiting-readline-loop")
}

// Cleanup stops anything still running.
func (sc *ShellController) Cleanup() {
	sc.cancel()
}
