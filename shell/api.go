package shell

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/wallgame/quoridor/automatic"
	"github.com/wallgame/quoridor/config"
	"github.com/wallgame/quoridor/game"
	"github.com/wallgame/quoridor/gamerecord"
	"github.com/wallgame/quoridor/move"
)

type Response struct {
	message string
}

type CmdOptions map[string][]string

func (c CmdOptions) String(key string) string {
	v := c[key]
	if len(v) > 0 {
		return v[0]
	}
	return ""
}

func (c CmdOptions) Int(key string) (int, error) {
	v := c[key]
	if len(v) == 0 {
		return 0, errors.New(key + " not found in options")
	}
	return strconv.Atoi(v[0])
}

func (c CmdOptions) IntDefault(key string, defaultI int) (int, error) {
	v := c[key]
	if len(v) == 0 {
		return defaultI, nil
	}
	return strconv.Atoi(v[0])
}

func msg(message string) *Response {
	return &Response{message: message}
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "true", "on", "yes", "1":
		return true, nil
	case "false", "off", "no", "0":
		return false, nil
	}
	return false, fmt.Errorf("%q is not a boolean", s)
}

func (sc *ShellController) startGame(size int) error {
	rules, err := game.NewBasicGameRules(size, sc.config.GetInt(config.ConfigStartingWalls))
	if err != nil {
		return err
	}
	g, err := game.NewGame(rules, []string{"player1", "player2"})
	if err != nil {
		return err
	}
	g.SetAIFor(0, sc.ai[0])
	g.SetAIFor(1, sc.ai[1])
	sc.game = g
	return nil
}

func (sc *ShellController) needGame() error {
	if sc.game == nil {
		return errNoGame
	}
	return nil
}

func (sc *ShellController) newGame(cmd *shellcmd) (*Response, error) {
	size := sc.config.GetInt(config.ConfigBoardSize)
	if len(cmd.args) > 0 {
		var err error
		size, err = strconv.Atoi(cmd.args[0])
		if err != nil {
			return nil, err
		}
	}
	if err := sc.startGame(size); err != nil {
		return nil, err
	}
	// an AI that moves first plays right away
	return sc.afterMove("")
}

func (sc *ShellController) show(cmd *shellcmd) (*Response, error) {
	if err := sc.needGame(); err != nil {
		return nil, err
	}
	return msg(sc.game.ToDisplayText()), nil
}

func (sc *ShellController) moves(cmd *shellcmd) (*Response, error) {
	if err := sc.needGame(); err != nil {
		return nil, err
	}
	onturn := sc.game.PlayerOnTurn()
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s to move. Pawn moves:", sc.game.NicknameFor(onturn))
	for _, p := range sc.game.LegalMoves(onturn) {
		sb.WriteString(" ")
		sb.WriteString(move.NewPawnMove(p).ShortDescription())
	}
	fmt.Fprintf(&sb, "\nWalls left: %d", sc.game.WallsFor(onturn))
	if sc.game.WallsFor(onturn) > 0 {
		fmt.Fprintf(&sb, " (%d candidate placements near the pawns)", sc.countWallCandidates())
	}
	return msg(sb.String()), nil
}

func (sc *ShellController) countWallCandidates() int {
	n := 0
	for _, a := range sc.solver.GenerateActions(sc.game) {
		if !a.IsPawn() {
			n++
		}
	}
	return n
}

func (sc *ShellController) parseAction(cmd *shellcmd, wantPawn bool) (*move.Move, error) {
	if err := sc.needGame(); err != nil {
		return nil, err
	}
	if len(cmd.args) != 1 {
		return nil, fmt.Errorf("%s takes exactly one square", cmd.cmd)
	}
	m, err := move.FromNotation(cmd.args[0], sc.game.Size())
	if err != nil {
		return nil, err
	}
	switch {
	case wantPawn && !m.IsPawn():
		return nil, fmt.Errorf("%s is a wall placement; use the wall command", cmd.args[0])
	case !wantPawn && m.IsPawn():
		return nil, fmt.Errorf("%s is a pawn square; use the move command", cmd.args[0])
	}
	return m, nil
}

func (sc *ShellController) playHuman(m *move.Move) (*Response, error) {
	nick := sc.game.NicknameFor(sc.game.PlayerOnTurn())
	if err := sc.game.PlayMove(m); err != nil {
		return nil, err
	}
	return sc.afterMove(fmt.Sprintf("%s plays %s", nick, m.ShortDescription()))
}

// afterMove lets AI players answer until a human is on turn or the game
// ends, then shows the board.
func (sc *ShellController) afterMove(played string) (*Response, error) {
	var lines []string
	if played != "" {
		lines = append(lines, played)
	}
	for sc.game.Playing() && sc.game.IsAIFor(sc.game.PlayerOnTurn()) {
		line, err := sc.playAI(sc.depth)
		if err != nil {
			// moves already committed stay reported
			lines = append(lines, "Error: "+err.Error())
			break
		}
		lines = append(lines, line)
		if sc.game.IsAIFor(0) && sc.game.IsAIFor(1) {
			// two AIs are driven with aiplay, one move at a time
			break
		}
	}
	lines = append(lines, sc.game.ToDisplayText())
	return msg(strings.Join(lines, "\n")), nil
}

func (sc *ShellController) playAI(depth int) (string, error) {
	onturn := sc.game.PlayerOnTurn()
	v, m := sc.solver.Solve(sc.game, onturn, depth)
	if m == nil {
		return "", errors.New("the computer has no move here")
	}
	if err := sc.game.PlayMove(m); err != nil {
		return "", err
	}
	log.Debug().Str("type", m.MoveTypeString()).Uint64("nodes", sc.solver.Nodes()).
		Float64("value", v).Msg("ai-played")
	return fmt.Sprintf("%s plays %s (value %.2f, %d nodes)", sc.game.NicknameFor(onturn),
		m.ShortDescription(), v, sc.solver.Nodes()), nil
}

func (sc *ShellController) pawnMove(cmd *shellcmd) (*Response, error) {
	m, err := sc.parseAction(cmd, true)
	if err != nil {
		return nil, err
	}
	return sc.playHuman(m)
}

func (sc *ShellController) wall(cmd *shellcmd) (*Response, error) {
	m, err := sc.parseAction(cmd, false)
	if err != nil {
		return nil, err
	}
	return sc.playHuman(m)
}

func (sc *ShellController) undo(cmd *shellcmd) (*Response, error) {
	if err := sc.needGame(); err != nil {
		return nil, err
	}
	if !sc.game.Undo() {
		return nil, errors.New("nothing to undo")
	}
	return msg(sc.game.ToDisplayText()), nil
}

func (sc *ShellController) aiplay(cmd *shellcmd) (*Response, error) {
	if err := sc.needGame(); err != nil {
		return nil, err
	}
	depth := sc.depth
	if len(cmd.args) > 0 {
		var err error
		depth, err = strconv.Atoi(cmd.args[0])
		if err != nil {
			return nil, err
		}
	}
	if !sc.game.Playing() {
		return nil, game.ErrGameOver
	}
	line, err := sc.playAI(depth)
	if err != nil {
		return nil, err
	}
	return msg(line + "\n" + sc.game.ToDisplayText()), nil
}

func (sc *ShellController) settingsText() string {
	return fmt.Sprintf("depth: %d\nradius: %d\nthreads: %d\nai0: %v\nai1: %v",
		sc.depth, sc.solver.WallRadius(), sc.solver.Threads(), sc.ai[0], sc.ai[1])
}

func (sc *ShellController) set(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return msg(sc.settingsText()), nil
	}
	if len(cmd.args) == 1 && cmd.args[0] == "save" {
		return sc.saveSettings()
	}
	if len(cmd.args) != 2 {
		return nil, errors.New("usage: set <depth|radius|threads|ai0|ai1> <value>, or set save")
	}
	opt, val := cmd.args[0], cmd.args[1]
	switch opt {
	case "depth", "radius", "threads":
		n, err := strconv.Atoi(val)
		if err != nil {
			return nil, err
		}
		if n < 0 || (opt != "radius" && n < 1) {
			return nil, fmt.Errorf("%s out of range: %d", opt, n)
		}
		switch opt {
		case "depth":
			sc.depth = n
		case "radius":
			sc.solver.SetWallRadius(n)
		case "threads":
			sc.solver.SetThreads(n)
		}
	case "ai0", "ai1":
		b, err := parseBool(val)
		if err != nil {
			return nil, err
		}
		idx := int(opt[2] - '0')
		sc.ai[idx] = b
		if sc.game != nil {
			sc.game.SetAIFor(idx, b)
		}
	default:
		return nil, fmt.Errorf("unknown setting %q", opt)
	}
	return msg(fmt.Sprintf("%s set to %s", opt, val)), nil
}

// saveSettings writes the search settings to config.yaml under the data
// path, where the next start picks them up.
func (sc *ShellController) saveSettings() (*Response, error) {
	sc.config.Set(config.ConfigSearchDepth, sc.depth)
	sc.config.Set(config.ConfigWallRadius, sc.solver.WallRadius())
	sc.config.Set(config.ConfigSearchThreads, sc.solver.Threads())
	if err := sc.config.Write(); err != nil {
		return nil, err
	}
	return msg("settings saved in " + sc.config.GetString(config.ConfigDataPath)), nil
}

// dataFile puts bare relative names under the data path.
func (sc *ShellController) dataFile(name string) string {
	if filepath.IsAbs(name) || strings.ContainsRune(name, filepath.Separator) {
		return name
	}
	return filepath.Join(sc.config.GetString(config.ConfigDataPath), name)
}

func (sc *ShellController) save(cmd *shellcmd) (*Response, error) {
	if err := sc.needGame(); err != nil {
		return nil, err
	}
	if len(cmd.args) != 1 {
		return nil, errors.New("save needs a filename")
	}
	fn := sc.dataFile(cmd.args[0])
	if err := gamerecord.SaveFile(fn, sc.game); err != nil {
		return nil, err
	}
	return msg("saved to " + fn), nil
}

func (sc *ShellController) load(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) != 1 {
		return nil, errors.New("load needs a filename")
	}
	g, err := gamerecord.LoadFile(sc.dataFile(cmd.args[0]))
	if err != nil {
		return nil, err
	}
	sc.game = g
	sc.ai = [2]bool{g.IsAIFor(0), g.IsAIFor(1)}
	return msg(g.ToDisplayText()), nil
}

func (sc *ShellController) autoplay(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) != 1 {
		return nil, errors.New("usage: autoplay <games> [-depth n] [-threads n] [-size n] [-opening n] [-maxturns n] [-file f]")
	}
	numGames, err := strconv.Atoi(cmd.args[0])
	if err != nil {
		return nil, err
	}
	opts := automatic.Options{NumGames: numGames, OutputFilename: cmd.options.String("file")}
	if opts.Threads, err = cmd.options.IntDefault("threads", 1); err != nil {
		return nil, err
	}
	depth, err := cmd.options.IntDefault("depth", sc.depth)
	if err != nil {
		return nil, err
	}
	opts.Depths = [2]int{depth, depth}
	if opts.OpeningPlies, err = cmd.options.IntDefault("opening", 0); err != nil {
		return nil, err
	}
	if opts.MaxTurns, err = cmd.options.IntDefault("maxturns", 0); err != nil {
		return nil, err
	}
	cfg := config.DefaultConfig()
	for k, v := range sc.config.AllSettings() {
		cfg.Set(k, v)
	}
	cfg.Set(config.ConfigWallRadius, sc.solver.WallRadius())
	if size := cmd.options.String("size"); size != "" {
		n, err := strconv.Atoi(size)
		if err != nil {
			return nil, err
		}
		cfg.Set(config.ConfigBoardSize, n)
	}
	summary, err := automatic.StartCompVCompGames(sc.ctx, cfg, opts)
	if err != nil && summary == nil {
		return nil, err
	}
	if err != nil {
		log.Err(err).Msg("autoplay-stopped-early")
	}
	return msg(summary.String()), nil
}

func (sc *ShellController) help(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return msg(usage()), nil
	}
	return msg(usageTopic(cmd.args[0])), nil
}
