// Package gamerecord saves a match as YAML and resumes it by replaying the
// moves through the game engine.
package gamerecord

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/wallgame/quoridor/game"
	"github.com/wallgame/quoridor/move"
)

var (
	ErrBadRecord = errors.New("bad game record")
	// ErrPartialHistory means the game's moves no longer lead from a new
	// game to its position, so no record can rebuild it.
	ErrPartialHistory = errors.New("game history does not reach its start")
)

type PlayerRecord struct {
	Nickname string `yaml:"nickname"`
	AI       bool   `yaml:"ai"`
}

// GameRecord is everything needed to rebuild a game from its start.
type GameRecord struct {
	Size          int            `yaml:"size"`
	StartingWalls int            `yaml:"starting_walls"`
	Players       []PlayerRecord `yaml:"players"`
	Moves         []string       `yaml:"moves"`
}

// FromGame records a game. Games set up by hand, or played without
// backups, fail with ErrPartialHistory.
func FromGame(g *game.Game) (*GameRecord, error) {
	if !g.HistoryComplete() {
		return nil, ErrPartialHistory
	}
	r := &GameRecord{
		Size:          g.Size(),
		StartingWalls: g.Rules().StartingWalls(),
		Players:       make([]PlayerRecord, 2),
	}
	for i := 0; i < 2; i++ {
		r.Players[i] = PlayerRecord{Nickname: g.NicknameFor(i), AI: g.IsAIFor(i)}
	}
	for _, m := range g.Turns() {
		r.Moves = append(r.Moves, m.ShortDescription())
	}
	return r, nil
}

// Replay builds a fresh game and plays every recorded move. The first
// move that fails to parse or apply is reported with its index.
func (r *GameRecord) Replay() (*game.Game, error) {
	rules, err := game.NewBasicGameRules(r.Size, r.StartingWalls)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadRecord, err)
	}
	if len(r.Players) != 2 {
		return nil, fmt.Errorf("%w: need 2 players, got %d", ErrBadRecord, len(r.Players))
	}
	g, err := game.NewGame(rules, []string{r.Players[0].Nickname, r.Players[1].Nickname})
	if err != nil {
		return nil, err
	}
	for i, p := range r.Players {
		g.SetAIFor(i, p.AI)
	}
	for i, s := range r.Moves {
		m, err := move.FromNotation(s, r.Size)
		if err != nil {
			return nil, fmt.Errorf("%w: move %d: %w", ErrBadRecord, i+1, err)
		}
		if err := g.PlayMove(m); err != nil {
			return nil, fmt.Errorf("%w: move %d (%s): %w", ErrBadRecord, i+1, s, err)
		}
	}
	log.Debug().Int("moves", len(r.Moves)).Msg("replayed-record")
	return g, nil
}

// Write serializes the record as YAML.
func (r *GameRecord) Write(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return err
	}
	return enc.Close()
}

// Read parses a YAML record.
func Read(rd io.Reader) (*GameRecord, error) {
	r := &GameRecord{}
	if err := yaml.NewDecoder(rd).Decode(r); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadRecord, err)
	}
	return r, nil
}

// SaveFile writes the game's record to filename.
func SaveFile(filename string, g *game.Game) error {
	r, err := FromGame(g)
	if err != nil {
		return err
	}
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	return r.Write(f)
}

// LoadFile reads a record and replays it.
func LoadFile(filename string) (*game.Game, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r, err := Read(f)
	if err != nil {
		return nil, err
	}
	return r.Replay()
}
