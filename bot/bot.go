// Package bot answers move requests over NATS: a game is sent as its move
// list and the reply is the move the searcher picks.
package bot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/wallgame/quoridor/ai/alphabeta"
	"github.com/wallgame/quoridor/config"
	"github.com/wallgame/quoridor/game"
	"github.com/wallgame/quoridor/gamerecord"
)

// MaxDepth caps the depth a request may ask for.
const MaxDepth = 5

var ErrGameDecided = errors.New("game is already over")

// Request is the JSON body of a move request. Zero values take the bot's
// configured defaults.
type Request struct {
	Size          int      `json:"size,omitempty"`
	StartingWalls *int     `json:"starting_walls,omitempty"`
	Moves         []string `json:"moves"`
	Depth         int      `json:"depth,omitempty"`
}

// Response carries either a move in notation or an error.
type Response struct {
	Move  string `json:"move,omitempty"`
	Error string `json:"error,omitempty"`
}

type Bot struct {
	config *config.Config
}

func NewBot(cfg *config.Config) *Bot {
	return &Bot{config: cfg}
}

func errorResponse(message string, err error) *Response {
	msg := message
	if err != nil {
		msg = fmt.Sprintf("%s: %s", msg, err.Error())
	}
	return &Response{Error: msg}
}

// Deserialize rebuilds the game a request describes and returns it with
// the search depth to use.
func (bot *Bot) Deserialize(data []byte) (*game.Game, int, error) {
	req := Request{}
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, 0, err
	}
	rec := &gamerecord.GameRecord{
		Size:          req.Size,
		StartingWalls: bot.config.GetInt(config.ConfigStartingWalls),
		Players:       []gamerecord.PlayerRecord{{Nickname: "p1"}, {Nickname: "p2"}},
		Moves:         req.Moves,
	}
	if rec.Size == 0 {
		rec.Size = bot.config.GetInt(config.ConfigBoardSize)
	}
	if req.StartingWalls != nil {
		rec.StartingWalls = *req.StartingWalls
	}
	g, err := rec.Replay()
	if err != nil {
		return nil, 0, err
	}
	depth := req.Depth
	if depth <= 0 {
		depth = bot.config.GetInt(config.ConfigSearchDepth)
	}
	return g, min(depth, MaxDepth), nil
}

func (bot *Bot) handle(data []byte) *Response {
	g, depth, err := bot.Deserialize(data)
	if err != nil {
		return errorResponse("could not parse request", err)
	}
	if !g.Playing() {
		return errorResponse("no move", ErrGameDecided)
	}
	solver := alphabeta.NewSolver()
	solver.SetWallRadius(bot.config.GetInt(config.ConfigWallRadius))
	solver.SetThreads(bot.config.GetInt(config.ConfigSearchThreads))

	onturn := g.PlayerOnTurn()
	m := solver.ChooseMove(g, onturn, depth)
	if m == nil {
		return errorResponse("no move", errors.New("no legal action for the player on turn"))
	}
	log.Info().Str("move", m.ShortDescription()).Int("depth", depth).
		Uint64("nodes", solver.Nodes()).Msg("generated-move")
	return &Response{Move: m.ShortDescription()}
}

// HandleRequest is handle with the reply already serialized.
func (bot *Bot) HandleRequest(data []byte) []byte {
	out, err := json.Marshal(bot.handle(data))
	if err != nil {
		// a Response of two strings always marshals
		return []byte(`{"error":"could not marshal response"}`)
	}
	return out
}

// Main listens on subject until ctx is done, then drains the connection.
func Main(ctx context.Context, subject string, bot *Bot) error {
	nc, err := nats.Connect(bot.config.GetString(config.ConfigNatsURL))
	if err != nil {
		return err
	}
	_, err = nc.Subscribe(subject, func(m *nats.Msg) {
		log.Info().Int("bytes", len(m.Data)).Msg("recv")
		if err := m.Respond(bot.HandleRequest(m.Data)); err != nil {
			log.Err(err).Msg("respond-failed")
		}
	})
	if err != nil {
		nc.Close()
		return err
	}
	if err := nc.Flush(); err != nil {
		nc.Close()
		return err
	}
	if err := nc.LastError(); err != nil {
		nc.Close()
		return err
	}
	log.Info().Str("subject", subject).Msg("listening")

	<-ctx.Done()
	log.Info().Msg("draining")
	return nc.Drain()
}
