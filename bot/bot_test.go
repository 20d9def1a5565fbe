package bot

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/wallgame/quoridor/board"
	"github.com/wallgame/quoridor/config"
	"github.com/wallgame/quoridor/game"
	"github.com/wallgame/quoridor/gamerecord"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	os.Exit(m.Run())
}

func testBot() *Bot {
	cfg := config.DefaultConfig()
	cfg.Set(config.ConfigSearchDepth, 1)
	return NewBot(cfg)
}

func reply(t *testing.T, b *Bot, req string) Response {
	t.Helper()
	var resp Response
	if err := json.Unmarshal(b.HandleRequest([]byte(req)), &resp); err != nil {
		t.Fatal(err)
	}
	return resp
}

func TestHandleOpening(t *testing.T) {
	is := is.New(t)
	resp := reply(t, testBot(), `{"moves": []}`)
	is.Equal(resp.Error, "")
	// depth 1 from the start: stepping forward is the only improving move
	is.Equal(resp.Move, "e2")
}

func TestHandleReplaysMoves(t *testing.T) {
	is := is.New(t)
	resp := reply(t, testBot(), `{"size": 5, "starting_walls": 0, "moves": ["c2", "c4"], "depth": 1}`)
	is.Equal(resp.Error, "")
	// no walls left, so the answer is a pawn step for player 0 from c2
	is.Equal(resp.Move, "c3")
}

func TestHandleTakesWin(t *testing.T) {
	is := is.New(t)
	resp := reply(t, testBot(), `{"size": 3, "starting_walls": 0, "moves": ["b2", "a3"]}`)
	is.Equal(resp.Error, "")
	is.Equal(resp.Move, "b3")
}

func TestHandleErrors(t *testing.T) {
	is := is.New(t)
	b := testBot()

	resp := reply(t, b, `not json`)
	is.True(resp.Error != "")
	is.Equal(resp.Move, "")

	resp = reply(t, b, `{"moves": ["e2", "e3"]}`)
	is.True(resp.Error != "")

	resp = reply(t, b, `{"size": 2, "moves": []}`)
	is.True(resp.Error != "")

	// player 0 has already reached the far row
	resp = reply(t, b, `{"size": 3, "starting_walls": 0, "moves": ["b2", "a3", "b3"]}`)
	is.True(resp.Error != "")
}

func TestDeserializeDefaultsAndCap(t *testing.T) {
	is := is.New(t)
	b := testBot()
	g, depth, err := b.Deserialize([]byte(`{"moves": ["e2"], "depth": 50}`))
	is.NoErr(err)
	is.Equal(depth, MaxDepth)
	is.Equal(g.Size(), 9)
	is.Equal(g.WallsFor(0), game.DefaultStartingWalls)
	is.Equal(g.PlayerOnTurn(), 1)

	_, depth, err = b.Deserialize([]byte(`{"moves": []}`))
	is.NoErr(err)
	is.Equal(depth, 1)
}

// loopback hands requests straight to a bot, failing the first few.
type loopback struct {
	bot      *Bot
	failures int
	calls    int
}

func (l *loopback) Request(subj string, data []byte, timeout time.Duration) (*nats.Msg, error) {
	l.calls++
	if l.calls <= l.failures {
		return nil, nats.ErrTimeout
	}
	return &nats.Msg{Subject: subj, Data: l.bot.HandleRequest(data)}, nil
}

func newGame(t *testing.T, size, walls int) *game.Game {
	t.Helper()
	rules, err := game.NewBasicGameRules(size, walls)
	assert.NoError(t, err)
	g, err := game.NewGame(rules, []string{"me", "bot"})
	assert.NoError(t, err)
	return g
}

func TestMakeRequest(t *testing.T) {
	is := is.New(t)
	g := newGame(t, 5, 2)
	is.True(g.MovePawn(0, 1, 2))
	is.True(g.TryPlaceWall(1, board.Horizontal, 1, 1))
	data, err := MakeRequest(g, 2)
	is.NoErr(err)
	var req Request
	is.NoErr(json.Unmarshal(data, &req))
	is.Equal(req.Size, 5)
	is.Equal(*req.StartingWalls, 2)
	is.Equal(req.Moves, []string{"c2", "b2h"})
	is.Equal(req.Depth, 2)
}

func TestHandSetUpGameIsNotSent(t *testing.T) {
	is := is.New(t)
	g := newGame(t, 5, 2)
	is.True(g.MovePawn(0, 1, 2))
	is.NoErr(g.SetPositionFor(1, board.Pos{Row: 2, Col: 0}))
	_, err := MakeRequest(g, 2)
	is.True(errors.Is(err, gamerecord.ErrPartialHistory))

	lb := &loopback{bot: testBot()}
	c := NewClient(lb, "quoridor.bot")
	_, err = c.RequestMove(context.Background(), g, 1)
	is.True(errors.Is(err, gamerecord.ErrPartialHistory))
	is.Equal(lb.calls, 0)
}

func TestClientRoundTrip(t *testing.T) {
	is := is.New(t)
	lb := &loopback{bot: testBot(), failures: 2}
	c := NewClient(lb, "quoridor.bot")
	c.SetRetries(3, time.Millisecond)

	g := newGame(t, 3, 0)
	is.True(g.MovePawn(0, 1, 1))
	is.True(g.MovePawn(1, 2, 0))
	m, err := c.RequestMove(context.Background(), g, 1)
	is.NoErr(err)
	is.Equal(lb.calls, 3)
	is.Equal(m.ShortDescription(), "b3")
	is.NoErr(g.PlayMove(m))
	w, over := g.Winner()
	is.True(over)
	is.Equal(w, 0)
}

func TestClientGivesUp(t *testing.T) {
	lb := &loopback{bot: testBot(), failures: 10}
	c := NewClient(lb, "quoridor.bot")
	c.SetRetries(2, time.Millisecond)
	_, err := c.RequestMove(context.Background(), newGame(t, 5, 0), 1)
	assert.ErrorIs(t, err, nats.ErrTimeout)
	assert.Equal(t, 2, lb.calls)
}

func TestClientDoesNotRetryRefusal(t *testing.T) {
	is := is.New(t)
	lb := &loopback{bot: testBot()}
	c := NewClient(lb, "quoridor.bot")
	c.SetRetries(5, time.Millisecond)

	g := newGame(t, 3, 0)
	is.True(g.MovePawn(0, 1, 1))
	is.True(g.MovePawn(1, 2, 0))
	is.True(g.MovePawn(0, 2, 1))
	_, err := c.RequestMove(context.Background(), g, 1)
	is.True(errors.Is(err, ErrBotRefused))
	is.Equal(lb.calls, 1)
}
