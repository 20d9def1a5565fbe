package bot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/wallgame/quoridor/game"
	"github.com/wallgame/quoridor/gamerecord"
	"github.com/wallgame/quoridor/move"
)

const (
	DefaultTimeout  = 10 * time.Second
	DefaultAttempts = 3
)

var ErrBotRefused = errors.New("bot returned an error")

// Requester is the part of *nats.Conn the client uses.
type Requester interface {
	Request(subj string, data []byte, timeout time.Duration) (*nats.Msg, error)
}

type Client struct {
	nc       Requester
	subject  string
	timeout  time.Duration
	attempts uint
	delay    time.Duration
}

func NewClient(nc Requester, subject string) *Client {
	return &Client{
		nc:       nc,
		subject:  subject,
		timeout:  DefaultTimeout,
		attempts: DefaultAttempts,
		delay:    100 * time.Millisecond,
	}
}

func (c *Client) SetTimeout(d time.Duration) {
	c.timeout = d
}

// SetRetries sets the number of attempts and the base backoff delay.
func (c *Client) SetRetries(attempts uint, delay time.Duration) {
	c.attempts = attempts
	c.delay = delay
}

// MakeRequest serializes a game as a move request.
func MakeRequest(g *game.Game, depth int) ([]byte, error) {
	rec, err := gamerecord.FromGame(g)
	if err != nil {
		return nil, err
	}
	walls := rec.StartingWalls
	return json.Marshal(&Request{
		Size:          rec.Size,
		StartingWalls: &walls,
		Moves:         rec.Moves,
		Depth:         depth,
	})
}

// RequestMove sends a game to the bot and gets a move back. Timeouts and
// transport errors are retried with backoff; an error answer from the bot
// is not.
func (c *Client) RequestMove(ctx context.Context, g *game.Game, depth int) (*move.Move, error) {
	data, err := MakeRequest(g, depth)
	if err != nil {
		return nil, err
	}
	var resp Response
	err = retry.Do(
		func() error {
			res, err := c.nc.Request(c.subject, data, c.timeout)
			if err != nil {
				return err
			}
			log.Debug().Str("res", string(res.Data)).Msg("bot-response")
			resp = Response{}
			if err := json.Unmarshal(res.Data, &resp); err != nil {
				return retry.Unrecoverable(err)
			}
			if resp.Error != "" {
				return retry.Unrecoverable(fmt.Errorf("%w: %s", ErrBotRefused, resp.Error))
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(c.attempts),
		retry.Delay(c.delay),
		retry.LastErrorOnly(true),
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			log.Err(err).Uint("n", n).Msg("bot-request-failed-try-again")
			return retry.BackOffDelay(n, err, config)
		}),
	)
	if err != nil {
		return nil, err
	}
	return move.FromNotation(resp.Move, g.Size())
}
