package automatic

// Computer vs computer games, played on a pool of workers.

import (
	"context"
	"errors"
	"expvar"
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/wallgame/quoridor/config"
)

var (
	CVCCounter *expvar.Int
	IsPlaying  *expvar.Int
)

var ErrAlreadyPlaying = errors.New("games are already being played, please wait till complete")

func init() {
	CVCCounter = expvar.NewInt("cvcCounter")
	IsPlaying = expvar.NewInt("isPlaying")
}

const logHeader = "gameID,winner,turns,firstmover,reason,moves\n"

// Options tune a batch of self-play games. Zero values fall back to the
// config or the runner defaults.
type Options struct {
	NumGames     int
	Threads      int
	Depths       [2]int
	MaxTurns     int
	OpeningPlies int
	// FixedFirst makes player 0 start every game.
	FixedFirst     bool
	OutputFilename string
}

func (o Options) apply(r *GameRunner) {
	for i, d := range o.Depths {
		if d > 0 {
			r.SetDepth(i, d)
		}
	}
	if o.MaxTurns > 0 {
		r.SetMaxTurns(o.MaxTurns)
	}
	r.SetOpeningPlies(o.OpeningPlies)
	r.SetRandomFirst(!o.FixedFirst)
}

// StartCompVCompGames plays opts.NumGames games on opts.Threads workers and
// returns a summary once they are all done. If ctx is cancelled, queueing
// stops and the summary of the games finished so far is returned along
// with the context's error. With an output file, one CSV line per game is
// written to it.
func StartCompVCompGames(ctx context.Context, cfg *config.Config, opts Options) (*Summary, error) {
	if IsPlaying.Value() > 0 {
		return nil, ErrAlreadyPlaying
	}
	threads := max(opts.Threads, 1)
	runners := make([]*GameRunner, threads)
	for i := range runners {
		r, err := NewGameRunner(nil, cfg)
		if err != nil {
			return nil, err
		}
		opts.apply(r)
		runners[i] = r
	}

	var logfile io.WriteCloser
	var logChan chan string
	if opts.OutputFilename != "" {
		f, err := os.Create(opts.OutputFilename)
		if err != nil {
			return nil, err
		}
		logfile = f
		logChan = make(chan string, 100)
		for _, r := range runners {
			r.logchan = logChan
		}
	}
	log.Debug().Int("games", opts.NumGames).Int("threads", threads).Msg("starting-cvc")

	CVCCounter.Set(0)
	jobs := make(chan int, 100)
	results := make(chan *GameResult, 100)

	eg, egctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		defer close(jobs)
		for i := 1; i <= opts.NumGames; i++ {
			select {
			case jobs <- i:
			case <-egctx.Done():
				log.Info().Int("queued", i-1).Msg("got-stop-signal")
				return nil
			}
		}
		log.Debug().Msg("finished-queueing")
		return nil
	})

	for _, r := range runners {
		r := r
		eg.Go(func() error {
			IsPlaying.Add(1)
			defer IsPlaying.Add(-1)
			for id := range jobs {
				res, err := r.PlayGame(egctx, id)
				if err != nil {
					return err
				}
				results <- res
				CVCCounter.Add(1)
			}
			return nil
		})
	}

	var aux sync.WaitGroup
	summary := NewSummary()
	aux.Add(1)
	go func() {
		defer aux.Done()
		for res := range results {
			summary.Add(res)
		}
	}()
	if logfile != nil {
		aux.Add(1)
		go func() {
			defer aux.Done()
			defer logfile.Close()
			io.WriteString(logfile, logHeader)
			for msg := range logChan {
				io.WriteString(logfile, msg)
			}
		}()
	}

	err := eg.Wait()
	close(results)
	if logChan != nil {
		close(logChan)
	}
	aux.Wait()
	if err == nil {
		err = ctx.Err()
	}
	log.Info().Int("played", summary.Games()).Msg("all-games-finished")
	return summary, err
}
