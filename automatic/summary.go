package automatic

import (
	"fmt"
	"strings"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"

	"github.com/wallgame/quoridor/game"
	"github.com/wallgame/quoridor/stats"
)

const (
	confidenceLevel = 95
	histogramBins   = 10
	histogramWidth  = 40
)

// Summary aggregates results of many games.
type Summary struct {
	games          int
	wins           [2]int
	draws          int
	firstMoverWins int
	reasons        map[string]int
	lengths        []float64
	winLengths     [2]stats.Running
}

func NewSummary() *Summary {
	return &Summary{reasons: map[string]int{}}
}

func (s *Summary) Add(res *GameResult) {
	s.games++
	s.reasons[res.Reason]++
	s.lengths = append(s.lengths, float64(res.Turns))
	if res.Winner == game.NoWinner {
		s.draws++
		return
	}
	s.wins[res.Winner]++
	s.winLengths[res.Winner].Push(float64(res.Turns))
	if res.Winner == res.FirstMover {
		s.firstMoverWins++
	}
}

func (s *Summary) Games() int {
	return s.games
}

func (s *Summary) Wins(playerIdx int) int {
	return s.wins[playerIdx]
}

// Draws counts games that ended without a winner.
func (s *Summary) Draws() int {
	return s.draws
}

func (s *Summary) FirstMoverWins() int {
	return s.firstMoverWins
}

// Ended returns how many games ended for the given reason.
func (s *Summary) Ended(reason string) int {
	return s.reasons[reason]
}

// LengthMeanStdev returns the mean and sample standard deviation of game
// lengths in plies.
func (s *Summary) LengthMeanStdev() (float64, float64) {
	switch len(s.lengths) {
	case 0:
		return 0, 0
	case 1:
		return s.lengths[0], 0
	}
	return stat.MeanStdDev(s.lengths, nil)
}

func (s *Summary) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Games played: %d\n", s.games)
	if s.games == 0 {
		return sb.String()
	}
	for i := 0; i < 2; i++ {
		rate, margin := stats.WinRate(s.wins[i], s.draws, s.games, confidenceLevel)
		fmt.Fprintf(&sb, "p%d wins: %d (%.1f%% ± %.1f%%)", i+1, s.wins[i], 100*rate, 100*margin)
		if s.winLengths[i].N() > 0 {
			fmt.Fprintf(&sb, "  mean winning length %.1f ± %.1f", s.winLengths[i].Mean(),
				s.winLengths[i].StandardError())
		}
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, "Draws: %d (repetition %d, turn limit %d, stuck %d)\n", s.draws,
		s.reasons[EndRepetition], s.reasons[EndMaxTurns], s.reasons[EndNoMove])
	decided := s.games - s.draws
	if decided > 0 {
		fmt.Fprintf(&sb, "Player who went first wins: %d (%.1f%%)\n", s.firstMoverWins,
			100*float64(s.firstMoverWins)/float64(decided))
	}
	mean, stdev := s.LengthMeanStdev()
	fmt.Fprintf(&sb, "Game length: mean %.2f  stdev %.2f\n", mean, stdev)
	// uniplot needs a spread of values to bucket.
	if lo.Min(s.lengths) < lo.Max(s.lengths) {
		hist := histogram.Hist(histogramBins, s.lengths)
		if err := histogram.Fprint(&sb, hist, histogram.Linear(histogramWidth)); err != nil {
			fmt.Fprintf(&sb, "(no histogram: %v)\n", err)
		}
	}
	return sb.String()
}
