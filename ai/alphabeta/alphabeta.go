// Package alphabeta picks moves with a depth-limited minimax search with
// alpha-beta pruning.
package alphabeta

import (
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/wallgame/quoridor/board"
	"github.com/wallgame/quoridor/game"
	"github.com/wallgame/quoridor/move"
	"github.com/wallgame/quoridor/pathfinding"
)

// thanks Wikipedia:
/**function alphabeta(node, depth, α, β, maximizingPlayer) is
    if depth = 0 or node is a terminal node then
        return the heuristic value of node
    if maximizingPlayer then
        value := −∞
        for each child of node do
            value := max(value, alphabeta(child, depth − 1, α, β, FALSE))
            α := max(α, value)
            if value ≥ β then
                break (* β cut-off *)
        return value
    else
        value := +∞
        for each child of node do
            value := min(value, alphabeta(child, depth − 1, α, β, TRUE))
            β := min(β, value)
            if value ≤ α then
                break (* α cut-off *)
        return value
**/

const (
	// Infinity bounds the search window. It is well above WinScore.
	Infinity = 1e12
	// WinScore is the value of a decided game for the winner. It must
	// dominate every heuristic value.
	WinScore = 1e6
	// UnreachableDistance stands in for the distance to a goal that
	// cannot be reached.
	UnreachableDistance = 1000
	// WallWeight scales the wall-count difference in the evaluation.
	WallWeight = 0.1

	DefaultWallRadius = 3
	DefaultDepth      = 3
)

var ErrUnknownDifficulty = errors.New("unknown difficulty")

// Solver implements the minimax + alphabeta algorithm. A Solver never
// mutates the game it is asked about; every line is explored on copies.
type Solver struct {
	wallRadius     int
	disablePruning bool
	threads        int
	nodes          atomic.Uint64
}

// Init initializes the solver
func (s *Solver) Init() {
	s.wallRadius = DefaultWallRadius
	s.threads = 1
	s.disablePruning = false
	s.nodes.Store(0)
}

// NewSolver returns an initialized solver.
func NewSolver() *Solver {
	s := &Solver{}
	s.Init()
	return s
}

// SetWallRadius sets how far (Manhattan distance from either pawn) a wall
// intersection may be to be considered.
func (s *Solver) SetWallRadius(r int) {
	s.wallRadius = r
}

func (s *Solver) WallRadius() int {
	return s.wallRadius
}

// SetPruningDisabled turns the search into a plain minimax over the same
// action order.
func (s *Solver) SetPruningDisabled(d bool) {
	s.disablePruning = d
}

// SetThreads sets how many root actions may be searched at once.
func (s *Solver) SetThreads(threads int) {
	switch {
	case threads < 2:
		s.threads = 1
	default:
		s.threads = threads
	}
}

func (s *Solver) Threads() int {
	return s.threads
}

// Nodes is the number of nodes visited by the last search.
func (s *Solver) Nodes() uint64 {
	return s.nodes.Load()
}

// GenerateActions lists the candidate actions for the side to move: its
// legal pawn moves, then, if it has walls left, every wall that fits on
// the board within the wall radius of either pawn. Walls that would cut
// off a player are not filtered here; they fail when applied.
func (s *Solver) GenerateActions(g *game.Game) []*move.Move {
	onturn := g.PlayerOnTurn()
	dests := g.LegalMoves(onturn)
	s1 := g.Size() - 1
	// at most two walls per intersection, whatever the radius
	actions := make([]*move.Move, 0, len(dests)+2*s1*s1)
	for _, d := range dests {
		actions = append(actions, move.NewPawnMove(d))
	}
	if g.WallsFor(onturn) <= 0 {
		return actions
	}
	p0, p1 := g.PositionFor(0), g.PositionFor(1)
	for wr := 0; wr < s1; wr++ {
		for wc := 0; wc < s1; wc++ {
			if p0.ManhattanTo(wr, wc) > s.wallRadius && p1.ManhattanTo(wr, wc) > s.wallRadius {
				continue
			}
			for _, o := range []board.Orientation{board.Horizontal, board.Vertical} {
				if g.CanPlaceWall(o, wr, wc) {
					actions = append(actions, move.NewWallMove(o, wr, wc))
				}
			}
		}
	}
	return actions
}

// orderActions puts pawn moves first, keeping relative order.
func orderActions(actions []*move.Move) []*move.Move {
	isPawn := func(m *move.Move, _ int) bool { return m.IsPawn() }
	return append(lo.Filter(actions, isPawn), lo.Reject(actions, isPawn)...)
}

// Evaluate scores a position from the player's point of view: the
// opponent's distance to goal minus the player's own, plus a small bonus
// per wall in hand.
func Evaluate(g *game.Game, player int) float64 {
	opp := 1 - player
	myd := goalDistance(g, player)
	opd := goalDistance(g, opp)
	return float64(opd-myd) + WallWeight*float64(g.WallsFor(player)-g.WallsFor(opp))
}

func goalDistance(g *game.Game, player int) int {
	d, ok := pathfinding.ShortestDistance(g.Board(), g.PositionFor(player),
		[]int{g.GoalRowFor(player)})
	if !ok {
		return UnreachableDistance
	}
	return d
}

func terminalValue(winner, player int) float64 {
	if winner == player {
		return WinScore
	}
	return -WinScore
}

// Solve searches depth plies ahead for player and returns the value of the
// position and the best action. The action is nil when the game is
// already decided, when it is not the player's turn, or when no candidate
// action could be applied. A depth below 1 is treated as 1.
func (s *Solver) Solve(g *game.Game, player, depth int) (float64, *move.Move) {
	if depth < 1 {
		depth = 1
	}
	s.nodes.Store(0)
	if w, ok := g.Winner(); ok {
		return terminalValue(w, player), nil
	}
	if g.PlayerOnTurn() != player {
		log.Debug().Int("player", player).Int("onturn", g.PlayerOnTurn()).
			Msg("solve-not-on-turn")
		return Evaluate(g, player), nil
	}
	tstart := time.Now()
	actions := orderActions(s.GenerateActions(g))
	log.Debug().Int("depth", depth).Int("actions", len(actions)).
		Int("threads", s.threads).Bool("pruning", !s.disablePruning).
		Msg("alphabeta-solve-config")

	var bestV float64
	var bestMove *move.Move
	if s.threads > 1 {
		bestV, bestMove = s.searchRootParallel(g, actions, player, depth)
	} else {
		bestV, bestMove = s.searchRoot(g, actions, player, depth)
	}
	if bestMove == nil {
		bestV = Evaluate(g, player)
	}
	log.Debug().
		Uint64("nodes", s.nodes.Load()).
		Str("best", describe(bestMove)).
		Float64("value", bestV).
		Float64("time-elapsed-sec", time.Since(tstart).Seconds()).
		Msg("solve-returning")
	return bestV, bestMove
}

// ChooseMove returns the action Solve would pick, or nil.
func (s *Solver) ChooseMove(g *game.Game, player, depth int) *move.Move {
	_, m := s.Solve(g, player, depth)
	return m
}

func describe(m *move.Move) string {
	if m == nil {
		return "none"
	}
	return m.ShortDescription()
}

func (s *Solver) searchRoot(g *game.Game, actions []*move.Move, player, depth int) (float64, *move.Move) {
	α, β := -Infinity, Infinity
	var bestV float64
	var bestMove *move.Move
	for _, a := range actions {
		child := g.Copy()
		if err := child.PlayMove(a); err != nil {
			continue
		}
		v := s.alphabeta(child, depth-1, α, β, player)
		if bestMove == nil || v > bestV {
			bestV = v
			bestMove = a
		}
		if !s.disablePruning {
			α = max(α, bestV)
		}
	}
	return bestV, bestMove
}

// searchRootParallel searches every root action with a full window so that
// each value is exact, then picks the first action with the best value.
// This gives the same answer as searchRoot.
func (s *Solver) searchRootParallel(g *game.Game, actions []*move.Move, player, depth int) (float64, *move.Move) {
	values := make([]float64, len(actions))
	applied := make([]bool, len(actions))
	copies := make([]*game.Game, len(actions))
	for i := range actions {
		copies[i] = g.Copy()
	}

	eg := errgroup.Group{}
	eg.SetLimit(s.threads)
	for i, a := range actions {
		i, a := i, a
		eg.Go(func() error {
			child := copies[i]
			if err := child.PlayMove(a); err != nil {
				return nil
			}
			applied[i] = true
			values[i] = s.alphabeta(child, depth-1, -Infinity, Infinity, player)
			return nil
		})
	}
	// workers never fail
	_ = eg.Wait()

	var bestV float64
	var bestMove *move.Move
	for i, a := range actions {
		if !applied[i] {
			continue
		}
		if bestMove == nil || values[i] > bestV {
			bestV = values[i]
			bestMove = a
		}
	}
	return bestV, bestMove
}

func (s *Solver) alphabeta(g *game.Game, depth int, α, β float64, player int) float64 {
	s.nodes.Add(1)
	if w, ok := g.Winner(); ok {
		return terminalValue(w, player)
	}
	if depth == 0 {
		return Evaluate(g, player)
	}
	maximizing := g.PlayerOnTurn() == player
	actions := s.GenerateActions(g)

	applied := false
	var value float64
	if maximizing {
		value = -Infinity
	} else {
		value = Infinity
	}
	for _, a := range actions {
		child := g.Copy()
		if err := child.PlayMove(a); err != nil {
			continue
		}
		applied = true
		v := s.alphabeta(child, depth-1, α, β, player)
		if maximizing {
			value = max(value, v)
			if s.disablePruning {
				continue
			}
			α = max(α, value)
			if value >= β {
				break // beta cut-off
			}
		} else {
			value = min(value, v)
			if s.disablePruning {
				continue
			}
			β = min(β, value)
			if value <= α {
				break // alpha cut-off
			}
		}
	}
	if !applied {
		// nothing could be played; score the position as it stands
		return Evaluate(g, player)
	}
	return value
}

// DepthForDifficulty maps a difficulty name to a search depth.
func DepthForDifficulty(d string) (int, error) {
	switch strings.ToLower(d) {
	case "easy":
		return 1, nil
	case "medium":
		return 2, nil
	case "hard":
		return 3, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownDifficulty, d)
}
