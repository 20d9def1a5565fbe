package game

import (
	"fmt"

	"github.com/wallgame/quoridor/board"
)

type playerState struct {
	nickname string
	pos      board.Pos
	walls    int
	ai       bool
	goalRow  int
}

func newPlayerState(nickname string, pos board.Pos, walls, goalRow int) *playerState {
	return &playerState{
		nickname: nickname,
		pos:      pos,
		walls:    walls,
		goalRow:  goalRow,
	}
}

func (p *playerState) stateString(myturn bool) string {
	onturn := ""
	if myturn {
		onturn = "-> "
	}
	kind := ""
	if p.ai {
		kind = "(ai)"
	}
	return fmt.Sprintf("%4v%12v%5v  at %-4v walls: %d", onturn, p.nickname, kind,
		p.pos, p.walls)
}

type playerStates []*playerState

func copyPlayers(ps playerStates) playerStates {
	p := make([]*playerState, len(ps))
	for idx, porig := range ps {
		cp := *porig
		p[idx] = &cp
	}
	return p
}

func (ps playerStates) copyFrom(other playerStates) {
	for idx := range other {
		*ps[idx] = *other[idx]
	}
}
