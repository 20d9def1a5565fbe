package board

import (
	"fmt"
	"strings"
)

// ToDisplayText renders the board with rank 1 at the bottom. Pawns are
// drawn as 1, 2, ... in the order given.
func (b *Board) ToDisplayText(pawns []Pos) string {
	var sb strings.Builder
	n := b.dim

	header := "   "
	for c := 0; c < n; c++ {
		header += fmt.Sprintf(" %c  ", 'a'+c)
	}
	sb.WriteString("\n" + strings.TrimRight(header, " ") + "\n")

	for r := n - 1; r >= 0; r-- {
		row := fmt.Sprintf("%2d ", r+1)
		for c := 0; c < n; c++ {
			row += " " + string(b.cellRune(r, c, pawns)) + " "
			if c < n-1 && b.IsBlocked(r, c, r, c+1) {
				row += "|"
			} else {
				row += " "
			}
		}
		sb.WriteString(strings.TrimRight(row, " ") + "\n")
		if r == 0 {
			break
		}
		// the gap line between rank r+1 and rank r
		gap := "   "
		for c := 0; c < n; c++ {
			if b.IsBlocked(r-1, c, r, c) {
				gap += "---"
			} else {
				gap += "   "
			}
			if c < n-1 {
				gap += string(intersectionRune(b.HasSegment(Horizontal, r-1, c),
					b.HasSegment(Vertical, r-1, c)))
			}
		}
		sb.WriteString(strings.TrimRight(gap, " ") + "\n")
	}
	return sb.String()
}

func (b *Board) cellRune(r, c int, pawns []Pos) rune {
	for i, p := range pawns {
		if p.Row == r && p.Col == c {
			return rune('1' + i)
		}
	}
	return '.'
}

func intersectionRune(h, v bool) rune {
	switch {
	case h && v:
		return '+'
	case h:
		return '-'
	case v:
		return '|'
	}
	return ' '
}
