package main

import "fmt"

type Move struct {
	From      int   `json:"from"`
	To        int   `json:"to"`
	Promo     Piece `json:"promo,omitempty"`
	EnPassant bool  `json:"en_passant,omitempty"`
}

func NewMove(from, to int) Move {
	return Move{From: from, To: to}
}

func (m Move) IsValid() bool {
	return m.From >= 0 && m.From < 64 && m.To >= 0 && m.To < 64 && m.From != m.To
}

func (m Move) Equals(other Move) bool {
	return m == other
}

// UCI renders the move in long algebraic notation ("e2e4", "e7e8q").
func (m Move) UCI() string {
	if !m.IsValid() {
		return "0000"
	}
	s := squareName(m.From) + squareName(m.To)
	if m.Promo != NoPiece {
		s += string(pieceLetter(m.Promo, Black))
	}
	return s
}

func ParseUCIMove(s string) (Move, error) {
	if len(s) < 4 || len(s) > 5 {
		return Move{}, fmt.Errorf("invalid move %q", s)
	}
	from, err := parseSquare(s[0:2])
	if err != nil {
		return Move{}, fmt.Errorf("invalid move %q: %w", s, err)
	}
	to, err := parseSquare(s[2:4])
	if err != nil {
		return Move{}, fmt.Errorf("invalid move %q: %w", s, err)
	}
	move := Move{From: from, To: to}
	if len(s) == 5 {
		promo, _, ok := pieceFromLetter(s[4])
		if !ok || promo == Pawn || promo == King {
			return Move{}, fmt.Errorf("invalid promotion piece %q", s[4])
		}
		move.Promo = promo
	}
	return move, nil
}

func squareName(sq int) string {
	return string([]byte{byte('a' + fileOf(sq)), byte('1' + rankOf(sq))})
}

func parseSquare(s string) (int, error) {
	if len(s) != 2 || s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return -1, fmt.Errorf("bad square %q", s)
	}
	return squareAt(int(s[0]-'a'), int(s[1]-'1')), nil
}
