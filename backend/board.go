package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

type Piece int

const (
	NoPiece Piece = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

type Color int

const (
	White Color = iota
	Black
)

const (
	castleKingside  = 0
	castleQueenside = 1
)

const startFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

var (
	ErrInvalidFEN       = errors.New("invalid fen")
	ErrInvalidPlacement = errors.New("invalid piece placement")
)

// Position is the value-like board state. Apply returns a fresh Position, so
// sibling states in the search never alias each other.
type Position struct {
	Pieces    [7]uint64
	Colors    [2]uint64
	Side      Color
	Castling  [2][2]bool
	EnPassant int
	HalfMoves int
	FullMoves int
	Hash      uint64
}

func NewPosition() Position {
	p := Position{EnPassant: -1, FullMoves: 1}
	return p
}

func StartPosition() Position {
	p, err := ParseFEN(startFEN)
	if err != nil {
		panic(err)
	}
	return p
}

func (p Position) AllPieces() uint64 {
	return p.Colors[White] | p.Colors[Black]
}

func (p Position) PieceAt(sq int) Piece {
	if sq < 0 || sq >= 64 {
		return NoPiece
	}
	mask := bit(sq)
	for pt := Pawn; pt <= King; pt++ {
		if p.Pieces[pt]&mask != 0 {
			return pt
		}
	}
	return NoPiece
}

func (p Position) ColorAt(sq int) (Color, bool) {
	if sq < 0 || sq >= 64 {
		return White, false
	}
	mask := bit(sq)
	if p.Colors[White]&mask != 0 {
		return White, true
	}
	if p.Colors[Black]&mask != 0 {
		return Black, true
	}
	return White, false
}

func (p Position) IsEmpty(sq int) bool {
	return p.AllPieces()&bit(sq) == 0
}

func (p *Position) addPiece(sq int, piece Piece, color Color) {
	mask := bit(sq)
	p.Pieces[piece] |= mask
	p.Colors[color] |= mask
}

func (p *Position) removePiece(sq int) {
	mask := ^bit(sq)
	for pt := Pawn; pt <= King; pt++ {
		p.Pieces[pt] &= mask
	}
	p.Colors[White] &= mask
	p.Colors[Black] &= mask
}

// IsSquareAttacked reports whether byColor attacks sq, testing the cheap
// fixed-offset patterns before ray casts.
func (p Position) IsSquareAttacked(sq int, byColor Color) bool {
	attackers := p.Colors[byColor]
	if pawnAttacks(sq, otherColor(byColor))&p.Pieces[Pawn]&attackers != 0 {
		return true
	}
	if knightAttacks(sq)&p.Pieces[Knight]&attackers != 0 {
		return true
	}
	if kingAttacks(sq)&p.Pieces[King]&attackers != 0 {
		return true
	}
	blockers := p.AllPieces()
	diagonal := (p.Pieces[Bishop] | p.Pieces[Queen]) & attackers
	if bishopAttacks(sq, blockers)&diagonal != 0 {
		return true
	}
	straight := (p.Pieces[Rook] | p.Pieces[Queen]) & attackers
	return rookAttacks(sq, blockers)&straight != 0
}

func (p Position) KingSquare(color Color) int {
	kings := p.Pieces[King] & p.Colors[color]
	if kings == 0 {
		return -1
	}
	return popLSB(&kings)
}

func (p Position) InCheck(color Color) bool {
	kingSq := p.KingSquare(color)
	if kingSq < 0 {
		return false
	}
	return p.IsSquareAttacked(kingSq, otherColor(color))
}

// Apply plays move on a copy of p and returns the copy. The receiver is never
// mutated. The move is assumed pseudo-legal for the side to move.
func (p Position) Apply(move Move) Position {
	next := p
	mover := p.Side
	piece := p.PieceAt(move.From)
	captured := p.PieceAt(move.To)

	next.removePiece(move.From)
	next.removePiece(move.To)
	next.addPiece(move.To, piece, mover)

	if piece == Pawn {
		if move.EnPassant || move.To == p.EnPassant {
			// The captured pawn sits behind the en-passant target square.
			capSq := squareAt(fileOf(move.To), rankOf(move.From))
			next.removePiece(capSq)
			captured = Pawn
		}
		if rankOf(move.To) == 7 || rankOf(move.To) == 0 {
			promo := move.Promo
			if promo == NoPiece {
				promo = Queen
			}
			next.removePiece(move.To)
			next.addPiece(move.To, promo, mover)
		}
		if move.To-move.From == 16 || move.From-move.To == 16 {
			next.EnPassant = (move.From + move.To) / 2
		} else {
			next.EnPassant = -1
		}
	} else {
		next.EnPassant = -1
	}

	if piece == King {
		next.Castling[mover][castleKingside] = false
		next.Castling[mover][castleQueenside] = false
	}
	// A rook leaving (or being captured on) its original square clears the
	// matching right. Rights only ever go from true to false.
	clearRookRight(&next, move.From)
	clearRookRight(&next, move.To)

	if piece == Pawn || captured != NoPiece {
		next.HalfMoves = 0
	} else {
		next.HalfMoves = p.HalfMoves + 1
	}
	if mover == Black {
		next.FullMoves = p.FullMoves + 1
	}
	next.Side = otherColor(mover)
	next.Hash = ComputeHash(next)
	return next
}

func clearRookRight(p *Position, sq int) {
	switch sq {
	case squareAt(0, 0):
		p.Castling[White][castleQueenside] = false
	case squareAt(7, 0):
		p.Castling[White][castleKingside] = false
	case squareAt(0, 7):
		p.Castling[Black][castleQueenside] = false
	case squareAt(7, 7):
		p.Castling[Black][castleKingside] = false
	}
}

// Validate checks the placement-consistency invariant: every occupied square
// carries exactly one piece type and one color, and each side has one king.
func (p Position) Validate() error {
	var pieceUnion uint64
	for pt := Pawn; pt <= King; pt++ {
		if pieceUnion&p.Pieces[pt] != 0 {
			return fmt.Errorf("%w: square holds two piece types", ErrInvalidPlacement)
		}
		pieceUnion |= p.Pieces[pt]
	}
	if p.Colors[White]&p.Colors[Black] != 0 {
		return fmt.Errorf("%w: square claimed by both colors", ErrInvalidPlacement)
	}
	if pieceUnion != p.Colors[White]|p.Colors[Black] {
		return fmt.Errorf("%w: piece and color sets disagree", ErrInvalidPlacement)
	}
	for _, color := range []Color{White, Black} {
		if n := popcount(p.Pieces[King] & p.Colors[color]); n != 1 {
			return fmt.Errorf("%w: side has %d kings", ErrInvalidPlacement, n)
		}
	}
	if p.EnPassant != -1 && (p.EnPassant < 0 || p.EnPassant >= 64) {
		return fmt.Errorf("%w: en passant square %d", ErrInvalidPlacement, p.EnPassant)
	}
	return nil
}

// ParseFEN loads a complete state description. It fails explicitly on a
// malformed description instead of letting the search run on a broken board.
func ParseFEN(fen string) (Position, error) {
	fields := strings.Fields(fen)
	if len(fields) < 4 {
		return Position{}, fmt.Errorf("%w: expected at least 4 fields, got %d", ErrInvalidFEN, len(fields))
	}
	p := NewPosition()

	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		return Position{}, fmt.Errorf("%w: expected 8 ranks, got %d", ErrInvalidFEN, len(ranks))
	}
	for i, rankStr := range ranks {
		rank := 7 - i
		file := 0
		for _, c := range rankStr {
			if c >= '1' && c <= '8' {
				file += int(c - '0')
				continue
			}
			piece, color, ok := pieceFromLetter(byte(c))
			if !ok {
				return Position{}, fmt.Errorf("%w: bad piece %q", ErrInvalidFEN, c)
			}
			if file >= 8 {
				return Position{}, fmt.Errorf("%w: rank %d overflows", ErrInvalidFEN, rank+1)
			}
			p.addPiece(squareAt(file, rank), piece, color)
			file++
		}
		if file != 8 {
			return Position{}, fmt.Errorf("%w: rank %d has %d files", ErrInvalidFEN, rank+1, file)
		}
	}

	switch fields[1] {
	case "w":
		p.Side = White
	case "b":
		p.Side = Black
	default:
		return Position{}, fmt.Errorf("%w: bad side %q", ErrInvalidFEN, fields[1])
	}

	if fields[2] != "-" {
		for _, c := range fields[2] {
			switch c {
			case 'K':
				p.Castling[White][castleKingside] = true
			case 'Q':
				p.Castling[White][castleQueenside] = true
			case 'k':
				p.Castling[Black][castleKingside] = true
			case 'q':
				p.Castling[Black][castleQueenside] = true
			default:
				return Position{}, fmt.Errorf("%w: bad castling flag %q", ErrInvalidFEN, c)
			}
		}
	}

	if fields[3] != "-" {
		sq, err := parseSquare(fields[3])
		if err != nil {
			return Position{}, fmt.Errorf("%w: bad en passant square %q", ErrInvalidFEN, fields[3])
		}
		p.EnPassant = sq
	}

	if len(fields) > 4 {
		n, err := strconv.Atoi(fields[4])
		if err != nil || n < 0 {
			return Position{}, fmt.Errorf("%w: bad halfmove clock %q", ErrInvalidFEN, fields[4])
		}
		p.HalfMoves = n
	}
	if len(fields) > 5 {
		n, err := strconv.Atoi(fields[5])
		if err != nil || n < 1 {
			return Position{}, fmt.Errorf("%w: bad fullmove number %q", ErrInvalidFEN, fields[5])
		}
		p.FullMoves = n
	}

	if err := p.Validate(); err != nil {
		return Position{}, err
	}
	p.Hash = ComputeHash(p)
	return p, nil
}

// FEN serializes the position; ParseFEN(p.FEN()) reproduces p.
func (p Position) FEN() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			sq := squareAt(file, rank)
			piece := p.PieceAt(sq)
			if piece == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			color, _ := p.ColorAt(sq)
			sb.WriteByte(pieceLetter(piece, color))
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}

	sb.WriteByte(' ')
	if p.Side == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}

	sb.WriteByte(' ')
	castles := ""
	if p.Castling[White][castleKingside] {
		castles += "K"
	}
	if p.Castling[White][castleQueenside] {
		castles += "Q"
	}
	if p.Castling[Black][castleKingside] {
		castles += "k"
	}
	if p.Castling[Black][castleQueenside] {
		castles += "q"
	}
	if castles == "" {
		castles = "-"
	}
	sb.WriteString(castles)

	sb.WriteByte(' ')
	if p.EnPassant == -1 {
		sb.WriteByte('-')
	} else {
		sb.WriteString(squareName(p.EnPassant))
	}

	sb.WriteString(fmt.Sprintf(" %d %d", p.HalfMoves, p.FullMoves))
	return sb.String()
}

func otherColor(c Color) Color {
	if c == White {
		return Black
	}
	return White
}

func (c Color) String() string {
	if c == White {
		return "White"
	}
	return "Black"
}

func pieceLetter(piece Piece, color Color) byte {
	letters := " pnbrqk"
	c := letters[piece]
	if color == White {
		c -= 'a' - 'A'
	}
	return c
}

func pieceFromLetter(c byte) (Piece, Color, bool) {
	color := Black
	if c >= 'A' && c <= 'Z' {
		color = White
		c += 'a' - 'A'
	}
	switch c {
	case 'p':
		return Pawn, color, true
	case 'n':
		return Knight, color, true
	case 'b':
		return Bishop, color, true
	case 'r':
		return Rook, color, true
	case 'q':
		return Queen, color, true
	case 'k':
		return King, color, true
	}
	return NoPiece, color, false
}
