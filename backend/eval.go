package main

// Silman-style evaluation: rather than a single blended number, the position
// is broken into imbalances (material, activity, pawn structure, space, king
// safety, development) which are then weighted per playing style. Scores are
// centipawns from White's perspective; the search negates per side.

var pieceValues = [7]int{0, 100, 320, 330, 500, 900, 0}

// StyleWeights scales each imbalance's contribution to the blended score.
type StyleWeights struct {
	Material      float64 `json:"material"`
	PieceActivity float64 `json:"piece_activity"`
	PawnStructure float64 `json:"pawn_structure"`
	Space         float64 `json:"space"`
	Initiative    float64 `json:"initiative"`
	KingSafety    float64 `json:"king_safety"`
	Development   float64 `json:"development"`
	Prophylaxis   float64 `json:"prophylaxis"`
}

var styleWeights = map[string]StyleWeights{
	"classical":  {1.0, 0.5, 0.5, 0.3, 0.4, 0.6, 0.3, 0.4},
	"attacking":  {0.8, 0.8, 0.4, 0.4, 1.0, 0.3, 0.2, 0.2},
	"tactical":   {0.7, 1.0, 0.3, 0.3, 1.2, 0.4, 0.2, 0.2},
	"positional": {1.0, 0.6, 0.8, 0.6, 0.3, 0.5, 0.4, 0.6},
	"technical":  {1.0, 0.4, 0.6, 0.4, 0.2, 0.8, 0.3, 0.5},
}

const defaultStyle = "classical"

// Piece-square tables, a1 = index 0. Mirrored vertically for Black.
var pawnPST = [64]int{
	0, 0, 0, 0, 0, 0, 0, 0,
	5, 10, 10, -20, -20, 10, 10, 5,
	5, -5, -10, 0, 0, -10, -5, 5,
	0, 0, 0, 20, 20, 0, 0, 0,
	5, 5, 10, 25, 25, 10, 5, 5,
	10, 10, 20, 30, 30, 20, 10, 10,
	50, 50, 50, 50, 50, 50, 50, 50,
	0, 0, 0, 0, 0, 0, 0, 0,
}

var knightPST = [64]int{
	-50, -40, -30, -30, -30, -30, -40, -50,
	-40, -20, 0, 5, 5, 0, -20, -40,
	-30, 5, 10, 15, 15, 10, 5, -30,
	-30, 0, 15, 20, 20, 15, 0, -30,
	-30, 5, 15, 20, 20, 15, 5, -30,
	-30, 0, 10, 15, 15, 10, 0, -30,
	-40, -20, 0, 0, 0, 0, -20, -40,
	-50, -40, -30, -30, -30, -30, -40, -50,
}

var bishopPST = [64]int{
	-20, -10, -10, -10, -10, -10, -10, -20,
	-10, 5, 0, 0, 0, 0, 5, -10,
	-10, 10, 10, 10, 10, 10, 10, -10,
	-10, 0, 10, 10, 10, 10, 0, -10,
	-10, 5, 5, 10, 10, 5, 5, -10,
	-10, 0, 5, 10, 10, 5, 0, -10,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-20, -10, -10, -10, -10, -10, -10, -20,
}

var rookPST = [64]int{
	0, 0, 5, 10, 10, 5, 0, 0,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	0, 0, 0, 0, 0, 0, 0, 0,
}

var queenPST = [64]int{
	-20, -10, -10, -5, -5, -10, -10, -20,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-10, 0, 5, 5, 5, 5, 0, -10,
	-5, 0, 5, 5, 5, 5, 0, -5,
	-5, 0, 5, 5, 5, 5, 0, -5,
	-10, 0, 5, 5, 5, 5, 0, -10,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-20, -10, -10, -5, -5, -10, -10, -20,
}

func pstValue(piece Piece, sq int, color Color) int {
	if color == Black {
		sq = 63 - sq
	}
	switch piece {
	case Pawn:
		return pawnPST[sq]
	case Knight:
		return knightPST[sq]
	case Bishop:
		return bishopPST[sq]
	case Rook:
		return rookPST[sq]
	case Queen:
		return queenPST[sq]
	}
	return 0
}

// Imbalances is the per-side breakdown the evaluator and the time manager
// share. Positive entries favor the named side.
type Imbalances struct {
	MaterialDiff    int     `json:"material_diff"`
	ActivityDiff    int     `json:"activity_diff"`
	PawnDiff        int     `json:"pawn_diff"`
	SpaceDiff       float64 `json:"space_diff"`
	WhiteKing       int     `json:"white_king_safety"`
	BlackKing       int     `json:"black_king_safety"`
	DevelopmentDiff int     `json:"development_diff"`
	WhitePassed     bool    `json:"white_has_passed_pawn"`
	BlackPassed     bool    `json:"black_has_passed_pawn"`
}

type Evaluator struct {
	style   string
	weights StyleWeights
}

func NewEvaluator(style string) *Evaluator {
	e := &Evaluator{}
	e.SetStyle(style)
	return e
}

func (e *Evaluator) SetStyle(style string) {
	w, ok := styleWeights[style]
	if !ok {
		style = defaultStyle
		w = styleWeights[defaultStyle]
	}
	e.style = style
	e.weights = w
}

func (e *Evaluator) Style() string {
	return e.style
}

func materialCount(p Position, color Color) int {
	total := 0
	for piece := Pawn; piece <= Queen; piece++ {
		total += pieceValues[piece] * popcount(p.Pieces[piece]&p.Colors[color])
	}
	return total
}

func pieceActivity(p Position, color Color) int {
	activity := 0
	own := p.Colors[color]
	for piece := Pawn; piece <= Queen; piece++ {
		bb := p.Pieces[piece] & own
		for bb != 0 {
			sq := popLSB(&bb)
			activity += pstValue(piece, sq, color)
			if piece == Knight || piece == Bishop {
				rank := rankOf(sq)
				if (color == White && rank > 1) || (color == Black && rank < 6) {
					activity += 10
				}
			}
			dist := abs(3-fileOf(sq)) + abs(3-rankOf(sq))
			if dist <= 2 {
				activity += 5
			}
		}
	}
	return activity
}

func pawnStructure(p Position, color Color) (score int, hasPassed bool) {
	own := p.Pieces[Pawn] & p.Colors[color]
	enemy := p.Pieces[Pawn] & p.Colors[otherColor(color)]
	bb := own
	for bb != 0 {
		sq := popLSB(&bb)
		file := fileOf(sq)

		if enemy&frontSpanMask(sq, color) == 0 {
			score += 50
			hasPassed = true
		}

		neighbors := uint64(0)
		if file > 0 {
			neighbors |= fileMask(file - 1)
		}
		if file < 7 {
			neighbors |= fileMask(file + 1)
		}
		if own&neighbors == 0 {
			score -= 20
		}

		if own&fileMask(file)&^bit(sq) != 0 {
			score -= 10
		}
	}
	return score, hasPassed
}

// frontSpanMask covers the three files around sq on every rank ahead of it,
// from color's point of view. A pawn with no enemy pawn in its span is passed.
func frontSpanMask(sq int, color Color) uint64 {
	file := fileOf(sq)
	rank := rankOf(sq)
	files := fileMask(file)
	if file > 0 {
		files |= fileMask(file - 1)
	}
	if file < 7 {
		files |= fileMask(file + 1)
	}
	var ranks uint64
	if color == White {
		for r := rank + 1; r < 8; r++ {
			ranks |= rankMask(r)
		}
	} else {
		for r := rank - 1; r >= 0; r-- {
			ranks |= rankMask(r)
		}
	}
	return files & ranks
}

func fileMask(file int) uint64 {
	return 0x0101010101010101 << uint(file)
}

func rankMask(rank int) uint64 {
	return 0xFF << uint(rank*8)
}

func spaceControl(p Position, color Color) float64 {
	// Pieces past the midline claim space.
	var zone uint64
	if color == White {
		for r := 4; r < 8; r++ {
			zone |= rankMask(r)
		}
	} else {
		for r := 0; r < 4; r++ {
			zone |= rankMask(r)
		}
	}
	return float64(popcount(p.Colors[color] & zone))
}

func kingSafety(p Position, color Color) int {
	kingSq := p.KingSquare(color)
	if kingSq < 0 {
		return -10000
	}
	safety := 0

	shieldRank := rankOf(kingSq) + 1
	if color == Black {
		shieldRank = rankOf(kingSq) - 1
	}
	if shieldRank >= 0 && shieldRank < 8 {
		ownPawns := p.Pieces[Pawn] & p.Colors[color]
		for df := -1; df <= 1; df++ {
			file := fileOf(kingSq) + df
			if file >= 0 && file < 8 && ownPawns&bit(squareAt(file, shieldRank)) != 0 {
				safety += 10
			}
		}
	}

	if p.Castling[color][castleKingside] || p.Castling[color][castleQueenside] {
		safety += 20
	}

	// A king wandering toward the center is exposed until the endgame.
	safety -= (abs(3-fileOf(kingSq)) + abs(3-rankOf(kingSq))) * 3
	return safety
}

func development(p Position, color Color) int {
	homeRank := 0
	if color == Black {
		homeRank = 7
	}
	home := rankMask(homeRank) & p.Colors[color]
	atHome := popcount(home &^ (p.Pieces[Pawn] | p.Pieces[King]))
	return -atHome * 15
}

func isOpening(p Position) bool {
	return materialCount(p, White)+materialCount(p, Black) > 4000
}

func (e *Evaluator) AnalyzeImbalances(p Position) Imbalances {
	whitePawns, whitePassed := pawnStructure(p, White)
	blackPawns, blackPassed := pawnStructure(p, Black)
	imb := Imbalances{
		MaterialDiff: materialCount(p, White) - materialCount(p, Black),
		ActivityDiff: pieceActivity(p, White) - pieceActivity(p, Black),
		PawnDiff:     whitePawns - blackPawns,
		SpaceDiff:    spaceControl(p, White) - spaceControl(p, Black),
		WhiteKing:    kingSafety(p, White),
		BlackKing:    kingSafety(p, Black),
		WhitePassed:  whitePassed,
		BlackPassed:  blackPassed,
	}
	if isOpening(p) {
		imb.DevelopmentDiff = development(p, White) - development(p, Black)
	}
	return imb
}

// Evaluate blends the imbalances under the current style's weights.
func (e *Evaluator) Evaluate(p Position) int {
	imb := e.AnalyzeImbalances(p)
	w := e.weights

	score := 0.0
	score += float64(imb.MaterialDiff) * w.Material
	score += float64(imb.ActivityDiff) * w.PieceActivity
	score += float64(imb.PawnDiff) * w.PawnStructure
	score += imb.SpaceDiff * w.Space * 10
	score += float64(imb.WhiteKing-imb.BlackKing) * w.KingSafety
	score += float64(imb.DevelopmentDiff) * w.Development
	return int(score)
}

// ComplexityHint estimates how hard the position is to calculate, as a
// multiplier on the base time budget. Never below 1.0.
func (e *Evaluator) ComplexityHint(p Position) float64 {
	imb := e.AnalyzeImbalances(p)
	complexity := 1.0
	if imb.WhiteKing < 0 || imb.BlackKing < 0 {
		complexity += 0.5
	}
	if imb.MaterialDiff > 200 || imb.MaterialDiff < -200 {
		complexity += 0.3
	}
	if imb.WhitePassed || imb.BlackPassed {
		complexity += 0.3
	}
	if complexity < 1.0 {
		complexity = 1.0
	}
	return complexity
}

// Explain turns the imbalance breakdown into the short human notes shown in
// the analysis panel.
func (e *Evaluator) Explain(p Position) []string {
	imb := e.AnalyzeImbalances(p)
	var notes []string
	switch {
	case imb.MaterialDiff > 0:
		notes = append(notes, "White has a material advantage")
	case imb.MaterialDiff < 0:
		notes = append(notes, "Black has a material advantage")
	}
	switch {
	case imb.WhiteKing > imb.BlackKing+20:
		notes = append(notes, "White's king is safer")
	case imb.BlackKing > imb.WhiteKing+20:
		notes = append(notes, "Black's king is safer")
	}
	if imb.WhitePassed {
		notes = append(notes, "White has a passed pawn")
	}
	if imb.BlackPassed {
		notes = append(notes, "Black has a passed pawn")
	}
	switch {
	case imb.DevelopmentDiff > 20:
		notes = append(notes, "White leads in development")
	case imb.DevelopmentDiff < -20:
		notes = append(notes, "Black leads in development")
	}
	return notes
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
