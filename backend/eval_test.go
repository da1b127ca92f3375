package main

import "testing"

func TestStartPositionEvaluatesBalanced(t *testing.T) {
	e := NewEvaluator(defaultStyle)
	if score := e.Evaluate(StartPosition()); abs(score) > 25 {
		t.Fatalf("the start position is near-symmetric, expected a score close to 0, got %d", score)
	}
}

func TestMaterialAdvantageDominates(t *testing.T) {
	e := NewEvaluator(defaultStyle)
	up, err := ParseFEN("k7/8/8/8/8/8/8/KQ6 w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	if score := e.Evaluate(up); score <= 0 {
		t.Fatalf("white is a queen up, expected positive score, got %d", score)
	}
	down, err := ParseFEN("kq6/8/8/8/8/8/8/K7 w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	if score := e.Evaluate(down); score >= 0 {
		t.Fatalf("black is a queen up, expected negative score, got %d", score)
	}
}

func TestPassedPawnRecognized(t *testing.T) {
	e := NewEvaluator(defaultStyle)
	p, err := ParseFEN("k7/8/8/3P4/8/8/8/K7 w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	imb := e.AnalyzeImbalances(p)
	if !imb.WhitePassed {
		t.Fatalf("the d5 pawn has no opposition and is passed")
	}

	blocked, err := ParseFEN("k7/3p4/8/3P4/8/8/8/K7 w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	imb = e.AnalyzeImbalances(blocked)
	if imb.WhitePassed {
		t.Fatalf("the d5 pawn faces the d7 pawn and is not passed")
	}
}

func TestComplexityHintNeverBelowOne(t *testing.T) {
	e := NewEvaluator(defaultStyle)
	fens := []string{
		startFEN,
		"k7/8/8/3P4/8/8/8/K7 w - - 0 1",
		"k7/8/8/8/8/8/8/KQ6 w - - 0 1",
	}
	for _, fen := range fens {
		p, err := ParseFEN(fen)
		if err != nil {
			t.Fatalf("ParseFEN(%q): %v", fen, err)
		}
		if hint := e.ComplexityHint(p); hint < 1.0 {
			t.Fatalf("complexity hint %f below 1.0 for %q", hint, fen)
		}
	}
}

func TestUnknownStyleFallsBackToClassical(t *testing.T) {
	e := NewEvaluator("swashbuckling")
	if e.Style() != defaultStyle {
		t.Fatalf("expected fallback to %q, got %q", defaultStyle, e.Style())
	}
	if e.weights != styleWeights[defaultStyle] {
		t.Fatalf("weights should match the default style")
	}
}

func TestStylesShiftTheBlend(t *testing.T) {
	// A material-for-activity imbalance: black is a pawn up, white has the
	// far more active pieces. Aggressive styles should mind the pawn less.
	p, err := ParseFEN("k2r4/8/8/8/3N4/4B3/8/K7 b - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	classical := NewEvaluator("classical").Evaluate(p)
	tactical := NewEvaluator("tactical").Evaluate(p)
	if classical == tactical {
		t.Fatalf("different styles should weigh this imbalance differently")
	}
}

func TestExplainMentionsMaterialEdge(t *testing.T) {
	e := NewEvaluator(defaultStyle)
	p, err := ParseFEN("k7/8/8/8/8/8/8/KQ6 w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	notes := e.Explain(p)
	found := false
	for _, note := range notes {
		if note == "White has a material advantage" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a material note, got %v", notes)
	}
}
