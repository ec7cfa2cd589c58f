package poc

import "math"

// TrustReport is the output of the trust score engine: a 0–100 integer
// score and a letter grade summarizing all verification signals.
type TrustReport struct {
	Score int
	Grade string
}

// ScoreTrust combines the verification signals into a trust score and
// grade. Pure function: no side effects, no wall-clock, no randomness.
//
// Penalties are additive starting from 100, then the total is clamped to
// [0,100] and rounded to the nearest integer:
//
//	hash not verified  -50     signature invalid  -30
//	not anchored       -10
//	synthetic  >0.7 -40, >0.4 -20, >0.2 -5
//	generative >0.7 -30, >0.4 -15, >0.2 -3
//	duplication >50 -20, >30 -10
//	provenance metadata present +2 (capped at 100)
func ScoreTrust(f TrustFactors) TrustReport {
	score := 100.0

	if !f.HashVerified {
		score -= 50
	}
	if !f.SignatureValid {
		score -= 30
	}
	if !f.LedgerAnchored {
		score -= 10
	}

	switch {
	case f.SyntheticScore > 0.7:
		score -= 40
	case f.SyntheticScore > 0.4:
		score -= 20
	case f.SyntheticScore > 0.2:
		score -= 5
	}

	switch {
	case f.GenerativeScore > 0.7:
		score -= 30
	case f.GenerativeScore > 0.4:
		score -= 15
	case f.GenerativeScore > 0.2:
		score -= 3
	}

	switch {
	case f.DuplicationPct > 50:
		score -= 20
	case f.DuplicationPct > 30:
		score -= 10
	}

	if f.HasMetadata {
		score += 2
	}

	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}

	rounded := int(math.Round(score))
	return TrustReport{Score: rounded, Grade: gradeFor(rounded)}
}

// gradeFor maps a score to its letter grade. Thresholds are evaluated
// high to low and do not overlap.
func gradeFor(score int) string {
	switch {
	case score >= 95:
		return "S"
	case score >= 80:
		return "A"
	case score >= 60:
		return "B"
	case score >= 40:
		return "C"
	default:
		return "F"
	}
}
