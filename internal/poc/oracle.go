package poc

import "context"

// AuthenticityResult carries the two independent classifier scores.
// Simulated must never be dropped silently: a simulated estimate is a
// first-class, user-visible fact, not a logging side note.
type AuthenticityResult struct {
	SyntheticScore  float64 // synthetic-face likelihood in [0,1]
	GenerativeScore float64 // generative-origin likelihood in [0,1]
	Simulated       bool    // true if the service was unreachable and the scores are a local estimate
}

// OriginalityResult carries the similarity-search classifier output.
type OriginalityResult struct {
	MatchPercentage float64 // duplication percentage in [0,100]
	IsOriginal      bool    // MatchPercentage below the originality threshold
	Sources         []string
	Simulated       bool
}

// AuthenticityClient submits media bytes to an external classifier and
// returns synthetic-face and generative-origin likelihoods. On timeout,
// transport error, or empty input it degrades to a clearly-flagged
// simulated estimate instead of failing — the authenticity signal is
// advisory, not a hard gate. Implementations never return an error for
// service unavailability.
type AuthenticityClient interface {
	DetectSynthetic(ctx context.Context, media []byte) (*AuthenticityResult, error)
}

// OriginalityClient submits media bytes to a similarity-search classifier
// and returns a duplication percentage. Same timeout and degrade-to-
// simulated discipline as AuthenticityClient. The originality threshold
// (match < 20%) is owned by the client, since IsOriginal is consumed for
// display.
type OriginalityClient interface {
	CheckOriginality(ctx context.Context, media []byte) (*OriginalityResult, error)
}
