package poc

import "context"

// AnchorOutcome classifies the result of a ledger anchor attempt.
// The distinct outcomes matter: a duplicate digest is informational (the
// existing transaction is reused), while unavailability and insufficient
// funds are recoverable conditions that keep the pipeline moving.
type AnchorOutcome string

const (
	// Anchored: the proof transaction was included in the ledger.
	Anchored AnchorOutcome = "anchored"
	// AnchorAlreadyExists: the ledger already holds a proof for this
	// digest. TxRef carries the existing transaction reference.
	AnchorAlreadyExists AnchorOutcome = "already-exists"
	// AnchorUnavailable: the anchor service could not be reached or
	// rejected the transaction for a transient reason.
	AnchorUnavailable AnchorOutcome = "unavailable"
	// AnchorInsufficientFunds: the device wallet cannot pay the
	// transaction fee.
	AnchorInsufficientFunds AnchorOutcome = "insufficient-funds"
)

// AnchorResult is the tagged result of an anchor attempt.
type AnchorResult struct {
	Outcome  AnchorOutcome
	TxRef    string // set when Outcome is Anchored or AnchorAlreadyExists
	BlockRef int64  // set when Outcome is Anchored
	Detail   string // human-readable explanation for non-anchored outcomes
}

// AnchorClient submits a (digest, signature, public key) triple to an
// external ledger for tamper-evidence. Anchoring failure is a recoverable,
// user-visible condition, never pipeline-fatal: implementations report
// failures through the Outcome tag and return an error only for malformed
// input. The client does not deduplicate; the ledger enforces
// one-proof-per-digest and duplicates surface as AnchorAlreadyExists.
type AnchorClient interface {
	Anchor(ctx context.Context, digestHex, signatureHex, publicKeyHex string) (*AnchorResult, error)
}
