package poc

import "time"

// MediaKind identifies the type of captured media.
type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
)

// RecordStatus is the lifecycle status of a CaptureRecord.
// Transitions are monotonic: pending → verifying → (verified | failed).
// A record never reverts from verified or failed.
type RecordStatus string

const (
	StatusPending   RecordStatus = "pending"
	StatusVerifying RecordStatus = "verifying"
	StatusVerified  RecordStatus = "verified"
	StatusFailed    RecordStatus = "failed"
)

// CaptureRecord is the central entity: one per captured or imported media
// item. It is created once at pipeline start and mutated field-by-field as
// each stage completes. The pipeline instance owns the record exclusively
// for the duration of one run; afterwards the storage layer owns it.
type CaptureRecord struct {
	ID          string
	FileRef     string // absolute path to the media file as captured
	DisplayName string
	Kind        MediaKind
	SizeBytes   int64

	// Cryptographic attributes. Hex strings, empty until computed.
	Digest    string
	Signature string
	PublicKey string

	// Ledger attributes. Nil means "not yet anchored", which is distinct
	// from "anchoring failed" (failure is visible only via step status).
	AnchorTx    *string
	AnchorBlock *int64

	// Oracle attributes.
	SyntheticScore  float64 // synthetic-face likelihood in [0,1]
	GenerativeScore float64 // generative-origin likelihood in [0,1]
	DuplicationPct  float64 // similarity match percentage in [0,100]
	OracleSimulated bool    // true if any oracle result was locally simulated

	// Derived attributes.
	TrustScore  int // 0–100
	TrustGrade  string
	WatermarkID string

	Status RecordStatus

	// Provenance.
	DeviceID  string
	Location  *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Anchored reports whether the record carries a ledger transaction reference.
func (r *CaptureRecord) Anchored() bool {
	return r.AnchorTx != nil && *r.AnchorTx != ""
}

// HasMetadata reports whether provenance metadata is present.
func (r *CaptureRecord) HasMetadata() bool {
	return r.DeviceID != "" && r.Location != nil && *r.Location != ""
}

// TrustFactors is the value object consumed by the trust score engine.
// It is assembled by the pipeline from the outputs of the prior stages
// and never persisted independently.
type TrustFactors struct {
	HashVerified    bool
	SignatureValid  bool
	LedgerAnchored  bool
	SyntheticScore  float64
	GenerativeScore float64
	DuplicationPct  float64
	HasMetadata     bool
}
