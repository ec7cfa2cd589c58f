package poc

import "fmt"

// ScanOutcome classifies a gallery tamper scan result.
type ScanOutcome string

const (
	ScanIntact     ScanOutcome = "intact"     // digest matches the stored record
	ScanTampered   ScanOutcome = "tampered"   // digest differs from the stored record
	ScanUnverified ScanOutcome = "unverified" // no record exists for this file
)

// ScanResult is the outcome of re-hashing a gallery file against its
// stored proof.
type ScanResult struct {
	Outcome       ScanOutcome
	RecordID      string // set when a record exists
	StoredDigest  string
	CurrentDigest string
}

// ScanFile re-hashes a media file and compares the digest against the
// stored capture record for that file reference. This is the gallery
// tamper scan: a second, simpler use of the same hashing primitive.
func (s *VerifyService) ScanFile(path *Path) (*ScanResult, error) {
	if path.IsDir() {
		return nil, fmt.Errorf("path is a directory, not a media file: %s", path.String())
	}

	digest, err := s.hasher.Hash(path)
	if err != nil {
		return nil, fmt.Errorf("hashing media: %w", err)
	}

	record, err := s.storage.FindByFileRef(path.String())
	if err != nil {
		return nil, fmt.Errorf("looking up record: %w", err)
	}
	if record == nil || record.Digest == "" {
		return &ScanResult{Outcome: ScanUnverified, CurrentDigest: digest}, nil
	}

	result := &ScanResult{
		RecordID:      record.ID,
		StoredDigest:  record.Digest,
		CurrentDigest: digest,
	}
	if digest == record.Digest {
		result.Outcome = ScanIntact
	} else {
		result.Outcome = ScanTampered
		s.logger.Warn("tampered media detected", "record", record.ID, "file", path.String())
	}
	return result, nil
}
