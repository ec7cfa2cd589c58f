package poc

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
)

// Provenance describes the capturing device for a pipeline run.
type Provenance struct {
	DeviceID string
	Location *string
}

// VerifyService is the verification orchestrator. It sequences the
// pipeline stages for one capture, updates the live step list after every
// stage, persists the evolving record, and tolerates per-stage failure:
// expected degradations (anchor unavailable, oracle simulated, sync
// failure) keep the record moving forward with degraded data, while
// unexpected errors mark the record failed and propagate to the caller.
//
// Multiple VerifyService pipelines may run concurrently; each run owns
// its record exclusively, so no locking is needed beyond what the
// storage layer provides for upsert-by-id.
type VerifyService struct {
	storage      Storage
	hasher       Hasher
	signer       Signer
	anchor       AnchorClient
	authenticity AuthenticityClient
	originality  OriginalityClient
	syncer       Syncer
	fsmgr        FilesystemManager
	observer     ProgressObserver
	logger       Logger
	clock        Clock
	idgen        IDGenerator
}

// NewVerifyService creates a VerifyService with the provided dependencies.
// All collaborators are required; pass NewNopObserver / NewNopLogger when
// no UI or logging is attached.
func NewVerifyService(
	storage Storage,
	hasher Hasher,
	signer Signer,
	anchor AnchorClient,
	authenticity AuthenticityClient,
	originality OriginalityClient,
	syncer Syncer,
	fsmgr FilesystemManager,
	observer ProgressObserver,
	logger Logger,
	clock Clock,
	idgen IDGenerator,
) *VerifyService {
	return &VerifyService{
		storage:      storage,
		hasher:       hasher,
		signer:       signer,
		anchor:       anchor,
		authenticity: authenticity,
		originality:  originality,
		syncer:       syncer,
		fsmgr:        fsmgr,
		observer:     observer,
		logger:       logger,
		clock:        clock,
		idgen:        idgen,
	}
}

// run carries the mutable state of a single pipeline execution.
type run struct {
	svc    *VerifyService
	record *CaptureRecord
	steps  []VerificationStep
}

// Verify executes the full verification pipeline for the given media file
// and returns the finished record. Stages run strictly sequentially; each
// stage's output feeds the next. On an unexpected stage error the record
// is marked failed, persisted, and the error is returned.
func (s *VerifyService) Verify(ctx context.Context, path *Path, prov Provenance) (*CaptureRecord, error) {
	if path.IsDir() {
		return nil, fmt.Errorf("path is a directory, not a media file: %s", path.String())
	}

	now := s.clock.Now()
	record := &CaptureRecord{
		ID:          RecordID(now, s.idgen),
		FileRef:     path.String(),
		DisplayName: filepath.Base(path.String()),
		Kind:        s.fsmgr.MediaKind(path),
		SizeBytes:   path.Info().Size(),
		Status:      StatusVerifying,
		DeviceID:    prov.DeviceID,
		Location:    prov.Location,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	// Persist the zeroed record before any stage runs so a crash
	// mid-pipeline still leaves a recoverable partial record.
	if err := s.storage.Upsert(record); err != nil {
		return nil, fmt.Errorf("persisting initial record: %w", err)
	}

	r := &run{svc: s, record: record, steps: NewSteps()}
	r.notify()

	s.logger.Info("verification started", "record", record.ID, "file", record.DisplayName, "kind", record.Kind)

	// Stage 1: content hash. Unexpected failure is fatal.
	r.start(StepHash)
	digest, err := s.hasher.Hash(path)
	if err != nil {
		return nil, r.fatal(StepHash, fmt.Errorf("hashing media: %w", err))
	}
	record.Digest = digest
	r.succeed(StepHash, "sha256 "+shortHex(digest))

	// Stage 2: device signature. Missing key is fatal — key generation
	// is an explicit onboarding action, not something to do mid-run.
	r.start(StepSign)
	signature, err := s.signer.Sign(digest)
	if err != nil {
		return nil, r.fatal(StepSign, fmt.Errorf("signing digest: %w", err))
	}
	publicKey, err := s.signer.PublicKey()
	if err != nil {
		return nil, r.fatal(StepSign, fmt.Errorf("reading public key: %w", err))
	}
	record.Signature = signature
	record.PublicKey = publicKey
	r.succeed(StepSign, "signed with key "+shortHex(publicKey))

	// Stage 3: ledger anchor. Never fatal: every outcome other than
	// Anchored/AlreadyExists leaves the record un-anchored and moves on.
	r.start(StepAnchor)
	s.anchorStage(ctx, r)

	// Read the media bytes once for both oracle stages. A read failure
	// here degrades the oracles to simulated estimates rather than
	// aborting a pipeline that already produced a digest and signature.
	media, readErr := s.readMedia(path)
	if readErr != nil {
		s.logger.Warn("media re-read failed, oracles will simulate", "record", record.ID, "error", readErr)
	}

	// Stage 4: authenticity oracle.
	r.start(StepAuthenticity)
	s.authenticityStage(ctx, r, media)

	// Stage 5: originality oracle.
	r.start(StepOriginality)
	s.originalityStage(ctx, r, media)

	// Stage 6: trust score. Pure computation over the collected factors.
	r.start(StepScore)
	report := ScoreTrust(TrustFactors{
		HashVerified:    record.Digest != "",
		SignatureValid:  s.signer.Verify(record.Digest, record.Signature, record.PublicKey),
		LedgerAnchored:  record.Anchored(),
		SyntheticScore:  record.SyntheticScore,
		GenerativeScore: record.GenerativeScore,
		DuplicationPct:  record.DuplicationPct,
		HasMetadata:     record.HasMetadata(),
	})
	record.TrustScore = report.Score
	record.TrustGrade = report.Grade
	r.succeed(StepScore, fmt.Sprintf("trust score %d (%s)", report.Score, report.Grade))

	// Stage 7: watermark. Only image records get the visible watermark;
	// videos still receive the invisible watermark identifier.
	r.start(StepWatermark)
	record.WatermarkID = "wm-" + s.idgen.New()
	if record.Kind == MediaImage {
		r.succeed(StepWatermark, "visible and invisible watermark applied")
	} else {
		r.succeed(StepWatermark, "invisible watermark only (video)")
	}

	// Stage 8: cloud sync. Best-effort; failure changes only the detail.
	r.start(StepCloudSync)
	s.syncStage(ctx, r, path)

	record.Status = StatusVerified
	record.UpdatedAt = s.clock.Now()
	if err := s.storage.Upsert(record); err != nil {
		return nil, fmt.Errorf("persisting verified record: %w", err)
	}

	s.logger.Info("verification finished", "record", record.ID, "score", record.TrustScore, "grade", record.TrustGrade)
	return record, nil
}

// anchorStage submits the proof triple to the ledger and records the
// tagged outcome. A thrown error and a non-anchored outcome are treated
// identically: not anchored, continue.
func (s *VerifyService) anchorStage(ctx context.Context, r *run) {
	record := r.record

	result, err := s.anchor.Anchor(ctx, record.Digest, record.Signature, record.PublicKey)
	if err != nil {
		s.logger.Warn("anchor call failed", "record", record.ID, "error", err)
		r.fail(StepAnchor, "Failed — will retry: "+err.Error())
		return
	}

	switch result.Outcome {
	case Anchored:
		tx := result.TxRef
		block := result.BlockRef
		record.AnchorTx = &tx
		record.AnchorBlock = &block
		r.succeed(StepAnchor, "tx "+shortHex(tx))
	case AnchorAlreadyExists:
		// The ledger enforces one proof per digest. Reuse the existing
		// transaction reference instead of discarding it.
		tx := result.TxRef
		record.AnchorTx = &tx
		r.succeed(StepAnchor, "already anchored: tx "+shortHex(tx))
	case AnchorInsufficientFunds:
		detail := result.Detail
		if detail == "" {
			detail = "Insufficient funds — obtain test funds from a faucet and retry"
		}
		r.fail(StepAnchor, detail)
	default: // AnchorUnavailable
		detail := result.Detail
		if detail == "" {
			detail = "Anchor service unavailable — proof not recorded on ledger"
		}
		r.fail(StepAnchor, detail)
	}
}

// authenticityStage runs the synthetic-media classifier and records its
// scores. A simulated estimate marks the step error so the degraded path
// is always visible, but the scores are still recorded and used.
func (s *VerifyService) authenticityStage(ctx context.Context, r *run, media []byte) {
	record := r.record

	result, err := s.authenticity.DetectSynthetic(ctx, media)
	if err != nil {
		s.logger.Warn("authenticity oracle failed", "record", record.ID, "error", err)
		r.fail(StepAuthenticity, "Authenticity check failed: "+err.Error())
		return
	}

	record.SyntheticScore = result.SyntheticScore
	record.GenerativeScore = result.GenerativeScore
	if result.Simulated {
		record.OracleSimulated = true
		r.fail(StepAuthenticity, "Simulated — authenticity API unavailable")
		return
	}
	r.succeed(StepAuthenticity, fmt.Sprintf("synthetic %.0f%%, generative %.0f%%",
		result.SyntheticScore*100, result.GenerativeScore*100))
}

// originalityStage runs the similarity-search classifier.
func (s *VerifyService) originalityStage(ctx context.Context, r *run, media []byte) {
	record := r.record

	result, err := s.originality.CheckOriginality(ctx, media)
	if err != nil {
		s.logger.Warn("originality oracle failed", "record", record.ID, "error", err)
		r.fail(StepOriginality, "Originality check failed: "+err.Error())
		return
	}

	record.DuplicationPct = result.MatchPercentage
	if result.Simulated {
		record.OracleSimulated = true
		r.fail(StepOriginality, "Simulated — originality API unavailable")
		return
	}
	if result.IsOriginal {
		r.succeed(StepOriginality, fmt.Sprintf("match %.0f%% (original)", result.MatchPercentage))
	} else {
		r.succeed(StepOriginality, fmt.Sprintf("match %.0f%% (duplicate content found)", result.MatchPercentage))
	}
}

// syncStage uploads the record and media to the cloud backend.
func (s *VerifyService) syncStage(ctx context.Context, r *run, path *Path) {
	record := r.record

	f, err := s.fsmgr.Open(path)
	if err != nil {
		r.fail(StepCloudSync, "Sync skipped — media unreadable")
		return
	}
	defer f.Close()

	if err := s.syncer.SyncRecord(ctx, record, f, record.SizeBytes); err != nil {
		s.logger.Warn("cloud sync failed", "record", record.ID, "error", err)
		r.fail(StepCloudSync, "Sync failed — will retry on next run")
		return
	}
	r.succeed(StepCloudSync, "record and media synced")
}

// readMedia loads the full media bytes for the oracle stages.
func (s *VerifyService) readMedia(path *Path) ([]byte, error) {
	f, err := s.fsmgr.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// GetRecord returns a record by id, or nil if it does not exist.
func (s *VerifyService) GetRecord(id string) (*CaptureRecord, error) {
	return s.storage.Get(id)
}

// ListRecords returns all records with the given status, newest first.
func (s *VerifyService) ListRecords(status RecordStatus) ([]*CaptureRecord, error) {
	return s.storage.ListByStatus(status)
}

// GetStats returns aggregate counts over the record store.
func (s *VerifyService) GetStats() (*StorageStats, error) {
	return s.storage.Stats()
}

// start marks a step running and notifies the observer. At most one step
// is running at a time; the pipeline only calls start after the previous
// step reached success or error.
func (r *run) start(name string) {
	r.setStep(name, StepRunning, "")
}

// succeed marks a step successful, notifies, and persists the record.
func (r *run) succeed(name, detail string) {
	r.setStep(name, StepSuccess, detail)
	r.persist()
}

// fail marks a step as errored without aborting the pipeline.
func (r *run) fail(name, detail string) {
	r.setStep(name, StepError, detail)
	r.persist()
}

// fatal marks the current step errored, marks the record failed, persists
// it, and returns the error for the caller.
func (r *run) fatal(name string, err error) error {
	r.setStep(name, StepError, err.Error())
	r.record.Status = StatusFailed
	r.record.UpdatedAt = r.svc.clock.Now()
	if perr := r.svc.storage.Upsert(r.record); perr != nil {
		r.svc.logger.Error("persisting failed record", "record", r.record.ID, "error", perr)
	}
	r.svc.logger.Error("verification failed", "record", r.record.ID, "step", name, "error", err)
	return err
}

func (r *run) setStep(name string, status StepStatus, detail string) {
	for i := range r.steps {
		if r.steps[i].Name == name {
			r.steps[i].Status = status
			if detail != "" {
				r.steps[i].Detail = detail
			}
			break
		}
	}
	r.notify()
}

// notify pushes a copy of the step list to the observer so it cannot
// mutate pipeline state.
func (r *run) notify() {
	snapshot := make([]VerificationStep, len(r.steps))
	copy(snapshot, r.steps)
	r.svc.observer.OnStep(snapshot)
}

// persist saves the evolving record mid-pipeline. Persistence errors here
// are logged but not fatal; the terminal upsert surfaces any real storage
// problem.
func (r *run) persist() {
	r.record.UpdatedAt = r.svc.clock.Now()
	if err := r.svc.storage.Upsert(r.record); err != nil {
		r.svc.logger.Error("persisting record", "record", r.record.ID, "error", err)
	}
}

// shortHex truncates a hex string for display in step details.
func shortHex(s string) string {
	if len(s) <= 16 {
		return s
	}
	return s[:16]
}
