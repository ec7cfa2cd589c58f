package poc_test

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"poc-go/internal/hashing"
	"poc-go/internal/keystore"
	"poc-go/internal/poc"
	"poc-go/internal/signing"
	"poc-go/internal/storage"
	"poc-go/internal/testutil"
)

// pipelineEnv wires a VerifyService with in-memory collaborators and
// scripted oracle, anchor, and sync fakes. Every fake defaults to the
// fully successful path; individual tests override what they need.
type pipelineEnv struct {
	storage  *storage.MemoryStorage
	signer   *signing.Ed25519Signer
	fsmgr    *testutil.MockFilesystemManager
	anchor   *testutil.FakeAnchorClient
	auth     *testutil.FakeAuthenticityClient
	orig     *testutil.FakeOriginalityClient
	syncer   *testutil.FakeSyncer
	observer *testutil.RecordingObserver
	svc      *poc.VerifyService
}

func newPipelineEnv(t *testing.T) *pipelineEnv {
	t.Helper()

	keys := keystore.NewMemoryKeyStore()
	signer := signing.NewEd25519Signer(keys)
	if err := signer.Setup(); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}

	env := &pipelineEnv{
		storage:  storage.NewMemoryStorage(),
		signer:   signer,
		fsmgr:    testutil.NewMockFilesystemManager(),
		anchor:   testutil.AnchorSuccess("0xf00dfeedf00dfeedf00dfeed", 4231),
		auth:     &testutil.FakeAuthenticityClient{Result: &poc.AuthenticityResult{SyntheticScore: 0.1, GenerativeScore: 0.05}},
		orig:     &testutil.FakeOriginalityClient{Result: &poc.OriginalityResult{MatchPercentage: 5, IsOriginal: true}},
		syncer:   &testutil.FakeSyncer{},
		observer: &testutil.RecordingObserver{},
	}
	env.rebuild()
	return env
}

// rebuild recreates the service after a test swaps a collaborator.
func (env *pipelineEnv) rebuild() {
	env.svc = poc.NewVerifyService(
		env.storage,
		hashing.NewSHA256Hasher(env.fsmgr),
		env.signer,
		env.anchor,
		env.auth,
		env.orig,
		env.syncer,
		env.fsmgr,
		env.observer,
		poc.NewNopLogger(),
		testutil.FixedClock(),
		testutil.NewStubIDGenerator(),
	)
}

func (env *pipelineEnv) addMedia(t *testing.T, name string, content []byte) *poc.Path {
	t.Helper()
	env.fsmgr.AddFile(name, content)
	path, err := env.fsmgr.Resolve(name)
	if err != nil {
		t.Fatalf("Resolve(%q) error = %v", name, err)
	}
	return path
}

func testProvenance() poc.Provenance {
	location := "59.3293,18.0686"
	return poc.Provenance{DeviceID: "device-1", Location: &location}
}

func stepByName(t *testing.T, steps []poc.VerificationStep, name string) poc.VerificationStep {
	t.Helper()
	for _, s := range steps {
		if s.Name == name {
			return s
		}
	}
	t.Fatalf("no step named %q", name)
	return poc.VerificationStep{}
}

func TestVerify_HappyPath(t *testing.T) {
	env := newPipelineEnv(t)
	path := env.addMedia(t, "/gallery/sunset.jpg", []byte("sunset pixels"))

	record, err := env.svc.Verify(context.Background(), path, testProvenance())
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}

	if record.Status != poc.StatusVerified {
		t.Errorf("status = %s, want %s", record.Status, poc.StatusVerified)
	}
	if record.Kind != poc.MediaImage {
		t.Errorf("kind = %s, want %s", record.Kind, poc.MediaImage)
	}
	if len(record.Digest) != 64 {
		t.Errorf("digest length = %d, want 64", len(record.Digest))
	}
	if !env.signer.Verify(record.Digest, record.Signature, record.PublicKey) {
		t.Error("stored signature does not verify against stored digest and public key")
	}
	if !record.Anchored() {
		t.Fatal("record not anchored")
	}
	if *record.AnchorTx != "0xf00dfeedf00dfeedf00dfeed" {
		t.Errorf("anchor tx = %s, want 0xf00dfeedf00dfeedf00dfeed", *record.AnchorTx)
	}
	if record.AnchorBlock == nil || *record.AnchorBlock != 4231 {
		t.Errorf("anchor block = %v, want 4231", record.AnchorBlock)
	}
	if record.TrustScore != 100 || record.TrustGrade != "S" {
		t.Errorf("trust = %d (%s), want 100 (S)", record.TrustScore, record.TrustGrade)
	}
	if !strings.HasPrefix(record.WatermarkID, "wm-") {
		t.Errorf("watermark id = %q, want wm- prefix", record.WatermarkID)
	}
	if record.OracleSimulated {
		t.Error("OracleSimulated = true for live oracle results")
	}

	// Every step finished successfully.
	for _, s := range env.observer.Final() {
		if s.Status != poc.StepSuccess {
			t.Errorf("step %s = %s (%s), want %s", s.Name, s.Status, s.Detail, poc.StepSuccess)
		}
	}

	// The record and media were pushed to the cloud backend.
	if len(env.syncer.Synced) != 1 || env.syncer.Synced[0] != record.ID {
		t.Errorf("synced = %v, want [%s]", env.syncer.Synced, record.ID)
	}

	// The terminal state is persisted.
	stored, err := env.storage.Get(record.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if stored == nil || stored.Status != poc.StatusVerified || stored.TrustScore != record.TrustScore {
		t.Errorf("stored record = %+v, want terminal copy of returned record", stored)
	}
}

func TestVerify_AnchorUnavailable(t *testing.T) {
	env := newPipelineEnv(t)
	env.anchor = testutil.AnchorUnavailable()
	env.rebuild()
	path := env.addMedia(t, "/gallery/sunset.jpg", []byte("sunset pixels"))

	record, err := env.svc.Verify(context.Background(), path, testProvenance())
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}

	if record.Status != poc.StatusVerified {
		t.Errorf("status = %s, want %s", record.Status, poc.StatusVerified)
	}
	if record.Anchored() {
		t.Error("record anchored despite unavailable gateway")
	}
	// 100 - 10 (no anchor) + 2 (metadata) = 92.
	if record.TrustScore != 92 || record.TrustGrade != "A" {
		t.Errorf("trust = %d (%s), want 92 (A)", record.TrustScore, record.TrustGrade)
	}

	step := stepByName(t, env.observer.Final(), poc.StepAnchor)
	if step.Status != poc.StepError {
		t.Errorf("anchor step = %s, want %s", step.Status, poc.StepError)
	}
}

func TestVerify_AnchorAlreadyExists(t *testing.T) {
	env := newPipelineEnv(t)
	env.anchor = &testutil.FakeAnchorClient{Result: &poc.AnchorResult{
		Outcome: poc.AnchorAlreadyExists,
		TxRef:   "0xexisting",
	}}
	env.rebuild()
	path := env.addMedia(t, "/gallery/sunset.jpg", []byte("sunset pixels"))

	record, err := env.svc.Verify(context.Background(), path, testProvenance())
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}

	if !record.Anchored() || *record.AnchorTx != "0xexisting" {
		t.Errorf("anchor tx = %v, want reuse of existing tx", record.AnchorTx)
	}
	if record.AnchorBlock != nil {
		t.Errorf("anchor block = %v, want nil for duplicate anchor", *record.AnchorBlock)
	}

	step := stepByName(t, env.observer.Final(), poc.StepAnchor)
	if step.Status != poc.StepSuccess {
		t.Errorf("anchor step = %s (%s), want %s", step.Status, step.Detail, poc.StepSuccess)
	}
	if !strings.Contains(step.Detail, "already anchored") {
		t.Errorf("anchor detail = %q, want mention of existing anchor", step.Detail)
	}
}

func TestVerify_AnchorInsufficientFunds(t *testing.T) {
	env := newPipelineEnv(t)
	env.anchor = &testutil.FakeAnchorClient{Result: &poc.AnchorResult{
		Outcome: poc.AnchorInsufficientFunds,
		Detail:  "Insufficient funds — obtain test funds from a faucet and retry",
	}}
	env.rebuild()
	path := env.addMedia(t, "/gallery/sunset.jpg", []byte("sunset pixels"))

	record, err := env.svc.Verify(context.Background(), path, testProvenance())
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if record.Anchored() {
		t.Error("record anchored despite insufficient funds")
	}

	step := stepByName(t, env.observer.Final(), poc.StepAnchor)
	if step.Status != poc.StepError || !strings.Contains(step.Detail, "faucet") {
		t.Errorf("anchor step = %s (%q), want error with faucet advice", step.Status, step.Detail)
	}
}

func TestVerify_AnchorClientError(t *testing.T) {
	env := newPipelineEnv(t)
	env.anchor = &testutil.FakeAnchorClient{Err: errors.New("malformed digest")}
	env.rebuild()
	path := env.addMedia(t, "/gallery/sunset.jpg", []byte("sunset pixels"))

	record, err := env.svc.Verify(context.Background(), path, testProvenance())
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if record.Status != poc.StatusVerified || record.Anchored() {
		t.Errorf("record = %s anchored=%v, want verified and un-anchored", record.Status, record.Anchored())
	}
}

func TestVerify_SimulatedOracles(t *testing.T) {
	env := newPipelineEnv(t)
	env.auth = &testutil.FakeAuthenticityClient{Result: &poc.AuthenticityResult{
		SyntheticScore: 0.12, GenerativeScore: 0.07, Simulated: true,
	}}
	env.orig = &testutil.FakeOriginalityClient{Result: &poc.OriginalityResult{
		MatchPercentage: 8, IsOriginal: true, Simulated: true,
	}}
	env.rebuild()
	path := env.addMedia(t, "/gallery/sunset.jpg", []byte("sunset pixels"))

	record, err := env.svc.Verify(context.Background(), path, testProvenance())
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}

	if record.Status != poc.StatusVerified {
		t.Errorf("status = %s, want %s", record.Status, poc.StatusVerified)
	}
	if !record.OracleSimulated {
		t.Error("OracleSimulated = false, want true")
	}
	if record.SyntheticScore != 0.12 || record.GenerativeScore != 0.07 || record.DuplicationPct != 8 {
		t.Errorf("scores = %.2f/%.2f/%.0f, want simulated estimates recorded", record.SyntheticScore, record.GenerativeScore, record.DuplicationPct)
	}

	final := env.observer.Final()
	for _, name := range []string{poc.StepAuthenticity, poc.StepOriginality} {
		step := stepByName(t, final, name)
		if step.Status != poc.StepError || !strings.Contains(step.Detail, "Simulated") {
			t.Errorf("step %s = %s (%q), want error marked Simulated", name, step.Status, step.Detail)
		}
	}
}

func TestVerify_OracleHardFailure(t *testing.T) {
	env := newPipelineEnv(t)
	env.auth = &testutil.FakeAuthenticityClient{Err: errors.New("boom")}
	env.rebuild()
	path := env.addMedia(t, "/gallery/sunset.jpg", []byte("sunset pixels"))

	record, err := env.svc.Verify(context.Background(), path, testProvenance())
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if record.Status != poc.StatusVerified {
		t.Errorf("status = %s, want %s", record.Status, poc.StatusVerified)
	}
	if record.SyntheticScore != 0 || record.GenerativeScore != 0 {
		t.Errorf("scores = %.2f/%.2f, want zero when the oracle fails outright", record.SyntheticScore, record.GenerativeScore)
	}

	step := stepByName(t, env.observer.Final(), poc.StepAuthenticity)
	if step.Status != poc.StepError {
		t.Errorf("authenticity step = %s, want %s", step.Status, poc.StepError)
	}
}

func TestVerify_HashFailureIsFatal(t *testing.T) {
	env := newPipelineEnv(t)
	path := env.addMedia(t, "/gallery/sunset.jpg", []byte("sunset pixels"))
	env.fsmgr.OpenErr = errors.New("i/o error")

	_, err := env.svc.Verify(context.Background(), path, testProvenance())
	if err == nil {
		t.Fatal("Verify() error = nil, want unreadable-media error")
	}
	if !errors.Is(err, poc.ErrUnreadable) {
		t.Errorf("Verify() error = %v, want wrapped ErrUnreadable", err)
	}

	// The record was persisted in the failed state.
	failed, err := env.storage.ListByStatus(poc.StatusFailed)
	if err != nil {
		t.Fatalf("ListByStatus() error = %v", err)
	}
	if len(failed) != 1 {
		t.Fatalf("failed records = %d, want 1", len(failed))
	}

	step := stepByName(t, env.observer.Final(), poc.StepHash)
	if step.Status != poc.StepError {
		t.Errorf("hash step = %s, want %s", step.Status, poc.StepError)
	}
}

func TestVerify_MissingKeyIsFatal(t *testing.T) {
	env := newPipelineEnv(t)
	env.signer = signing.NewEd25519Signer(keystore.NewMemoryKeyStore())
	env.rebuild()
	path := env.addMedia(t, "/gallery/sunset.jpg", []byte("sunset pixels"))

	_, err := env.svc.Verify(context.Background(), path, testProvenance())
	if !errors.Is(err, poc.ErrNoKey) {
		t.Fatalf("Verify() error = %v, want wrapped ErrNoKey", err)
	}

	failed, err := env.storage.ListByStatus(poc.StatusFailed)
	if err != nil {
		t.Fatalf("ListByStatus() error = %v", err)
	}
	if len(failed) != 1 {
		t.Fatalf("failed records = %d, want 1", len(failed))
	}
}

func TestVerify_SyncFailureKeepsRecordVerified(t *testing.T) {
	env := newPipelineEnv(t)
	env.syncer = &testutil.FakeSyncer{Err: errors.New("bucket unreachable")}
	env.rebuild()
	path := env.addMedia(t, "/gallery/sunset.jpg", []byte("sunset pixels"))

	record, err := env.svc.Verify(context.Background(), path, testProvenance())
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if record.Status != poc.StatusVerified {
		t.Errorf("status = %s, want %s", record.Status, poc.StatusVerified)
	}

	step := stepByName(t, env.observer.Final(), poc.StepCloudSync)
	if step.Status != poc.StepError {
		t.Errorf("cloud-sync step = %s, want %s", step.Status, poc.StepError)
	}
}

func TestVerify_VideoWatermark(t *testing.T) {
	env := newPipelineEnv(t)
	path := env.addMedia(t, "/gallery/clip.mp4", []byte("frames"))

	record, err := env.svc.Verify(context.Background(), path, testProvenance())
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}

	if record.Kind != poc.MediaVideo {
		t.Errorf("kind = %s, want %s", record.Kind, poc.MediaVideo)
	}
	step := stepByName(t, env.observer.Final(), poc.StepWatermark)
	if !strings.Contains(step.Detail, "invisible watermark only") {
		t.Errorf("watermark detail = %q, want video-only wording", step.Detail)
	}
}

func TestVerify_NoMetadataBonusWithoutLocation(t *testing.T) {
	env := newPipelineEnv(t)
	env.anchor = testutil.AnchorUnavailable()
	env.rebuild()
	path := env.addMedia(t, "/gallery/sunset.jpg", []byte("sunset pixels"))

	record, err := env.svc.Verify(context.Background(), path, poc.Provenance{DeviceID: "device-1"})
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	// 100 - 10 (no anchor), no metadata bonus without a location.
	if record.TrustScore != 90 {
		t.Errorf("trust score = %d, want 90", record.TrustScore)
	}
}

func TestVerify_RejectsDirectory(t *testing.T) {
	env := newPipelineEnv(t)

	info, err := os.Stat(t.TempDir())
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	dir := poc.NewPath("/gallery", true, info)

	if _, err := env.svc.Verify(context.Background(), dir, testProvenance()); err == nil {
		t.Fatal("Verify() error = nil, want directory rejection")
	}
}

func TestVerify_StepProgressNeverRegresses(t *testing.T) {
	env := newPipelineEnv(t)
	env.anchor = testutil.AnchorUnavailable()
	env.rebuild()
	path := env.addMedia(t, "/gallery/sunset.jpg", []byte("sunset pixels"))

	if _, err := env.svc.Verify(context.Background(), path, testProvenance()); err != nil {
		t.Fatalf("Verify() error = %v", err)
	}

	rank := map[poc.StepStatus]int{
		poc.StepWaiting: 0,
		poc.StepRunning: 1,
		poc.StepSuccess: 2,
		poc.StepError:   2,
	}

	last := map[string]poc.StepStatus{}
	for i, snapshot := range env.observer.Snapshots {
		for _, s := range snapshot {
			if prev, ok := last[s.Name]; ok {
				if rank[s.Status] < rank[prev] {
					t.Fatalf("snapshot %d: step %s regressed from %s to %s", i, s.Name, prev, s.Status)
				}
				if rank[prev] == 2 && s.Status != prev {
					t.Fatalf("snapshot %d: step %s changed terminal status from %s to %s", i, s.Name, prev, s.Status)
				}
			}
			last[s.Name] = s.Status
		}
	}

	// Every step reached a terminal status by the final snapshot.
	for _, s := range env.observer.Final() {
		if s.Status != poc.StepSuccess && s.Status != poc.StepError {
			t.Errorf("step %s finished as %s, want terminal status", s.Name, s.Status)
		}
	}
}
