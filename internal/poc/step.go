package poc

// StepStatus is the status of a single verification step.
// Steps transition waiting → running → (success | error) and never regress.
type StepStatus string

const (
	StepWaiting StepStatus = "waiting"
	StepRunning StepStatus = "running"
	StepSuccess StepStatus = "success"
	StepError   StepStatus = "error"
)

// Step names, in pipeline order.
const (
	StepHash         = "hash"
	StepSign         = "sign"
	StepAnchor       = "anchor"
	StepAuthenticity = "authenticity-check"
	StepOriginality  = "originality-check"
	StepScore        = "score"
	StepWatermark    = "watermark"
	StepCloudSync    = "cloud-sync"
)

// stepOrder is the fixed sequence of pipeline steps. Stage ordering is not
// configurable at runtime.
var stepOrder = []string{
	StepHash,
	StepSign,
	StepAnchor,
	StepAuthenticity,
	StepOriginality,
	StepScore,
	StepWatermark,
	StepCloudSync,
}

// VerificationStep is the live progress state of one pipeline stage.
// The step list is ephemeral: it exists for the duration of a run and is
// pushed to the progress observer after every transition.
type VerificationStep struct {
	Name   string
	Status StepStatus
	Detail string
}

// NewSteps returns the fixed ordered step list with all steps waiting.
func NewSteps() []VerificationStep {
	steps := make([]VerificationStep, len(stepOrder))
	for i, name := range stepOrder {
		steps[i] = VerificationStep{Name: name, Status: StepWaiting}
	}
	return steps
}

// ProgressObserver receives a snapshot of the full step list after every
// step transition. Implementations must not block for long and must not
// panic; the pipeline calls them synchronously. The slice passed is a copy
// owned by the observer.
type ProgressObserver interface {
	OnStep(steps []VerificationStep)
}

// NopObserver discards all progress updates. Use when no UI is attached.
type NopObserver struct{}

func NewNopObserver() *NopObserver { return &NopObserver{} }

func (*NopObserver) OnStep([]VerificationStep) {}
