package review

// Step identifies a phase of the review-branch operation. The use case emits
// each step through the progress callback before performing its work, keeping
// presentation concerns out of the core.
type Step int

// Steps, in execution order. Pushing only fires when a push was requested;
// Failed is reachable from any step.
const (
	StepValidatingWorkingTree Step = iota
	StepValidatingRange
	StepInjectingIdentities
	StepStagingCommits
	StepNamingBranch
	StepRecordingTracking
	StepPushing
	StepCleaningUp
	StepDone
	StepFailed
)

func (s Step) String() string {
	switch s {
	case StepValidatingWorkingTree:
		return "validating working tree"
	case StepValidatingRange:
		return "validating commit range"
	case StepInjectingIdentities:
		return "injecting identities"
	case StepStagingCommits:
		return "staging commits"
	case StepNamingBranch:
		return "creating review branch"
	case StepRecordingTracking:
		return "recording tracking data"
	case StepPushing:
		return "pushing"
	case StepCleaningUp:
		return "cleaning up"
	case StepDone:
		return "done"
	case StepFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ProgressFunc receives each step transition. May be nil.
type ProgressFunc func(step Step)
