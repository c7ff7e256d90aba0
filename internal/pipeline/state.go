// Package pipeline orchestrates the weekly sales report run: aggregate
// a week of orders, rank best sellers, fetch images, render the PDF,
// persist it, and email it out.
package pipeline

// State identifies a stage of the report run.
type State int

// Pipeline states in execution order. Failed is terminal and reachable
// from any stage whose failure is fatal.
const (
	StateIdle State = iota
	StateQuerying
	StateAggregating
	StateSelecting
	StateFetchingAssets
	StateRendering
	StatePersisting
	StateRecordingMetadata
	StateRetrieving
	StateDispatching
	StateCompleted
	StateFailed
)

var stateNames = map[State]string{
	StateIdle:              "idle",
	StateQuerying:          "querying",
	StateAggregating:       "aggregating",
	StateSelecting:         "selecting",
	StateFetchingAssets:    "fetching_assets",
	StateRendering:         "rendering",
	StatePersisting:        "persisting",
	StateRecordingMetadata: "recording_metadata",
	StateRetrieving:        "retrieving",
	StateDispatching:       "dispatching",
	StateCompleted:         "completed",
	StateFailed:            "failed",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// Outcome tags the result of one stage so the orchestrator's failure
// policy is explicit rather than relying on error propagation alone.
type Outcome int

const (
	// OutcomeOK means the stage completed cleanly.
	OutcomeOK Outcome = iota
	// OutcomeDegraded means the stage substituted safe defaults for
	// tolerated failures and the run continues.
	OutcomeDegraded
	// OutcomeFatal aborts the run.
	OutcomeFatal
)

// StageResult records how one stage ended.
type StageResult struct {
	Stage   State
	Outcome Outcome
	Note    string
	Err     error
}
