package tasks

import "fmt"

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
}

// Operation phase enumeration
type Phase int

const (
	WarmCache Phase = iota
	SweepSessions
	SweepCache
)

func (p Phase) String() string {
	switch p {
	case WarmCache:
		return "warm_cache"
	case SweepSessions:
		return "sweep_sessions"
	case SweepCache:
		return "sweep_cache"
	default:
		return ""
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

func warmUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WarmCache,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Warming tour cache...", step, total),
	}
}
