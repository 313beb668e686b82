package constants

// Upload session lifecycle. Transitions only move forward; Completed and
// Aborted are final. Failed refuses chunks but may still be finalized
// again or aborted.
const (
	StatusReceiving  = "receiving"
	StatusAssembling = "assembling"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
	StatusAborted    = "aborted"
)

const (
	StatusOK = "ok"
)

// IsTerminal reports whether a session status admits no further transitions.
func IsTerminal(status string) bool {
	switch status {
	case StatusCompleted, StatusFailed, StatusAborted:
		return true
	}
	return false
}
