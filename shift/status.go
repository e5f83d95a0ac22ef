package shift

// Status task status
type Status int8

const (
	// Queued indicates that the task has been queued
	Queued Status = iota
	// Completed indicates that the dates of the task have been shifted successfully
	Completed
	// Cancelled indicates that the task has been cancelled by stopping the engine
	Cancelled
	// Failed indicates that the task has been failed
	Failed
)

// String returns the string representation of the task status
func (s Status) String() string {
	switch s {
	case Queued:
		return "queued"
	case Completed:
		return "completed"
	case Cancelled:
		return "cancelled"
	case Failed:
		return "failed"
	}
	return "unknown"
}
