package shift

// MetadataMap the custom data a tap attaches to its work units
type MetadataMap map[string]interface{}

// CallbackFunc is a callback function which will get called by the engine once
// the processing of a work unit has been finished
type CallbackFunc func(*WorkUnit)

// WorkUnit is a unit of date shifting work
type WorkUnit struct {
	Task *Task
	// Error the error details of a failed Task
	Error    error
	Metadata MetadataMap
	callback CallbackFunc
}

// NewWorkUnit creates a new work unit
func NewWorkUnit(t *Task, c CallbackFunc) *WorkUnit {
	return &WorkUnit{
		Task:     t,
		callback: c,
		Metadata: make(MetadataMap),
	}
}

func (w *WorkUnit) callBack() {
	if w.callback != nil {
		w.callback(w)
	}
}
