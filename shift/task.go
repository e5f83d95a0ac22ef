package shift

import (
	"io"
	"sync"
)

// Task is a unit of date shifting work: one named input shifted into one or more outputs
type Task struct {
	name     string
	input    io.Reader
	outputs  []io.Writer
	encoding string

	mux        sync.Mutex
	status     Status
	inProgress bool
	report     *Report
	codec      string
}

// NewTask creates a new Task object.
//
// The name identifies the input. It seeds the task's random source, so the same
// input name shifted with the same engine seed always produces the same output.
func NewTask(name string, input io.Reader, output io.Writer) *Task {
	return &Task{
		name:    name,
		input:   input,
		outputs: []io.Writer{output},
		status:  Queued,
	}
}

// Name returns the name of the task's input
func (t *Task) Name() string {
	return t.name
}

// SetEncoding sets the encoding of the input. The output is written using the same encoding.
// If it's not set, the encoding will be detected.
// Calling this function on an in-progress Task will return ErrOperationInProgress error
func (t *Task) SetEncoding(name string) error {
	t.mux.Lock()
	defer t.mux.Unlock()
	if t.inProgress {
		return ErrOperationInProgress
	}
	t.encoding = name
	return nil
}

// AddOutput adds a new new output to the Task
// Calling this function on an in-progress Task will return ErrOperationInProgress error
func (t *Task) AddOutput(output io.Writer) error {
	t.mux.Lock()
	defer t.mux.Unlock()
	if t.inProgress {
		return ErrOperationInProgress
	}
	t.outputs = append(t.outputs, output)
	return nil
}

// CloseInput closes the input Reader.
// If the reader is not a io.Closer, calling this function will have no effect
// Calling this function on an in-progress Task will return ErrOperationInProgress error
func (t *Task) CloseInput() error {
	t.mux.Lock()
	defer t.mux.Unlock()
	if t.inProgress {
		return ErrOperationInProgress
	}
	input, ok := t.input.(io.Closer)
	if ok && input != nil {
		return input.Close()
	}
	return nil
}

// CloseOutputs closes all the output Writers.
// If the output is not a io.Closer, calling this function will have no effect
// Calling this function on an in-progress Task will return ErrOperationInProgress error
func (t *Task) CloseOutputs() error {
	t.mux.Lock()
	defer t.mux.Unlock()
	if t.inProgress {
		return ErrOperationInProgress
	}
	for _, out := range t.outputs {
		output, ok := out.(io.Closer)
		if ok && output != nil {
			err := output.Close()
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// Status returns the current status of the task
func (t *Task) Status() Status {
	t.mux.Lock()
	defer t.mux.Unlock()
	return t.status
}

// IsRunning returns true if the task is being processed
func (t *Task) IsRunning() bool {
	t.mux.Lock()
	defer t.mux.Unlock()
	return t.inProgress
}

// Report returns the shifting report of a completed task, or nil
func (t *Task) Report() *Report {
	t.mux.Lock()
	defer t.mux.Unlock()
	return t.report
}

// Encoding returns the encoding the input has been processed with.
// It's empty until the task has been processed.
func (t *Task) Encoding() string {
	t.mux.Lock()
	defer t.mux.Unlock()
	return t.codec
}

func (t *Task) markAsInProgress() {
	t.mux.Lock()
	defer t.mux.Unlock()
	t.inProgress = true
}

func (t *Task) markAsComplete(status Status, report *Report, codec string) {
	t.mux.Lock()
	defer t.mux.Unlock()
	t.status = status
	t.report = report
	t.codec = codec
	t.inProgress = false
}
