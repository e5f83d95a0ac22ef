package taps

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sync"

	"github.com/xitonix/xshift/shift"
)

// FileTap is a tap which shifts the dates of a single file, or of every file in a directory, into the target.
//
// The files of a source directory are mirrored into the target directory under the same relative paths.
// Hidden files and directories are ignored.
type FileTap struct {
	pipe       shift.WorkList
	progress   chan *Result
	errors     chan error
	notifyErr  bool
	report     bool
	dispatcher *dispatcher
	done       chan struct{}

	// dispatching tracks the running Process calls, inFlight the work units sent to the engine
	dispatching sync.WaitGroup
	inFlight    sync.WaitGroup

	openOnce  sync.Once
	closeOnce sync.Once

	// to prevent multiple go routines to run
	// Open and Close at the same time
	mux    sync.Mutex
	isOpen bool
}

// NewFileTap creates a new instance of file tap.
//
// "source" is the path to a file or a directory. If it's a file, "target" is either the output file
// or an existing directory to create the output in. If "source" is a directory, "target" is the output
// directory which will get created by the tap if it doesn't already exist.
//
// Existing outputs are never overwritten unless "overwrite" is true.
//
// If you have enabled error notification by setting  'notifyErrors' to true, or the progress report
// by setting 'reportProgress' to true, you need to make sure that you subscribe to "Errors" and "Progress"
// channels to read off the notification pipes, otherwise you will get blocked on the full channel.
func NewFileTap(source, target string, overwrite, notifyErrors, reportProgress bool) (*FileTap, error) {
	d, err := newDispatcher(source, target, overwrite)
	if err != nil {
		return nil, err
	}

	return &FileTap{
		pipe:       make(shift.WorkList),
		progress:   make(chan *Result),
		errors:     make(chan error),
		notifyErr:  notifyErrors,
		report:     reportProgress,
		dispatcher: d,
		done:       make(chan struct{}),
	}, nil
}

// Errors returns a read-only channel on which you will receive the failure notifications.
//
// In order to receive the errors on the channel, you need to turn error notifications On by setting
// "notifyErrors" parameter of "NewFileTap" method to true.
func (f *FileTap) Errors() <-chan error {
	return f.errors
}

// Progress returns a read-only channel on which you will receive the progress report
//
// In order to receive progress report on the channel, you need to turn it On by setting
// "reportProgress" parameter of "NewFileTap" method to true.
func (f *FileTap) Progress() <-chan *Result {
	return f.progress
}

// Pipe returns the work list channel from which the engine will receive the shifting requests.
func (f *FileTap) Pipe() shift.WorkList {
	return f.pipe
}

// Open opens the tap.
// You SHOULD NOT call this method explicitly when you use the tap with an Engine object.
// Starting the engine will take care of opening the tap.
func (f *FileTap) Open() {
	f.mux.Lock()
	defer f.mux.Unlock()
	f.openOnce.Do(func() {
		f.isOpen = true
	})
}

// Close stops dispatching, waits for the work units which have already been sent to the engine
// and releases the resources.
// NOTE: You don't need to explicitly call this function when you are using the tap
// with an Engine
func (f *FileTap) Close() {
	f.mux.Lock()
	defer f.mux.Unlock()
	f.closeOnce.Do(func() {
		close(f.done)
		f.dispatching.Wait()
		f.inFlight.Wait()
		f.isOpen = false
		close(f.pipe)
		close(f.errors)
		close(f.progress)
	})
}

// IsOpen returns true if the tap is open
func (f *FileTap) IsOpen() bool {
	f.mux.Lock()
	defer f.mux.Unlock()
	return f.isOpen
}

// Process sends all the source files to the engine.
// It blocks until every file has been picked up by the engine. Call Wait to wait for them to be processed.
// The failures are published on the Errors channel.
func (f *FileTap) Process() error {
	f.mux.Lock()
	if !f.isOpen {
		f.mux.Unlock()
		return ErrClosedTap
	}
	f.dispatching.Add(1)
	f.mux.Unlock()
	defer f.dispatching.Done()

	files, err := f.collect()
	if err != nil {
		return err
	}

	for _, path := range files {
		if !f.dispatch(path) {
			return ErrClosedTap
		}
	}
	return nil
}

// Wait blocks until all the files sent to the engine have been processed
func (f *FileTap) Wait() {
	f.inFlight.Wait()
}

// collect lists the input files before any output gets created, so that a target
// inside the source directory is never picked up as an input.
func (f *FileTap) collect() ([]string, error) {
	if !f.dispatcher.sourceIsDir {
		return []string{f.dispatcher.source}, nil
	}

	var files []string
	err := filepath.WalkDir(f.dispatcher.source, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			f.reportError(err)
			if entry != nil && entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if f.dispatcher.skip(path) {
			if entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if entry.Type().IsRegular() {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// dispatch sends the file to the engine. It returns false if the tap has been closed.
func (f *FileTap) dispatch(path string) bool {
	w, err := f.dispatcher.workUnit(path, f.whenDone)
	if err != nil {
		f.reportError(err)
		return true
	}

	input, output, _ := parseMetadata(w.Metadata)
	f.reportProgress(&Result{
		Status: w.Task.Status(),
		Input:  input,
		Output: output,
	})

	f.inFlight.Add(1)
	select {
	case f.pipe <- w:
		return true
	case <-f.done:
		f.dispatcher.abort(w)
		f.inFlight.Done()
		return false
	}
}

// whenDone is a callback method which will get called by the engine once the
// processing of a task has been finished
func (f *FileTap) whenDone(w *shift.WorkUnit) {
	defer f.inFlight.Done()
	result := f.dispatcher.complete(w)
	if result.Error != nil {
		f.reportError(fmt.Errorf("%s: %w", result.Input.Name, result.Error))
	}
	f.reportProgress(result)
}

func (f *FileTap) reportProgress(r *Result) {
	if f.report {
		f.progress <- r
	}
}

func (f *FileTap) reportError(err error) {
	if f.notifyErr {
		f.errors <- err
	}
}
