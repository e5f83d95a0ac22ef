package taps

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/xitonix/xshift/shift"
	"github.com/xitonix/xshift/taps/filesystem"
)

// DefaultPollingInterval the default frequency of checking the source directory
const DefaultPollingInterval = time.Second

// DirectoryWatcherTap is a tap with the functionality of monitoring a local directory and shifting the dates
// of the new or modified files into the target directory.
type DirectoryWatcherTap struct {
	pipe       shift.WorkList
	progress   chan *Result
	errors     chan error
	notifyErr  bool
	report     bool
	delete     bool
	interval   time.Duration
	dispatcher *dispatcher
	queue      *filesystem.Queue
	backend    watchBackend
	kind       Backend
	done       chan struct{}
	openErr    error

	wg       sync.WaitGroup
	inFlight sync.WaitGroup

	openOnce  sync.Once
	closeOnce sync.Once

	// to prevent multiple go routines to run
	// Open and Close at the same time
	mux    sync.Mutex
	isOpen bool
}

// NewDirectoryWatcherTap creates a new instance of directory watcher tap.
//
// If you have enabled error notification by setting  'notifyErrors' to true, or the progress report
// by setting 'reportProgress' to true, you need to make sure that you subscribe to "Errors" and "Progress"
// channels to read off the notification pipes, otherwise you will get blocked on the full channel.
//
// "pollingInterval" is the frequency of checking the "source" directory for new files. A file is dispatched once
// it has not been modified for two intervals.
//
// "backend" specifies how the changes are detected. If the native backend is not available on the
// platform, the tap falls back to polling.
//
// If you set "deleteCompleted" to true, the input files will get deleted, only if the shifting
// operation has been finished successfully.
//
// "source" and "target" are the paths to source and destination directories. They will get created
// by the tap if they don't already exist.
func NewDirectoryWatcherTap(source, target string,
	pollingInterval time.Duration,
	backend Backend,
	overwrite bool,
	notifyErrors bool,
	reportProgress bool,
	deleteCompleted bool) (*DirectoryWatcherTap, error) {
	src, err := createDirIfNotExist(source)
	if err != nil {
		return nil, err
	}

	d, err := newDispatcher(src, target, overwrite)
	if err != nil {
		return nil, err
	}

	if pollingInterval <= 0 {
		pollingInterval = DefaultPollingInterval
	}

	var b watchBackend
	switch backend {
	case Native:
		b = newNativeBackend(src)
	default:
		b, err = newPollingBackend(src, pollingInterval)
		if err != nil {
			return nil, err
		}
	}

	return &DirectoryWatcherTap{
		pipe:       make(shift.WorkList),
		progress:   make(chan *Result),
		errors:     make(chan error),
		notifyErr:  notifyErrors,
		report:     reportProgress,
		delete:     deleteCompleted,
		interval:   pollingInterval,
		dispatcher: d,
		queue:      filesystem.NewQueue(2 * pollingInterval),
		backend:    b,
		kind:       backend,
		done:       make(chan struct{}),
	}, nil
}

// Errors returns a read-only channel on which you will receive the failure notifications.
//
// In order to receive the errors on the channel, you need to turn error notifications On by setting
// "notifyErrors" parameter of "NewDirectoryWatcherTap" method to true.
func (d *DirectoryWatcherTap) Errors() <-chan error {
	return d.errors
}

// Progress returns a read-only channel on which you will receive the progress report
//
// In order to receive progress report on the channel, you need to turn it On by setting
// "reportProgress" parameter of "NewDirectoryWatcherTap" method to true.
func (d *DirectoryWatcherTap) Progress() <-chan *Result {
	return d.progress
}

// Pipe returns the work list channel from which the engine will receive the shifting requests.
func (d *DirectoryWatcherTap) Pipe() shift.WorkList {
	return d.pipe
}

// Backend returns the backend the tap is watching the source directory with
func (d *DirectoryWatcherTap) Backend() Backend {
	d.mux.Lock()
	defer d.mux.Unlock()
	return d.kind
}

// Open starts the directory watcher on the source directory.
// You SHOULD NOT call this method explicitly when you use the tap with an Engine object.
// Starting the engine will take care of opening the tap.
func (d *DirectoryWatcherTap) Open() {
	d.mux.Lock()
	defer d.mux.Unlock()

	d.openOnce.Do(func() {
		if err := d.backend.start(d.enqueue, d.reportError); err != nil {
			d.openErr = fmt.Errorf("%s backend is not available, falling back to polling: %w", d.kind, err)
			d.kind = Polling
			d.backend, err = newPollingBackend(d.dispatcher.source, d.interval)
			if err == nil {
				err = d.backend.start(d.enqueue, d.reportError)
			}
			if err != nil {
				d.openErr = fmt.Errorf("failed to watch '%s': %w", d.dispatcher.source, err)
				d.backend = nil
			}
		}

		d.isOpen = true

		d.wg.Add(2)
		// Process the files which are currently in the source folder
		go d.processExistingFiles()
		go d.dispatchReadyFiles()
	})
}

// Close stops the filesystem watcher, waits for the work units which have already been sent
// to the engine and releases the resources.
// NOTE: You don't need to explicitly call this function when you are using the tap
// with an Engine
func (d *DirectoryWatcherTap) Close() {
	d.mux.Lock()
	defer d.mux.Unlock()

	d.closeOnce.Do(func() {
		close(d.done)
		if d.backend != nil {
			d.backend.stop()
		}
		d.wg.Wait()
		d.inFlight.Wait()
		d.isOpen = false
		close(d.pipe)
		close(d.errors)
		close(d.progress)
	})
}

// IsOpen returns true if the tap is open
func (d *DirectoryWatcherTap) IsOpen() bool {
	d.mux.Lock()
	defer d.mux.Unlock()
	return d.isOpen
}

func (d *DirectoryWatcherTap) enqueue(path string) {
	if d.dispatcher.skip(path) {
		return
	}
	if _, err := d.queue.AddOrUpdate(path); err != nil {
		d.reportError(err)
	}
}

func (d *DirectoryWatcherTap) processExistingFiles() {
	defer d.wg.Done()
	err := filepath.WalkDir(d.dispatcher.source, func(path string, entry fs.DirEntry, err error) error {
		select {
		case <-d.done:
			return filepath.SkipAll
		default:
		}
		if err != nil {
			d.reportError(err)
			return nil
		}
		if d.dispatcher.skip(path) {
			if entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if entry.Type().IsRegular() {
			d.enqueue(path)
		}
		return nil
	})

	if err != nil {
		d.reportError(err)
	}
}

func (d *DirectoryWatcherTap) dispatchReadyFiles() {
	defer d.wg.Done()
	if d.openErr != nil {
		d.reportError(d.openErr)
	}

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()
	for {
		select {
		case <-d.done:
			return
		case <-ticker.C:
			for _, path := range d.queue.Ready() {
				if !d.dispatch(path) {
					return
				}
			}
		}
	}
}

// dispatch sends the file to the engine. It returns false if the tap has been closed.
func (d *DirectoryWatcherTap) dispatch(path string) bool {
	w, err := d.dispatcher.workUnit(path, d.whenDone)
	if err != nil {
		d.reportError(err)
		return true
	}

	input, output, _ := parseMetadata(w.Metadata)
	d.reportProgress(&Result{
		Status: w.Task.Status(),
		Input:  input,
		Output: output,
	})

	d.inFlight.Add(1)
	select {
	case d.pipe <- w:
		return true
	case <-d.done:
		d.dispatcher.abort(w)
		d.inFlight.Done()
		return false
	}
}

// whenDone is a callback method which will get called by the engine once the
// processing of a task has been finished
func (d *DirectoryWatcherTap) whenDone(w *shift.WorkUnit) {
	defer d.inFlight.Done()
	result := d.dispatcher.complete(w)

	if d.delete && result.Status == shift.Completed {
		if err := os.Remove(result.Input.Path); err != nil {
			d.reportError(fmt.Errorf("failed to remove '%s': %w", result.Input.Name, err))
		} else {
			d.removeEmptyParents(filepath.Dir(result.Input.Path))
		}
	}

	if result.Error != nil {
		d.reportError(fmt.Errorf("%s: %w", result.Input.Name, result.Error))
	}
	d.reportProgress(result)
}

// removeEmptyParents removes the empty directories left behind by the deleted inputs, up to the source directory
func (d *DirectoryWatcherTap) removeEmptyParents(dir string) {
	for dir != d.dispatcher.source && isWithin(d.dispatcher.source, dir) && isDirEmpty(dir) {
		if err := os.Remove(dir); err != nil {
			if !os.IsNotExist(err) {
				d.reportError(fmt.Errorf("failed to remove '%s' directory: %w", dir, err))
			}
			return
		}
		dir = filepath.Dir(dir)
	}
}

func (d *DirectoryWatcherTap) reportProgress(r *Result) {
	if d.report {
		d.progress <- r
	}
}

func (d *DirectoryWatcherTap) reportError(err error) {
	if d.notifyErr {
		d.errors <- err
	}
}
