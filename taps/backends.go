package taps

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/radovskyb/watcher"
	"github.com/rjeczalik/notify"
)

// Backend is the mechanism a DirectoryWatcherTap uses to get notified about the changes in the source directory
type Backend int8

const (
	// Polling scans the source directory periodically
	Polling Backend = iota
	// Native subscribes to the file system events of the operating system (inotify, FSEvents, kqueue, ReadDirectoryChangesW)
	Native
)

// String returns the string representation of the backend
func (b Backend) String() string {
	switch b {
	case Polling:
		return "polling"
	case Native:
		return "native"
	}
	return "unknown"
}

type watchBackend interface {
	// start starts watching the source directory. It must not block.
	start(onChange func(path string), onError func(error)) error
	// stop stops watching and blocks until the callbacks are not going to be called anymore
	stop()
}

type pollingBackend struct {
	interval time.Duration
	watcher  *watcher.Watcher
	wg       sync.WaitGroup
}

func newPollingBackend(source string, interval time.Duration) (*pollingBackend, error) {
	w := watcher.New()
	w.FilterOps(watcher.Create, watcher.Write, watcher.Rename, watcher.Move)
	w.IgnoreHiddenFiles(true)

	if err := w.AddRecursive(source); err != nil {
		return nil, err
	}
	return &pollingBackend{
		interval: interval,
		watcher:  w,
	}, nil
}

func (p *pollingBackend) start(onChange func(path string), onError func(error)) error {
	p.wg.Add(2)
	go func() {
		defer p.wg.Done()
		if err := p.watcher.Start(p.interval); err != nil {
			onError(fmt.Errorf("filesystem watcher: %w", err))
		}
	}()

	go func() {
		defer p.wg.Done()
		for {
			select {
			case event := <-p.watcher.Event:
				if !event.IsDir() {
					onChange(event.Path)
				}
			case err := <-p.watcher.Error:
				onError(fmt.Errorf("filesystem watcher: %w", err))
			case <-p.watcher.Closed:
				return
			}
		}
	}()

	// blocks until the watcher is running, so that it can always be closed
	p.watcher.Wait()
	return nil
}

func (p *pollingBackend) stop() {
	p.watcher.Close()
	p.wg.Wait()
}

type nativeBackend struct {
	source string
	// Make the channel buffered to ensure no event is dropped. Notify will drop
	// an event if the receiver is not able to keep up the sending pace.
	events  chan notify.EventInfo
	done    chan struct{}
	wg      sync.WaitGroup
	started bool
}

func newNativeBackend(source string) *nativeBackend {
	return &nativeBackend{
		source: source,
		events: make(chan notify.EventInfo, 64),
		done:   make(chan struct{}),
	}
}

func (n *nativeBackend) start(onChange func(path string), _ func(error)) error {
	if err := notify.Watch(filepath.Join(n.source, "..."), n.events, notify.Create, notify.Write, notify.Rename); err != nil {
		return err
	}
	n.started = true
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		for {
			select {
			case <-n.done:
				return
			case ei := <-n.events:
				onChange(ei.Path())
			}
		}
	}()
	return nil
}

func (n *nativeBackend) stop() {
	if n.started {
		notify.Stop(n.events)
	}
	close(n.done)
	n.wg.Wait()
}
