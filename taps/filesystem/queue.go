// Package filesystem keeps track of the files which are being written, until they settle.
package filesystem

import (
	"os"
	"sort"
	"sync"
	"time"
)

// DefaultSettleTime the default time a file needs to stay unchanged before it's considered ready
const DefaultSettleTime = 2 * time.Second

// Queue is a set of files waiting to settle.
// A file is ready once it has not been touched for the settle time.
type Queue struct {
	mux      sync.Mutex
	settle   time.Duration
	monitors map[string]*fileMonitor
	now      func() time.Time
}

// NewQueue creates a new queue. If "settle" is not positive, DefaultSettleTime is used.
func NewQueue(settle time.Duration) *Queue {
	if settle <= 0 {
		settle = DefaultSettleTime
	}
	return &Queue{
		settle:   settle,
		monitors: make(map[string]*fileMonitor),
		now:      time.Now,
	}
}

// AddOrUpdate adds the file to the queue, or resets its settle timer if it's already queued.
// Directories and the files which do not exist anymore are ignored.
// It returns true if the path has been queued.
func (q *Queue) AddOrUpdate(path string) (bool, error) {
	q.mux.Lock()
	defer q.mux.Unlock()
	now := q.now()
	if m, ok := q.monitors[path]; ok {
		m.update(now)
		return true, nil
	}
	f, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if !f.Mode().IsRegular() {
		return false, nil
	}
	q.monitors[path] = newFileMonitor(f, path, now)
	return true, nil
}

// Remove removes the file from the queue
func (q *Queue) Remove(path string) {
	q.mux.Lock()
	defer q.mux.Unlock()
	delete(q.monitors, path)
}

// Len returns the number of queued files
func (q *Queue) Len() int {
	q.mux.Lock()
	defer q.mux.Unlock()
	return len(q.monitors)
}

// Ready removes the settled files from the queue and returns their paths in lexical order.
// The files which have been deleted in the meantime are dropped.
func (q *Queue) Ready() []string {
	q.mux.Lock()
	defer q.mux.Unlock()
	now := q.now()
	var ready []string
	for path, m := range q.monitors {
		if !m.isReady(now, q.settle) {
			continue
		}
		f, err := os.Stat(path)
		if err != nil {
			delete(q.monitors, path)
			continue
		}
		if m.changed(f, now) {
			continue
		}
		delete(q.monitors, path)
		ready = append(ready, path)
	}
	sort.Strings(ready)
	return ready
}
