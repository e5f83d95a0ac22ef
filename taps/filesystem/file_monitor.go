package filesystem

import (
	"os"
	"sync"
	"time"
)

type fileMonitor struct {
	path       string
	size       int64
	modTime    time.Time
	mux        sync.Mutex
	lastUpdate time.Time
}

func newFileMonitor(fi os.FileInfo, path string, now time.Time) *fileMonitor {
	return &fileMonitor{
		path:       path,
		size:       fi.Size(),
		modTime:    fi.ModTime(),
		lastUpdate: now,
	}
}

func (m *fileMonitor) update(now time.Time) {
	m.mux.Lock()
	defer m.mux.Unlock()
	m.lastUpdate = now
}

// changed records the latest size and modification time of the file and returns true if any of them has changed
func (m *fileMonitor) changed(fi os.FileInfo, now time.Time) bool {
	m.mux.Lock()
	defer m.mux.Unlock()
	if fi.Size() == m.size && fi.ModTime().Equal(m.modTime) {
		return false
	}
	m.size = fi.Size()
	m.modTime = fi.ModTime()
	m.lastUpdate = now
	return true
}

func (m *fileMonitor) isReady(now time.Time, settle time.Duration) bool {
	m.mux.Lock()
	defer m.mux.Unlock()
	return !m.lastUpdate.IsZero() && now.Sub(m.lastUpdate) >= settle
}
