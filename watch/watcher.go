// Package watch polls a directory for new or modified commit-log segments,
// standing in for the filesystem-event watcher the original producer used:
// a poll loop is simpler to reason about across platforms and container
// filesystems that don't reliably deliver inotify events.
package watch

import (
	"time"

	"github.com/datastax/cassandra-source-connector/commitlog"
)

// Event reports that a segment appeared or changed size since the last poll.
type Event struct {
	Segment commitlog.Segment
}

// Watcher polls dir on Interval and emits an Event for every segment whose
// size has grown (or that is new) since the previous poll. Events for the
// same path within a single poll cycle are coalesced to one.
type Watcher struct {
	Dir      string
	Interval time.Duration

	sizes map[string]int64
}

// NewWatcher creates a Watcher over dir, polling every interval.
func NewWatcher(dir string, interval time.Duration) *Watcher {
	return &Watcher{Dir: dir, Interval: interval, sizes: make(map[string]int64)}
}

// Poll performs one scan of Dir and returns events for segments that are
// new or have grown since the previous call. The very first call reports
// every existing segment as an event, matching backlog-scan semantics.
func (w *Watcher) Poll() ([]Event, error) {
	segs, err := commitlog.List(w.Dir)
	if err != nil {
		return nil, err
	}

	events := make([]Event, 0, len(segs))
	seen := make(map[string]bool, len(segs))

	for _, seg := range segs {
		path := seg.Path(w.Dir)
		seen[path] = true

		size, err := fileSize(path)
		if err != nil {
			continue // file may have been rotated out between List and stat
		}

		last, known := w.sizes[path]
		if !known || size > last {
			events = append(events, Event{Segment: seg})
		}
		w.sizes[path] = size
	}

	for path := range w.sizes {
		if !seen[path] {
			delete(w.sizes, path)
		}
	}

	return events, nil
}
