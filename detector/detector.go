// Package detector discovers commit-log segments to process: once at
// startup it walks the working directory for a backlog, then it polls for
// new activity until stopped, handing each ready segment to a processing
// callback one at a time.
package detector

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/datastax/cassandra-source-connector/commitlog"
	"github.com/datastax/cassandra-source-connector/offset"
	"github.com/datastax/cassandra-source-connector/transfer"
	"github.com/datastax/cassandra-source-connector/watch"
	"github.com/rs/zerolog"
)

// defaultPollInterval matches the default poll cadence used elsewhere in
// the pipeline for directory activity.
const defaultPollInterval = 500 * time.Millisecond

// Process handles one ready segment. It's expected to block until the
// segment has been fully processed (delivered and offset-advanced) before
// returning, since the detector only ever has one segment in flight.
type Process func(seg commitlog.Segment) error

// Config configures a Detector.
type Config struct {
	Dir                    string
	PollInterval           time.Duration
	NearRealTimeCDC        bool // segments are only submitted once their _cdc.idx sidecar appears
	ReprocessErrorsOnStart bool
	ErrorDir               string
	Process                Process
	// Offset, if set, is consulted before every .log segment is submitted:
	// a segment whose SegmentID is strictly behind the durably marked
	// cursor is already fully consumed and is never handed to Process,
	// whether it surfaces during the initial backlog poll or a later one.
	Offset offset.Store
	Log    zerolog.Logger
}

// Detector runs the backlog-scan-then-poll loop as a single background
// goroutine, following the same start/stop/running-flag lifecycle shape
// used throughout this codebase's worker loops.
type Detector struct {
	cfg Config

	watcher     *watch.Watcher
	stopCh      chan struct{}
	doneCh      chan struct{}
	running     atomic.Bool
	lifecycleMu sync.Mutex
}

// New creates a Detector. It does not start polling until Start is called.
func New(cfg Config) *Detector {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}
	return &Detector{
		cfg:     cfg,
		watcher: watch.NewWatcher(cfg.Dir, cfg.PollInterval),
	}
}

// Start begins the backlog scan and poll loop in a background goroutine.
// It is a no-op if the detector is already running.
func (d *Detector) Start() error {
	d.lifecycleMu.Lock()
	defer d.lifecycleMu.Unlock()

	if d.running.Load() {
		return nil
	}

	if d.cfg.ReprocessErrorsOnStart {
		if err := transfer.RecycleErrorSegments(d.cfg.ErrorDir, d.cfg.Dir, d.cfg.Log); err != nil {
			return err
		}
	}

	d.stopCh = make(chan struct{})
	d.doneCh = make(chan struct{})
	d.running.Store(true)

	go d.run()
	return nil
}

// Stop signals the poll loop to exit and waits for it to finish.
func (d *Detector) Stop() {
	d.lifecycleMu.Lock()
	defer d.lifecycleMu.Unlock()

	if !d.running.Load() {
		return
	}
	close(d.stopCh)
	<-d.doneCh
	d.running.Store(false)
}

func (d *Detector) run() {
	defer close(d.doneCh)

	pendingLog := make(map[uint64]commitlog.Segment) // segments seen as .log, awaiting idx confirmation in near-real-time mode

	for {
		select {
		case <-d.stopCh:
			return
		default:
		}

		events, err := d.watcher.Poll()
		if err != nil {
			d.cfg.Log.Error().Err(err).Str("dir", d.cfg.Dir).Msg("commit log directory poll failed")
			if !d.sleep(d.cfg.PollInterval) {
				return
			}
			continue
		}

		for _, ev := range events {
			seg := ev.Segment

			if !d.cfg.NearRealTimeCDC {
				if seg.Kind != commitlog.KindLog {
					continue
				}
				d.submit(seg)
				continue
			}

			switch seg.Kind {
			case commitlog.KindLog:
				pendingLog[seg.SegmentID] = seg
			case commitlog.KindCDCIndex:
				if logSeg, ok := pendingLog[seg.SegmentID]; ok {
					d.submit(logSeg)
					delete(pendingLog, seg.SegmentID)
				}
			}
		}

		if !d.sleep(d.cfg.PollInterval) {
			return
		}
	}
}

func (d *Detector) submit(seg commitlog.Segment) {
	if seg.Kind == commitlog.KindLog && d.cfg.Offset != nil {
		current, err := d.cfg.Offset.Load()
		if err != nil {
			d.cfg.Log.Error().Err(err).Str("segment", seg.Name).Msg("failed to load offset cursor before submitting segment")
		} else if seg.SegmentID < current.SegmentID {
			d.cfg.Log.Debug().Str("segment", seg.Name).Uint64("segment_id", seg.SegmentID).Msg("segment already behind durable cursor, not reading")
			return
		}
	}

	if err := d.cfg.Process(seg); err != nil {
		d.cfg.Log.Error().Err(err).Str("segment", seg.Name).Msg("segment processing failed")
	}
}

func (d *Detector) sleep(interval time.Duration) bool {
	timer := time.NewTimer(interval)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-d.stopCh:
		return false
	}
}
