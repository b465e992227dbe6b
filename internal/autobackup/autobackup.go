// Package autobackup runs the periodic automatic-backup routine: at
// most one automatic snapshot per rolling interval, gated by the
// last-auto-backup metadata key.
package autobackup

import (
	"strconv"
	"sync"
	"time"

	"github.com/luftbuch/luftbuch/internal/sqlite"
	"github.com/luftbuch/luftbuch/pkg/types"
)

// Runner owns the auto-backup timer. It only reads the store and
// writes new records, never mutating existing ones, so it is safe to
// run alongside ordinary read/write traffic.
type Runner struct {
	store    *sqlite.Store
	interval time.Duration // rolling window: at most one backup per interval
	check    time.Duration // how often the window is re-evaluated

	mu      sync.Mutex
	stop    chan struct{}
	stopped chan struct{}
}

// NewRunner returns a stopped runner. interval is the rolling backup
// window; check is how often the runner wakes up to evaluate it.
func NewRunner(store *sqlite.Store, interval, check time.Duration) *Runner {
	return &Runner{store: store, interval: interval, check: check}
}

// Start evaluates the window once immediately, then on every tick
// until Stop is called. Calling Start on a running runner is a no-op.
func (r *Runner) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stop != nil {
		return
	}
	r.stop = make(chan struct{})
	r.stopped = make(chan struct{})

	go func(stop, stopped chan struct{}) {
		defer close(stopped)
		r.CheckOnce()
		ticker := time.NewTicker(r.check)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				r.CheckOnce()
			}
		}
	}(r.stop, r.stopped)
}

// Stop halts the runner and waits for the in-flight check, if any, to
// finish. Idempotent.
func (r *Runner) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stop == nil {
		return
	}
	close(r.stop)
	<-r.stopped
	r.stop = nil
	r.stopped = nil
}

// CheckOnce creates an automatic backup if none has been created within
// the rolling window, then records the new window start. Errors are
// returned so the caller can surface them; the ticker loop drops them,
// matching the convenience nature of the feature (the next tick tries
// again).
func (r *Runner) CheckOnce() error {
	last, err := r.lastBackupTime()
	if err != nil {
		return err
	}

	now := types.NowMillis()
	if last > 0 && now-last <= r.interval.Milliseconds() {
		return nil
	}
	if _, err := r.store.CreateBackup(true); err != nil {
		return err
	}
	return r.store.SetMetadata(types.MetaLastAutoBackup, strconv.FormatInt(now, 10))
}

// lastBackupTime reads the last-auto-backup metadata key. A missing or
// unparseable value counts as "never backed up".
func (r *Runner) lastBackupTime() (int64, error) {
	meta, err := r.store.Metadata(types.MetaLastAutoBackup)
	if err == types.ErrNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	last, err := strconv.ParseInt(meta.Value, 10, 64)
	if err != nil {
		return 0, nil
	}
	return last, nil
}
