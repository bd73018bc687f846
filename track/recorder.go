package track

import (
	"context"
	"sync"
	"time"

	"github.com/sgostarter/i/l"
	"github.com/sgostarter/libeasygo/routineman"
)

type RecorderConfig struct {
	FlushInterval    time.Duration
	MaxPendingPoints int
	StaleAfter       time.Duration
}

// Recorder buffers live points per track and flushes them to the storage on
// a background routine. A track that stops receiving points for StaleAfter
// is reported once through notify, and again after it resumes and stalls
// anew.
func NewRecorder(cfg RecorderConfig, storage Storage, notify INotify, logger l.Wrapper) *Recorder {
	if logger == nil {
		logger = l.NewNopLoggerWrapper()
	}

	logger = logger.WithFields(l.StringField(l.ClsKey, "trackRecorder"))

	if storage == nil {
		logger.Fatal("no storage")
	}

	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = time.Second * 10
	}

	if cfg.MaxPendingPoints <= 0 {
		cfg.MaxPendingPoints = 4096
	}

	if cfg.StaleAfter <= 0 {
		cfg.StaleAfter = time.Minute * 5
	}

	impl := &Recorder{
		cfg:         cfg,
		logger:      logger,
		storage:     storage,
		notify:      notify,
		routineMan:  routineman.NewRoutineMan(context.Background(), logger),
		pending:     make(map[uint64][]TrackPoint),
		lastTouchAt: make(map[uint64]time.Time),
	}

	impl.routineMan.StartRoutine(impl.flushRoutine, "flushRoutine")

	return impl
}

type Recorder struct {
	cfg     RecorderConfig
	logger  l.Wrapper
	storage Storage
	notify  INotify

	routineMan routineman.RoutineMan

	lock        sync.Mutex
	pending     map[uint64][]TrackPoint
	lastTouchAt map[uint64]time.Time
}

func (impl *Recorder) TriggerStop() {
	impl.routineMan.TriggerStop()
}

func (impl *Recorder) Wait() {
	impl.routineMan.Wait()
}

func (impl *Recorder) Record(id uint64, points ...TrackPoint) {
	if len(points) == 0 {
		return
	}

	impl.lock.Lock()

	impl.pending[id] = append(impl.pending[id], points...)
	impl.lastTouchAt[id] = time.Now()

	overflow := len(impl.pending[id]) >= impl.cfg.MaxPendingPoints

	impl.lock.Unlock()

	if overflow {
		impl.Flush()
	}
}

func (impl *Recorder) Flush() {
	impl.lock.Lock()

	pending := impl.pending
	impl.pending = make(map[uint64][]TrackPoint)

	impl.lock.Unlock()

	for id, points := range pending {
		err := impl.storage.AppendPoints(id, points)
		if err != nil {
			impl.logger.Error("append points failed:", err)
		}
	}
}

func (impl *Recorder) checkStale() {
	var staleIDs []uint64

	impl.lock.Lock()

	// stale tracks leave the map here so it cannot grow with dead tracks;
	// the next Record on the track arms the check again
	for id, at := range impl.lastTouchAt {
		if time.Since(at) < impl.cfg.StaleAfter {
			continue
		}

		delete(impl.lastTouchAt, id)

		staleIDs = append(staleIDs, id)
	}

	impl.lock.Unlock()

	if impl.notify == nil {
		return
	}

	for _, id := range staleIDs {
		impl.notify.NotifyStale(id)
	}
}

func (impl *Recorder) flushRoutine(ctx context.Context, _ func() bool) {
	loop := true

	for loop {
		select {
		case <-ctx.Done():
			loop = false

			impl.Flush()

			continue
		case <-time.After(impl.cfg.FlushInterval):
			impl.Flush()
			impl.checkStale()
		}
	}
}
