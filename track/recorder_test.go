package track

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type utStaleNotify struct {
	ch chan uint64
}

func (impl *utStaleNotify) NotifyStale(id uint64) {
	impl.ch <- id
}

func TestRecorderFlushOnStop(t *testing.T) {
	stg := newUTMemStorage()

	id, err := stg.CreateTrack("live")
	assert.Nil(t, err)

	recorder := NewRecorder(RecorderConfig{
		FlushInterval: time.Hour, // only the stop path flushes
	}, stg, nil, nil)

	recorder.Record(id, TrackPoint{At: 1, X: 0, Y: 0})
	recorder.Record(id, TrackPoint{At: 2, X: 1, Y: 1}, TrackPoint{At: 3, X: 2, Y: 2})

	recorder.TriggerStop()
	recorder.Wait()

	tr, err := stg.GetTrack(id)
	assert.Nil(t, err)
	assert.Len(t, tr.Points, 3)
	assert.Equal(t, int64(1), tr.Points[0].At)
	assert.Equal(t, int64(3), tr.Points[2].At)
}

func TestRecorderOverflowFlush(t *testing.T) {
	stg := newUTMemStorage()

	id, err := stg.CreateTrack("burst")
	assert.Nil(t, err)

	recorder := NewRecorder(RecorderConfig{
		FlushInterval:    time.Hour,
		MaxPendingPoints: 2,
	}, stg, nil, nil)

	recorder.Record(id, TrackPoint{At: 1}, TrackPoint{At: 2})

	tr, err := stg.GetTrack(id)
	assert.Nil(t, err)
	assert.Len(t, tr.Points, 2)

	recorder.TriggerStop()
	recorder.Wait()
}

func TestRecorderStaleNotify(t *testing.T) {
	stg := newUTMemStorage()

	id, err := stg.CreateTrack("stalled")
	assert.Nil(t, err)

	notify := &utStaleNotify{ch: make(chan uint64, 1)}

	recorder := NewRecorder(RecorderConfig{
		FlushInterval: time.Millisecond * 20,
		StaleAfter:    time.Millisecond * 10,
	}, stg, notify, nil)

	recorder.Record(id, TrackPoint{At: 1, X: 0, Y: 0})

	select {
	case staleID := <-notify.ch:
		assert.Equal(t, id, staleID)
	case <-time.After(time.Second * 5):
		t.Fatal("no stale notify")
	}

	recorder.TriggerStop()
	recorder.Wait()

	tr, err := stg.GetTrack(id)
	assert.Nil(t, err)
	assert.Len(t, tr.Points, 1)
}

func TestRecorderStaleNotifyOnce(t *testing.T) {
	stg := newUTMemStorage()

	id, err := stg.CreateTrack("stalled")
	assert.Nil(t, err)

	notify := &utStaleNotify{ch: make(chan uint64, 10)}

	recorder := NewRecorder(RecorderConfig{
		FlushInterval: time.Millisecond * 20,
		StaleAfter:    time.Millisecond * 10,
	}, stg, notify, nil)

	recorder.Record(id, TrackPoint{At: 1, X: 0, Y: 0})

	select {
	case staleID := <-notify.ch:
		assert.Equal(t, id, staleID)
	case <-time.After(time.Second * 5):
		t.Fatal("no stale notify")
	}

	// a stale track is dropped from the check, so it must not fire again
	// until new points arrive
	select {
	case <-notify.ch:
		t.Fatal("repeated stale notify without new points")
	case <-time.After(time.Millisecond * 200):
	}

	recorder.Record(id, TrackPoint{At: 2, X: 1, Y: 1})

	select {
	case staleID := <-notify.ch:
		assert.Equal(t, id, staleID)
	case <-time.After(time.Second * 5):
		t.Fatal("no stale notify after resume")
	}

	recorder.TriggerStop()
	recorder.Wait()
}
