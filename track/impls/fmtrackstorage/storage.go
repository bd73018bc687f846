package fmtrackstorage

import (
	"path/filepath"
	"sync"

	"github.com/godruoyi/go-snowflake"
	"github.com/sgostarter/i/commerr"
	"github.com/sgostarter/i/stg"
	"github.com/sgostarter/libeasygo/stg/fs/rawfs"
	"github.com/sgostarter/libeasygo/stg/mwf"
	"github.com/sgostarter/libpolyline/track"
)

func NewFMTrackStorage(root string, storage stg.FileStorage) track.Storage {
	if storage == nil {
		storage = rawfs.NewFSStorage("")
	}

	return &fsTrackStorageImpl{
		trackStorage: mwf.NewMemWithFile[map[uint64]*track.Track, mwf.Serial, mwf.Lock](
			make(map[uint64]*track.Track), &mwf.JSONSerial{}, &sync.RWMutex{}, filepath.Join(root, "tracks.json"), storage),
	}
}

type fsTrackStorageImpl struct {
	trackStorage *mwf.MemWithFile[map[uint64]*track.Track, mwf.Serial, mwf.Lock]
}

func (impl *fsTrackStorageImpl) CreateTrack(label string) (id uint64, err error) {
	err = impl.trackStorage.Change(func(oldM map[uint64]*track.Track) (newM map[uint64]*track.Track, err error) {
		newM = oldM
		if len(newM) == 0 {
			newM = make(map[uint64]*track.Track)
		}

		id = snowflake.ID()
		newM[id] = &track.Track{
			ID:    id,
			Label: label,
		}

		return
	})

	return
}

func (impl *fsTrackStorageImpl) AppendPoints(id uint64, points []track.TrackPoint) error {
	return impl.trackStorage.Change(func(oldM map[uint64]*track.Track) (newM map[uint64]*track.Track, err error) {
		newM = oldM
		if len(newM) == 0 {
			newM = make(map[uint64]*track.Track)
		}

		t, ok := newM[id]
		if !ok {
			err = commerr.ErrNotFound

			return
		}

		t.Points = append(t.Points, points...)

		return
	})
}

func (impl *fsTrackStorageImpl) GetTrack(id uint64) (t *track.Track, err error) {
	impl.trackStorage.Read(func(m map[uint64]*track.Track) {
		st, ok := m[id]
		if !ok {
			err = commerr.ErrNotFound

			return
		}

		nt := *st
		nt.Points = append(make([]track.TrackPoint, 0, len(st.Points)), st.Points...)

		t = &nt
	})

	return
}

func (impl *fsTrackStorageImpl) ListTrackIDs() (ids []uint64, err error) {
	impl.trackStorage.Read(func(m map[uint64]*track.Track) {
		for id := range m {
			ids = append(ids, id)
		}
	})

	return
}

func (impl *fsTrackStorageImpl) RemoveTrack(id uint64) error {
	return impl.trackStorage.Change(func(oldM map[uint64]*track.Track) (newM map[uint64]*track.Track, err error) {
		newM = oldM
		if len(newM) == 0 {
			newM = make(map[uint64]*track.Track)
		}

		if _, ok := newM[id]; !ok {
			err = commerr.ErrNotFound

			return
		}

		delete(newM, id)

		return
	})
}
