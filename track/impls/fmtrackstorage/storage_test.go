package fmtrackstorage

import (
	"os"
	"testing"

	"github.com/sgostarter/i/commerr"
	"github.com/sgostarter/libpolyline/track"
	"github.com/stretchr/testify/assert"
)

func TestFMTrackStorage(t *testing.T) {
	_ = os.RemoveAll("ut-tracks")

	defer func() {
		_ = os.RemoveAll("ut-tracks")
	}()

	stg := NewFMTrackStorage("ut-tracks", nil)

	id, err := stg.CreateTrack("morning run")
	assert.Nil(t, err)
	assert.NotEqual(t, uint64(0), id)

	err = stg.AppendPoints(id, []track.TrackPoint{
		{At: 1, X: 0, Y: 0},
		{At: 2, X: 1, Y: 1},
	})
	assert.Nil(t, err)

	err = stg.AppendPoints(id+1, []track.TrackPoint{{At: 1}})
	assert.ErrorIs(t, err, commerr.ErrNotFound)

	tr, err := stg.GetTrack(id)
	assert.Nil(t, err)
	assert.Equal(t, "morning run", tr.Label)
	assert.Len(t, tr.Points, 2)

	// the returned track is a copy
	tr.Points[0].X = 100

	tr, err = stg.GetTrack(id)
	assert.Nil(t, err)
	assert.Equal(t, 0.0, tr.Points[0].X)

	ids, err := stg.ListTrackIDs()
	assert.Nil(t, err)
	assert.Equal(t, []uint64{id}, ids)

	// reopen from the same files
	stg2 := NewFMTrackStorage("ut-tracks", nil)

	tr, err = stg2.GetTrack(id)
	assert.Nil(t, err)
	assert.Len(t, tr.Points, 2)

	err = stg.RemoveTrack(id)
	assert.Nil(t, err)

	_, err = stg.GetTrack(id)
	assert.ErrorIs(t, err, commerr.ErrNotFound)

	err = stg.RemoveTrack(id)
	assert.ErrorIs(t, err, commerr.ErrNotFound)
}
