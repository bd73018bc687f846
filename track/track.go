package track

import (
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/sgostarter/i/commerr"
	"github.com/sgostarter/i/l"
	"github.com/sgostarter/libpolyline/simplify"
	"github.com/spf13/cast"
)

// Tracks stores polylines behind a Storage and serves simplified shapes of
// them. Simplified shapes are memoized per track and epsilon; tokenKey, when
// set, enables share tokens for read access without the track ID.
func NewTracks(storage Storage, tokenKey []byte, logger l.Wrapper) *Tracks {
	if logger == nil {
		logger = l.NewNopLoggerWrapper()
	}

	logger = logger.WithFields(l.StringField(l.ClsKey, "tracks"))

	if storage == nil {
		logger.Fatal("no storage")
	}

	return &Tracks{
		logger:       logger,
		storage:      storage,
		tokenKey:     tokenKey,
		cachedShapes: cache.New(time.Minute*10, time.Minute*10),
	}
}

type Tracks struct {
	logger       l.Wrapper
	storage      Storage
	tokenKey     []byte
	cachedShapes *cache.Cache
}

func (impl *Tracks) CreateTrack(label string) (uint64, error) {
	return impl.storage.CreateTrack(label)
}

func (impl *Tracks) AppendPoints(id uint64, points []TrackPoint) error {
	err := impl.storage.AppendPoints(id, points)
	if err != nil {
		return err
	}

	impl.invalidateShapes(id)

	return nil
}

func (impl *Tracks) GetTrack(id uint64) (*Track, error) {
	return impl.storage.GetTrack(id)
}

func (impl *Tracks) ListTrackIDs() ([]uint64, error) {
	return impl.storage.ListTrackIDs()
}

func (impl *Tracks) RemoveTrack(id uint64) error {
	err := impl.storage.RemoveTrack(id)
	if err != nil {
		return err
	}

	impl.invalidateShapes(id)

	return nil
}

func (impl *Tracks) GetSimplified(id uint64, epsilon float64) (points []TrackPoint, err error) {
	key := impl.cachedShapeKey(id, epsilon)

	if i, ok := impl.cachedShapes.Get(key); ok {
		cached, _ := i.([]TrackPoint)

		// callers get their own copy, the cached shape stays private
		points = append(make([]TrackPoint, 0, len(cached)), cached...)

		return
	}

	t, err := impl.storage.GetTrack(id)
	if err != nil {
		return
	}

	if len(t.Points) == 0 {
		points = make([]TrackPoint, 0)

		return
	}

	points, err = simplify.DouglasPeucker(t.Points, epsilon,
		func(p TrackPoint) float64 { return p.X },
		func(p TrackPoint) float64 { return p.Y })
	if err != nil {
		return
	}

	impl.cachedShapes.Set(key, append(make([]TrackPoint, 0, len(points)), points...), cache.DefaultExpiration)

	return
}

func (impl *Tracks) ShareTrack(id uint64, epsilon float64, validFor time.Duration) (token string, err error) {
	if len(impl.tokenKey) == 0 {
		err = commerr.ErrUnauthenticated

		return
	}

	_, err = impl.storage.GetTrack(id)
	if err != nil {
		return
	}

	return impl.tokenNew(id, epsilon, validFor)
}

func (impl *Tracks) GetShared(token string) ([]TrackPoint, error) {
	id, epsilon, err := impl.tokenCheck(token)
	if err != nil {
		return nil, err
	}

	return impl.GetSimplified(id, epsilon)
}

func (impl *Tracks) cachedShapeKey(id uint64, epsilon float64) string {
	return cast.ToString(id) + ":" + cast.ToString(epsilon)
}

func (impl *Tracks) invalidateShapes(id uint64) {
	pre := cast.ToString(id) + ":"

	for key := range impl.cachedShapes.Items() {
		if strings.HasPrefix(key, pre) {
			impl.cachedShapes.Delete(key)
		}
	}
}
