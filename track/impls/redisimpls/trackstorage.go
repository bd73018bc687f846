package redisimpls

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/godruoyi/go-snowflake"
	"github.com/sgostarter/i/commerr"
	"github.com/sgostarter/i/l"
	"github.com/sgostarter/libpolyline/track"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

func NewRedisTrackStorage(preKey string, redisCli *redis.Client, logger l.Wrapper) track.Storage {
	if logger == nil {
		logger = l.NewNopLoggerWrapper()
	}

	logger = logger.WithFields(l.StringField(l.ClsKey, "tracksStorage"))

	if redisCli == nil {
		logger.Fatal("no redis client")
	}

	return &tracksStorage{
		logger:   logger,
		preKey:   preKey,
		redisCli: redisCli,
	}
}

type tracksStorage struct {
	logger   l.Wrapper
	preKey   string
	redisCli *redis.Client
}

func (impl *tracksStorage) CreateTrack(label string) (id uint64, err error) {
	id = snowflake.ID()

	err = impl.redisCli.HSet(context.Background(), impl.trackKey(id),
		"label", label, "create_at", time.Now().Unix()).Err()
	if err != nil {
		return
	}

	err = impl.redisCli.SAdd(context.Background(), impl.tracksKey(), id).Err()

	return
}

func (impl *tracksStorage) AppendPoints(id uint64, points []track.TrackPoint) (err error) {
	if len(points) == 0 {
		return
	}

	n, err := impl.redisCli.Exists(context.Background(), impl.trackKey(id)).Result()
	if err != nil {
		return
	}

	if n == 0 {
		err = commerr.ErrNotFound

		return
	}

	vs := make([]interface{}, 0, len(points))

	for _, point := range points {
		var d []byte

		d, err = yaml.Marshal(point)
		if err != nil {
			return
		}

		vs = append(vs, d)
	}

	err = impl.redisCli.RPush(context.Background(), impl.trackPointsKey(id), vs...).Err()

	return
}

func (impl *tracksStorage) GetTrack(id uint64) (t *track.Track, err error) {
	label, err := impl.redisCli.HGet(context.Background(), impl.trackKey(id), "label").Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			err = commerr.ErrNotFound
		}

		return
	}

	ds, err := impl.redisCli.LRange(context.Background(), impl.trackPointsKey(id), 0, -1).Result()
	if err != nil {
		return
	}

	t = &track.Track{
		ID:    id,
		Label: label,
	}

	for _, d := range ds {
		var point track.TrackPoint

		err = yaml.Unmarshal([]byte(d), &point)
		if err != nil {
			t = nil

			return
		}

		t.Points = append(t.Points, point)
	}

	return
}

func (impl *tracksStorage) ListTrackIDs() (ids []uint64, err error) {
	ss, err := impl.redisCli.SMembers(context.Background(), impl.tracksKey()).Result()
	if err != nil {
		return
	}

	for _, s := range ss {
		var id uint64

		id, err = cast.ToUint64E(s)
		if err != nil {
			return
		}

		ids = append(ids, id)
	}

	return
}

func (impl *tracksStorage) RemoveTrack(id uint64) (err error) {
	n, err := impl.redisCli.Del(context.Background(), impl.trackKey(id), impl.trackPointsKey(id)).Result()
	if err != nil {
		return
	}

	if n == 0 {
		err = commerr.ErrNotFound

		return
	}

	err = impl.redisCli.SRem(context.Background(), impl.tracksKey(), id).Err()

	return
}

func (impl *tracksStorage) trackKey(id uint64) string {
	if impl.preKey == "" {
		return "track:" + cast.ToString(id)
	}

	return impl.preKey + ":" + "track:" + cast.ToString(id)
}

func (impl *tracksStorage) trackPointsKey(id uint64) string {
	return impl.trackKey(id) + ":points"
}

func (impl *tracksStorage) tracksKey() string {
	if impl.preKey == "" {
		return "tracks"
	}

	return impl.preKey + ":" + "tracks"
}
