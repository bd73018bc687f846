package track

type Storage interface {
	CreateTrack(label string) (id uint64, err error)
	AppendPoints(id uint64, points []TrackPoint) error
	GetTrack(id uint64) (*Track, error)
	ListTrackIDs() ([]uint64, error)
	RemoveTrack(id uint64) error
}

type INotify interface {
	NotifyStale(id uint64)
}
