package track

type TrackPoint struct {
	At int64   `yaml:"at" json:"at"`
	X  float64 `yaml:"x" json:"x"`
	Y  float64 `yaml:"y" json:"y"`
}

type Track struct {
	ID     uint64       `yaml:"id" json:"id"`
	Label  string       `yaml:"label" json:"label"`
	Points []TrackPoint `yaml:"points" json:"points"`
}
