package simplify

type Point struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
}

func PointX(p Point) float64 {
	return p.X
}

func PointY(p Point) float64 {
	return p.Y
}

// Points simplifies a concrete coordinate slice. Nil in, nil out.
func Points(points []Point, epsilon float64) []Point {
	if points == nil {
		return nil
	}

	rs, _ := DouglasPeucker(points, epsilon, PointX, PointY)

	return rs
}
