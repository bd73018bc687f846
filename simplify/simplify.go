package simplify

import (
	"math"

	"github.com/sgostarter/i/commerr"
)

// DouglasPeucker reduces a polyline to a subset of its points so that no
// dropped point lies farther than epsilon from the line between the retained
// points around it. Points are read through getX/getY only and are never
// modified; the returned slice is freshly allocated, keeps the input order
// and always retains both endpoints.
//
// A nil points slice or a nil accessor is an argument error. An epsilon that
// is NaN, infinite, zero or negative disables simplification: the input is
// returned as an unchanged copy.
func DouglasPeucker[T any](points []T, epsilon float64, getX, getY func(T) float64) ([]T, error) {
	if points == nil || getX == nil || getY == nil {
		return nil, commerr.ErrInvalidArgument
	}

	if len(points) < 3 || math.IsNaN(epsilon) || math.IsInf(epsilon, 0) || epsilon <= 0 {
		return append(make([]T, 0, len(points)), points...), nil
	}

	epsilonSquared := epsilon * epsilon

	keep := make([]bool, len(points))
	keep[0] = true
	keep[len(points)-1] = true

	// A work list of [start, end] index pairs instead of recursion: a jagged
	// or plateaued input splits near one end every time, and recursion depth
	// would approach the point count.
	stack := make([]int, 0, 64)
	stack = append(stack, 0, len(points)-1)

	for len(stack) > 0 {
		end := stack[len(stack)-1]
		start := stack[len(stack)-2]
		stack = stack[:len(stack)-2]

		if end-start < 2 {
			continue
		}

		x1, y1 := getX(points[start]), getY(points[start])
		x2, y2 := getX(points[end]), getY(points[end])

		dx := x2 - x1
		dy := y2 - y1
		lineLengthSquared := dx*dx + dy*dy

		var maxDistanceSquared float64

		maxIndex := start

		if lineLengthSquared < math.SmallestNonzeroFloat64 {
			// Coincident anchors leave the perpendicular undefined; measure
			// against the start anchor instead.
			for i := start + 1; i < end; i++ {
				ex := getX(points[i]) - x1
				ey := getY(points[i]) - y1

				if d := ex*ex + ey*ey; d > maxDistanceSquared {
					maxDistanceSquared = d
					maxIndex = i
				}
			}
		} else {
			crossTerm := x1*y2 - x2*y1

			for i := start + 1; i < end; i++ {
				numerator := crossTerm + dx*getY(points[i]) - dy*getX(points[i])

				if d := numerator * numerator / lineLengthSquared; d > maxDistanceSquared {
					maxDistanceSquared = d
					maxIndex = i
				}
			}
		}

		if maxDistanceSquared > epsilonSquared {
			keep[maxIndex] = true

			stack = append(stack, start, maxIndex, maxIndex, end)
		}
	}

	rs := make([]T, 0, len(points))

	for i, kept := range keep {
		if kept {
			rs = append(rs, points[i])
		}
	}

	return rs, nil
}
