package series

import (
	"sort"
	"time"
)

// Point is a single dated observation.
type Point struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// Sort orders points ascending by date. Points sharing a date keep their input order.
func Sort(points []Point) {
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Date.Before(points[j].Date)
	})
}

// IsSorted reports whether points are ascending by date.
func IsSorted(points []Point) bool {
	return sort.SliceIsSorted(points, func(i, j int) bool {
		return points[i].Date.Before(points[j].Date)
	})
}

// Truncate drops every point dated after cutoff. The input slice is not modified.
func Truncate(points []Point, cutoff time.Time) []Point {
	out := make([]Point, 0, len(points))
	for _, p := range points {
		if p.Date.After(cutoff) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Clone returns a copy of points.
func Clone(points []Point) []Point {
	if points == nil {
		return nil
	}
	out := make([]Point, len(points))
	copy(out, points)
	return out
}

// Values returns the values of points in order.
func Values(points []Point) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = p.Value
	}
	return out
}
