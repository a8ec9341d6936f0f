package dial

import "math"

// SnapDegrees is one 5-minute step on a 12-hour face (0.5 degrees per minute).
const SnapDegrees = 2.5

// Point is a coordinate on the drawing surface; Y grows downwards.
type Point struct {
	X float64
	Y float64
}

// Face is the circular clock face. Angle 0 is 12 o'clock, growing clockwise.
type Face struct {
	Center Point
	Radius float64
}

// NewFace returns the face drawn inside a size x size square with a 10 unit margin.
func NewFace(size float64) Face {
	c := size / 2
	return Face{Center: Point{X: c, Y: c}, Radius: c - 10}
}

func (f Face) Contains(p Point) bool {
	return math.Hypot(p.X-f.Center.X, p.Y-f.Center.Y) <= f.Radius
}

// PointAt returns the point at angle degrees, r units from the center.
func (f Face) PointAt(angle, r float64) Point {
	rad := angle * math.Pi / 180
	return Point{
		X: f.Center.X + r*math.Sin(rad),
		Y: f.Center.Y - r*math.Cos(rad),
	}
}

// Reading is a snapped pointer position.
type Reading struct {
	Angle  float64
	Hour   int
	Minute int
}

// Quantize converts p into a snapped angle and a 12-hour clock reading.
// It does not check that p lies inside the face.
func Quantize(f Face, p Point) Reading {
	dx := p.X - f.Center.X
	dy := f.Center.Y - p.Y
	angle := math.Atan2(dx, dy) * 180 / math.Pi
	if angle < 0 {
		angle += 360
	}
	snapped := math.Round(angle/SnapDegrees) * SnapDegrees
	if snapped >= 360 {
		snapped -= 360
	}
	total := int(math.Round(snapped * 2))
	return Reading{
		Angle:  snapped,
		Hour:   (total / 60) % 12,
		Minute: int(math.Round(float64(total%60)/5)) * 5,
	}
}

// AngleFor is the face angle of hour:minute on the 12-hour dial.
func AngleFor(hour, minute int) float64 {
	return float64(hour%12)*30 + float64(minute)*0.5
}
