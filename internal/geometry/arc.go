package geometry

import (
	"fmt"
	"math"

	"github.com/sandeepkv93/clockwise/internal/dial"
)

// Arc is a circular arc on the face, describable as an SVG path.
type Arc struct {
	Start    dial.Point
	End      dial.Point
	Radius   float64
	LargeArc bool
	// StartAngle is where sampling begins; Sweep is the signed extent in
	// degrees, positive clockwise.
	StartAngle float64
	Sweep      float64

	face dial.Face
}

// ArcPath builds the arc between two face angles. A task spanning more than one
// half-day goes the long way round; otherwise the arc runs clockwise from start
// to end with the end pushed forward a turn when it is numerically smaller.
func ArcPath(face dial.Face, startAngle, endAngle, radius float64, spans bool) Arc {
	arc := Arc{
		Radius:     radius,
		StartAngle: startAngle,
		face:       face,
		Start:      face.PointAt(startAngle, radius),
	}
	if spans {
		arc.End = face.PointAt(endAngle, radius)
		arc.LargeArc = true
		delta := math.Mod(endAngle-startAngle+360, 360)
		switch {
		case delta == 0:
			arc.Sweep = 360
		case delta > 180:
			arc.Sweep = delta
		default:
			arc.Sweep = delta - 360
		}
		return arc
	}

	adjusted := endAngle
	if adjusted < startAngle {
		adjusted += 360
	}
	arc.End = face.PointAt(adjusted, radius)
	arc.LargeArc = adjusted-startAngle > 180
	arc.Sweep = adjusted - startAngle
	return arc
}

// SVG renders the arc as path data: "M x y A r r 0 large 1 x y".
func (a Arc) SVG() string {
	large := 0
	if a.LargeArc {
		large = 1
	}
	return fmt.Sprintf("M %s %s A %s %s 0 %d 1 %s %s",
		num(a.Start.X), num(a.Start.Y), num(a.Radius), num(a.Radius), large, num(a.End.X), num(a.End.Y))
}

// Sample returns points along the arc every step degrees, both ends included.
func (a Arc) Sample(step float64) []dial.Point {
	if step <= 0 {
		step = 1
	}
	n := int(math.Ceil(math.Abs(a.Sweep) / step))
	if n == 0 {
		return []dial.Point{a.Start}
	}
	out := make([]dial.Point, 0, n+1)
	for i := 0; i <= n; i++ {
		angle := a.StartAngle + a.Sweep*float64(i)/float64(n)
		out = append(out, a.face.PointAt(angle, a.Radius))
	}
	return out
}

func num(v float64) string {
	if math.Abs(v) < 1e-9 {
		v = 0
	}
	return fmt.Sprintf("%.2f", v)
}
