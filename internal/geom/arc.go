package geom

import "math"

// ArcToCubics converts an SVG elliptical arc starting at from into cubic
// Bézier segments of at most 90 degrees each. Degenerate arcs (zero radius)
// become a single straight cubic; an arc ending where it starts is dropped.
func ArcToCubics(from Point, a ArcTo) []BezierTo {
	if from == a.To {
		return nil
	}
	rx, ry := math.Abs(a.RadiusX), math.Abs(a.RadiusY)
	if rx == 0 || ry == 0 {
		return []BezierTo{{Control1: from, Control2: a.To, To: a.To}}
	}

	phi := a.Rotation * math.Pi / 180
	sinPhi, cosPhi := math.Sin(phi), math.Cos(phi)

	// Endpoint to centre parameterisation (SVG 1.1 appendix F.6.5).
	dx2, dy2 := (from.X-a.To.X)/2, (from.Y-a.To.Y)/2
	x1p := cosPhi*dx2 + sinPhi*dy2
	y1p := -sinPhi*dx2 + cosPhi*dy2

	lambda := (x1p*x1p)/(rx*rx) + (y1p*y1p)/(ry*ry)
	if lambda > 1 {
		s := math.Sqrt(lambda)
		rx, ry = rx*s, ry*s
	}

	num := rx*rx*ry*ry - rx*rx*y1p*y1p - ry*ry*x1p*x1p
	den := rx*rx*y1p*y1p + ry*ry*x1p*x1p
	coef := 0.0
	if den != 0 && num > 0 {
		coef = math.Sqrt(num / den)
	}
	if a.LargeArc == a.Sweep {
		coef = -coef
	}
	cxp := coef * rx * y1p / ry
	cyp := -coef * ry * x1p / rx

	cx := cosPhi*cxp - sinPhi*cyp + (from.X+a.To.X)/2
	cy := sinPhi*cxp + cosPhi*cyp + (from.Y+a.To.Y)/2

	theta1 := vectorAngle(1, 0, (x1p-cxp)/rx, (y1p-cyp)/ry)
	delta := vectorAngle((x1p-cxp)/rx, (y1p-cyp)/ry, (-x1p-cxp)/rx, (-y1p-cyp)/ry)
	if !a.Sweep && delta > 0 {
		delta -= 2 * math.Pi
	} else if a.Sweep && delta < 0 {
		delta += 2 * math.Pi
	}

	n := int(math.Ceil(math.Abs(delta) / (math.Pi / 2)))
	if n == 0 {
		n = 1
	}
	step := delta / float64(n)
	k := 4.0 / 3.0 * math.Tan(step/4)

	ellipsePoint := func(t float64) Point {
		x, y := rx*math.Cos(t), ry*math.Sin(t)
		return Point{X: cosPhi*x - sinPhi*y + cx, Y: sinPhi*x + cosPhi*y + cy}
	}
	derivative := func(t float64) Vector {
		x, y := -rx*math.Sin(t), ry*math.Cos(t)
		return Vector{DX: cosPhi*x - sinPhi*y, DY: sinPhi*x + cosPhi*y}
	}

	out := make([]BezierTo, 0, n)
	t := theta1
	start := from
	for i := 0; i < n; i++ {
		t2 := t + step
		end := ellipsePoint(t2)
		if i == n-1 {
			end = a.To
		}
		d1, d2 := derivative(t), derivative(t2)
		out = append(out, BezierTo{
			Control1: Point{X: start.X + k*d1.DX, Y: start.Y + k*d1.DY},
			Control2: Point{X: end.X - k*d2.DX, Y: end.Y - k*d2.DY},
			To:       end,
		})
		start = end
		t = t2
	}
	return out
}

func vectorAngle(ux, uy, vx, vy float64) float64 {
	return math.Atan2(ux*vy-uy*vx, ux*vx+uy*vy)
}
