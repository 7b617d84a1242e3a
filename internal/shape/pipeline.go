package shape

import "math"

// filterPoints drops points that moved less than minDist from the last
// kept point, removing sensor noise and duplicate samples. The first point
// is always kept.
func filterPoints(points []PathPoint, minDist float64) []PathPoint {
	if len(points) == 0 {
		return nil
	}
	out := make([]PathPoint, 0, len(points))
	out = append(out, points[0])
	for _, p := range points[1:] {
		if pointDistance(p, out[len(out)-1]) < minDist {
			continue
		}
		out = append(out, p)
	}
	return out
}

// smoothPoints applies a three-point weighted moving average. Each
// interior point keeps factor of its own weight, with the remainder split
// between its neighbors; endpoints pass through unchanged.
func smoothPoints(points []PathPoint, factor float64) []PathPoint {
	out := make([]PathPoint, len(points))
	copy(out, points)
	if len(points) < 3 {
		return out
	}

	side := (1 - factor) / 2
	for i := 1; i < len(points)-1; i++ {
		out[i].X = points[i].X*factor + (points[i-1].X+points[i+1].X)*side
		out[i].Y = points[i].Y*factor + (points[i-1].Y+points[i+1].Y)*side
	}
	return out
}

// normalizePoints translates the stroke's bounding-box minimum to the
// origin, scales uniformly so the longer side of the box equals size, and
// rebases timestamps to start at zero. A degenerate stroke with no extent
// is translated without scaling.
func normalizePoints(points []PathPoint, size float64) []PathPoint {
	if len(points) == 0 {
		return nil
	}

	minX, minY, maxX, maxY := bounds(points)
	scale := 1.0
	if m := math.Max(maxX-minX, maxY-minY); m > 0 {
		scale = size / m
	}

	t0 := points[0].T
	out := make([]PathPoint, len(points))
	for i, p := range points {
		out[i] = PathPoint{
			X: (p.X - minX) * scale,
			Y: (p.Y - minY) * scale,
			T: p.T - t0,
		}
	}
	return out
}

// resamplePoints reduces or expands a stroke to exactly target points by
// subsampling at a uniform index step, preserving the first and last
// points.
func resamplePoints(points []PathPoint, target int) []PathPoint {
	n := len(points)
	if n == 0 || target <= 0 {
		return nil
	}
	if target == 1 || n == 1 {
		out := make([]PathPoint, target)
		for i := range out {
			out[i] = points[0]
		}
		return out
	}

	step := float64(n-1) / float64(target-1)
	out := make([]PathPoint, target)
	for i := 0; i < target; i++ {
		idx := int(math.Round(float64(i) * step))
		if idx > n-1 {
			idx = n - 1
		}
		out[i] = points[idx]
	}
	return out
}

// bounds returns the bounding box of a stroke.
func bounds(points []PathPoint) (minX, minY, maxX, maxY float64) {
	minX, minY = points[0].X, points[0].Y
	maxX, maxY = minX, minY
	for _, p := range points[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return minX, minY, maxX, maxY
}

// InitialDirection returns the angle in degrees of the stroke's first
// segment, or zero for strokes with fewer than two points.
func InitialDirection(points []PathPoint) float64 {
	if len(points) < 2 {
		return 0
	}
	dx := points[1].X - points[0].X
	dy := points[1].Y - points[0].Y
	if dx == 0 && dy == 0 {
		return 0
	}
	return math.Atan2(dy, dx) * 180 / math.Pi
}

// extractTransformation derives how the raw stroke is placed relative to
// its normalized form: the bounding-box minimum as the translation, and
// the length ratio and angle between the first and last segment vectors
// as scale and rotation. Degenerate segments leave the neutral values.
func extractTransformation(points []PathPoint) Transformation {
	tr := Transformation{Scale: 1}
	if len(points) == 0 {
		return tr
	}

	tr.TranslateX, tr.TranslateY, _, _ = bounds(points)
	if len(points) < 2 {
		return tr
	}

	n := len(points)
	v0x := points[1].X - points[0].X
	v0y := points[1].Y - points[0].Y
	v1x := points[n-1].X - points[n-2].X
	v1y := points[n-1].Y - points[n-2].Y

	l0 := math.Hypot(v0x, v0y)
	l1 := math.Hypot(v1x, v1y)
	if l0 == 0 || l1 == 0 {
		return tr
	}

	tr.Scale = l1 / l0
	deg := (math.Atan2(v1y, v1x) - math.Atan2(v0y, v0x)) * 180 / math.Pi
	for deg > 180 {
		deg -= 360
	}
	for deg <= -180 {
		deg += 360
	}
	tr.Rotation = deg
	return tr
}
