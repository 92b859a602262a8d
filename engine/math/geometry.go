package math

// ExtentsFromPositions returns the bounding box of positions and its center.
// An empty slice yields zero extents.
func ExtentsFromPositions(positions []Vec3) (Extents3D, Vec3) {
	if len(positions) == 0 {
		return Extents3D{}, NewVec3Zero()
	}
	ext := Extents3D{
		Min: Vec3{K_INFINITY, K_INFINITY, K_INFINITY},
		Max: Vec3{-K_INFINITY, -K_INFINITY, -K_INFINITY},
	}
	for _, p := range positions {
		ext.Min = Vec3{min(ext.Min.X, p.X), min(ext.Min.Y, p.Y), min(ext.Min.Z, p.Z)}
		ext.Max = Vec3{max(ext.Max.X, p.X), max(ext.Max.Y, p.Y), max(ext.Max.Z, p.Z)}
	}
	center := ext.Min.Add(ext.Max).MulScalar(0.5)
	return ext, center
}

// Centroid returns the arithmetic mean of points, or false when there are none.
func Centroid(points []Vec3) (Vec3, bool) {
	if len(points) == 0 {
		return NewVec3Zero(), false
	}
	sum := NewVec3Zero()
	for _, p := range points {
		sum = sum.Add(p)
	}
	return sum.MulScalar(1.0 / float32(len(points))), true
}
