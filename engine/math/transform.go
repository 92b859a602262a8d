package math

func TransformCreate() Transform {
	return TransformFromPositionRotationScale(NewVec3Zero(), NewQuatIdentity(), NewVec3One())
}

func TransformFromPosition(position Vec3) Transform {
	return TransformFromPositionRotationScale(position, NewQuatIdentity(), NewVec3One())
}

func TransformFromRotation(rotation Quaternion) Transform {
	return TransformFromPositionRotationScale(NewVec3Zero(), rotation, NewVec3One())
}

func TransformFromPositionRotation(position Vec3, rotation Quaternion) Transform {
	return TransformFromPositionRotationScale(position, rotation, NewVec3One())
}

func TransformFromPositionRotationScale(position Vec3, rotation Quaternion, scale Vec3) Transform {
	t := Transform{}
	t.SetPositionRotationScale(position, rotation, scale)
	return t
}

// TransformFromMat4 decomposes an affine matrix without shear into a transform.
// Negative scales are folded into the rotation on the X axis.
func TransformFromMat4(mt Mat4) Transform {
	position := Vec3{mt.Data[12], mt.Data[13], mt.Data[14]}
	x, y, z := mt.axis(0), mt.axis(1), mt.axis(2)
	scale := Vec3{x.Length(), y.Length(), z.Length()}
	if x.Cross(y).Dot(z) < 0 {
		scale.X = -scale.X
	}

	rot := NewMat4Identity()
	for i, a := range [3]Vec3{x.Div(NewVec3(scale.X, scale.X, scale.X)), y.Normalized(), z.Normalized()} {
		rot.Data[i*4+0] = a.X
		rot.Data[i*4+1] = a.Y
		rot.Data[i*4+2] = a.Z
	}
	return TransformFromPositionRotationScale(position, NewQuatFromMat4(rot), scale)
}

func (t *Transform) SetPosition(position Vec3) {
	t.Position = position
}

func (t *Transform) Translate(translation Vec3) {
	t.Position = t.Position.Add(translation)
}

func (t *Transform) SetRotation(rotation Quaternion) {
	t.Rotation = rotation
}

func (t *Transform) Rotate(rotation Quaternion) {
	t.Rotation = t.Rotation.Mul(rotation)
}

func (t *Transform) SetScale(scale Vec3) {
	t.Scale = scale
}

func (t *Transform) SetPositionRotationScale(position Vec3, rotation Quaternion, scale Vec3) {
	t.Position = position
	t.Rotation = rotation
	t.Scale = scale
}

// GetLocal returns the matrix of t, scale first, then rotation, then translation.
func (t Transform) GetLocal() Mat4 {
	m := t.Rotation.ToMat4()
	tr := m.Mul(NewMat4Translation(t.Position))
	s := NewMat4Scale(t.Scale)
	return s.Mul(tr)
}

// TransformPosition maps a point from the space of t into the space t is
// expressed in.
func (t Transform) TransformPosition(p Vec3) Vec3 {
	return t.Rotation.RotateVec3(t.Scale.Mul(p)).Add(t.Position)
}

// Compose returns t, expressed relative to parent, in the space parent is
// expressed in. Composing a local transform with the parent's world transform
// yields the world transform.
func (t Transform) Compose(parent Transform) Transform {
	return Transform{
		Position: parent.TransformPosition(t.Position),
		Rotation: parent.Rotation.Mul(t.Rotation).Normalize(),
		Scale:    t.Scale.Mul(parent.Scale),
	}
}

// RelativeTo is the inverse of Compose: it expresses t in the space of parent,
// so that t.RelativeTo(p).Compose(p) equals t.
func (t Transform) RelativeTo(parent Transform) Transform {
	inv := parent.Rotation.Inverse()
	return Transform{
		Position: inv.RotateVec3(t.Position.Sub(parent.Position)).Div(parent.Scale),
		Rotation: inv.Mul(t.Rotation).Normalize(),
		Scale:    t.Scale.Div(parent.Scale),
	}
}

// Compare reports whether every component of t and other is within tolerance.
func (t Transform) Compare(other Transform, tolerance float32) bool {
	return t.Position.Compare(other.Position, tolerance) &&
		t.Rotation.Compare(other.Rotation, tolerance) &&
		t.Scale.Compare(other.Scale, tolerance)
}
