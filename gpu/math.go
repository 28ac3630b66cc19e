package gpu

// Rect is an axis-aligned rectangle in pixels, origin bottom-left.
type Rect struct {
	X, Y float32 // Bottom-left position
	W, H float32 // Width and height
}

// Mat4 is a column-major 4x4 matrix.
type Mat4 [16]float32

// Identity returns the identity matrix.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Translate returns a translation matrix.
func Translate(x, y, z float32) Mat4 {
	m := Identity()
	m[12], m[13], m[14] = x, y, z
	return m
}

// Scale returns a scaling matrix.
func Scale(x, y, z float32) Mat4 {
	m := Identity()
	m[0], m[5], m[10] = x, y, z
	return m
}

// Ortho creates an orthographic projection matrix.
func Ortho(left, right, bottom, top, near, far float32) Mat4 {
	return Mat4{
		2 / (right - left), 0, 0, 0,
		0, 2 / (top - bottom), 0, 0,
		0, 0, -2 / (far - near), 0,
		-(right + left) / (right - left), -(top + bottom) / (top - bottom), -(far + near) / (far - near), 1,
	}
}

// Mul returns m * o.
func (m Mat4) Mul(o Mat4) Mat4 {
	var r Mat4
	for c := 0; c < 4; c++ {
		for row := 0; row < 4; row++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += m[k*4+row] * o[c*4+k]
			}
			r[c*4+row] = sum
		}
	}
	return r
}

// Apply transforms the point (x, y, z, 1) and returns x and y after the
// perspective divide.
func (m Mat4) Apply(x, y, z float32) (float32, float32) {
	px := m[0]*x + m[4]*y + m[8]*z + m[12]
	py := m[1]*x + m[5]*y + m[9]*z + m[13]
	pw := m[3]*x + m[7]*y + m[11]*z + m[15]
	if pw == 0 {
		return px, py
	}
	return px / pw, py / pw
}
