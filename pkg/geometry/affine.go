package geometry

import (
	"gonum.org/v1/gonum/mat"
)

// Affine returns the 3x3 homogeneous matrix mapping image pixel coordinates
// (x right, y down) to viewport coordinates. The image is positioned at
// t.Position and scaled by t.Scale around its own center.
func Affine(t Transform, natural Size) *mat.Dense {
	cx := float64(natural.Width) / 2
	cy := float64(natural.Height) / 2

	toCenter := translation(-cx, -cy)
	scale := mat.NewDense(3, 3, []float64{
		t.Scale, 0, 0,
		0, t.Scale, 0,
		0, 0, 1,
	})
	place := translation(t.Position.Left+cx, t.Position.Top+cy)

	var tmp, m mat.Dense
	tmp.Mul(scale, toCenter)
	m.Mul(place, &tmp)
	return &m
}

// ToMatrix returns the first two rows of the affine matrix, the layout used by
// x/image/math/f64.Aff3.
func ToMatrix(t Transform, natural Size) [2][3]float64 {
	m := Affine(t, natural)
	return [2][3]float64{
		{m.At(0, 0), m.At(0, 1), m.At(0, 2)},
		{m.At(1, 0), m.At(1, 1), m.At(1, 2)},
	}
}

// ImageToViewport maps an image pixel coordinate into the viewport.
func ImageToViewport(t Transform, natural Size, x, y float64) (vx, vy float64) {
	return apply(Affine(t, natural), x, y)
}

// ViewportToImage maps a viewport coordinate back into image pixel space.
// Returns false if the transform is singular (scale 0).
func ViewportToImage(t Transform, natural Size, vx, vy float64) (x, y float64, ok bool) {
	var inv mat.Dense
	if err := inv.Inverse(Affine(t, natural)); err != nil {
		return 0, 0, false
	}
	x, y = apply(&inv, vx, vy)
	return x, y, true
}

func translation(tx, ty float64) *mat.Dense {
	return mat.NewDense(3, 3, []float64{
		1, 0, tx,
		0, 1, ty,
		0, 0, 1,
	})
}

func apply(m *mat.Dense, x, y float64) (float64, float64) {
	p := mat.NewVecDense(3, []float64{x, y, 1})
	var out mat.VecDense
	out.MulVec(m, p)
	return out.AtVec(0), out.AtVec(1)
}
