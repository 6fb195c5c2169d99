package transform

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestFinalMatrixComposesTranslationRotationScale(t *testing.T) {
	tr := NewTransform(WithTranslation(1, 2, 3), WithEulerAngles(0, 90, 0), WithUniformScale(2))

	p := tr.FinalMatrix().Mul4x1(mgl32.Vec4{1, 0, 0, 1})
	assert.InDelta(t, 1, p.X(), 1e-5)
	assert.InDelta(t, 2, p.Y(), 1e-5)
	assert.InDelta(t, 1, p.Z(), 1e-5)
}

func TestFinalMatrixIsRecomputedAfterChanges(t *testing.T) {
	tr := NewTransform()
	assert.Equal(t, mgl32.Ident4(), tr.FinalMatrix())

	tr.SetTranslation(mgl32.Vec3{0, 5, 0})
	assert.Equal(t, float32(5), tr.FinalMatrix().Col(3).Y())
}

func TestInverseIgnoresScale(t *testing.T) {
	tr := NewTransform(WithTranslation(0, 0, 10), WithUniformScale(3))

	view := tr.InverseOfFinalMatrixNoScale()
	origin := view.Mul4x1(mgl32.Vec4{0, 0, 10, 1})
	assert.InDelta(t, 0, origin.Vec3().Len(), 1e-5)
}

func TestForwardFollowsRotation(t *testing.T) {
	tr := NewTransform()
	assert.InDelta(t, -1, tr.Forward().Z(), 1e-5)

	tr.SetEulerAngles(-90, 0, 0)
	assert.InDelta(t, -1, tr.Forward().Y(), 1e-5)
}

func TestLookAtFacesTheTarget(t *testing.T) {
	tr := NewTransform(WithTranslation(0, 0, 5))
	tr.LookAt(mgl32.Vec3{5, 0, 5}, mgl32.Vec3{0, 1, 0})

	assert.InDelta(t, 1, tr.Forward().X(), 1e-4)
	assert.InDelta(t, 1, tr.Up().Y(), 1e-4)
}
