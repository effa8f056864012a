package visualize

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot/vg"
)

func TestNewFigure(t *testing.T) {
	p := NewFigure("Title", "x", "y")
	assert.Equal(t, "Title", p.Title.Text)
	assert.Equal(t, "x", p.X.Label.Text)
	assert.Equal(t, "y", p.Y.Label.Text)
}

func TestSaveWritesFile(t *testing.T) {
	p := NewFigure("t", "x", "y")
	X := mat.NewDense(3, 2, []float64{0, 0, 1, 1, 2, 2})
	require.NoError(t, AddScatter(p, X, "data"))

	path := filepath.Join(t.TempDir(), "fig.png")
	require.NoError(t, Save(p, path, 10*vg.Centimeter, 8*vg.Centimeter))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestSaveSVG(t *testing.T) {
	p := NewFigure("t", "x", "y")
	require.NoError(t, AddRegressionLine(p, 2, 1, -1, 1))

	path := filepath.Join(t.TempDir(), "fig.svg")
	require.NoError(t, Save(p, path, 10*vg.Centimeter, 8*vg.Centimeter))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<svg")
}

func TestAddScatterRejectsNarrowMatrix(t *testing.T) {
	p := NewFigure("t", "x", "y")
	X := mat.NewDense(3, 1, []float64{1, 2, 3})
	assert.Error(t, AddScatter(p, X, "data"))
}

func TestAddClassScatter(t *testing.T) {
	p := NewFigure("t", "x", "y")
	X := mat.NewDense(4, 2, []float64{
		0, 0,
		1, 1,
		5, 5,
		9, 9,
	})

	require.NoError(t, AddClassScatter(p, X, []int{0, 0, 1, -1}))

	// label count mismatch
	assert.Error(t, AddClassScatter(p, X, []int{0, 1}))
}

func TestAddCurve(t *testing.T) {
	p := NewFigure("t", "x", "y")
	require.NoError(t, AddCurve(p, func(x float64) float64 { return x * x }, -1, 1, 50, "parabola"))

	assert.Error(t, AddCurve(p, func(x float64) float64 { return x }, 0, 1, 1, ""))
}

func TestAddCenters(t *testing.T) {
	p := NewFigure("t", "x", "y")
	require.NoError(t, AddCenters(p, [][]float64{{0, 0}, {1, 1}}))

	assert.Error(t, AddCenters(p, [][]float64{{0}}))
}

func TestResidualHistogram(t *testing.T) {
	res := []float64{-0.5, -0.2, 0, 0.1, 0.3, 0.5, -0.1, 0.2}
	p, err := ResidualHistogram(res, 5)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "hist.png")
	require.NoError(t, Save(p, path, 10*vg.Centimeter, 8*vg.Centimeter))

	_, err = ResidualHistogram(nil, 5)
	assert.Error(t, err)
}
