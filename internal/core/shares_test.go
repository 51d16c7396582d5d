package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sicoil-cli/internal/core"
)

func TestShareSegments_Cumulative(t *testing.T) {
	segments := core.ShareSegments([]string{"A", "B", "C"}, []float64{50, 30, 20})
	require.Len(t, segments, 3)

	assert.Equal(t, 0.0, segments[0].Start)
	assert.Equal(t, 50.0, segments[0].End)
	assert.Equal(t, 50.0, segments[1].Start)
	assert.Equal(t, 80.0, segments[1].End)
	assert.Equal(t, 80.0, segments[2].Start)
	assert.Equal(t, 100.0, segments[2].End)
	assert.Equal(t, "A", segments[0].Label)
}

func TestShareSegments_ClampsAndZeroes(t *testing.T) {
	segments := core.ShareSegments([]string{"A", "B", "C"}, []float64{-10, 90, 30})
	require.Len(t, segments, 3)

	assert.Equal(t, 0.0, segments[0].Share, "negative share counts as zero")
	assert.Equal(t, 0.0, segments[0].End)
	assert.Equal(t, 90.0, segments[1].End)
	assert.Equal(t, 100.0, segments[2].End, "bar never runs past 100")
	assert.Equal(t, 10.0, segments[2].Share)
}

func TestShareSegments_UnevenInputs(t *testing.T) {
	segments := core.ShareSegments([]string{"A"}, []float64{40, 60})
	require.Len(t, segments, 1, "extra shares without labels are dropped")
	assert.Equal(t, 40.0, segments[0].End)

	assert.Empty(t, core.ShareSegments(nil, nil))
}
