package quickhull

import (
	"context"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeAll(t *testing.T) {
	clouds := [][]r3.Vector{
		tetrahedron(),
		unitCube(),
		sphereCloud(31, 50, 1),
	}

	for _, n := range []int{0, 1, 2, 8} {
		hulls, err := ComputeAll(context.Background(), clouds, WithConcurrency(n))
		require.NoError(t, err)
		require.Len(t, hulls, len(clouds))

		assert.Equal(t, 4, hulls[0].FaceCount())
		assert.Equal(t, 12, hulls[1].FaceCount())
		assert.Equal(t, 50, hulls[2].VertexCount())
	}
}

func TestComputeAllError(t *testing.T) {
	clouds := [][]r3.Vector{
		tetrahedron(),
		{{X: 0}, {X: 1}, {X: 2}, {X: 3}},
		unitCube(),
	}

	hulls, err := ComputeAll(context.Background(), clouds, WithConcurrency(1))
	require.Error(t, err)
	assert.Nil(t, hulls)
	assert.Contains(t, err.Error(), "cloud 1")
	assert.True(t, errors.Is(err, ErrDegenerateInput))
}

func TestComputeAllCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ComputeAll(ctx, [][]r3.Vector{tetrahedron()})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestComputeAllEmpty(t *testing.T) {
	hulls, err := ComputeAll(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, hulls)
}
