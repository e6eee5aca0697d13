package job

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunCoversEveryIndexOnce(t *testing.T) {
	for _, workers := range []int{1, 2, 3, 7, 16} {
		exec := New(workers)
		const n = 1001
		var hits [n]int32
		err := exec.Run(n, func(worker, lo, hi int) error {
			assert.Less(t, worker, exec.Workers())
			for i := lo; i < hi; i++ {
				atomic.AddInt32(&hits[i], 1)
			}
			return nil
		})
		require.NoError(t, err)
		for i := range hits {
			require.Equal(t, int32(1), hits[i], "workers=%d index=%d", workers, i)
		}
	}
}

func TestParallelChunksAreContiguousAndOrdered(t *testing.T) {
	exec := NewParallel(4)
	bounds := make([][2]int, 4)
	require.NoError(t, exec.Run(10, func(worker, lo, hi int) error {
		bounds[worker] = [2]int{lo, hi}
		return nil
	}))
	assert.Equal(t, [][2]int{{0, 3}, {3, 6}, {6, 9}, {9, 10}}, bounds)
}

func TestRunReportsWorkerErrorAfterBarrier(t *testing.T) {
	boom := errors.New("boom")
	exec := NewParallel(4)
	var finished int32
	err := exec.Run(8, func(worker, lo, hi int) error {
		defer atomic.AddInt32(&finished, 1)
		if worker == 2 {
			return boom
		}
		return nil
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, int32(4), atomic.LoadInt32(&finished))
}

func TestRunEmptyRangeIsNoop(t *testing.T) {
	called := false
	fn := func(int, int, int) error { called = true; return nil }
	require.NoError(t, Sequential{}.Run(0, fn))
	require.NoError(t, NewParallel(3).Run(0, fn))
	assert.False(t, called)
}

func TestNewParallelDefaultsToGOMAXPROCS(t *testing.T) {
	assert.GreaterOrEqual(t, NewParallel(0).Workers(), 1)
	assert.IsType(t, Sequential{}, New(1))
}
