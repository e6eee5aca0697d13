package event

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventsBecomeVisibleAfterSwap(t *testing.T) {
	b := NewBus()
	var got []int64
	Subscribe(b, func(e UnitKilled) { got = append(got, e.Tick) })

	Emit(b, UnitKilled{Tick: 1})
	assert.Equal(t, 0, b.DispatchAll())
	assert.Empty(t, got)

	b.SwapBuffers()
	assert.Equal(t, 1, b.DispatchAll())
	assert.Equal(t, []int64{1}, got)

	// The old front buffer is recycled as the new back buffer.
	b.SwapBuffers()
	assert.Equal(t, 0, b.DispatchAll())
}

func TestConcurrentEmit(t *testing.T) {
	b := NewBus()
	var total int32
	Subscribe(b, func(e AttackLanded) { total += e.Total })

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				Emit(b, AttackLanded{Total: 1})
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 800, b.Drain())
	assert.Equal(t, int32(800), total)
}

func TestEmitOnNilBusIsDropped(t *testing.T) {
	assert.NotPanics(t, func() { Emit[UnitKilled](nil, UnitKilled{}) })
}
