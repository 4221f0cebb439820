package testutil

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScriptedSource_ReturnsDrawsInOrder(t *testing.T) {
	src := NewScriptedSource(0.1, 0.5, 0.9)

	assert.Equal(t, 0.1, src.Float64())
	assert.Equal(t, 0.5, src.Float64())
	assert.Equal(t, 0.9, src.Float64())
	assert.Equal(t, 3, src.Consumed())
	assert.Equal(t, 0, src.Remaining())
}

func TestScriptedSource_PanicsWhenExhausted(t *testing.T) {
	src := NewScriptedSource(0.3)
	src.Float64()

	assert.PanicsWithValue(t, "ScriptedSource: all 1 draws consumed", func() {
		src.Float64()
	})
}

func TestScriptedSource_Reset(t *testing.T) {
	src := NewScriptedSource(0.25, 0.75)
	src.Float64()
	src.Float64()

	src.Reset()
	assert.Equal(t, 0, src.Consumed())
	assert.Equal(t, 0.25, src.Float64())
}

func TestScriptedSource_ThreadSafe(t *testing.T) {
	const n = 1000
	draws := make([]float64, n)
	for i := range draws {
		draws[i] = float64(i) / n
	}
	src := NewScriptedSource(draws...)

	var wg sync.WaitGroup
	seen := make(chan float64, n)
	for g := 0; g < 10; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < n/10; i++ {
				seen <- src.Float64()
			}
		}()
	}
	wg.Wait()
	close(seen)

	unique := make(map[float64]bool, n)
	for v := range seen {
		unique[v] = true
	}
	require.Len(t, unique, n, "every draw should be handed out exactly once")
	assert.Equal(t, 0, src.Remaining())
}
