package testutil

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStaticRequestIDs(t *testing.T) {
	gen := NewStaticRequestIDs("req-berlin")

	assert.Equal(t, "req-berlin", gen.Generate())
	assert.Equal(t, "req-berlin", gen.Generate())
}

func TestStaticRequestIDs_EmptyDefault(t *testing.T) {
	assert.Equal(t, "test-request", NewStaticRequestIDs("").Generate())
}

func TestStaticRequestIDs_ThreadSafe(t *testing.T) {
	gen := NewStaticRequestIDs("shared")

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				assert.Equal(t, "shared", gen.Generate())
			}
		}()
	}
	wg.Wait()
}
