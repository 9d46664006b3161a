package keylock

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLockSerializesSameKey(t *testing.T) {
	l := New()
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := l.Lock("resource:a")
			defer unlock()
			v := counter
			v++
			counter = v
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, counter)
	assert.Equal(t, 0, l.size(), "entries are released")
}

func TestLockOverlappingSetsDoNotDeadlock(t *testing.T) {
	l := New()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			l.Lock("a", "b", "a")()
		}()
		go func() {
			defer wg.Done()
			l.Lock("b", "a")()
		}()
	}
	wg.Wait()

	assert.Equal(t, 0, l.size())
}
