package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func isEven(n int) bool { return n%2 == 0 }

func TestCollection_ReplaceAllCopiesInput(t *testing.T) {
	c := newCollection[int]()
	in := []int{1, 2, 3}

	c.replaceAll(in)
	in[0] = 99

	assert.Equal(t, []int{1, 2, 3}, c.Snapshot())
	assert.Equal(t, uint64(1), c.Version())
}

func TestCollection_SnapshotIsACopy(t *testing.T) {
	c := newCollection[int]()
	c.replaceAll([]int{1, 2})

	snap := c.Snapshot()
	snap[0] = 42

	v, ok := c.At(0)
	assert.True(t, ok)
	assert.Equal(t, 1, v)
}

func TestCollection_ReplaceFirst(t *testing.T) {
	c := newCollection[int]()
	c.replaceAll([]int{1, 2, 4})

	assert.True(t, c.replaceFirst(isEven, 7))
	assert.Equal(t, []int{1, 7, 4}, c.Snapshot())

	before := c.Version()
	assert.False(t, c.replaceFirst(func(n int) bool { return n > 100 }, 0))
	assert.Equal(t, before, c.Version(), "no match must not count as a change")
}

func TestCollection_RemoveAll(t *testing.T) {
	c := newCollection[int]()
	c.replaceAll([]int{2, 1, 4, 3, 6})

	assert.Equal(t, 3, c.removeAll(isEven))
	assert.Equal(t, []int{1, 3}, c.Snapshot())

	before := c.Version()
	assert.Zero(t, c.removeAll(isEven))
	assert.Equal(t, before, c.Version())
}

func TestCollection_AtOutOfRange(t *testing.T) {
	c := newCollection[string]()
	_, ok := c.At(0)
	assert.False(t, ok)
	_, ok = c.At(-1)
	assert.False(t, ok)
}

func TestCollection_SubscribeCoalesces(t *testing.T) {
	c := newCollection[int]()
	ch, cancel := c.Subscribe()
	defer cancel()

	c.replaceAll([]int{1})
	c.replaceAll([]int{1, 2})
	c.clear()

	select {
	case <-ch:
	default:
		t.Fatal("expected a pending notification")
	}
	select {
	case <-ch:
		t.Fatal("bursts should coalesce into one notification")
	default:
	}
}

func TestCollection_CancelClosesChannel(t *testing.T) {
	c := newCollection[int]()
	ch, cancel := c.Subscribe()

	cancel()
	cancel()

	_, open := <-ch
	assert.False(t, open)

	// Changes after cancel must not panic on the closed channel.
	c.replaceAll([]int{1})
}
