package adapter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventQueue_OrdersByTimeThenInsertion(t *testing.T) {
	q := NewEventQueue()

	var order []string

	q.ScheduleAt(5, func() { order = append(order, "b") })
	q.ScheduleAt(2, func() { order = append(order, "a") })
	q.ScheduleAt(5, func() { order = append(order, "c") })

	next, ok := q.NextTime()
	require.True(t, ok)
	assert.Equal(t, uint64(2), next)

	assert.Equal(t, 3, q.Advance(10))
	assert.Equal(t, []string{"a", "b", "c"}, order)
	assert.Equal(t, uint64(10), q.Now())

	_, ok = q.NextTime()
	assert.False(t, ok)
}

func TestEventQueue_Cancel(t *testing.T) {
	q := NewEventQueue()
	ran := false

	id := q.ScheduleAt(3, func() { ran = true })
	assert.True(t, q.Pending(id))

	assert.True(t, q.Cancel(id))
	assert.False(t, q.Pending(id))
	assert.False(t, q.Cancel(id))

	assert.Equal(t, 0, q.Advance(5))
	assert.False(t, ran)
}

func TestEventQueue_ActionsMayScheduleMore(t *testing.T) {
	q := NewEventQueue()

	var times []uint64

	q.ScheduleAt(1, func() {
		times = append(times, q.Now())
		q.ScheduleAt(q.Now()+1, func() { times = append(times, q.Now()) })
		q.ScheduleAt(q.Now()+10, func() { times = append(times, q.Now()) })
	})

	assert.Equal(t, 2, q.Advance(4))
	assert.Equal(t, []uint64{1, 2}, times)
	assert.Equal(t, uint64(4), q.Now())
}

func TestEventQueue_PastTimesRunNow(t *testing.T) {
	q := NewEventQueue()
	q.Advance(7)

	ran := uint64(0)
	q.ScheduleAt(1, func() { ran = q.Now() })

	assert.Equal(t, 1, q.Advance(7))
	assert.Equal(t, uint64(7), ran)
}
