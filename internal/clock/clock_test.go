package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFakeRecordsAndAdvances(t *testing.T) {
	start := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	f := NewFake(start)

	f.Sleep(2 * time.Second)
	f.Sleep(5 * time.Second)

	assert.Equal(t, []time.Duration{2 * time.Second, 5 * time.Second}, f.Slept())
	assert.Equal(t, 7*time.Second, f.Total())
	assert.Equal(t, start.Add(7*time.Second), f.Now())
}

func TestFakeSleptIsACopy(t *testing.T) {
	f := NewFake(time.Time{})
	f.Sleep(time.Second)
	got := f.Slept()
	got[0] = time.Hour
	assert.Equal(t, time.Second, f.Slept()[0])
}
