package mailprop

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFileTimeRoundTrip(t *testing.T) {
	cases := []struct {
		name string
		t    time.Time
	}{
		{"epoch", time.Date(1601, time.January, 1, 0, 0, 0, 0, time.UTC)},
		{"unix epoch", time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC)},
		{"recent", time.Date(2024, time.March, 15, 12, 30, 45, 0, time.UTC)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ft := NewFileTime(c.t)
			assert.True(t, ft.Time().Equal(c.t), "got %s, want %s", ft.Time(), c.t)
		})
	}
}

func TestFileTimeKnownValue(t *testing.T) {
	// 1601-01-01 plus exactly one second is 10,000,000 ticks.
	ft := FileTime(10_000_000)
	want := time.Date(1601, time.January, 1, 0, 0, 1, 0, time.UTC)
	assert.True(t, ft.Time().Equal(want))
}

func TestAppTimeRoundTrip(t *testing.T) {
	cases := []struct {
		name string
		t    time.Time
	}{
		{"epoch", time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)},
		{"recent", time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			at := NewAppTime(c.t)
			assert.WithinDuration(t, c.t, at.Time(), time.Second)
		})
	}
}

func TestAppTimeKnownValue(t *testing.T) {
	// One full day after the APPTIME epoch is AppTime(1).
	at := AppTime(1)
	want := time.Date(1899, time.December, 31, 0, 0, 0, 0, time.UTC)
	assert.True(t, at.Time().Equal(want))
}
