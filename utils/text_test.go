package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "collapses whitespace", in: "  Senior\n\tJava   Developer ", want: "Senior Java Developer"},
		{name: "non breaking space", in: "Austin,\u00a0TX", want: "Austin, TX"},
		{name: "drops symbols", in: "C++ / Go Engineer!", want: "C Go Engineer"},
		{name: "keeps punctuation", in: "6-month contract (W2), remote.", want: "6-month contract (W2), remote."},
		{name: "keeps accented letters", in: "José Müller, Café Développeur", want: "José Müller, Café Développeur"},
		{name: "composes decomposed marks", in: "Jose\u0301 Mu\u0308ller", want: "José Müller"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanText(tt.in))
		})
	}
}

func TestExtractDateAt(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty stays empty", in: "", want: ""},
		{name: "days ago", in: "Posted 3 days ago", want: "2024-03-07"},
		{name: "one day ago", in: "1 day ago", want: "2024-03-09"},
		{name: "plus days", in: "30+ days ago", want: "2024-02-09"},
		{name: "hours ago", in: "14 hours ago", want: "2024-03-09"},
		{name: "us date", in: "Posted 02/28/2024", want: "2024-02-28"},
		{name: "iso date", in: "2024-01-05", want: "2024-01-05"},
		{name: "iso datetime", in: "2024-01-05T08:00:00Z", want: "2024-01-05"},
		{name: "impossible date falls back to today", in: "02/31/2024", want: "2024-03-10"},
		{name: "unrecognised", in: "Just posted", want: "2024-03-10"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractDateAt(tt.in, now))
		})
	}
}

func TestJitterBounds(t *testing.T) {
	for i := 0; i < 100; i++ {
		d := Jitter(2*time.Second, 4*time.Second)
		assert.GreaterOrEqual(t, d, 2*time.Second)
		assert.LessOrEqual(t, d, 4*time.Second)
	}
	assert.Equal(t, 5*time.Second, Jitter(5*time.Second, 5*time.Second))
}

func TestPauseRandomRecordsWait(t *testing.T) {
	var waited []time.Duration
	p := Pause(func(d time.Duration) { waited = append(waited, d) })

	got := p.Random(time.Second, 2*time.Second)

	assert.Equal(t, []time.Duration{got}, waited)

	var nilPause Pause
	assert.NotPanics(t, func() { nilPause.For(time.Hour) })
}
