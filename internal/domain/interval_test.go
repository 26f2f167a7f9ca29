package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIntervalsOverlap(t *testing.T) {
	base := time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)
	at := func(h, m int) time.Time {
		return base.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
	}

	tests := []struct {
		name     string
		aFrom    time.Time
		aUntil   time.Time
		bFrom    time.Time
		bUntil   time.Time
		expected bool
	}{
		{
			name:  "partial overlap",
			aFrom: at(11, 30), aUntil: at(12, 0),
			bFrom: at(11, 20), bUntil: at(11, 40),
			expected: true,
		},
		{
			name:  "contained interval",
			aFrom: at(10, 0), aUntil: at(12, 0),
			bFrom: at(10, 30), bUntil: at(11, 0),
			expected: true,
		},
		{
			name:  "identical intervals",
			aFrom: at(11, 0), aUntil: at(11, 30),
			bFrom: at(11, 0), bUntil: at(11, 30),
			expected: true,
		},
		{
			name:  "touching at left boundary",
			aFrom: at(11, 30), aUntil: at(12, 0),
			bFrom: at(11, 0), bUntil: at(11, 30),
			expected: false,
		},
		{
			name:  "touching at right boundary",
			aFrom: at(11, 30), aUntil: at(12, 0),
			bFrom: at(12, 0), bUntil: at(12, 30),
			expected: false,
		},
		{
			name:  "disjoint intervals",
			aFrom: at(9, 0), aUntil: at(10, 0),
			bFrom: at(14, 0), bUntil: at(15, 0),
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IntervalsOverlap(tt.aFrom, tt.aUntil, tt.bFrom, tt.bUntil))
			// Пересечение симметрично
			assert.Equal(t, tt.expected, IntervalsOverlap(tt.bFrom, tt.bUntil, tt.aFrom, tt.aUntil))
		})
	}
}

func TestServiceOccupiedInterval(t *testing.T) {
	start := time.Date(2026, 3, 16, 11, 0, 0, 0, time.UTC)

	t.Run("without buffers", func(t *testing.T) {
		svc := &Service{DurationMinutes: 30}

		from, until := svc.OccupiedInterval(start)

		assert.Equal(t, start, from)
		assert.Equal(t, start.Add(30*time.Minute), until)
	})

	t.Run("with buffers on both sides", func(t *testing.T) {
		svc := &Service{DurationMinutes: 30, BufferBeforeMinutes: 15, BufferAfterMinutes: 10}

		from, until := svc.OccupiedInterval(start)

		assert.Equal(t, start.Add(-15*time.Minute), from)
		assert.Equal(t, start.Add(40*time.Minute), until)
	})
}

func TestSlotHoldIsExpired(t *testing.T) {
	now := time.Date(2026, 3, 16, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		expiresAt time.Time
		expired   bool
	}{
		{"expires in the future", now.Add(time.Minute), false},
		{"expires exactly now", now, true},
		{"expired in the past", now.Add(-time.Second), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &SlotHold{ExpiresAt: tt.expiresAt}
			assert.Equal(t, tt.expired, h.IsExpired(now))
		})
	}
}

func TestTimeBlockAppliesTo(t *testing.T) {
	profID := int64(7)
	otherID := int64(8)

	businessWide := &TimeBlock{ProfessionalID: nil}
	personal := &TimeBlock{ProfessionalID: &profID}

	assert.True(t, businessWide.AppliesTo(profID))
	assert.True(t, businessWide.AppliesTo(otherID))
	assert.True(t, personal.AppliesTo(profID))
	assert.False(t, personal.AppliesTo(otherID))
}
