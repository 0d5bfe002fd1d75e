package services

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderNumberFormatAndSequence(t *testing.T) {
	db := newTestDB(t)
	allocator := NewOrderNumberAllocator("ORD")
	allocator.Now = func() time.Time {
		return time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	}

	first, err := allocator.Next(db)
	require.NoError(t, err)
	second, err := allocator.Next(db)
	require.NoError(t, err)

	assert.Equal(t, "ORD2603150001", first)
	assert.Equal(t, "ORD2603150002", second)
	assert.Regexp(t, regexp.MustCompile(`^ORD\d{6}\d{4}$`), first)
}

func TestOrderNumberResetsEachDay(t *testing.T) {
	db := newTestDB(t)
	allocator := NewOrderNumberAllocator("ORD")

	day := time.Date(2026, 3, 15, 23, 59, 0, 0, time.UTC)
	allocator.Now = func() time.Time { return day }

	for i := 0; i < 3; i++ {
		_, err := allocator.Next(db)
		require.NoError(t, err)
	}

	day = day.Add(2 * time.Minute) // past midnight
	number, err := allocator.Next(db)
	require.NoError(t, err)
	assert.Equal(t, "ORD2603160001", number)
}

func TestOrderNumberDefaultPrefix(t *testing.T) {
	allocator := NewOrderNumberAllocator("")
	assert.Equal(t, "ORD", allocator.Prefix)
}

func TestOrderNumbersNeverRepeat(t *testing.T) {
	db := newTestDB(t)
	allocator := NewOrderNumberAllocator("ORD")
	allocator.Now = func() time.Time {
		return time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	}

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		number, err := allocator.Next(db)
		require.NoError(t, err)
		require.False(t, seen[number], "duplicate order number %s", number)
		seen[number] = true
	}
}
