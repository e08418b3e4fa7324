package sampler_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specgrowth/specgrowth/pkg/sampler"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func TestWeekOf_ISOYearBoundary(t *testing.T) {
	t.Parallel()

	// 2021-01-01 falls in ISO week 53 of 2020.
	week := sampler.WeekOf(day(2021, time.January, 1))
	assert.Equal(t, sampler.Week{Year: 2020, Number: 53}, week)
	assert.Equal(t, "2020-W53", week.String())
}

func TestWeek_Before(t *testing.T) {
	t.Parallel()

	assert.True(t, sampler.Week{Year: 2020, Number: 53}.Before(sampler.Week{Year: 2021, Number: 1}))
	assert.True(t, sampler.Week{Year: 2021, Number: 1}.Before(sampler.Week{Year: 2021, Number: 2}))
	assert.False(t, sampler.Week{Year: 2021, Number: 2}.Before(sampler.Week{Year: 2021, Number: 2}))
}

func TestWeekly_OnePerWeek(t *testing.T) {
	t.Parallel()

	commits := []sampler.Commit{
		{Hash: "a", When: day(2024, time.March, 4)},  // week 10, Monday
		{Hash: "b", When: day(2024, time.March, 6)},  // week 10
		{Hash: "c", When: day(2024, time.March, 11)}, // week 11
		{Hash: "d", When: day(2024, time.March, 25)}, // week 13, week 12 empty
	}

	samples := sampler.Weekly(commits)
	require.Len(t, samples, 3)

	// First commit of each week wins.
	assert.Equal(t, "a", samples[0].Hash)
	assert.Equal(t, "c", samples[1].Hash)
	assert.Equal(t, "d", samples[2].Hash)

	assert.Equal(t, sampler.Week{Year: 2024, Number: 10}, samples[0].Week)
	assert.Equal(t, sampler.Week{Year: 2024, Number: 11}, samples[1].Week)
	assert.Equal(t, sampler.Week{Year: 2024, Number: 13}, samples[2].Week)
}

func TestWeekly_SortedAcrossYears(t *testing.T) {
	t.Parallel()

	commits := []sampler.Commit{
		{Hash: "new", When: day(2021, time.January, 4)},   // 2021-W01
		{Hash: "old", When: day(2020, time.December, 30)}, // 2020-W53
	}

	samples := sampler.Weekly(commits)
	require.Len(t, samples, 2)
	assert.Equal(t, "old", samples[0].Hash)
	assert.Equal(t, "new", samples[1].Hash)
}

func TestWeekly_Empty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, sampler.Weekly(nil))
}

func TestFilterKnown(t *testing.T) {
	t.Parallel()

	samples := []sampler.Sample{{Hash: "a"}, {Hash: "b"}, {Hash: "c"}}
	known := map[string]struct{}{"b": {}}

	remaining := sampler.FilterKnown(samples, known)
	require.Len(t, remaining, 2)
	assert.Equal(t, "a", remaining[0].Hash)
	assert.Equal(t, "c", remaining[1].Hash)
}

func TestFilterKnown_AllKnownIsEmpty(t *testing.T) {
	t.Parallel()

	samples := []sampler.Sample{{Hash: "a"}}
	known := map[string]struct{}{"a": {}}

	assert.Empty(t, sampler.FilterKnown(samples, known))
}

func TestTail(t *testing.T) {
	t.Parallel()

	samples := []sampler.Sample{{Hash: "a"}, {Hash: "b"}, {Hash: "c"}}

	assert.Len(t, sampler.Tail(samples, 0), 3)
	assert.Len(t, sampler.Tail(samples, 5), 3)

	tail := sampler.Tail(samples, 2)
	require.Len(t, tail, 2)
	assert.Equal(t, "b", tail[0].Hash)
}
