// Package sampler buckets commit history into ISO calendar weeks and
// selects one representative commit per week.
package sampler

import (
	"fmt"
	"sort"
	"time"
)

// Week is an ISO 8601 calendar week.
type Week struct {
	Year   int
	Number int
}

// WeekOf returns the ISO week containing t. The author timezone is
// preserved so a commit lands in the week its author saw.
func WeekOf(t time.Time) Week {
	year, week := t.ISOWeek()

	return Week{Year: year, Number: week}
}

// String formats the week as "2020-W45".
func (w Week) String() string {
	return fmt.Sprintf("%d-W%02d", w.Year, w.Number)
}

// Before reports whether w is earlier than other.
func (w Week) Before(other Week) bool {
	if w.Year != other.Year {
		return w.Year < other.Year
	}

	return w.Number < other.Number
}

// Commit is the minimal history record the sampler consumes.
type Commit struct {
	Hash string
	When time.Time
}

// Sample is one selected commit with its week bucket.
type Sample struct {
	Hash string
	When time.Time
	Week Week
}

// Weekly selects one commit per ISO week: the first commit seen for a
// week wins, so with commits enumerated oldest-first the earliest
// commit of each week is the representative. Re-runs over the same
// history are therefore reproducible. The result is sorted by week.
func Weekly(commits []Commit) []Sample {
	byWeek := make(map[Week]Sample, len(commits))

	for _, c := range commits {
		week := WeekOf(c.When)

		if _, seen := byWeek[week]; seen {
			continue
		}

		byWeek[week] = Sample{Hash: c.Hash, When: c.When, Week: week}
	}

	samples := make([]Sample, 0, len(byWeek))
	for _, s := range byWeek {
		samples = append(samples, s)
	}

	sort.Slice(samples, func(i, j int) bool {
		return samples[i].Week.Before(samples[j].Week)
	})

	return samples
}

// FilterKnown drops samples whose commit hash is already present in
// known. Pure set difference, preserving order.
func FilterKnown(samples []Sample, known map[string]struct{}) []Sample {
	if len(known) == 0 {
		return samples
	}

	remaining := make([]Sample, 0, len(samples))

	for _, s := range samples {
		if _, ok := known[s.Hash]; ok {
			continue
		}

		remaining = append(remaining, s)
	}

	return remaining
}

// Tail returns the last n samples, or all of them when n <= 0 or
// exceeds the length. Used by the --max-commits limit, which keeps the
// most recent weekly samples.
func Tail(samples []Sample, n int) []Sample {
	if n <= 0 || n >= len(samples) {
		return samples
	}

	return samples[len(samples)-n:]
}
