package weather

import (
	"sort"
	"time"

	"github.com/yanqian/daily-briefing/pkg/util"
)

const (
	// MaxDays caps the number of daily summaries produced.
	MaxDays = 3
	// UnknownDescription is used for a day without any description entry.
	UnknownDescription = "unknown"
)

// Aggregator reduces 3-hour interval records into daily summaries.
type Aggregator struct {
	loc      *time.Location
	majority bool
}

// NewAggregator builds an aggregator bucketing days in loc.
// A nil loc falls back to DefaultLocation.
func NewAggregator(loc *time.Location, majority bool) *Aggregator {
	if loc == nil {
		loc = DefaultLocation
	}
	return &Aggregator{loc: loc, majority: majority}
}

type dayBucket struct {
	date       time.Time
	temps      []float64
	pops       []float64
	winds      []float64
	conditions []Condition
	// timestamps of conditions, used to order majority ties
	conditionAt []int64
	rain        float64
	snow        float64
}

// Aggregate returns at most MaxDays summaries in ascending date order.
// Records are read in timestamp order, so the input order does not matter.
func (a *Aggregator) Aggregate(records []IntervalRecord) []DailySummary {
	ordered := make([]IntervalRecord, len(records))
	copy(ordered, records)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Timestamp < ordered[j].Timestamp })

	buckets := make(map[string]*dayBucket)
	for _, rec := range ordered {
		day := util.StartOfDay(time.Unix(rec.Timestamp, 0).UTC(), a.loc)
		key := day.Format("2006-01-02")
		b, ok := buckets[key]
		if !ok {
			b = &dayBucket{date: day}
			buckets[key] = b
		}
		b.temps = append(b.temps, rec.Temp)
		b.pops = append(b.pops, rec.Pop)
		b.winds = append(b.winds, rec.WindSpeed)
		if len(rec.Conditions) > 0 {
			b.conditions = append(b.conditions, rec.Conditions[0])
			b.conditionAt = append(b.conditionAt, rec.Timestamp)
		}
		b.rain += rec.Rain
		b.snow += rec.Snow
	}

	keys := make([]string, 0, len(buckets))
	for key := range buckets {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	if len(keys) > MaxDays {
		keys = keys[:MaxDays]
	}

	out := make([]DailySummary, 0, len(keys))
	for _, key := range keys {
		b := buckets[key]
		out = append(out, DailySummary{
			Date:      b.date,
			TempMax:   maxOf(b.temps),
			TempMin:   minOf(b.temps),
			Pop:       maxOf(b.pops),
			Condition: a.representative(b),
			WindSpeed: meanOf(b.winds),
			Rain:      b.rain,
			Snow:      b.snow,
		})
	}
	return out
}

func (a *Aggregator) representative(b *dayBucket) Condition {
	if len(b.conditions) == 0 {
		return Condition{Description: UnknownDescription}
	}
	if !a.majority {
		return b.conditions[0]
	}
	return dominantCondition(b.conditions, b.conditionAt)
}

// dominantCondition picks the most frequent description; ties go to the
// description seen earliest in the day.
func dominantCondition(conditions []Condition, at []int64) Condition {
	type tally struct {
		count int
		first int64
		cond  Condition
	}
	counts := make(map[string]*tally, len(conditions))
	for i, cond := range conditions {
		t, ok := counts[cond.Description]
		if !ok {
			counts[cond.Description] = &tally{count: 1, first: at[i], cond: cond}
			continue
		}
		t.count++
		if at[i] < t.first {
			t.first = at[i]
			t.cond = cond
		}
	}
	var best *tally
	for _, t := range counts {
		if best == nil || t.count > best.count || (t.count == best.count && t.first < best.first) {
			best = t
		}
	}
	return best.cond
}

func maxOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

func minOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func meanOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
