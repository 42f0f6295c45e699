package weather

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAggregateSingleLocalDay(t *testing.T) {
	// every interval lands on 2025-01-02 once shifted to UTC+9
	records := []IntervalRecord{
		{Timestamp: unix(t, "2025-01-01T15:00:00Z"), Temp: 5, Pop: 0.1},
		{Timestamp: unix(t, "2025-01-01T18:00:00Z"), Temp: 6, Pop: 0.2},
		{Timestamp: unix(t, "2025-01-01T21:00:00Z"), Temp: 7, Pop: 0.0},
		{Timestamp: unix(t, "2025-01-02T00:00:00Z"), Temp: 8, Pop: 0.3},
	}

	got := NewAggregator(nil, false).Aggregate(records)

	require.Len(t, got, 1)
	require.Equal(t, "2025-01-02", got[0].Date.Format("2006-01-02"))
	require.Equal(t, 8.0, got[0].TempMax)
	require.Equal(t, 5.0, got[0].TempMin)
	require.Equal(t, 0.3, got[0].Pop)
}

func TestAggregateShiftsUTCIntoLocalDate(t *testing.T) {
	records := []IntervalRecord{
		{Timestamp: unix(t, "2025-01-01T00:00:00Z"), Temp: 5, Pop: 0.1},
		{Timestamp: unix(t, "2025-01-01T06:00:00Z"), Temp: 6, Pop: 0.2},
		{Timestamp: unix(t, "2025-01-01T12:00:00Z"), Temp: 7, Pop: 0.0},
		{Timestamp: unix(t, "2025-01-01T21:00:00Z"), Temp: 8, Pop: 0.3},
	}

	got := NewAggregator(nil, false).Aggregate(records)

	require.Len(t, got, 2)
	require.Equal(t, "2025-01-01", got[0].Date.Format("2006-01-02"))
	require.Equal(t, 7.0, got[0].TempMax)
	require.Equal(t, 5.0, got[0].TempMin)
	require.Equal(t, 0.2, got[0].Pop)
	require.Equal(t, "2025-01-02", got[1].Date.Format("2006-01-02"))
	require.Equal(t, 8.0, got[1].TempMax)
	require.Equal(t, 8.0, got[1].TempMin)
	require.Equal(t, 0.3, got[1].Pop)
}

func TestAggregateCapsAtThreeDaysAscending(t *testing.T) {
	start := mustParse(t, "2025-03-10T00:00:00Z")
	var records []IntervalRecord
	for i := 0; i < 40; i++ {
		records = append(records, IntervalRecord{
			Timestamp: start.Add(time.Duration(i) * 3 * time.Hour).Unix(),
			Temp:      float64(i),
		})
	}
	rand.New(rand.NewSource(7)).Shuffle(len(records), func(i, j int) {
		records[i], records[j] = records[j], records[i]
	})

	got := NewAggregator(nil, false).Aggregate(records)

	require.Len(t, got, MaxDays)
	for i := 1; i < len(got); i++ {
		require.True(t, got[i-1].Date.Before(got[i].Date))
	}
	require.Equal(t, "2025-03-10", got[0].Date.Format("2006-01-02"))
}

func TestAggregateOrderIndependentExtremes(t *testing.T) {
	records := []IntervalRecord{
		{Timestamp: unix(t, "2025-05-01T00:00:00Z"), Temp: 18.5, Pop: 0.4, WindSpeed: 2.5, Rain: 0.3,
			Conditions: []Condition{{Main: "Clear", Description: "晴天", Icon: "01d"}}},
		{Timestamp: unix(t, "2025-05-01T03:00:00Z"), Temp: 22.25, Pop: 0.1, WindSpeed: 4.1, Rain: 1.2,
			Conditions: []Condition{{Main: "Rain", Description: "小雨", Icon: "10d"}}},
		{Timestamp: unix(t, "2025-05-01T06:00:00Z"), Temp: 20, Pop: 0.7, WindSpeed: 3.3,
			Conditions: []Condition{{Main: "Clouds", Description: "曇りがち", Icon: "04d"}}},
		{Timestamp: unix(t, "2025-05-02T00:00:00Z"), Temp: 11, Pop: 0, Snow: 0.8,
			Conditions: []Condition{{Main: "Snow", Description: "雪", Icon: "13d"}}},
		{Timestamp: unix(t, "2025-05-02T03:00:00Z"), Temp: -2, Pop: 0.05, Snow: 2.1,
			Conditions: []Condition{{Main: "Clear", Description: "晴天", Icon: "01d"}}},
	}
	reversed := make([]IntervalRecord, len(records))
	for i := range records {
		reversed[len(records)-1-i] = records[i]
	}

	for _, majority := range []bool{false, true} {
		agg := NewAggregator(nil, majority)
		forward := agg.Aggregate(records)
		backward := agg.Aggregate(reversed)

		require.Len(t, backward, len(forward))
		for i := range forward {
			require.True(t, forward[i].Date.Equal(backward[i].Date))
			require.Equal(t, forward[i].TempMax, backward[i].TempMax)
			require.Equal(t, forward[i].TempMin, backward[i].TempMin)
			require.Equal(t, forward[i].Pop, backward[i].Pop)
			require.Equal(t, forward[i].Condition, backward[i].Condition)
			require.Equal(t, forward[i].WindSpeed, backward[i].WindSpeed)
			require.Equal(t, forward[i].Rain, backward[i].Rain)
			require.Equal(t, forward[i].Snow, backward[i].Snow)
		}
		require.Equal(t, 22.25, forward[0].TempMax)
		require.Equal(t, 18.5, forward[0].TempMin)
		require.Equal(t, "晴天", forward[0].Condition.Description)
		require.Equal(t, 11.0, forward[1].TempMax)
		require.Equal(t, -2.0, forward[1].TempMin)
		require.Equal(t, "雪", forward[1].Condition.Description)
	}
}

func TestAggregateSumsRainAndSnow(t *testing.T) {
	records := []IntervalRecord{
		{Timestamp: unix(t, "2025-06-01T00:00:00Z"), Rain: 1.0},
		{Timestamp: unix(t, "2025-06-01T03:00:00Z"), Rain: 2.5, Snow: 0.5},
		{Timestamp: unix(t, "2025-06-02T00:00:00Z")},
	}

	got := NewAggregator(nil, false).Aggregate(records)

	require.Len(t, got, 2)
	require.Equal(t, 3.5, got[0].Rain)
	require.Equal(t, 0.5, got[0].Snow)
	require.Zero(t, got[1].Rain)
	require.Zero(t, got[1].Snow)
}

func TestAggregateMeanWindAndStartOfDay(t *testing.T) {
	records := []IntervalRecord{
		{Timestamp: unix(t, "2025-06-01T00:00:00Z"), WindSpeed: 2},
		{Timestamp: unix(t, "2025-06-01T03:00:00Z"), WindSpeed: 4},
		{Timestamp: unix(t, "2025-06-01T06:00:00Z"), WindSpeed: 6},
	}

	got := NewAggregator(nil, false).Aggregate(records)

	require.Len(t, got, 1)
	require.Equal(t, 4.0, got[0].WindSpeed)
	require.Equal(t, mustParse(t, "2025-06-01T00:00:00+09:00").Unix(), got[0].Date.Unix())
}

func TestAggregateFirstDescriptionWins(t *testing.T) {
	records := []IntervalRecord{
		{Timestamp: unix(t, "2025-06-01T00:00:00Z"), Conditions: []Condition{{Description: "曇りがち"}}},
		{Timestamp: unix(t, "2025-06-01T03:00:00Z"), Conditions: []Condition{{Description: "小雨"}}},
		{Timestamp: unix(t, "2025-06-01T06:00:00Z"), Conditions: []Condition{{Description: "小雨"}}},
		{Timestamp: unix(t, "2025-06-02T00:00:00Z")},
	}

	got := NewAggregator(nil, false).Aggregate(records)
	require.Equal(t, "曇りがち", got[0].Condition.Description)
	require.Equal(t, UnknownDescription, got[1].Condition.Description)

	majority := NewAggregator(nil, true).Aggregate(records)
	require.Equal(t, "小雨", majority[0].Condition.Description)
}

func TestAggregateHonoursConfiguredZone(t *testing.T) {
	records := []IntervalRecord{
		{Timestamp: unix(t, "2025-01-01T20:00:00Z"), Temp: 1},
		{Timestamp: unix(t, "2025-01-01T23:00:00Z"), Temp: 2},
	}

	jst := NewAggregator(nil, false).Aggregate(records)
	utc := NewAggregator(time.UTC, false).Aggregate(records)

	require.Equal(t, "2025-01-02", jst[0].Date.Format("2006-01-02"))
	require.Len(t, utc, 1)
	require.Equal(t, "2025-01-01", utc[0].Date.Format("2006-01-02"))
}

func TestAggregateEmpty(t *testing.T) {
	require.Empty(t, NewAggregator(nil, false).Aggregate(nil))
}

func unix(t *testing.T, value string) int64 {
	t.Helper()
	return mustParse(t, value).Unix()
}

func mustParse(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, value)
	require.NoError(t, err)
	return ts
}
