package weather

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "github.com/yanqian/daily-briefing/pkg/errors"
)

func TestClassifyIcon(t *testing.T) {
	cases := map[string]string{
		"快晴":      "☀️",
		"晴れ時々曇り":  "☀️",
		"曇りがち":    "☁️",
		"小雨":      "🌧️",
		"霧雨":      "🌦️",
		"霧":       "🌫️",
		"雪":       "❄️",
		"雷雨":      "🌧️",
		"":        DefaultIcon,
		"clear sky": DefaultIcon,
	}
	for description, want := range cases {
		require.Equal(t, want, ClassifyIcon(description), description)
	}
}

func TestClassifyIconPrefersLongestKeyword(t *testing.T) {
	// 快晴 contains 晴 and 霧雨 contains both 霧 and 雨
	require.Equal(t, "☀️", ClassifyIcon("本日は快晴"))
	require.Equal(t, "🌦️", ClassifyIcon("ところにより霧雨"))
}

func TestFormatPercent(t *testing.T) {
	require.Equal(t, "42%", FormatPercent(0.42))
	require.Equal(t, "29%", FormatPercent(0.29))
	require.Equal(t, "0%", FormatPercent(0))
	require.Equal(t, "100%", FormatPercent(1))
}

func TestSelectDay(t *testing.T) {
	daily := []DailySummary{
		{
			Date:      time.Date(2025, 1, 2, 0, 0, 0, 0, DefaultLocation),
			TempMax:   8,
			TempMin:   5,
			Pop:       0.42,
			Condition: Condition{Description: "晴天"},
		},
		{Date: time.Date(2025, 1, 3, 0, 0, 0, 0, DefaultLocation)},
		{Date: time.Date(2025, 1, 4, 0, 0, 0, 0, DefaultLocation)},
	}

	view, err := SelectDay(daily, 0)
	require.NoError(t, err)
	require.Equal(t, "今日", view.Label)
	require.Equal(t, "2025-01-02 (Thu)", view.DateLabel)
	require.Equal(t, "晴れ", view.Description)
	require.Equal(t, "☀️", view.Icon)
	require.Equal(t, "42%", view.PrecipitationPercent)
	require.Equal(t, 8.0, view.TempMax)

	view, err = SelectDay(daily, 1)
	require.NoError(t, err)
	require.Equal(t, "明日", view.Label)
}

func TestSelectDayInsufficientData(t *testing.T) {
	daily := []DailySummary{{}, {}}

	for _, day := range []int{0, 1, 2} {
		_, err := SelectDay(daily, day)
		require.Error(t, err)
		require.True(t, apperrors.IsCode(err, apperrors.CodeInsufficientForecastData))
	}

	_, err := SelectDay(nil, 0)
	require.True(t, apperrors.IsCode(err, apperrors.CodeInsufficientForecastData))

	_, err = SelectDay(daily, 3)
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
	_, err = SelectDay(daily, -1)
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
}

func TestLookupTerm(t *testing.T) {
	require.Equal(t, "Tokyo", LookupTerm("東京都"))
	require.Equal(t, "Naha", LookupTerm("沖縄県"))
	require.Equal(t, "Hakodate", LookupTerm("Hakodate"))
	require.Len(t, Prefectures, 47)
	for _, pref := range Prefectures {
		require.NotEqual(t, pref, LookupTerm(pref), pref)
	}
}
