package weather

import (
	"fmt"
	"strings"

	apperrors "github.com/yanqian/daily-briefing/pkg/errors"
)

var dayLabels = [MaxDays]string{"今日", "明日", "明後日"}

// SelectDay projects the summary at index into its display form.
// An index the aggregation did not produce yields insufficient_forecast_data.
func SelectDay(daily []DailySummary, index int) (DayView, error) {
	if index < 0 || index >= MaxDays {
		return DayView{}, apperrors.Wrap(apperrors.CodeInvalidInput, fmt.Sprintf("day must be between 0 and %d", MaxDays-1), nil)
	}
	if len(daily) < MaxDays {
		return DayView{}, apperrors.Wrap(apperrors.CodeInsufficientForecastData,
			fmt.Sprintf("forecast covers %d day(s), day %d requested", len(daily), index), nil)
	}
	day := daily[index]
	description := NormalizeDescription(day.Condition.Description)
	return DayView{
		Index:                index,
		Label:                dayLabels[index],
		DateLabel:            day.Date.Format("2006-01-02 (Mon)"),
		Description:          description,
		Icon:                 ClassifyIcon(description),
		TempMax:              day.TempMax,
		TempMin:              day.TempMin,
		PrecipitationPercent: FormatPercent(day.Pop),
		WindSpeed:            day.WindSpeed,
		Rain:                 day.Rain,
		Snow:                 day.Snow,
	}, nil
}

// FormatPercent renders a 0-1 probability as a truncated integer percentage.
// The epsilon keeps values such as 0.29 from truncating to 28.
func FormatPercent(probability float64) string {
	return fmt.Sprintf("%d%%", int(probability*100+1e-9))
}

// NormalizeDescription rewrites provider wording for display.
func NormalizeDescription(description string) string {
	return strings.ReplaceAll(description, "晴天", "晴れ")
}
