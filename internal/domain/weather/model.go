package weather

import (
	"encoding/json"
	"time"
)

// Config wires runtime settings for the weather domain.
type Config struct {
	// Location is the fixed zone used to bucket forecast intervals into days.
	Location *time.Location
	// MajorityDescription picks the most frequent description per day instead of the first one.
	MajorityDescription bool
	Country             string
	GeocodeTTL          time.Duration
	ForecastTTL         time.Duration
}

// DefaultLocation is UTC+9, the zone the forecast feed is displayed in.
var DefaultLocation = time.FixedZone("UTC+9", 9*60*60)

// Location is a region resolved to a coordinate.
type Location struct {
	Region string  `json:"region"`
	Query  string  `json:"query"`
	Name   string  `json:"name"`
	Lat    float64 `json:"lat"`
	Lon    float64 `json:"lon"`
}

// Place is a single geocoding result.
type Place struct {
	Name    string
	Lat     float64
	Lon     float64
	Country string
}

// Condition is one weather description entry of the feed.
type Condition struct {
	Main        string `json:"main,omitempty"`
	Description string `json:"description"`
	Icon        string `json:"icon,omitempty"`
}

// IntervalRecord is a single 3-hour forecast sample.
type IntervalRecord struct {
	// Timestamp is epoch seconds in UTC.
	Timestamp  int64       `json:"dt"`
	Temp       float64     `json:"temp"`
	Pop        float64     `json:"pop"`
	WindSpeed  float64     `json:"windSpeed"`
	Conditions []Condition `json:"conditions,omitempty"`
	// Rain and Snow are the amounts for this interval's own 3-hour window.
	Rain float64 `json:"rain,omitempty"`
	Snow float64 `json:"snow,omitempty"`
}

// Forecast is the decoded 5-day / 3-hour feed.
type Forecast struct {
	Intervals []IntervalRecord `json:"intervals"`
	Raw       json.RawMessage  `json:"raw,omitempty"`
}

// CurrentConditions is the instantaneous observation for a coordinate.
type CurrentConditions struct {
	Description string          `json:"description"`
	Icon        string          `json:"icon"`
	Temp        float64         `json:"temp"`
	FeelsLike   float64         `json:"feelsLike"`
	Humidity    int             `json:"humidity"`
	WindSpeed   float64         `json:"windSpeed"`
	ObservedAt  time.Time       `json:"observedAt"`
	Raw         json.RawMessage `json:"-"`
}

// DailySummary is the same-day reduction of interval records.
type DailySummary struct {
	// Date is local midnight of the summarized day.
	Date      time.Time `json:"date"`
	TempMax   float64   `json:"tempMax"`
	TempMin   float64   `json:"tempMin"`
	Pop       float64   `json:"pop"`
	Condition Condition `json:"condition"`
	WindSpeed float64   `json:"windSpeed"`
	Rain      float64   `json:"rain"`
	Snow      float64   `json:"snow"`
}

// Outlook bundles everything fetched for a region.
type Outlook struct {
	Location  Location          `json:"location"`
	Current   CurrentConditions `json:"current"`
	Daily     []DailySummary    `json:"daily"`
	FetchedAt time.Time         `json:"fetchedAt"`
}

// DayView is the display projection of one daily summary.
type DayView struct {
	Index                int     `json:"index"`
	Label                string  `json:"label"`
	DateLabel            string  `json:"dateLabel"`
	Description          string  `json:"description"`
	Icon                 string  `json:"icon"`
	TempMax              float64 `json:"tempMax"`
	TempMin              float64 `json:"tempMin"`
	PrecipitationPercent string  `json:"precipitationProbability"`
	WindSpeed            float64 `json:"windSpeed"`
	Rain                 float64 `json:"rain"`
	Snow                 float64 `json:"snow"`
}

// RawSnapshot holds the last raw provider payloads archived for a region.
type RawSnapshot struct {
	Region   string          `json:"region"`
	Current  json.RawMessage `json:"current"`
	Forecast json.RawMessage `json:"forecast"`
}
