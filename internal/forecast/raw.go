package forecast

import (
	"encoding/json"
	"math"
)

// RawForecast is the Open-Meteo forecast payload. Every field is optional;
// the accessors below return the field or its default.
type RawForecast struct {
	Elevation            *float64        `json:"elevation"`
	GenerationTimeMs     *float64        `json:"generationtime_ms"`
	Latitude             *float64        `json:"latitude"`
	Longitude            *float64        `json:"longitude"`
	Timezone             *string         `json:"timezone"`
	TimezoneAbbreviation *string         `json:"timezone_abbreviation"`
	UTCOffsetSeconds     *int            `json:"utc_offset_seconds"`
	Hourly               *RawHourly      `json:"hourly"`
	HourlyUnits          *RawHourlyUnits `json:"hourly_units"`
}

// RawHourly holds the paired series. A nil temperature is a reading the API
// reported as null.
type RawHourly struct {
	Temperature2m []*float64 `json:"temperature_2m"`
	Time          []string   `json:"time"`
}

type RawHourlyUnits struct {
	Temperature2m *string `json:"temperature_2m"`
	Time          *string `json:"time"`
}

// UnmarshalJSON decodes field by field. A field that is null or of an
// unexpected type is left unset and takes its default; only a payload that
// is not a JSON object fails.
func (r *RawForecast) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	*r = RawForecast{
		Elevation:            optionalFloat(fields["elevation"]),
		GenerationTimeMs:     optionalFloat(fields["generationtime_ms"]),
		Latitude:             optionalFloat(fields["latitude"]),
		Longitude:            optionalFloat(fields["longitude"]),
		Timezone:             optionalString(fields["timezone"]),
		TimezoneAbbreviation: optionalString(fields["timezone_abbreviation"]),
		UTCOffsetSeconds:     optionalInt(fields["utc_offset_seconds"]),
		Hourly:               decodeHourly(fields["hourly"]),
		HourlyUnits:          decodeHourlyUnits(fields["hourly_units"]),
	}

	return nil
}

func optionalFloat(raw json.RawMessage) *float64 {
	if len(raw) == 0 {
		return nil
	}
	var v *float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	return v
}

// optionalInt accepts any JSON number, so 3600 and 3600.0 both decode.
func optionalInt(raw json.RawMessage) *int {
	f := optionalFloat(raw)
	if f == nil || math.IsInf(*f, 0) || math.IsNaN(*f) {
		return nil
	}
	n := int(math.Round(*f))
	return &n
}

func optionalString(raw json.RawMessage) *string {
	if len(raw) == 0 {
		return nil
	}
	var v *string
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	return v
}

func decodeObject(raw json.RawMessage) map[string]json.RawMessage {
	if len(raw) == 0 {
		return nil
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil
	}
	return fields
}

func decodeList(raw json.RawMessage) []json.RawMessage {
	if len(raw) == 0 {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	return items
}

func decodeHourly(raw json.RawMessage) *RawHourly {
	fields := decodeObject(raw)
	if fields == nil {
		return nil
	}

	h := &RawHourly{}
	if items := decodeList(fields["temperature_2m"]); items != nil {
		h.Temperature2m = make([]*float64, len(items))
		for i, item := range items {
			h.Temperature2m[i] = optionalFloat(item)
		}
	}
	if items := decodeList(fields["time"]); items != nil {
		h.Time = make([]string, len(items))
		for i, item := range items {
			h.Time[i] = valueOr(optionalString(item), "")
		}
	}
	return h
}

func decodeHourlyUnits(raw json.RawMessage) *RawHourlyUnits {
	fields := decodeObject(raw)
	if fields == nil {
		return nil
	}
	return &RawHourlyUnits{
		Temperature2m: optionalString(fields["temperature_2m"]),
		Time:          optionalString(fields["time"]),
	}
}

func valueOr[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}

func (r *RawForecast) GetElevation() float64 { return valueOr(r.Elevation, 0) }

func (r *RawForecast) GetGenerationTimeMs() float64 { return valueOr(r.GenerationTimeMs, 0) }

func (r *RawForecast) GetLatitude() float64 { return valueOr(r.Latitude, 0) }

func (r *RawForecast) GetLongitude() float64 { return valueOr(r.Longitude, 0) }

func (r *RawForecast) GetTimezone() string { return valueOr(r.Timezone, "") }

func (r *RawForecast) GetTimezoneAbbreviation() string { return valueOr(r.TimezoneAbbreviation, "") }

func (r *RawForecast) GetUTCOffsetSeconds() int { return valueOr(r.UTCOffsetSeconds, 0) }

// GetTemperatures returns a copy of the hourly temperature series, or an
// empty series. Null readings stay nil.
func (r *RawForecast) GetTemperatures() []*float64 {
	if r.Hourly == nil {
		return []*float64{}
	}
	out := make([]*float64, len(r.Hourly.Temperature2m))
	for i, v := range r.Hourly.Temperature2m {
		if v != nil {
			c := *v
			out[i] = &c
		}
	}
	return out
}

// GetTimes returns a copy of the hourly timestamp series, or an empty series.
func (r *RawForecast) GetTimes() []string {
	if r.Hourly == nil {
		return []string{}
	}
	return append([]string{}, r.Hourly.Time...)
}

func (r *RawForecast) GetTemperatureUnit() string {
	if r.HourlyUnits == nil {
		return ""
	}
	return valueOr(r.HourlyUnits.Temperature2m, "")
}

func (r *RawForecast) GetTimeUnit() string {
	if r.HourlyUnits == nil {
		return ""
	}
	return valueOr(r.HourlyUnits.Time, "")
}

// SeriesPaired reports whether the hourly series hold one reading per
// timestamp. A payload without both series is considered paired.
func (r *RawForecast) SeriesPaired() bool {
	if r.Hourly == nil || r.Hourly.Temperature2m == nil || r.Hourly.Time == nil {
		return true
	}
	return len(r.Hourly.Temperature2m) == len(r.Hourly.Time)
}
