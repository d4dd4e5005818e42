package forecast

// WeatherRecord is the persisted unit: a generated id plus the normalized
// forecast. ID is empty until the writer assigns it.
type WeatherRecord struct {
	ID       string   `json:"id" dynamodbav:"id"`
	Forecast Forecast `json:"forecast" dynamodbav:"forecast"`
}

type Forecast struct {
	Elevation            float64     `json:"elevation" dynamodbav:"elevation"`
	GenerationTimeMs     float64     `json:"generationtime_ms" dynamodbav:"generationtime_ms"`
	Hourly               Hourly      `json:"hourly" dynamodbav:"hourly"`
	HourlyUnits          HourlyUnits `json:"hourly_units" dynamodbav:"hourly_units"`
	Latitude             float64     `json:"latitude" dynamodbav:"latitude"`
	Longitude            float64     `json:"longitude" dynamodbav:"longitude"`
	Timezone             string      `json:"timezone" dynamodbav:"timezone"`
	TimezoneAbbreviation string      `json:"timezone_abbreviation" dynamodbav:"timezone_abbreviation"`
	UTCOffsetSeconds     int         `json:"utc_offset_seconds" dynamodbav:"utc_offset_seconds"`
}

type Hourly struct {
	Temperature2m []*float64 `json:"temperature_2m" dynamodbav:"temperature_2m"`
	Time          []string  `json:"time" dynamodbav:"time"`
}

type HourlyUnits struct {
	Temperature2m string `json:"temperature_2m" dynamodbav:"temperature_2m"`
	Time          string `json:"time" dynamodbav:"time"`
}

// Transform maps a raw payload onto the storage schema. Absent fields take
// their defaults and the hourly series keep their order.
func Transform(raw *RawForecast) WeatherRecord {
	if raw == nil {
		raw = &RawForecast{}
	}

	return WeatherRecord{
		Forecast: Forecast{
			Elevation:        raw.GetElevation(),
			GenerationTimeMs: raw.GetGenerationTimeMs(),
			Hourly: Hourly{
				Temperature2m: raw.GetTemperatures(),
				Time:          raw.GetTimes(),
			},
			HourlyUnits: HourlyUnits{
				Temperature2m: raw.GetTemperatureUnit(),
				Time:          raw.GetTimeUnit(),
			},
			Latitude:             raw.GetLatitude(),
			Longitude:            raw.GetLongitude(),
			Timezone:             raw.GetTimezone(),
			TimezoneAbbreviation: raw.GetTimezoneAbbreviation(),
			UTCOffsetSeconds:     raw.GetUTCOffsetSeconds(),
		},
	}
}
