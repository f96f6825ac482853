package forecast

import (
	"fmt"
	"time"

	"github.com/i474232898/global-weather-forecast/internal/artifact"
	"github.com/i474232898/global-weather-forecast/internal/common"
	"github.com/i474232898/global-weather-forecast/internal/store"
)

const (
	lagShort      = 1
	lagLong       = 7
	rollingWindow = 7
)

// ParseTargetDate parses the request's target date, accepting YYYY-MM-DD or
// RFC3339.
func ParseTargetDate(s string) (time.Time, error) {
	if ts, err := time.Parse("2006-01-02", s); err == nil {
		return ts.UTC(), nil
	}
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts.UTC(), nil
	}
	return time.Time{}, &ValidationError{Field: "target_date", Message: "must be a date in YYYY-MM-DD format"}
}

// BuildFeatures assembles the model input for a request: calendar features
// derived from the target date, lag and rolling features from the historical
// buffer, and the four meteorological means copied verbatim. The vector is
// ordered strictly by the metadata's feature column list.
func BuildFeatures(req PredictionRequest, history *store.TemperatureHistory, meta *artifact.Metadata) (FeatureVector, error) {
	date, err := ParseTargetDate(req.TargetDate)
	if err != nil {
		return nil, err
	}

	lag1, err := history.Lag(lagShort)
	if err != nil {
		return nil, fmt.Errorf("temp_lag%d: %w", lagShort, err)
	}
	lag7, err := history.Lag(lagLong)
	if err != nil {
		return nil, fmt.Errorf("temp_lag%d: %w", lagLong, err)
	}
	rolling, err := history.RollingMean(rollingWindow)
	if err != nil {
		return nil, fmt.Errorf("temp_rolling_%d: %w", rollingWindow, err)
	}

	values := map[string]float64{
		"dayofyear":      float64(date.YearDay()),
		"month":          float64(int(date.Month())),
		"day":            float64(date.Day()),
		"temp_lag1":      lag1,
		"temp_lag7":      lag7,
		"temp_rolling_7": rolling,
	}

	for _, f := range []struct {
		name  string
		value *float64
	}{
		{"pressure_mean", req.PressureMean},
		{"humidity_mean", req.HumidityMean},
		{"wind_mean", req.WindMean},
		{"precip_mean", req.PrecipMean},
	} {
		if f.value == nil {
			return nil, &ValidationError{Field: f.name, Message: "is required"}
		}
		if !common.IsFinite(*f.value) {
			return nil, &ValidationError{Field: f.name, Message: "must be a finite number"}
		}
		values[f.name] = *f.value
	}

	vec := make(FeatureVector, 0, len(meta.FeatureColumns))
	for _, col := range meta.FeatureColumns {
		v, ok := values[col]
		if !ok {
			// Schema drift: the artifact wants a feature this builder cannot
			// derive. Caught by the startup probe, never by live traffic.
			return nil, fmt.Errorf("feature %q is not derivable from the request schema", col)
		}
		vec = append(vec, v)
	}

	return vec, nil
}
