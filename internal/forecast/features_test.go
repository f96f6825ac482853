package forecast

import (
	"errors"
	"math"
	"testing"
)

func TestBuildFeaturesOrderAndValues(t *testing.T) {
	meta := testMetadata()
	history := testHistory(t, 10)

	vec, err := BuildFeatures(validRequest(), history, meta)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(vec) != len(meta.FeatureColumns) {
		t.Fatalf("vector length = %d, want %d", len(vec), len(meta.FeatureColumns))
	}

	want := map[string]float64{
		"dayofyear":      360, // 2024 is a leap year
		"month":          12,
		"day":            25,
		"temp_lag1":      16,
		"temp_lag7":      10,
		"temp_rolling_7": 13,
		"pressure_mean":  1015.2,
		"humidity_mean":  68.0,
		"wind_mean":      15.5,
		"precip_mean":    1.2,
	}
	for i, col := range meta.FeatureColumns {
		if vec[i] != want[col] {
			t.Errorf("feature %s = %v, want %v", col, vec[i], want[col])
		}
	}
}

func TestBuildFeaturesRespectsColumnOrder(t *testing.T) {
	meta := testMetadata()
	// Reverse the column order; the vector must follow it.
	cols := make([]string, len(meta.FeatureColumns))
	for i, c := range meta.FeatureColumns {
		cols[len(cols)-1-i] = c
	}
	meta.FeatureColumns = cols

	vec, err := BuildFeatures(validRequest(), testHistory(t, 10), meta)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if vec[0] != 1.2 { // precip_mean now comes first
		t.Errorf("vec[0] = %v, want 1.2", vec[0])
	}
	if vec[len(vec)-1] != 360 { // dayofyear now comes last
		t.Errorf("vec[last] = %v, want 360", vec[len(vec)-1])
	}
}

func TestBuildFeaturesAtHistoryBoundary(t *testing.T) {
	// Exactly 7 observations: temp_lag7 reaches the earliest entry.
	vec, err := BuildFeatures(validRequest(), testHistory(t, 7), testMetadata())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vec) != 10 {
		t.Errorf("vector length = %d, want 10", len(vec))
	}
}

func TestBuildFeaturesMalformedDate(t *testing.T) {
	req := validRequest()
	req.TargetDate = "not-a-date"

	_, err := BuildFeatures(req, testHistory(t, 10), testMetadata())
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("error = %v, want *ValidationError", err)
	}
	if vErr.Field != "target_date" {
		t.Errorf("field = %s, want target_date", vErr.Field)
	}
}

func TestBuildFeaturesMissingField(t *testing.T) {
	req := validRequest()
	req.WindMean = nil

	_, err := BuildFeatures(req, testHistory(t, 10), testMetadata())
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("error = %v, want *ValidationError", err)
	}
	if vErr.Field != "wind_mean" {
		t.Errorf("field = %s, want wind_mean", vErr.Field)
	}
}

func TestBuildFeaturesNonFiniteField(t *testing.T) {
	req := validRequest()
	req.HumidityMean = float64Ptr(math.NaN())

	_, err := BuildFeatures(req, testHistory(t, 10), testMetadata())
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("error = %v, want *ValidationError", err)
	}
	if vErr.Field != "humidity_mean" {
		t.Errorf("field = %s, want humidity_mean", vErr.Field)
	}
}

func TestBuildFeaturesUnknownColumn(t *testing.T) {
	meta := testMetadata()
	meta.FeatureColumns = append(meta.FeatureColumns, "sunspot_count")

	_, err := BuildFeatures(validRequest(), testHistory(t, 10), meta)
	if err == nil {
		t.Fatal("expected error for underivable feature column")
	}
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		t.Error("schema drift must not surface as a client validation error")
	}
}

func TestParseTargetDateFormats(t *testing.T) {
	for _, s := range []string{"2024-12-25", "2024-12-25T00:00:00Z"} {
		ts, err := ParseTargetDate(s)
		if err != nil {
			t.Errorf("ParseTargetDate(%q): %v", s, err)
			continue
		}
		if ts.Day() != 25 || ts.Month() != 12 {
			t.Errorf("ParseTargetDate(%q) = %v", s, ts)
		}
	}
}
