package forecast

import (
	"testing"
	"time"

	"github.com/i474232898/global-weather-forecast/internal/artifact"
	"github.com/i474232898/global-weather-forecast/internal/store"
)

var testFeatureColumns = []string{
	"dayofyear", "month", "day",
	"temp_lag1", "temp_lag7", "temp_rolling_7",
	"pressure_mean", "humidity_mean", "wind_mean", "precip_mean",
}

func testMetadata() *artifact.Metadata {
	return &artifact.Metadata{
		ModelName:        "Ensemble Stacking Regressor (XGBoost + RidgeCV)",
		ModelType:        "Ensemble Stacking Regressor",
		ModelVersion:     "1.0.0",
		TrainingDate:     "2024-11-30",
		FeatureColumns:   testFeatureColumns,
		TrainingSamples:  2920,
		TestSamples:      365,
		ConfidenceMargin: 2.0,
		ConfidenceLevel:  "~95%",
	}
}

// testHistory returns a buffer of n observations ending at 16°C, rising by
// one degree per day.
func testHistory(t *testing.T, n int) *store.TemperatureHistory {
	t.Helper()
	start := time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)
	obs := make([]store.Observation, 0, n)
	for i := 0; i < n; i++ {
		obs = append(obs, store.Observation{
			Date:  start.AddDate(0, 0, i),
			TempC: float64(17 - n + i),
		})
	}
	h, err := store.NewTemperatureHistory(obs)
	if err != nil {
		t.Fatalf("build history: %v", err)
	}
	return h
}

// identityScaler keeps feature values unchanged so test expectations stay
// readable.
func identityScaler(featureCount int) *artifact.Scaler {
	mean := make([]float64, featureCount)
	scale := make([]float64, featureCount)
	for i := range scale {
		scale[i] = 1
	}
	return &artifact.Scaler{Mean: mean, Scale: scale}
}

// testEnsemble predicts a constant: base learners output 10 and 5, the meta
// averages them to 7.5.
func testEnsemble(t *testing.T, featureCount int) *Ensemble {
	t.Helper()

	base := []Regressor{
		&artifact.TreeEnsembleModel{ModelName: "XGBoost", BaseScore: 10},
		&artifact.LinearModel{ModelName: "RidgeCV", Coef: make([]float64, featureCount), Intercept: 5},
	}
	meta := &artifact.LinearModel{ModelName: "XGBoost", Coef: []float64{0.5, 0.5}}

	e, err := NewEnsemble(identityScaler(featureCount), base, meta)
	if err != nil {
		t.Fatalf("build ensemble: %v", err)
	}
	return e
}

func testService(t *testing.T) *Service {
	t.Helper()
	s, err := NewService(testEnsemble(t, len(testFeatureColumns)), testHistory(t, 10), testMetadata())
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return s
}

func validRequest() PredictionRequest {
	return PredictionRequest{
		TargetDate:   "2024-12-25",
		PressureMean: float64Ptr(1015.2),
		HumidityMean: float64Ptr(68.0),
		WindMean:     float64Ptr(15.5),
		PrecipMean:   float64Ptr(1.2),
	}
}
