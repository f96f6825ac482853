package forecast

import (
	"context"
	"fmt"

	"github.com/i474232898/global-weather-forecast/internal/artifact"
	"github.com/i474232898/global-weather-forecast/internal/common"
	"github.com/i474232898/global-weather-forecast/internal/store"
)

// Service runs the prediction pipeline: feature building, ensemble
// inference, and interval construction. All shared state is immutable after
// construction, so concurrent requests need no locking.
type Service struct {
	ensemble *Ensemble
	history  *store.TemperatureHistory
	meta     *artifact.Metadata
	interval IntervalEstimator
}

// NewService wires the loaded artifacts together and dry-runs the full
// pipeline once, so schema drift between the metadata and the feature
// builder or the models aborts startup instead of failing live traffic.
func NewService(ensemble *Ensemble, history *store.TemperatureHistory, meta *artifact.Metadata) (*Service, error) {
	if history.Len() < artifact.MinHistoryObservations {
		return nil, fmt.Errorf("%w: historical buffer holds %d observations, need at least %d",
			artifact.ErrConfiguration, history.Len(), artifact.MinHistoryObservations)
	}

	s := &Service{
		ensemble: ensemble,
		history:  history,
		meta:     meta,
		interval: NewIntervalEstimator(meta),
	}

	probe := PredictionRequest{
		TargetDate:   "2000-01-01",
		PressureMean: float64Ptr(1013.25),
		HumidityMean: float64Ptr(60),
		WindMean:     float64Ptr(10),
		PrecipMean:   float64Ptr(0.5),
	}
	vec, err := BuildFeatures(probe, history, meta)
	if err != nil {
		return nil, fmt.Errorf("%w: feature probe: %v", artifact.ErrConfiguration, err)
	}
	if len(vec) != len(meta.FeatureColumns) {
		return nil, fmt.Errorf("%w: probe built %d features, metadata declares %d",
			artifact.ErrConfiguration, len(vec), len(meta.FeatureColumns))
	}
	if _, err := s.ensemble.Predict(vec); err != nil {
		return nil, fmt.Errorf("%w: probe prediction: %v", artifact.ErrConfiguration, err)
	}

	return s, nil
}

// Predict turns a validated request into a prediction with its confidence
// interval. The call is a pure function of the request and the immutable
// artifacts; ctx bounds it with the request-level timeout.
func (s *Service) Predict(ctx context.Context, req PredictionRequest) (PredictionResult, error) {
	if err := ctx.Err(); err != nil {
		return PredictionResult{}, err
	}

	vec, err := BuildFeatures(req, s.history, s.meta)
	if err != nil {
		return PredictionResult{}, err
	}

	if err := ctx.Err(); err != nil {
		return PredictionResult{}, err
	}

	point, err := s.ensemble.Predict(vec)
	if err != nil {
		return PredictionResult{}, err
	}

	return PredictionResult{
		Date:                              req.TargetDate,
		PredictedGlobalTemperatureCelsius: common.Round(point, 2),
		ModelUsed:                         s.meta.ModelName,
		ConfidenceInterval:                s.interval.Interval(point),
		ModelVersion:                      s.meta.ModelVersion,
	}, nil
}

// ModelInfo reports static facts about the loaded artifact.
func (s *Service) ModelInfo() ModelInfo {
	return ModelInfo{
		ModelType:       s.meta.ModelType,
		BaseModels:      s.ensemble.BaseNames(),
		FinalEstimator:  s.ensemble.MetaName(),
		Features:        s.meta.FeatureColumns,
		FeatureCount:    len(s.meta.FeatureColumns),
		TrainingSamples: s.meta.TrainingSamples,
		TestSamples:     s.meta.TestSamples,
		ModelVersion:    s.meta.ModelVersion,
		TrainingDate:    s.meta.TrainingDate,
	}
}

// Metadata exposes the loaded metadata for the health endpoint.
func (s *Service) Metadata() *artifact.Metadata {
	return s.meta
}

func float64Ptr(v float64) *float64 {
	return &v
}
