package forecast

import (
	"github.com/i474232898/global-weather-forecast/internal/artifact"
	"github.com/i474232898/global-weather-forecast/internal/common"
)

const (
	// defaultConfidenceMargin matches the ±2°C the original training runs
	// typically showed when the artifact records no error statistic.
	defaultConfidenceMargin = 2.0
	defaultConfidenceLevel  = "~95%"

	// rmseToMargin turns a validation RMSE into an interval half-width under
	// a normal-error assumption.
	rmseToMargin = 2.0
)

// IntervalEstimator derives a symmetric interval around a point estimate.
// The half-width is fixed per artifact: an explicit margin recorded at
// training time wins, otherwise twice the validation RMSE. The level label is
// approximate, not a calibrated guarantee.
type IntervalEstimator struct {
	halfWidth float64
	label     string
}

// NewIntervalEstimator resolves the half-width and label from metadata.
func NewIntervalEstimator(meta *artifact.Metadata) IntervalEstimator {
	halfWidth := meta.ConfidenceMargin
	if halfWidth <= 0 && meta.ValidationRMSE > 0 {
		halfWidth = rmseToMargin * meta.ValidationRMSE
	}
	if halfWidth <= 0 {
		halfWidth = defaultConfidenceMargin
	}

	label := meta.ConfidenceLevel
	if label == "" {
		label = defaultConfidenceLevel
	}

	return IntervalEstimator{halfWidth: halfWidth, label: label}
}

// HalfWidth returns the resolved half-width, constant for the artifact's
// lifetime.
func (e IntervalEstimator) HalfWidth() float64 {
	return e.halfWidth
}

// Interval returns the bounds around point, rounded to 2 decimals.
func (e IntervalEstimator) Interval(point float64) ConfidenceInterval {
	return ConfidenceInterval{
		LowerBound:      common.Round(point-e.halfWidth, 2),
		UpperBound:      common.Round(point+e.halfWidth, 2),
		ConfidenceLevel: e.label,
	}
}
