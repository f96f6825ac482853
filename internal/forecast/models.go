package forecast

// PredictionRequest is the body of POST /predict_temperature/. The numeric
// fields are pointers so a missing field is distinguishable from a zero
// value; the range tags mirror the bounds the model was trained on.
type PredictionRequest struct {
	TargetDate   string   `json:"target_date" validate:"required"`
	PressureMean *float64 `json:"pressure_mean" validate:"required,gte=900,lte=1100"`
	HumidityMean *float64 `json:"humidity_mean" validate:"required,gte=0,lte=100"`
	WindMean     *float64 `json:"wind_mean" validate:"required,gte=0,lte=200"`
	PrecipMean   *float64 `json:"precip_mean" validate:"required,gte=0,lte=500"`
}

// FeatureVector is the model input, ordered exactly by the metadata's
// feature column list. Built per request and discarded after use.
type FeatureVector []float64

// ConfidenceInterval is a symmetric interval around the point estimate. The
// level is an approximate label recorded at training time, not a calibrated
// coverage guarantee.
type ConfidenceInterval struct {
	LowerBound      float64 `json:"lower_bound"`
	UpperBound      float64 `json:"upper_bound"`
	ConfidenceLevel string  `json:"confidence_level"`
}

// PredictionResult is the response of POST /predict_temperature/.
type PredictionResult struct {
	Date                              string             `json:"date"`
	PredictedGlobalTemperatureCelsius float64            `json:"predicted_global_temperature_celsius"`
	ModelUsed                         string             `json:"model_used"`
	ConfidenceInterval                ConfidenceInterval `json:"confidence_interval"`
	ModelVersion                      string             `json:"model_version"`
}

// ModelInfo is the response of GET /model_info.
type ModelInfo struct {
	ModelType       string   `json:"model_type"`
	BaseModels      []string `json:"base_models"`
	FinalEstimator  string   `json:"final_estimator"`
	Features        []string `json:"features"`
	FeatureCount    int      `json:"feature_count"`
	TrainingSamples int      `json:"training_samples"`
	TestSamples     int      `json:"test_samples"`
	ModelVersion    string   `json:"model_version"`
	TrainingDate    string   `json:"training_date"`
}
