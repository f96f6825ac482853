package artifact

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Metadata is the training-time record shipped alongside the model bundle.
// It pins the feature schema the models were fitted on and carries the error
// statistic the confidence interval is derived from.
type Metadata struct {
	ModelName       string   `yaml:"model_name"`
	ModelType       string   `yaml:"model_type"`
	ModelVersion    string   `yaml:"model_version"`
	TrainingDate    string   `yaml:"training_date"`
	FeatureColumns  []string `yaml:"feature_columns"`
	TrainingSamples int      `yaml:"training_samples"`
	TestSamples     int      `yaml:"test_samples"`

	// ValidationRMSE is the hold-out RMSE recorded at training time.
	ValidationRMSE float64 `yaml:"validation_rmse"`
	// ConfidenceMargin, when set, overrides the RMSE-derived interval
	// half-width with a fixed value.
	ConfidenceMargin float64 `yaml:"confidence_margin"`
	// ConfidenceLevel is the approximate label attached to the interval.
	ConfidenceLevel string `yaml:"confidence_level"`
}

// ParseMetadata decodes and sanity-checks a feature_metadata.yaml document.
func ParseMetadata(data []byte) (*Metadata, error) {
	var meta Metadata
	if err := yaml.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("decode metadata: %w", err)
	}

	if meta.ModelName == "" {
		return nil, fmt.Errorf("metadata missing model_name")
	}
	if meta.ModelVersion == "" {
		return nil, fmt.Errorf("metadata missing model_version")
	}
	if len(meta.FeatureColumns) == 0 {
		return nil, fmt.Errorf("metadata missing feature_columns")
	}
	seen := make(map[string]bool, len(meta.FeatureColumns))
	for _, col := range meta.FeatureColumns {
		if col == "" {
			return nil, fmt.Errorf("metadata has an empty feature column name")
		}
		if seen[col] {
			return nil, fmt.Errorf("metadata lists feature %q twice", col)
		}
		seen[col] = true
	}
	if meta.ValidationRMSE < 0 {
		return nil, fmt.Errorf("metadata validation_rmse must not be negative")
	}
	if meta.ConfidenceMargin < 0 {
		return nil, fmt.Errorf("metadata confidence_margin must not be negative")
	}

	return &meta, nil
}
