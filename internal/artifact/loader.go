package artifact

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/i474232898/global-weather-forecast/internal/store"
)

// ErrConfiguration marks a deploy-time contract violation: a missing,
// malformed, or inconsistent artifact. It is fatal at startup and never
// surfaced to a request.
var ErrConfiguration = errors.New("artifact configuration error")

// MinHistoryObservations is the fewest historical observations the longest
// lag feature can be computed from.
const MinHistoryObservations = 7

// Paths locates the persisted artifacts. Each entry may be a local file path
// or an http(s) URL fetched once at startup.
type Paths struct {
	Model      string
	Metadata   string
	Historical string
}

// Bundle holds everything loaded at process start. All fields are immutable
// once Load returns and are shared read-only across concurrent requests.
type Bundle struct {
	Scaler   *Scaler
	Base     []Model
	Meta     Model
	Metadata *Metadata
	History  *store.TemperatureHistory
}

// Load reads and cross-validates the model bundle, the feature metadata, and
// the historical temperature table. Any inconsistency aborts startup before
// the service accepts traffic.
func Load(ctx context.Context, paths Paths, fetcher *Fetcher) (*Bundle, error) {
	metaRaw, err := readArtifact(ctx, fetcher, paths.Metadata)
	if err != nil {
		return nil, fmt.Errorf("%w: read metadata %s: %v", ErrConfiguration, paths.Metadata, err)
	}
	meta, err := ParseMetadata(metaRaw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	modelRaw, err := readArtifact(ctx, fetcher, paths.Model)
	if err != nil {
		return nil, fmt.Errorf("%w: read model bundle %s: %v", ErrConfiguration, paths.Model, err)
	}
	scaler, base, metaModel, err := parseBundle(modelRaw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	histRaw, err := readArtifact(ctx, fetcher, paths.Historical)
	if err != nil {
		return nil, fmt.Errorf("%w: read historical data %s: %v", ErrConfiguration, paths.Historical, err)
	}
	observations, err := store.ReadTemperatureCSV(bytes.NewReader(histRaw))
	if err != nil {
		return nil, fmt.Errorf("%w: parse historical data: %v", ErrConfiguration, err)
	}
	history, err := store.NewTemperatureHistory(observations)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	if history.Len() < MinHistoryObservations {
		return nil, fmt.Errorf("%w: historical buffer holds %d observations, need at least %d",
			ErrConfiguration, history.Len(), MinHistoryObservations)
	}

	// Cross-check every estimator against the metadata feature schema.
	featureCount := len(meta.FeatureColumns)
	if err := scaler.Validate(featureCount); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	for _, m := range base {
		if err := m.Validate(featureCount); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
		}
	}
	// The meta-learner stacks the base outputs, not the raw features.
	if err := metaModel.Validate(len(base)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	return &Bundle{
		Scaler:   scaler,
		Base:     base,
		Meta:     metaModel,
		Metadata: meta,
		History:  history,
	}, nil
}

func readArtifact(ctx context.Context, fetcher *Fetcher, location string) ([]byte, error) {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		if fetcher == nil {
			return nil, errors.New("remote artifact requested but no fetcher configured")
		}
		return fetcher.Fetch(ctx, location)
	}
	return os.ReadFile(location)
}
