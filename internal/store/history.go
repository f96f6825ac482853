package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"
)

var (
	// ErrInsufficientHistory is returned when a lag or rolling window reaches
	// further back than the loaded observations allow.
	ErrInsufficientHistory = errors.New("not enough historical temperature observations")
)

// Observation is a single daily mean temperature reading.
type Observation struct {
	Date  time.Time
	TempC float64
}

// TemperatureHistory is an ordered, read-only buffer of the most recent daily
// temperature observations. It is populated once at startup and shared across
// concurrent requests without locking; it is never refreshed while the
// process runs.
type TemperatureHistory struct {
	observations []Observation
}

// NewTemperatureHistory builds a history from observations ordered oldest to
// newest. Out-of-order dates indicate a corrupt source file and are rejected.
func NewTemperatureHistory(observations []Observation) (*TemperatureHistory, error) {
	if len(observations) == 0 {
		return nil, fmt.Errorf("%w: no observations", ErrInsufficientHistory)
	}
	for i := 1; i < len(observations); i++ {
		if !observations[i].Date.After(observations[i-1].Date) {
			return nil, fmt.Errorf("observations out of order at row %d (%s followed by %s)",
				i, observations[i-1].Date.Format("2006-01-02"), observations[i].Date.Format("2006-01-02"))
		}
	}
	h := &TemperatureHistory{observations: make([]Observation, len(observations))}
	copy(h.observations, observations)
	return h, nil
}

// Len returns the number of loaded observations.
func (h *TemperatureHistory) Len() int {
	return len(h.observations)
}

// Latest returns the most recent observation.
func (h *TemperatureHistory) Latest() Observation {
	return h.observations[len(h.observations)-1]
}

// Lag returns the temperature n observations back, where Lag(1) is the most
// recent observation and Lag(7) the one from seven observations ago.
func (h *TemperatureHistory) Lag(n int) (float64, error) {
	if n < 1 {
		return 0, fmt.Errorf("lag must be >= 1, got %d", n)
	}
	if n > len(h.observations) {
		return 0, fmt.Errorf("%w: lag %d requested, %d available", ErrInsufficientHistory, n, len(h.observations))
	}
	return h.observations[len(h.observations)-n].TempC, nil
}

// RollingMean returns the mean temperature over the most recent n observations.
func (h *TemperatureHistory) RollingMean(n int) (float64, error) {
	if n < 1 {
		return 0, fmt.Errorf("window must be >= 1, got %d", n)
	}
	if n > len(h.observations) {
		return 0, fmt.Errorf("%w: window %d requested, %d available", ErrInsufficientHistory, n, len(h.observations))
	}
	var sum float64
	for _, obs := range h.observations[len(h.observations)-n:] {
		sum += obs.TempC
	}
	return sum / float64(n), nil
}

// ReadTemperatureCSV parses a two-column CSV of daily observations with a
// `date,temp_c_mean` header, dates in YYYY-MM-DD ascending order.
func ReadTemperatureCSV(r io.Reader) ([]Observation, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 2

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if header[0] != "date" || header[1] != "temp_c_mean" {
		return nil, fmt.Errorf("unexpected header %v, want [date temp_c_mean]", header)
	}

	var observations []Observation
	for row := 2; ; row++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}

		date, err := time.Parse("2006-01-02", record[0])
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid date %q: %w", row, record[0], err)
		}
		temp, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid temperature %q: %w", row, record[1], err)
		}

		observations = append(observations, Observation{Date: date.UTC(), TempC: temp})
	}

	return observations, nil
}
