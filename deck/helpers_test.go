package deck

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/sartorproj/tsdeck/internal/config"
	"github.com/sartorproj/tsdeck/internal/recorder"
)

func testConfig(outputDir string) *config.Config {
	return &config.Config{
		Data:     config.DataConfig{Column: "infl"},
		Analysis: config.AnalysisConfig{Alpha: 0.05, Lags: 12, Steps: 4},
		Selection: config.SelectionConfig{
			MaxAR:     2,
			MaxMA:     1,
			Criteria:  []string{"aic", "bic"},
			Criterion: "aic",
			Workers:   2,
			Grid: config.GridConfig{
				P: "0:1", D: "0:0", Q: "0:1", SP: "0:0", SD: "0:0", SQ: "0:0", S: "4:4",
			},
		},
		Output: config.OutputConfig{Dir: outputDir, Format: "png"},
	}
}

// loadedSession returns a session on the bundled sample with figures
// written to a temporary directory.
func loadedSession(t *testing.T, rec recorder.Recorder) *Session {
	t.Helper()
	s := NewSession(testConfig(t.TempDir()), rec, nil)
	require.NoError(t, s.LoadData("", "infl"))
	return s
}

type memoryRecorder struct {
	mu           sync.Mutex
	fits         []*recorder.FitRecord
	stationarity []*recorder.StationarityRecord
	grids        map[string][]recorder.GridEvaluation
}

func (m *memoryRecorder) RunID() uuid.UUID { return uuid.Nil }

func (m *memoryRecorder) RecordFit(_ context.Context, rec *recorder.FitRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fits = append(m.fits, rec)
	return nil
}

func (m *memoryRecorder) RecordStationarity(_ context.Context, rec *recorder.StationarityRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stationarity = append(m.stationarity, rec)
	return nil
}

func (m *memoryRecorder) RecordGrid(_ context.Context, criterion string, evals []recorder.GridEvaluation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.grids == nil {
		m.grids = make(map[string][]recorder.GridEvaluation)
	}
	m.grids[criterion] = append(m.grids[criterion], evals...)
	return nil
}

func (m *memoryRecorder) Close() error { return nil }

func blocksOf[T Block](blocks []Block) []T {
	var out []T
	for _, b := range blocks {
		if v, ok := b.(T); ok {
			out = append(out, v)
		}
	}
	return out
}
