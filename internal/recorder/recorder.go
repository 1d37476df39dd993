// Package recorder persists fit results, stationarity verdicts and grid-search
// evaluations so that runs of the deck can be compared afterwards.
package recorder

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// FitRecord holds the headline numbers of one fitted model.
type FitRecord struct {
	Column   string
	Order    string // "(p,d,q)"
	Seasonal string // "(P,D,Q,s)"
	NObs     int
	LogLik   float64
	AIC      float64
	BIC      float64
	HQIC     float64
	Sigma2   float64
}

// StationarityRecord holds one joint ADF/KPSS verdict.
type StationarityRecord struct {
	Column        string
	Diffs         int
	SeasonalDiffs int // taken at lag Period, before Diffs
	Period        int
	ADFStat       float64
	ADFPValue     float64
	KPSSStat      float64
	KPSSPValue    float64
	Alpha         float64
	Verdict       string
}

// GridEvaluation is one scored point of the brute-force search.
type GridEvaluation struct {
	Order    string
	Seasonal string
	Score    float64
	Failed   bool
	Error    string
}

// Recorder persists results for later analysis.
type Recorder interface {
	RunID() uuid.UUID
	RecordFit(ctx context.Context, rec *FitRecord) error
	RecordStationarity(ctx context.Context, rec *StationarityRecord) error
	RecordGrid(ctx context.Context, criterion string, evals []GridEvaluation) error
	Close() error
}

// Run describes one recorded invocation.
type Run struct {
	ID        uuid.UUID
	StartedAt time.Time
	Command   string
}
