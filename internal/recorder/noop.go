package recorder

import (
	"context"

	"github.com/google/uuid"
)

// NoopRecorder is used when no recorder path is configured.
type NoopRecorder struct {
	id uuid.UUID
}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{id: uuid.New()} }

func (n *NoopRecorder) RunID() uuid.UUID                                                  { return n.id }
func (n *NoopRecorder) RecordFit(_ context.Context, _ *FitRecord) error                   { return nil }
func (n *NoopRecorder) RecordStationarity(_ context.Context, _ *StationarityRecord) error { return nil }
func (n *NoopRecorder) RecordGrid(_ context.Context, _ string, _ []GridEvaluation) error  { return nil }
func (n *NoopRecorder) Close() error                                                      { return nil }
