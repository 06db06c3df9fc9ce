package faq

import (
	"context"
	"time"
)

// QueryLog counts processed messages for the trending view.
type QueryLog interface {
	IncrementQuery(ctx context.Context, canonical, display string) error
	TopQueries(ctx context.Context, limit int) ([]TrendingQuery, error)
}

// Recorder receives operational measurements.
type Recorder interface {
	ObserveResolution(outcome string, elapsed time.Duration)
	ObserveSelection(status string)
	SetStorageCounts(pairs, associations int)
}

type nopRecorder struct{}

func (nopRecorder) ObserveResolution(string, time.Duration) {}
func (nopRecorder) ObserveSelection(string)                 {}
func (nopRecorder) SetStorageCounts(int, int)               {}
