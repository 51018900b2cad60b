package lifecycle

import (
	"context"
	"time"

	"resume-diagnosis/internal/diagnosis"
	"resume-diagnosis/internal/documents"
	"resume-diagnosis/internal/shared/metrics"
	"resume-diagnosis/internal/shared/storage/object"
	"resume-diagnosis/internal/shared/telemetry"
)

const (
	defaultSweepInterval = 5 * time.Minute
	defaultBatchSize     = 100
)

// Sweeper destroys expired documents and their diagnoses. Multiple sweepers
// can run concurrently: the repo claim is atomic, so each expired document
// is destroyed exactly once.
type Sweeper struct {
	Docs      documents.Repo
	Diagnoses diagnosis.Repo
	Store     object.ObjectStore
	Interval  time.Duration
	BatchSize int
}

// Run sweeps on the configured interval until the context is canceled.
func (s *Sweeper) Run(ctx context.Context) {
	interval := s.Interval
	if interval <= 0 {
		interval = defaultSweepInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.SweepOnce(ctx); err != nil {
				telemetry.Error("retention sweep failed", map[string]any{"error": err.Error()})
			}
		}
	}
}

// SweepOnce claims one batch of expired documents and destroys their stored
// payloads. Returns the number of documents destroyed.
func (s *Sweeper) SweepOnce(ctx context.Context) (int, error) {
	batch := s.BatchSize
	if batch <= 0 {
		batch = defaultBatchSize
	}

	metrics.IncRetentionSweeps()

	claimed, err := s.Docs.ClaimExpired(ctx, time.Now().UTC(), batch)
	if err != nil {
		return 0, err
	}
	if len(claimed) == 0 {
		return 0, nil
	}

	destroyed := 0
	for _, doc := range claimed {
		if err := s.destroy(ctx, doc); err != nil {
			telemetry.Error("document destruction failed", map[string]any{
				"document_id": doc.ID,
				"error":       err.Error(),
			})
			continue
		}
		destroyed++
	}

	metrics.AddDocumentsDestroyed(destroyed)
	telemetry.Info("retention sweep", map[string]any{
		"claimed":   len(claimed),
		"destroyed": destroyed,
	})
	return destroyed, nil
}

func (s *Sweeper) destroy(ctx context.Context, doc documents.Document) error {
	if err := s.Store.Delete(ctx, doc.StorageKey); err != nil {
		return err
	}
	if err := s.Store.Delete(ctx, doc.ExtractedKey()); err != nil {
		return err
	}
	if s.Diagnoses != nil {
		if err := s.Diagnoses.DeleteByDocument(ctx, doc.ID); err != nil {
			return err
		}
	}
	return nil
}
