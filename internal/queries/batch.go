package queries

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/musiclands/backend/pkg/storage"
)

// MaxBatchSize caps the number of requests in one batch.
const MaxBatchSize = 50

func (d *dispatcher) RunBatch(ctx context.Context, batch BatchRequest) (*BatchResult, error) {
	n := len(batch.Requests)
	if n == 0 {
		return nil, ErrEmptyBatch
	}
	if n > MaxBatchSize {
		return nil, fmt.Errorf("%w: got %d", ErrBatchTooLarge, n)
	}

	start := time.Now()
	result := &BatchResult{BatchID: uuid.New()}

	mode := "sequential"
	if batch.Parallel {
		mode = "parallel"
		result.Responses = d.runParallel(ctx, batch.Requests, d.maxParallel(batch.MaxParallel))
	} else {
		result.Responses = d.runSequential(ctx, batch.Requests)
	}

	for _, r := range result.Responses {
		if r.Failed() {
			result.FailedCount++
		} else {
			result.SuccessfulCount++
		}
	}
	result.TotalProcessingTimeMS = time.Since(start).Milliseconds()

	d.metrics.batches.WithLabelValues(mode).Inc()
	d.logger.Info("batch complete",
		"batch_id", result.BatchID,
		"mode", mode,
		"size", n,
		"successful", result.SuccessfulCount,
		"failed", result.FailedCount,
		"duration_ms", result.TotalProcessingTimeMS,
	)

	d.archiveBatch(ctx, result)
	return result, nil
}

func (d *dispatcher) FindBatch(ctx context.Context, id uuid.UUID) (*BatchResult, error) {
	if d.archive == nil {
		return nil, ErrBatchNotFound
	}

	body, err := d.archive.Download(ctx, batchKey(id))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrBatchNotFound
		}
		return nil, fmt.Errorf("download batch %s: %w", id, err)
	}
	defer body.Close()

	var result BatchResult
	if err := json.NewDecoder(body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode batch %s: %w", id, err)
	}
	return &result, nil
}

func (d *dispatcher) maxParallel(requested int) int {
	if requested <= 0 {
		return d.cfg.DefaultMaxParallel
	}
	return requested
}

func (d *dispatcher) runSequential(ctx context.Context, requests []Request) []Result {
	results := make([]Result, 0, len(requests))
	for _, req := range requests {
		results = append(results, d.Dispatch(ctx, req))
	}
	return results
}

// runParallel dispatches with at most limit requests in flight. Each
// worker writes only its own slot, so results keep input order.
func (d *dispatcher) runParallel(ctx context.Context, requests []Request, limit int) []Result {
	results := make([]Result, len(requests))

	var g errgroup.Group
	g.SetLimit(limit)

	for i, req := range requests {
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					failed := newResult(req.QueryType)
					failed.fail(fmt.Errorf("batch item %d: %v", i, r))
					results[i] = failed
				}
			}()
			results[i] = d.Dispatch(ctx, req)
			return nil
		})
	}

	_ = g.Wait()
	return results
}

// archiveBatch stores result when an archive is configured. Failures are
// logged and do not affect the returned result.
func (d *dispatcher) archiveBatch(ctx context.Context, result *BatchResult) {
	if d.archive == nil {
		return
	}

	body, err := json.Marshal(result)
	if err != nil {
		d.logger.Error("encode batch for archive", "batch_id", result.BatchID, "error", err)
		return
	}

	key := batchKey(result.BatchID)
	if err := d.archive.Upload(context.WithoutCancel(ctx), key, bytes.NewReader(body), "application/json"); err != nil {
		d.logger.Warn("archive batch failed", "batch_id", result.BatchID, "key", key, "error", err)
		return
	}
	d.logger.Info("batch archived", "batch_id", result.BatchID, "key", key)
}

func batchKey(id uuid.UUID) string {
	return "batches/" + id.String() + ".json"
}
