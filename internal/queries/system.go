package queries

import (
	"context"
	"io"

	"github.com/google/uuid"
)

// System defines the public contract for query dispatch and batching.
type System interface {
	Handler() *Handler

	// Dispatch runs one request. Failures are reported in Result.Error and
	// never returned or raised.
	Dispatch(ctx context.Context, req Request) Result

	// RunBatch dispatches every request and aggregates the results in input
	// order. Only an empty or oversized batch is rejected with an error.
	RunBatch(ctx context.Context, batch BatchRequest) (*BatchResult, error)

	// FindBatch reads an archived batch result.
	FindBatch(ctx context.Context, id uuid.UUID) (*BatchResult, error)
}

// Archive stores batch results as blobs. pkg/storage.System satisfies it.
type Archive interface {
	Upload(ctx context.Context, key string, reader io.Reader, contentType string) error
	Download(ctx context.Context, key string) (io.ReadCloser, error)
}

// Option configures optional collaborators.
type Option func(*dispatcher)

// WithVenues supplies stage and lineup data to location analysis.
func WithVenues(v VenueSource) Option {
	return func(d *dispatcher) { d.venues = v }
}

// WithArchive stores every batch result under batches/<batch_id>.json.
func WithArchive(a Archive) Option {
	return func(d *dispatcher) { d.archive = a }
}

// WithMetrics records dispatch and batch metrics on m.
func WithMetrics(m *Metrics) Option {
	return func(d *dispatcher) { d.metrics = m }
}

// WithModels selects the completion model per query type. An empty
// name leaves the choice to the completion client.
func WithModels(model func(queryType string) string) Option {
	return func(d *dispatcher) { d.model = model }
}
