package queries

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/musiclands/backend/internal/completion"
)

type dispatcher struct {
	client       completion.Client
	instructions InstructionSource
	venues       VenueSource
	archive      Archive
	metrics      *Metrics
	model        func(string) string
	cfg          Config
	logger       *slog.Logger
}

// New creates a query system over client. Instructions supply the
// per-type instruction text and must not be nil.
func New(
	client completion.Client,
	instructions InstructionSource,
	cfg Config,
	logger *slog.Logger,
	opts ...Option,
) System {
	d := &dispatcher{
		client:       client,
		instructions: instructions,
		cfg:          cfg,
		logger:       logger.With("system", "queries"),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.metrics == nil {
		d.metrics = NewMetrics(nil)
	}
	if d.model == nil {
		d.model = func(string) string { return "" }
	}
	if d.cfg.DefaultMaxParallel < 1 {
		d.cfg.DefaultMaxParallel = 5
	}
	if d.cfg.VenueWindowDuration() <= 0 {
		d.cfg.VenueWindow = "6h"
	}
	return d
}

func (d *dispatcher) Handler() *Handler {
	return NewHandler(d, d.logger)
}

func (d *dispatcher) Dispatch(ctx context.Context, req Request) (result Result) {
	start := time.Now()
	result = newResult(req.QueryType)

	defer func() {
		if r := recover(); r != nil {
			result.fail(fmt.Errorf("dispatch panic: %v", r))
		}
		elapsed := time.Since(start)
		result.ProcessingTimeMS = elapsed.Milliseconds()
		d.record(result, elapsed)
	}()

	data, raw, err := d.dispatch(ctx, req)
	if raw != "" {
		result.RawResponse = &raw
	}
	if err != nil {
		result.fail(err)
		return result
	}
	result.ResponseData = data
	return result
}

func (d *dispatcher) record(r Result, elapsed time.Duration) {
	d.metrics.observe(r, elapsed)

	if r.Failed() {
		d.logger.Warn("dispatch failed",
			"request_id", r.RequestID,
			"query_type", r.QueryType,
			"duration_ms", r.ProcessingTimeMS,
			"error", *r.Error,
		)
		return
	}
	d.logger.Info("dispatch complete",
		"request_id", r.RequestID,
		"query_type", r.QueryType,
		"duration_ms", r.ProcessingTimeMS,
	)
}

// dispatch returns the response data and the raw model text. Raw text is
// returned alongside parse failures for diagnostics.
func (d *dispatcher) dispatch(ctx context.Context, req Request) (map[string]any, string, error) {
	if err := req.Validate(); err != nil {
		return nil, "", err
	}
	if !d.client.Available() {
		return nil, "", ErrServiceUnavailable
	}
	req.TimeContext.Derive()

	switch req.QueryType {
	case TimeRangeExtraction:
		return d.timeRange(ctx, req)
	case ActivityRecommendation:
		return d.activity(ctx, req)
	case LocationAnalysis:
		return d.location(ctx, req)
	case MusicDiscovery:
		return d.music(ctx, req)
	case Conversation:
		fallthrough
	default:
		return d.conversation(ctx, req)
	}
}

func (d *dispatcher) timeRange(ctx context.Context, req Request) (map[string]any, string, error) {
	instructions, err := d.instructionsFor(ctx, TimeRangeExtraction)
	if err != nil {
		return nil, "", err
	}

	raw, err := d.complete(ctx, TimeRangeExtraction, TimeRangePrompt(req, instructions))
	if err != nil {
		return nil, "", err
	}

	extraction, err := ParseTimeRange(raw, req.TimeContext.Zone())
	if err != nil {
		return nil, raw, err
	}
	extraction.RawLLMResponse = &raw

	return extraction.data(), raw, nil
}

func (d *dispatcher) activity(ctx context.Context, req Request) (map[string]any, string, error) {
	instructions, err := d.instructionsFor(ctx, ActivityRecommendation)
	if err != nil {
		return nil, "", err
	}

	prompt, rendered := ActivityPrompt(req, instructions)
	raw, err := d.complete(ctx, ActivityRecommendation, prompt)
	if err != nil {
		return nil, "", err
	}

	return map[string]any{
		"recommendation": raw,
		"context":        rendered,
	}, raw, nil
}

func (d *dispatcher) location(ctx context.Context, req Request) (map[string]any, string, error) {
	instructions, err := d.instructionsFor(ctx, LocationAnalysis)
	if err != nil {
		return nil, "", err
	}

	var venues []Venue
	if d.venues != nil {
		from := req.TimeContext.CurrentTime
		venues, err = d.venues.Venues(ctx, from, from.Add(d.cfg.VenueWindowDuration()))
		if err != nil {
			return nil, "", fmt.Errorf("load venues: %w", err)
		}
	}

	raw, err := d.complete(ctx, LocationAnalysis, LocationPrompt(req, instructions, venues))
	if err != nil {
		return nil, "", err
	}

	return map[string]any{
		"recommendation": raw,
		"venue_count":    len(venues),
	}, raw, nil
}

func (d *dispatcher) music(ctx context.Context, req Request) (map[string]any, string, error) {
	instructions, err := d.instructionsFor(ctx, MusicDiscovery)
	if err != nil {
		return nil, "", err
	}

	prompt, userContext := MusicPrompt(req, instructions)
	raw, err := d.complete(ctx, MusicDiscovery, prompt)
	if err != nil {
		return nil, "", err
	}

	return map[string]any{
		"music_response": raw,
		"user_context":   userContext,
	}, raw, nil
}

func (d *dispatcher) conversation(ctx context.Context, req Request) (map[string]any, string, error) {
	instructions, err := d.instructionsFor(ctx, Conversation)
	if err != nil {
		return nil, "", err
	}

	raw, err := d.complete(ctx, Conversation, ConversationPrompt(req, instructions))
	if err != nil {
		return nil, "", err
	}

	return map[string]any{"response": raw}, raw, nil
}

func (d *dispatcher) instructionsFor(ctx context.Context, t QueryType) (string, error) {
	text, err := d.instructions.Instructions(ctx, t)
	if err != nil {
		return "", fmt.Errorf("load %s instructions: %w", t, err)
	}
	return text, nil
}

// complete runs the prompt. A transport failure or blank reply is an
// ErrEmptyResponse; a client that became unavailable mid-call is an
// ErrServiceUnavailable.
func (d *dispatcher) complete(ctx context.Context, t QueryType, p Prompt) (string, error) {
	d.metrics.inFlight.Inc()
	defer d.metrics.inFlight.Dec()

	text, err := d.client.Complete(ctx, completion.Request{
		Messages:    p.Messages(),
		Model:       d.model(string(t)),
		MaxTokens:   p.Options.MaxTokens,
		Temperature: p.Options.Temperature,
	})
	if err != nil {
		if errors.Is(err, completion.ErrUnavailable) {
			return "", fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
		}
		return "", fmt.Errorf("%w: %v", ErrEmptyResponse, err)
	}
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
