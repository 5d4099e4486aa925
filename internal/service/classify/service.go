// Package classify combines the graph resolver and the text classifier into a
// single classification with a recorded source.
package classify

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/wikinaturalist-backend/internal/domain"
	"github.com/heartmarshall/wikinaturalist-backend/internal/taxonomy"
)

type graphResolver interface {
	ResolveGroup(ctx context.Context, name, language string) string
}

type textClassifier interface {
	ClassifyByText(ctx context.Context, name, language string) string
}

type classificationRecorder interface {
	RecordClassification(source, group string)
}

// Result is the outcome of classifying one name.
type Result struct {
	Name    string                      `json:"name"`
	GroupID string                      `json:"group"`
	Source  domain.ClassificationSource `json:"source"`
}

// Options tunes the orchestrator.
type Options struct {
	// TextFallback enables the text classifier for names the graph cannot place.
	TextFallback bool
	// Concurrency bounds parallel resolutions in ClassifyBatch.
	Concurrency int
	// MaxBatch caps the number of names accepted by ClassifyBatch. Zero means no cap.
	MaxBatch int
}

// Service classifies names. The graph resolver is authoritative; the text
// classifier only runs when the graph yields the fallback group.
type Service struct {
	log      *slog.Logger
	graph    graphResolver
	text     textClassifier
	recorder classificationRecorder
	fallback string
	opts     Options
}

// NewService creates a classification orchestrator. text and recorder may be nil.
func NewService(
	logger *slog.Logger,
	registry *taxonomy.Registry,
	graph graphResolver,
	text textClassifier,
	opts Options,
	recorder classificationRecorder,
) *Service {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	return &Service{
		log:      logger.With("service", "classify"),
		graph:    graph,
		text:     text,
		recorder: recorder,
		fallback: registry.Fallback().ID,
		opts:     opts,
	}
}

// Classify returns the group of name. It never fails.
func (s *Service) Classify(ctx context.Context, name, language string) Result {
	res := s.classify(ctx, name, language)
	if s.recorder != nil {
		s.recorder.RecordClassification(res.Source.String(), res.GroupID)
	}
	s.log.DebugContext(ctx, "classified",
		slog.String("name", name),
		slog.String("group", res.GroupID),
		slog.String("source", res.Source.String()),
	)
	return res
}

func (s *Service) classify(ctx context.Context, name, language string) Result {
	res := Result{Name: name, GroupID: s.fallback, Source: domain.SourceNone}

	if group := s.graph.ResolveGroup(ctx, name, language); group != s.fallback {
		res.GroupID = group
		res.Source = domain.SourceGraph
		return res
	}

	if !s.opts.TextFallback || s.text == nil || ctx.Err() != nil {
		return res
	}

	if group := s.text.ClassifyByText(ctx, name, language); group != s.fallback {
		res.GroupID = group
		res.Source = domain.SourceText
	}
	return res
}

// ClassifyBatch classifies names concurrently and returns results in input
// order. Individual names never fail; the only errors are an oversized batch
// and a cancelled context.
func (s *Service) ClassifyBatch(ctx context.Context, names []string, language string) ([]Result, error) {
	if s.opts.MaxBatch > 0 && len(names) > s.opts.MaxBatch {
		return nil, fmt.Errorf("%d names, max %d: %w", len(names), s.opts.MaxBatch, ErrBatchTooLarge)
	}

	results := make([]Result, len(names))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Concurrency)

	for i, name := range names {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = s.Classify(gctx, name, language)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("classify batch: %w", err)
	}
	return results, nil
}
