// Package textclass classifies organisms from encyclopedia article text. It
// is a lower-confidence fallback for names the graph resolver cannot place.
package textclass

import (
	"context"
	"log/slog"

	"github.com/heartmarshall/wikinaturalist-backend/internal/provider"
	"github.com/heartmarshall/wikinaturalist-backend/internal/taxonomy"
)

type articleFetcher interface {
	FetchArticle(ctx context.Context, name, language string) (*provider.ArticleText, error)
}

// Service runs an ordered list of strategies over an article.
type Service struct {
	log        *slog.Logger
	articles   articleFetcher
	strategies []Strategy
	fallback   string
}

// NewService creates a text classifier with the label strategy followed by
// the frequency strategy.
func NewService(logger *slog.Logger, registry *taxonomy.Registry, articles articleFetcher) *Service {
	return NewServiceWithStrategies(logger, registry, articles,
		NewLabelStrategy(registry),
		NewFrequencyStrategy(registry),
	)
}

// NewServiceWithStrategies creates a text classifier with explicit strategies.
func NewServiceWithStrategies(
	logger *slog.Logger,
	registry *taxonomy.Registry,
	articles articleFetcher,
	strategies ...Strategy,
) *Service {
	return &Service{
		log:        logger.With("service", "textclass"),
		articles:   articles,
		strategies: strategies,
		fallback:   registry.Fallback().ID,
	}
}

// ClassifyByText fetches the article for name and classifies it. Never fails:
// a missing article or fetch error yields the fallback group.
func (s *Service) ClassifyByText(ctx context.Context, name, language string) string {
	article, err := s.articles.FetchArticle(ctx, name, language)
	if err != nil {
		s.log.WarnContext(ctx, "article fetch failed",
			slog.String("name", name),
			slog.String("error", err.Error()),
		)
		return s.fallback
	}
	if article == nil {
		return s.fallback
	}

	group, strategy := s.ClassifyArticle(article)
	s.log.DebugContext(ctx, "text classification",
		slog.String("name", name),
		slog.String("group", group),
		slog.String("strategy", strategy),
	)
	return group
}

// ClassifyArticle applies the strategies in order and returns the first
// opinion together with the name of the strategy that gave it.
func (s *Service) ClassifyArticle(article *provider.ArticleText) (group, strategy string) {
	if article == nil {
		return s.fallback, ""
	}
	for _, st := range s.strategies {
		if g := st.Classify(article); g != "" {
			return g, st.Name()
		}
	}
	return s.fallback, ""
}
