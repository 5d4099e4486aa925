// Package organism builds enriched organism cards from the knowledge graph and
// the encyclopedia, and caches them in storage per name and language.
package organism

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/wikinaturalist-backend/internal/domain"
	"github.com/heartmarshall/wikinaturalist-backend/internal/provider"
	"github.com/heartmarshall/wikinaturalist-backend/internal/service/classify"
)

type organismRepo interface {
	GetByName(ctx context.Context, nameNormalized, lang string) (*domain.Organism, error)
	Create(ctx context.Context, o *domain.Organism) (*domain.Organism, error)
	DeleteByName(ctx context.Context, nameNormalized, lang string) error
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type entityProvider interface {
	SearchEntity(ctx context.Context, name, language string) (*provider.SearchHit, error)
	FetchDetails(ctx context.Context, id, language string) (*provider.EntityDetails, error)
}

type articleProvider interface {
	FetchArticle(ctx context.Context, name, language string) (*provider.ArticleText, error)
}

type classifier interface {
	Classify(ctx context.Context, name, language string) classify.Result
}

// Service implements organism card operations.
type Service struct {
	log          *slog.Logger
	organisms    organismRepo
	tx           txManager
	entities     entityProvider
	articles     articleProvider
	classifier   classifier
	classifyLang string
}

// NewService creates a new organism service. Cards are always classified in
// classifyLang regardless of the language they are displayed in. organisms
// and tx may be nil for callers that only use Build.
func NewService(
	logger *slog.Logger,
	organisms organismRepo,
	tx txManager,
	entities entityProvider,
	articles articleProvider,
	classifier classifier,
	classifyLang string,
) *Service {
	return &Service{
		log:          logger.With("service", "organism"),
		organisms:    organisms,
		tx:           tx,
		entities:     entities,
		articles:     articles,
		classifier:   classifier,
		classifyLang: classifyLang,
	}
}

// GetOrFetch returns the stored card for name in lang or builds and stores a
// new one. External calls are made outside the transaction. Cards built while
// a provider was failing are returned but not stored. If a concurrent insert
// races, the stored card is returned.
func (s *Service) GetOrFetch(ctx context.Context, name, lang string) (*domain.Organism, error) {
	clean := domain.CleanName(name)
	normalized := domain.NormalizeText(clean)
	if normalized == "" {
		return nil, domain.NewValidationError("name", "required")
	}

	existing, err := s.organisms.GetByName(ctx, normalized, lang)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get organism by name: %w", err)
	}

	card, complete := s.build(ctx, clean, lang)
	if !complete {
		return card, nil
	}

	var saved *domain.Organism
	txErr := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var createErr error
		saved, createErr = s.organisms.Create(txCtx, card)
		return createErr
	})
	if txErr != nil {
		if errors.Is(txErr, domain.ErrAlreadyExists) {
			existing, err := s.organisms.GetByName(ctx, normalized, lang)
			if err != nil {
				return nil, fmt.Errorf("get organism after conflict: %w", err)
			}
			return existing, nil
		}
		return nil, fmt.Errorf("create organism: %w", txErr)
	}

	s.log.InfoContext(ctx, "organism fetched and saved",
		slog.String("name", clean),
		slog.String("lang", lang),
		slog.String("group", saved.GroupID),
	)
	return saved, nil
}

// Refresh drops the stored card for name in lang and fetches it again.
func (s *Service) Refresh(ctx context.Context, name, lang string) (*domain.Organism, error) {
	normalized := domain.NormalizeText(domain.CleanName(name))
	if normalized == "" {
		return nil, domain.NewValidationError("name", "required")
	}

	if err := s.organisms.DeleteByName(ctx, normalized, lang); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("delete organism: %w", err)
	}
	return s.GetOrFetch(ctx, name, lang)
}

// Build assembles a card without touching storage. It never fails; missing
// data leaves fields empty and the card always carries a group.
func (s *Service) Build(ctx context.Context, name, lang string) *domain.Organism {
	card, _ := s.build(ctx, domain.CleanName(name), lang)
	return card
}

// build fetches entity data, article text and classification concurrently.
// complete is false when any provider call failed.
func (s *Service) build(ctx context.Context, clean, lang string) (card *domain.Organism, complete bool) {
	card = &domain.Organism{
		Name:           clean,
		NameNormalized: domain.NormalizeText(clean),
		Language:       lang,
		TaxonName:      clean,
		GroupID:        domain.GroupUnknown,
		GroupSource:    domain.SourceNone,
		FetchedAt:      time.Now(),
	}

	var (
		entityOK, articleOK bool
		hit                 *provider.SearchHit
		details             *provider.EntityDetails
		article             *provider.ArticleText
		result              classify.Result
	)

	var g errgroup.Group
	g.Go(func() error {
		hit, details, entityOK = s.fetchEntity(ctx, clean, lang)
		return nil
	})
	g.Go(func() error {
		article, articleOK = s.fetchArticle(ctx, clean, lang)
		return nil
	})
	g.Go(func() error {
		result = s.classifier.Classify(ctx, clean, s.classifyLang)
		return nil
	})
	_ = g.Wait()

	applyEntity(card, hit, details)
	applyArticle(card, article)
	card.GroupID = result.GroupID
	card.GroupSource = result.Source

	return card, entityOK && articleOK && ctx.Err() == nil
}

func (s *Service) fetchEntity(ctx context.Context, name, lang string) (*provider.SearchHit, *provider.EntityDetails, bool) {
	hit, err := s.entities.SearchEntity(ctx, name, lang)
	if err != nil {
		s.log.WarnContext(ctx, "entity search failed, proceeding without entity data",
			slog.String("name", name),
			slog.String("error", err.Error()),
		)
		return nil, nil, false
	}
	if hit == nil {
		return nil, nil, true
	}

	details, err := s.entities.FetchDetails(ctx, hit.ID, lang)
	if err != nil {
		s.log.WarnContext(ctx, "entity details failed, proceeding without details",
			slog.String("entity_id", hit.ID),
			slog.String("error", err.Error()),
		)
		return hit, nil, false
	}
	return hit, details, true
}

func (s *Service) fetchArticle(ctx context.Context, name, lang string) (*provider.ArticleText, bool) {
	article, err := s.articles.FetchArticle(ctx, name, lang)
	if err != nil {
		s.log.WarnContext(ctx, "article fetch failed, proceeding without article",
			slog.String("name", name),
			slog.String("error", err.Error()),
		)
		return nil, false
	}
	return article, true
}
