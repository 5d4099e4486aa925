// Package collection serves per-user collection lists read from the user's
// list page, falling back to a built-in list, and stores snapshots of them.
package collection

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/wikinaturalist-backend/internal/domain"
	"github.com/heartmarshall/wikinaturalist-backend/internal/provider"
	"github.com/heartmarshall/wikinaturalist-backend/internal/wikitext"
)

type listPageProvider interface {
	FetchListPage(ctx context.Context, username string) (*provider.ListPage, error)
}

type collectionRepo interface {
	ListByOwner(ctx context.Context, owner string) ([]domain.StoredCollection, error)
	DeleteByOwner(ctx context.Context, owner string) (int64, error)
	Insert(ctx context.Context, owner string, position int, c domain.Collection) (*domain.StoredCollection, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Source tells where a returned list came from.
type Source string

const (
	SourcePage    Source = "page"
	SourceDefault Source = "default"
)

// Lists is the collection set served for one user.
type Lists struct {
	Owner       string              `json:"owner,omitempty"`
	Source      Source              `json:"source"`
	Collections []domain.Collection `json:"collections"`
}

// Service implements collection operations.
type Service struct {
	log         *slog.Logger
	pages       listPageProvider
	collections collectionRepo
	tx          txManager
	defaults    []domain.Collection
}

// NewService creates a collection service. collections and tx may be nil
// for callers that never store snapshots.
func NewService(logger *slog.Logger, pages listPageProvider, collections collectionRepo, tx txManager) *Service {
	return &Service{
		log:         logger.With("service", "collection"),
		pages:       pages,
		collections: collections,
		tx:          tx,
		defaults:    wikitext.Parse(defaultList),
	}
}

// Default returns a copy of the built-in collection list.
func (s *Service) Default() []domain.Collection {
	out := make([]domain.Collection, len(s.defaults))
	for i, c := range s.defaults {
		c.Names = append([]string(nil), c.Names...)
		out[i] = c
	}
	return out
}

// Parse decodes raw list markup.
func (s *Service) Parse(raw string) []domain.Collection {
	return wikitext.Parse(raw)
}

// ForOwner returns the collections of username. It never fails: a missing
// username, a missing or unparsable page and fetch errors all yield the
// built-in list.
func (s *Service) ForOwner(ctx context.Context, username string) Lists {
	name, err := SanitizeUsername(username)
	if err != nil {
		return Lists{Source: SourceDefault, Collections: s.Default()}
	}

	collections, err := s.Fetch(ctx, name)
	if err != nil {
		if !errors.Is(err, ErrListNotFound) {
			s.log.WarnContext(ctx, "list page fetch failed, using default list",
				slog.String("user", name),
				slog.String("error", err.Error()),
			)
		}
		return Lists{Owner: name, Source: SourceDefault, Collections: s.Default()}
	}

	return Lists{Owner: name, Source: SourcePage, Collections: collections}
}

// Fetch reads and parses the list page of an already sanitized username.
// Returns ErrListNotFound when the page is missing or holds no collections.
func (s *Service) Fetch(ctx context.Context, username string) ([]domain.Collection, error) {
	page, err := s.pages.FetchListPage(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("fetch list page: %w", err)
	}
	if page == nil {
		return nil, fmt.Errorf("user %s: %w", username, ErrListNotFound)
	}

	collections := wikitext.Parse(wikitext.FilterLines(page.Wikitext))
	if len(collections) == 0 {
		return nil, fmt.Errorf("user %s: %w", username, ErrListNotFound)
	}
	return collections, nil
}

// Sync fetches the list page of username and replaces the stored snapshot
// in one transaction.
func (s *Service) Sync(ctx context.Context, username string) ([]domain.StoredCollection, error) {
	name, err := SanitizeUsername(username)
	if err != nil {
		return nil, err
	}

	collections, err := s.Fetch(ctx, name)
	if err != nil {
		return nil, err
	}

	stored := make([]domain.StoredCollection, 0, len(collections))
	txErr := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.collections.DeleteByOwner(txCtx, name); err != nil {
			return fmt.Errorf("delete collections: %w", err)
		}
		for i, c := range collections {
			sc, err := s.collections.Insert(txCtx, name, i, c)
			if err != nil {
				return fmt.Errorf("insert collection %q: %w", c.Title, err)
			}
			stored = append(stored, *sc)
		}
		return nil
	})
	if txErr != nil {
		return nil, fmt.Errorf("sync collections: %w", txErr)
	}

	s.log.InfoContext(ctx, "collections synced",
		slog.String("user", name),
		slog.Int("count", len(stored)),
	)
	return stored, nil
}

// List returns the stored snapshot of username.
func (s *Service) List(ctx context.Context, username string) ([]domain.StoredCollection, error) {
	name, err := SanitizeUsername(username)
	if err != nil {
		return nil, err
	}
	return s.collections.ListByOwner(ctx, name)
}
