// Package organism implements the organism card repository using PostgreSQL.
// Cards are cached per normalized name and language.
package organism

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/wikinaturalist-backend/internal/adapter/postgres"
	"github.com/heartmarshall/wikinaturalist-backend/internal/domain"
)

const table = "organisms"

var columns = []string{
	"id", "name", "name_normalized", "language",
	"entity_id", "taxon_name", "common_name", "image_url", "range_map_url",
	"short_description", "medium_description", "long_description", "infobox",
	"group_id", "group_source", "fetched_at",
}

// Repo provides organism persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new organism repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// GetByName returns the card stored for a normalized name and language.
// Returns domain.ErrNotFound when no card exists.
func (r *Repo) GetByName(ctx context.Context, nameNormalized, lang string) (*domain.Organism, error) {
	query, args, err := postgres.Builder.
		Select(columns...).
		From(table).
		Where(sq.Eq{"name_normalized": nameNormalized, "language": lang}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get organism query: %w", err)
	}

	row := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, query, args...)
	o, err := scanOrganism(row)
	if err != nil {
		return nil, postgres.MapError(err, "organism", key(nameNormalized, lang))
	}
	return o, nil
}

// Create inserts a card and returns it with the generated id and fetch time.
// Returns domain.ErrAlreadyExists when a card for the same name and language
// was stored concurrently.
func (r *Repo) Create(ctx context.Context, o *domain.Organism) (*domain.Organism, error) {
	query, args, err := postgres.Builder.
		Insert(table).
		Columns(columns[1:15]...).
		Values(
			o.Name, o.NameNormalized, o.Language,
			o.EntityID, o.TaxonName, o.CommonName, o.ImageURL, o.RangeMapURL,
			o.ShortDescription, o.MediumDescription, o.LongDescription, o.Infobox,
			o.GroupID, string(o.GroupSource),
		).
		Suffix("RETURNING id, fetched_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert organism query: %w", err)
	}

	created := *o
	err = postgres.QuerierFromCtx(ctx, r.pool).
		QueryRow(ctx, query, args...).
		Scan(&created.ID, &created.FetchedAt)
	if err != nil {
		return nil, postgres.MapError(err, "organism", key(o.NameNormalized, o.Language))
	}
	return &created, nil
}

// DeleteByName removes the cached card so the next lookup refetches it.
// Returns domain.ErrNotFound when nothing was deleted.
func (r *Repo) DeleteByName(ctx context.Context, nameNormalized, lang string) error {
	query, args, err := postgres.Builder.
		Delete(table).
		Where(sq.Eq{"name_normalized": nameNormalized, "language": lang}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete organism query: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, query, args...)
	if err != nil {
		return postgres.MapError(err, "organism", key(nameNormalized, lang))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("organism %s: %w", key(nameNormalized, lang), domain.ErrNotFound)
	}
	return nil
}

func key(name, lang string) string { return name + "/" + lang }

func scanOrganism(row pgx.Row) (*domain.Organism, error) {
	var (
		o      domain.Organism
		source string
	)
	err := row.Scan(
		&o.ID, &o.Name, &o.NameNormalized, &o.Language,
		&o.EntityID, &o.TaxonName, &o.CommonName, &o.ImageURL, &o.RangeMapURL,
		&o.ShortDescription, &o.MediumDescription, &o.LongDescription, &o.Infobox,
		&o.GroupID, &source, &o.FetchedAt,
	)
	if err != nil {
		return nil, err
	}
	o.GroupSource = domain.ClassificationSource(source)
	return &o, nil
}
