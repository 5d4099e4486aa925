// Package collection stores snapshots of parsed collection lists per owner.
package collection

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/wikinaturalist-backend/internal/adapter/postgres"
	"github.com/heartmarshall/wikinaturalist-backend/internal/domain"
)

// Repo provides collection persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new collection repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const listNamesSQL = `
SELECT collection_id, name
FROM collection_names
WHERE collection_id = ANY($1::uuid[])
ORDER BY collection_id, position`

// ListByOwner returns the stored collections of owner ordered by position,
// each with its names in list order. Returns an empty slice when the owner
// has nothing stored.
func (r *Repo) ListByOwner(ctx context.Context, owner string) ([]domain.StoredCollection, error) {
	query, args, err := postgres.Builder.
		Select("id", "owner", "position", "title", "latitude", "longitude", "created_at").
		From("collections").
		Where(sq.Eq{"owner": owner}).
		OrderBy("position").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list collections query: %w", err)
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	stored, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.StoredCollection, error) {
		var c domain.StoredCollection
		err := row.Scan(&c.ID, &c.Owner, &c.Position, &c.Title, &c.Latitude, &c.Longitude, &c.CreatedAt)
		return c, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan collections: %w", err)
	}
	if len(stored) == 0 {
		return []domain.StoredCollection{}, nil
	}

	ids := make([]uuid.UUID, len(stored))
	index := make(map[uuid.UUID]int, len(stored))
	for i, c := range stored {
		ids[i] = c.ID
		index[c.ID] = i
		stored[i].Names = []string{}
	}

	nameRows, err := q.Query(ctx, listNamesSQL, ids)
	if err != nil {
		return nil, fmt.Errorf("list collection names: %w", err)
	}
	defer nameRows.Close()

	for nameRows.Next() {
		var (
			id   uuid.UUID
			name string
		)
		if err := nameRows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("scan collection name: %w", err)
		}
		i := index[id]
		stored[i].Names = append(stored[i].Names, name)
	}
	if err := nameRows.Err(); err != nil {
		return nil, fmt.Errorf("list collection names: %w", err)
	}

	return stored, nil
}

// DeleteByOwner removes every collection of owner and returns how many
// were removed. Names cascade.
func (r *Repo) DeleteByOwner(ctx context.Context, owner string) (int64, error) {
	query, args, err := postgres.Builder.
		Delete("collections").
		Where(sq.Eq{"owner": owner}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete collections query: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, query, args...)
	if err != nil {
		return 0, postgres.MapError(err, "collections", owner)
	}
	return tag.RowsAffected(), nil
}

// Insert stores one collection at position for owner together with its
// names. Callers replacing a whole list run DeleteByOwner and Insert in one
// transaction.
func (r *Repo) Insert(ctx context.Context, owner string, position int, c domain.Collection) (*domain.StoredCollection, error) {
	query, args, err := postgres.Builder.
		Insert("collections").
		Columns("owner", "position", "title", "latitude", "longitude").
		Values(owner, position, c.Title, c.Latitude, c.Longitude).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert collection query: %w", err)
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)

	stored := domain.StoredCollection{Owner: owner, Position: position, Collection: c}
	if err := q.QueryRow(ctx, query, args...).Scan(&stored.ID, &stored.CreatedAt); err != nil {
		return nil, postgres.MapError(err, "collection", fmt.Sprintf("%s#%d", owner, position))
	}

	if len(c.Names) == 0 {
		return &stored, nil
	}

	batch := &pgx.Batch{}
	for i, name := range c.Names {
		batch.Queue(`INSERT INTO collection_names (collection_id, position, name) VALUES ($1, $2, $3)`,
			stored.ID, i, name)
	}

	br := q.SendBatch(ctx, batch)
	defer br.Close()

	for range c.Names {
		if _, err := br.Exec(); err != nil {
			return nil, postgres.MapError(err, "collection names", stored.ID.String())
		}
	}

	return &stored, nil
}
