package collection_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/wikinaturalist-backend/internal/adapter/postgres"
	"github.com/heartmarshall/wikinaturalist-backend/internal/adapter/postgres/collection"
	"github.com/heartmarshall/wikinaturalist-backend/internal/adapter/postgres/testhelper"
	"github.com/heartmarshall/wikinaturalist-backend/internal/domain"
)

func newRepo(t *testing.T) (*collection.Repo, *pgxpool.Pool) {
	t.Helper()
	pool := testhelper.SetupTestDB(t)
	return collection.New(pool), pool
}

func float(v float64) *float64 { return &v }

func TestRepo_InsertAndList(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()
	owner := testhelper.UniqueOwner("alice")

	spain := domain.Collection{
		Title:     "Spain",
		Latitude:  float(43.0),
		Longitude: float(1.17),
		Names:     []string{"Quercus robur", "Pica pica", "Pica pica"},
	}
	home := domain.Collection{Title: "Home", Names: []string{"Felis catus"}}

	first, err := repo.Insert(ctx, owner, 0, spain)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, first.ID)
	assert.False(t, first.CreatedAt.IsZero())

	_, err = repo.Insert(ctx, owner, 1, home)
	require.NoError(t, err)

	got, err := repo.ListByOwner(ctx, owner)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "Spain", got[0].Title)
	assert.Equal(t, 0, got[0].Position)
	require.True(t, got[0].HasCoordinates())
	assert.InDelta(t, 43.0, *got[0].Latitude, 1e-9)
	assert.InDelta(t, 1.17, *got[0].Longitude, 1e-9)
	assert.Equal(t, []string{"Quercus robur", "Pica pica", "Pica pica"}, got[0].Names)

	assert.Equal(t, "Home", got[1].Title)
	assert.False(t, got[1].HasCoordinates())
	assert.Equal(t, []string{"Felis catus"}, got[1].Names)
}

func TestRepo_ListByOwner_Empty(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)

	got, err := repo.ListByOwner(context.Background(), testhelper.UniqueOwner("nobody"))
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestRepo_Insert_DuplicatePosition(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()
	owner := testhelper.UniqueOwner("dup")

	c := domain.Collection{Title: "A", Names: []string{"x"}}
	_, err := repo.Insert(ctx, owner, 0, c)
	require.NoError(t, err)

	_, err = repo.Insert(ctx, owner, 0, c)
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
}

func TestRepo_Insert_HalfCoordinatesRejected(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)

	c := domain.Collection{Title: "A", Latitude: float(1), Names: []string{"x"}}
	_, err := repo.Insert(context.Background(), testhelper.UniqueOwner("half"), 0, c)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestRepo_ReplaceInTx(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	tm := postgres.NewTxManager(pool)
	ctx := context.Background()
	owner := testhelper.UniqueOwner("replace")

	_, err := repo.Insert(ctx, owner, 0, domain.Collection{Title: "Old", Names: []string{"a", "b"}})
	require.NoError(t, err)

	err = tm.RunInTx(ctx, func(ctx context.Context) error {
		n, err := repo.DeleteByOwner(ctx, owner)
		if err != nil {
			return err
		}
		assert.Equal(t, int64(1), n)
		_, err = repo.Insert(ctx, owner, 0, domain.Collection{Title: "New", Names: []string{"c"}})
		return err
	})
	require.NoError(t, err)

	got, err := repo.ListByOwner(ctx, owner)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "New", got[0].Title)
	assert.Equal(t, []string{"c"}, got[0].Names)

	var names int
	require.NoError(t, pool.QueryRow(ctx,
		`SELECT count(*) FROM collection_names n JOIN collections c ON c.id = n.collection_id WHERE c.owner = $1`,
		owner).Scan(&names))
	assert.Equal(t, 1, names)
}
