package organism_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/wikinaturalist-backend/internal/adapter/postgres/organism"
	"github.com/heartmarshall/wikinaturalist-backend/internal/adapter/postgres/testhelper"
	"github.com/heartmarshall/wikinaturalist-backend/internal/domain"
)

func newRepo(t *testing.T) *organism.Repo {
	t.Helper()
	return organism.New(testhelper.SetupTestDB(t))
}

func ptr(s string) *string { return &s }

func sampleOrganism(name string) *domain.Organism {
	return &domain.Organism{
		Name:             name,
		NameNormalized:   name,
		Language:         "en",
		EntityID:         ptr("Q25400"),
		TaxonName:        "Pica pica",
		CommonName:       ptr("Eurasian magpie"),
		ImageURL:         ptr("https://commons.wikimedia.org/wiki/Special:FilePath/Pica_pica.jpg?width=400"),
		ShortDescription: ptr("The Eurasian magpie is a resident breeding bird."),
		GroupID:          domain.GroupBird,
		GroupSource:      domain.SourceGraph,
	}
}

func TestRepo_Create_AndGetByName(t *testing.T) {
	t.Parallel()
	repo := newRepo(t)
	ctx := context.Background()
	name := testhelper.UniqueName("pica pica")

	created, err := repo.Create(ctx, sampleOrganism(name))
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.False(t, created.FetchedAt.IsZero())

	got, err := repo.GetByName(ctx, name, "en")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Pica pica", got.TaxonName)
	assert.Equal(t, domain.GroupBird, got.GroupID)
	assert.Equal(t, domain.SourceGraph, got.GroupSource)
	require.NotNil(t, got.CommonName)
	assert.Equal(t, "Eurasian magpie", *got.CommonName)
	assert.Nil(t, got.RangeMapURL)
	assert.Nil(t, got.Infobox)
}

func TestRepo_GetByName_NotFound(t *testing.T) {
	t.Parallel()
	repo := newRepo(t)

	_, err := repo.GetByName(context.Background(), testhelper.UniqueName("missing"), "en")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRepo_GetByName_LanguageScoped(t *testing.T) {
	t.Parallel()
	repo := newRepo(t)
	ctx := context.Background()
	name := testhelper.UniqueName("quercus robur")

	_, err := repo.Create(ctx, sampleOrganism(name))
	require.NoError(t, err)

	_, err = repo.GetByName(ctx, name, "fr")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRepo_Create_Duplicate(t *testing.T) {
	t.Parallel()
	repo := newRepo(t)
	ctx := context.Background()
	name := testhelper.UniqueName("vulpes vulpes")

	_, err := repo.Create(ctx, sampleOrganism(name))
	require.NoError(t, err)

	_, err = repo.Create(ctx, sampleOrganism(name))
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
}

func TestRepo_Create_InvalidSource(t *testing.T) {
	t.Parallel()
	repo := newRepo(t)

	o := sampleOrganism(testhelper.UniqueName("bad source"))
	o.GroupSource = "guess"

	_, err := repo.Create(context.Background(), o)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestRepo_DeleteByName(t *testing.T) {
	t.Parallel()
	repo := newRepo(t)
	ctx := context.Background()
	name := testhelper.UniqueName("bufo bufo")

	_, err := repo.Create(ctx, sampleOrganism(name))
	require.NoError(t, err)

	require.NoError(t, repo.DeleteByName(ctx, name, "en"))
	_, err = repo.GetByName(ctx, name, "en")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.ErrorIs(t, repo.DeleteByName(ctx, name, "en"), domain.ErrNotFound)
}
