package services

import (
	"context"
	"testing"

	"gabinete-digital/internal/models"
	"gabinete-digital/internal/tablestore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContactService_CreateDeduplicatesTags(t *testing.T) {
	f := newFixture(t)

	c, err := f.contacts.Create(context.Background(), models.CreateContactInput{
		Name:         "Ana Lima",
		Phone:        "(12) 98888-1111",
		Neighborhood: "Indaiá",
		Tags:         []string{"Saúde", "Comerciante", "Saúde", " "},
		IsSupporter:  true,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Saúde", "Comerciante"}, c.Tags)
	assert.Nil(t, c.Email)
}

func TestContactService_ListAndStats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	seed := []models.CreateContactInput{
		{Name: "Ana Lima", Phone: "111", Neighborhood: "Centro", Tags: []string{"Saúde"}, IsSupporter: true},
		{Name: "Bruno", Phone: "222", Neighborhood: "Centro", Tags: []string{"Comerciante", "Saúde"}},
		{Name: "Carla", Phone: "333", Neighborhood: "Sumaré", Tags: []string{"Voluntário"}, IsSupporter: true},
	}
	for _, in := range seed {
		_, err := f.contacts.Create(ctx, in)
		require.NoError(t, err)
	}

	supporters, err := f.contacts.List(ctx, models.ContactFilters{Supporter: boolPtr(true)})
	require.NoError(t, err)
	require.Len(t, supporters, 2)
	assert.Equal(t, "Carla", supporters[0].Name)

	health, err := f.contacts.List(ctx, models.ContactFilters{Tags: []string{"Saúde"}})
	require.NoError(t, err)
	assert.Len(t, health, 2)

	byPhone, err := f.contacts.List(ctx, models.ContactFilters{Search: "22"})
	require.NoError(t, err)
	require.Len(t, byPhone, 1)
	assert.Equal(t, "Bruno", byPhone[0].Name)

	byNeighborhoodSearch, err := f.contacts.List(ctx, models.ContactFilters{Search: "sumar"})
	require.NoError(t, err)
	assert.Len(t, byNeighborhoodSearch, 1)

	stats, err := f.contacts.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Total)
	assert.Equal(t, int64(2), stats.Supporters)
	assert.Equal(t, map[string]int64{"Centro": 2, "Sumaré": 1}, stats.ByNeighborhood)
	assert.Equal(t, map[string]int64{"Saúde": 2, "Comerciante": 1, "Voluntário": 1}, stats.TagCounts)

	total, err := f.contacts.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
}

func TestContactService_CreateTrimsOptionalEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	c, err := f.contacts.Create(ctx, models.CreateContactInput{Name: " Ana ", Phone: "1", Email: "   ", Neighborhood: "Centro"})
	require.NoError(t, err)
	assert.Equal(t, "Ana", c.Name)
	assert.Nil(t, c.Email)

	_, err = f.contacts.Create(ctx, models.CreateContactInput{Name: " ", Phone: " ", Neighborhood: " "})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, 1, f.store.Len(tablestore.TableContacts))
}

func TestContactService_Update(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	c, err := f.contacts.Create(ctx, models.CreateContactInput{Name: "Ana", Phone: "1", Neighborhood: "Centro"})
	require.NoError(t, err)

	tags := []string{"Apoiador", "Apoiador"}
	updated, err := f.contacts.Update(ctx, c.ID, models.UpdateContactInput{
		Tags:        &tags,
		IsSupporter: boolPtr(true),
		Email:       strPtr("ana@example.com"),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Apoiador"}, updated.Tags)
	assert.True(t, updated.IsSupporter)
	assert.Equal(t, "ana@example.com", *updated.Email)
	assert.Equal(t, "Ana", updated.Name)

	_, err = f.contacts.Update(ctx, c.ID, models.UpdateContactInput{Email: strPtr("nao-e-email")})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.contacts.Update(ctx, c.ID, models.UpdateContactInput{Name: strPtr("   ")})
	assert.ErrorIs(t, err, ErrInvalidInput)

	cleared, err := f.contacts.Update(ctx, c.ID, models.UpdateContactInput{Email: strPtr("  ")})
	require.NoError(t, err)
	assert.Nil(t, cleared.Email)
	assert.Equal(t, "Ana", cleared.Name)

	_, err = f.contacts.Update(ctx, "nao-existe", models.UpdateContactInput{Name: strPtr("x")})
	assert.ErrorIs(t, err, ErrNotFound)
}
