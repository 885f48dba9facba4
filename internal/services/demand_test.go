package services

import (
	"context"
	"testing"

	"gabinete-digital/internal/models"
	"gabinete-digital/internal/tablestore"
	"gabinete-digital/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDemandService_CreateForcesNewStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	in := demandInput("Poste apagado")
	in.CitizenEmail = "  "
	d, err := f.demands.Create(ctx, in)
	require.NoError(t, err)

	assert.Equal(t, models.DemandStatusNew, d.Status)
	assert.True(t, utils.IsProtocol(d.Protocol), d.Protocol)
	assert.Nil(t, d.CitizenEmail)
	assert.NotEmpty(t, d.ID)

	stored, err := f.demands.GetByID(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, d.Protocol, stored.Protocol)
	assert.Equal(t, models.DemandStatusNew, stored.Status)

	assert.Equal(t, []string{models.NotificationDemandCreated}, f.hub.types())
}

func TestDemandService_CreateValidation(t *testing.T) {
	f := newFixture(t)

	in := demandInput("")
	_, err := f.demands.Create(context.Background(), in)
	assert.ErrorIs(t, err, ErrInvalidInput)

	in = demandInput("Buraco")
	in.Type = "nave"
	_, err = f.demands.Create(context.Background(), in)
	assert.ErrorIs(t, err, ErrInvalidInput)

	lat := -23.6
	in = demandInput("Buraco")
	in.Latitude = &lat
	_, err = f.demands.Create(context.Background(), in)
	assert.ErrorIs(t, err, utils.ErrInvalidCoordinates)

	assert.Equal(t, 0, f.store.Len(tablestore.TableDemands))
}

func TestDemandService_BlankRequiredFieldsRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.demands.Create(ctx, models.CreateDemandInput{
		Title:        "   ",
		Description:  " ",
		Type:         models.DemandTypeLighting,
		CitizenName:  " ",
		CitizenPhone: " ",
		Neighborhood: "\t",
	})
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, 0, f.store.Len(tablestore.TableDemands))
	assert.Empty(t, f.hub.types())

	in := demandInput("  Poste apagado ")
	in.CitizenEmail = " maria@example.com "
	d, err := f.demands.Create(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, "Poste apagado", d.Title)
	assert.Equal(t, "maria@example.com", *d.CitizenEmail)

	_, err = f.demands.Update(ctx, d.ID, models.UpdateDemandInput{Title: strPtr("  ")})
	assert.ErrorIs(t, err, ErrInvalidInput)

	updated, err := f.demands.Update(ctx, d.ID, models.UpdateDemandInput{CitizenEmail: strPtr(" ")})
	require.NoError(t, err)
	assert.Nil(t, updated.CitizenEmail)
	assert.Equal(t, "Poste apagado", updated.Title)
}

func TestDemandService_FailedCreateLeavesNoRecord(t *testing.T) {
	f := newFixture(t)
	f.store.SetFault(func(op, table string) error {
		if op == "insert" {
			return errStoreDown
		}
		return nil
	})

	_, err := f.demands.Create(context.Background(), demandInput("Poste apagado"))
	assert.ErrorIs(t, err, errStoreDown)
	assert.Equal(t, 0, f.store.Len(tablestore.TableDemands))
	assert.Empty(t, f.hub.types())
}

func TestDemandService_ListFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.demands.Create(ctx, demandInput("Poste apagado"))
	require.NoError(t, err)

	in := demandInput("Buraco enorme")
	in.Type = models.DemandTypeRoad
	in.Neighborhood = "Indaiá"
	_, err = f.demands.Create(ctx, in)
	require.NoError(t, err)

	in = demandInput("Outro poste")
	in.CitizenName = "José POSTEiro"
	third, err := f.demands.Create(ctx, in)
	require.NoError(t, err)

	all, err := f.demands.List(ctx, models.DemandFilters{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, third.ID, all[0].ID)
	assert.Equal(t, first.ID, all[2].ID)

	lighting, err := f.demands.List(ctx, models.DemandFilters{Type: models.DemandTypeLighting, Search: "poste"})
	require.NoError(t, err)
	assert.Len(t, lighting, 2)

	byProtocol, err := f.demands.List(ctx, models.DemandFilters{Search: first.Protocol[5:]})
	require.NoError(t, err)
	require.Len(t, byProtocol, 1)
	assert.Equal(t, first.ID, byProtocol[0].ID)

	none, err := f.demands.List(ctx, models.DemandFilters{Status: models.DemandStatusResolved})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	neighborhood, err := f.demands.List(ctx, models.DemandFilters{Neighborhood: "Indaiá"})
	require.NoError(t, err)
	assert.Len(t, neighborhood, 1)
}

func TestDemandService_UpdateResolvedStampsOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	d, err := f.demands.Create(ctx, demandInput("Poste apagado"))
	require.NoError(t, err)

	resolved := models.DemandStatusResolved
	updated, err := f.demands.Update(ctx, d.ID, models.UpdateDemandInput{
		Status:   &resolved,
		Response: strPtr("Equipe da prefeitura trocou a lâmpada"),
	})
	require.NoError(t, err)
	require.NotNil(t, updated.ResolvedAt)
	assert.Equal(t, models.DemandStatusResolved, updated.Status)
	assert.Equal(t, "Equipe da prefeitura trocou a lâmpada", *updated.Response)
	assert.Equal(t, d.Protocol, updated.Protocol)

	firstStamp := *updated.ResolvedAt
	again, err := f.demands.Update(ctx, d.ID, models.UpdateDemandInput{Status: &resolved})
	require.NoError(t, err)
	assert.True(t, firstStamp.Equal(*again.ResolvedAt))

	assert.Equal(t, []string{models.NotificationDemandCreated, models.NotificationDemandUpdated}, f.hub.types())
}

func TestDemandService_UpdateAndDeleteMissing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.demands.Update(ctx, "nao-existe", models.UpdateDemandInput{Title: strPtr("x")})
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, f.demands.Delete(ctx, "nao-existe"), ErrNotFound)

	d, err := f.demands.Create(ctx, demandInput("Poste"))
	require.NoError(t, err)
	require.NoError(t, f.demands.Delete(ctx, d.ID))
	assert.Equal(t, 0, f.store.Len(tablestore.TableDemands))
}

func TestDemandService_Stats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, in := range []models.CreateDemandInput{
		demandInput("A"),
		demandInput("B"),
		func() models.CreateDemandInput {
			in := demandInput("C")
			in.Type = models.DemandTypeHealth
			in.Neighborhood = "Tabatinga"
			return in
		}(),
	} {
		_, err := f.demands.Create(ctx, in)
		require.NoError(t, err)
	}

	stats, err := f.demands.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Total)
	assert.Equal(t, map[string]int64{"nova": 3}, stats.ByStatus)
	assert.Equal(t, map[string]int64{"iluminacao": 2, "saude": 1}, stats.ByType)
	assert.Equal(t, map[string]int64{"Centro": 2, "Tabatinga": 1}, stats.ByNeighborhood)

	recent, err := f.demands.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "C", recent[0].Title)
}

func TestDemandService_Nearby(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	place := func(title string, lat, lng float64) {
		in := demandInput(title)
		in.Latitude, in.Longitude = &lat, &lng
		_, err := f.demands.Create(ctx, in)
		require.NoError(t, err)
	}
	place("Praça", -23.6205, -45.4130)
	place("Orla", -23.6300, -45.4100)
	place("São Paulo", -23.5505, -46.6333)
	_, err := f.demands.Create(ctx, demandInput("Sem localização"))
	require.NoError(t, err)

	near, err := f.demands.Nearby(ctx, -23.6203, -45.4131, 5, models.DemandFilters{})
	require.NoError(t, err)
	require.Len(t, near, 2)
	assert.Equal(t, "Praça", near[0].Title)
	assert.Equal(t, "Orla", near[1].Title)

	_, err = f.demands.Nearby(ctx, 200, 0, 5, models.DemandFilters{})
	assert.Error(t, err)
}
