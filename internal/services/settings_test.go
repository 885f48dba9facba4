package services

import (
	"context"
	"testing"

	"gabinete-digital/internal/tablestore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsService_PutInsertsThenReplaces(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.settings.Put(ctx, "whatsapp", "(12) 3882-0000")
	require.NoError(t, err)

	updated, err := f.settings.Put(ctx, "whatsapp", "(12) 3882-1111")
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "(12) 3882-1111", updated.Value)
	assert.Equal(t, 1, f.store.Len(tablestore.TableSettings))

	_, err = f.settings.Put(ctx, "endereco", map[string]any{"rua": "Av. da Praia", "numero": 100})
	require.NoError(t, err)

	all, err := f.settings.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "endereco", all[0].Key)
	assert.Equal(t, map[string]any{"rua": "Av. da Praia", "numero": float64(100)}, all[0].Value)

	_, err = f.settings.Get(ctx, "nao-existe")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.settings.Put(ctx, " ", 1)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
