package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gabinete-digital/internal/models"
	"gabinete-digital/internal/tablestore"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// SettingsService guarda as configurações do site (tabela configuracoes) como
// pares chave/valor.
type SettingsService struct {
	store tablestore.Store
	log   logrus.FieldLogger
	now   func() time.Time
}

func NewSettingsService(store tablestore.Store, log logrus.FieldLogger) *SettingsService {
	return &SettingsService{
		store: store,
		log:   log.WithField("entity", tablestore.TableSettings),
		now:   time.Now,
	}
}

func (s *SettingsService) All(ctx context.Context) ([]models.Setting, error) {
	settings := []models.Setting{}
	q := tablestore.Query{OrderBy: "chave"}
	if err := s.store.Find(ctx, tablestore.TableSettings, q, &settings); err != nil {
		return nil, storeFailure(s.log, tablestore.TableSettings, "list", err)
	}
	return settings, nil
}

func (s *SettingsService) Get(ctx context.Context, key string) (*models.Setting, error) {
	var setting models.Setting
	if err := s.store.FindOne(ctx, tablestore.TableSettings, tablestore.NewQuery(tablestore.Eq("chave", key)), &setting); err != nil {
		return nil, storeFailure(s.log, tablestore.TableSettings, "get", err)
	}
	return &setting, nil
}

// Put cria a chave ou substitui o valor existente.
func (s *SettingsService) Put(ctx context.Context, key string, value any) (*models.Setting, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, fmt.Errorf("%w: chave vazia", ErrInvalidInput)
	}

	now := s.now().UTC()
	byKey := tablestore.NewQuery(tablestore.Eq("chave", key))

	var setting models.Setting
	err := s.store.Update(ctx, tablestore.TableSettings, byKey, map[string]any{
		"valor":      value,
		"updated_at": now,
	}, &setting)
	if err == nil {
		return &setting, nil
	}
	if !errors.Is(err, tablestore.ErrNotFound) {
		return nil, storeFailure(s.log, tablestore.TableSettings, "put", err)
	}

	setting = models.Setting{
		ID:        uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
		Key:       key,
		Value:     value,
	}
	if err := s.store.Insert(ctx, tablestore.TableSettings, setting, nil); err != nil {
		return nil, storeFailure(s.log, tablestore.TableSettings, "put", err)
	}
	return &setting, nil
}
