package services

import (
	"context"
	"strconv"
	"time"

	"gabinete-digital/internal/models"
	"gabinete-digital/internal/tablestore"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

var contactSearchColumns = []string{"nome", "telefone", "bairro"}

type ContactService struct {
	store tablestore.Store
	log   logrus.FieldLogger
	now   func() time.Time
}

func NewContactService(store tablestore.Store, log logrus.FieldLogger) *ContactService {
	return &ContactService{
		store: store,
		log:   log.WithField("entity", tablestore.TableContacts),
		now:   time.Now,
	}
}

func contactFilters(f models.ContactFilters) []tablestore.Filter {
	var filters []tablestore.Filter
	if f.Neighborhood != "" {
		filters = append(filters, tablestore.Eq("bairro", f.Neighborhood))
	}
	if f.Supporter != nil {
		filters = append(filters, tablestore.Eq("is_apoiador", *f.Supporter))
	}
	if f.Search != "" {
		filters = append(filters, tablestore.ILikeAny(f.Search, contactSearchColumns...))
	}
	if len(f.Tags) > 0 {
		filters = append(filters, tablestore.Overlaps("tags", f.Tags...))
	}
	return filters
}

func (s *ContactService) List(ctx context.Context, f models.ContactFilters) ([]models.Contact, error) {
	contacts := []models.Contact{}
	if err := s.store.Find(ctx, tablestore.TableContacts, tablestore.NewQuery(contactFilters(f)...), &contacts); err != nil {
		return nil, storeFailure(s.log, tablestore.TableContacts, "list", err)
	}
	return contacts, nil
}

func (s *ContactService) GetByID(ctx context.Context, id string) (*models.Contact, error) {
	var contact models.Contact
	if err := s.store.FindOne(ctx, tablestore.TableContacts, tablestore.ByID(id), &contact); err != nil {
		return nil, storeFailure(s.log, tablestore.TableContacts, "get", err)
	}
	return &contact, nil
}

func (s *ContactService) Create(ctx context.Context, in models.CreateContactInput) (*models.Contact, error) {
	trimAll(&in.Name, &in.Phone, &in.Email, &in.Neighborhood, &in.Notes)
	if err := validate(in); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	contact := models.Contact{
		ID:           uuid.NewString(),
		CreatedAt:    now,
		UpdatedAt:    now,
		Name:         in.Name,
		Phone:        in.Phone,
		Email:        optional(in.Email),
		Neighborhood: in.Neighborhood,
		Tags:         uniqueStrings(in.Tags),
		IsSupporter:  in.IsSupporter,
		Notes:        optional(in.Notes),
	}

	if err := s.store.Insert(ctx, tablestore.TableContacts, contact, nil); err != nil {
		return nil, storeFailure(s.log, tablestore.TableContacts, "create", err)
	}
	return &contact, nil
}

func (s *ContactService) Update(ctx context.Context, id string, in models.UpdateContactInput) (*models.Contact, error) {
	trimAll(&in.Name, &in.Phone, &in.Email, &in.Neighborhood, &in.Notes)
	if err := validate(in); err != nil {
		return nil, err
	}

	patch := map[string]any{"updated_at": s.now().UTC()}
	if in.Name != nil {
		patch["nome"] = *in.Name
	}
	if in.Phone != nil {
		patch["telefone"] = *in.Phone
	}
	if in.Email != nil {
		patch["email"] = optional(*in.Email)
	}
	if in.Neighborhood != nil {
		patch["bairro"] = *in.Neighborhood
	}
	if in.Tags != nil {
		patch["tags"] = uniqueStrings(*in.Tags)
	}
	if in.IsSupporter != nil {
		patch["is_apoiador"] = *in.IsSupporter
	}
	if in.Notes != nil {
		patch["notas"] = optional(*in.Notes)
	}

	var updated models.Contact
	if err := s.store.Update(ctx, tablestore.TableContacts, tablestore.ByID(id), patch, &updated); err != nil {
		return nil, storeFailure(s.log, tablestore.TableContacts, "update", err)
	}
	return &updated, nil
}

func (s *ContactService) Delete(ctx context.Context, id string) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, tablestore.TableContacts, tablestore.ByID(id)); err != nil {
		return storeFailure(s.log, tablestore.TableContacts, "delete", err)
	}
	return nil
}

// Stats devolve total, apoiadores, contagem por bairro e por tag.
func (s *ContactService) Stats(ctx context.Context) (*models.ContactStats, error) {
	var bySupporter map[string]int64
	stats := &models.ContactStats{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		bySupporter, err = s.store.CountBy(gctx, tablestore.TableContacts, "is_apoiador", tablestore.Query{})
		return err
	})
	g.Go(func() error {
		var err error
		stats.ByNeighborhood, err = s.store.CountBy(gctx, tablestore.TableContacts, "bairro", tablestore.Query{})
		return err
	})
	g.Go(func() error {
		var err error
		stats.TagCounts, err = s.store.CountElements(gctx, tablestore.TableContacts, "tags", tablestore.Query{})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, storeFailure(s.log, tablestore.TableContacts, "stats", err)
	}

	stats.Total = sum(bySupporter)
	stats.Supporters = bySupporter[strconv.FormatBool(true)]
	return stats, nil
}

// Count devolve apenas o total de contatos.
func (s *ContactService) Count(ctx context.Context) (int64, error) {
	counts, err := s.store.CountBy(ctx, tablestore.TableContacts, "is_apoiador", tablestore.Query{})
	if err != nil {
		return 0, storeFailure(s.log, tablestore.TableContacts, "count", err)
	}
	return sum(counts), nil
}
