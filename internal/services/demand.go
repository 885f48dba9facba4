package services

import (
	"context"
	"sort"
	"time"

	"gabinete-digital/internal/models"
	"gabinete-digital/internal/tablestore"
	"gabinete-digital/internal/utils"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

var demandSearchColumns = []string{"titulo", "cidadao_nome", "protocolo"}

type DemandService struct {
	store    tablestore.Store
	notifier *Notifier
	log      logrus.FieldLogger
	now      func() time.Time
}

func NewDemandService(store tablestore.Store, notifier *Notifier, log logrus.FieldLogger) *DemandService {
	return &DemandService{
		store:    store,
		notifier: notifier,
		log:      log.WithField("entity", tablestore.TableDemands),
		now:      time.Now,
	}
}

func demandFilters(f models.DemandFilters) []tablestore.Filter {
	var filters []tablestore.Filter
	if f.Status != "" {
		filters = append(filters, tablestore.Eq("status", string(f.Status)))
	}
	if f.Type != "" {
		filters = append(filters, tablestore.Eq("tipo", string(f.Type)))
	}
	if f.Neighborhood != "" {
		filters = append(filters, tablestore.Eq("bairro", f.Neighborhood))
	}
	if f.Search != "" {
		filters = append(filters, tablestore.ILikeAny(f.Search, demandSearchColumns...))
	}
	return filters
}

// List devolve as demandas que atendem a todos os filtros, mais recentes primeiro.
func (s *DemandService) List(ctx context.Context, f models.DemandFilters) ([]models.Demand, error) {
	demands := []models.Demand{}
	if err := s.store.Find(ctx, tablestore.TableDemands, tablestore.NewQuery(demandFilters(f)...), &demands); err != nil {
		return nil, storeFailure(s.log, tablestore.TableDemands, "list", err)
	}
	return demands, nil
}

// Recent devolve as n demandas mais novas (painel inicial).
func (s *DemandService) Recent(ctx context.Context, n int) ([]models.Demand, error) {
	demands := []models.Demand{}
	if err := s.store.Find(ctx, tablestore.TableDemands, tablestore.NewQuery().WithLimit(n), &demands); err != nil {
		return nil, storeFailure(s.log, tablestore.TableDemands, "recent", err)
	}
	return demands, nil
}

func (s *DemandService) GetByID(ctx context.Context, id string) (*models.Demand, error) {
	var demand models.Demand
	if err := s.store.FindOne(ctx, tablestore.TableDemands, tablestore.ByID(id), &demand); err != nil {
		return nil, storeFailure(s.log, tablestore.TableDemands, "get", err)
	}
	return &demand, nil
}

// Create registra a demanda com status "nova" e um protocolo novo.
func (s *DemandService) Create(ctx context.Context, in models.CreateDemandInput) (*models.Demand, error) {
	trimAll(&in.Title, &in.Description, &in.CitizenName, &in.CitizenPhone, &in.CitizenEmail, &in.Neighborhood, &in.Address, &in.Notes)
	if err := validate(in); err != nil {
		return nil, err
	}
	if err := utils.ValidateCoordinates(in.Latitude, in.Longitude); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	demand := models.Demand{
		ID:           uuid.NewString(),
		CreatedAt:    now,
		UpdatedAt:    now,
		Protocol:     utils.NewProtocol(now),
		Title:        in.Title,
		Description:  in.Description,
		Type:         in.Type,
		Status:       models.DemandStatusNew,
		CitizenName:  in.CitizenName,
		CitizenPhone: in.CitizenPhone,
		CitizenEmail: optional(in.CitizenEmail),
		Neighborhood: in.Neighborhood,
		Address:      optional(in.Address),
		Latitude:     in.Latitude,
		Longitude:    in.Longitude,
		Notes:        optional(in.Notes),
	}

	if err := s.store.Insert(ctx, tablestore.TableDemands, demand, nil); err != nil {
		return nil, storeFailure(s.log, tablestore.TableDemands, "create", err)
	}

	s.log.WithFields(logrus.Fields{
		"protocolo": demand.Protocol,
		"tipo":      demand.Type,
		"bairro":    demand.Neighborhood,
	}).Info("demanda registrada")

	s.notifier.DemandCreated(ctx, &demand)
	return &demand, nil
}

// Update aplica apenas os campos informados. Ao marcar como resolvida, registra
// resolvida_em se ainda estiver vazio.
func (s *DemandService) Update(ctx context.Context, id string, in models.UpdateDemandInput) (*models.Demand, error) {
	trimAll(&in.Title, &in.Description, &in.CitizenName, &in.CitizenPhone, &in.CitizenEmail, &in.Neighborhood, &in.Address, &in.Notes, &in.Response)
	if err := validate(in); err != nil {
		return nil, err
	}

	current, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	lat, lng := current.Latitude, current.Longitude
	if in.Latitude != nil {
		lat = in.Latitude
	}
	if in.Longitude != nil {
		lng = in.Longitude
	}
	if err := utils.ValidateCoordinates(lat, lng); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	patch := map[string]any{"updated_at": now}
	setString := func(column string, v *string) {
		if v != nil {
			patch[column] = *v
		}
	}
	setOptional := func(column string, v *string) {
		if v != nil {
			patch[column] = optional(*v)
		}
	}

	setString("titulo", in.Title)
	setString("descricao", in.Description)
	setString("cidadao_nome", in.CitizenName)
	setString("cidadao_telefone", in.CitizenPhone)
	setString("bairro", in.Neighborhood)
	setOptional("cidadao_email", in.CitizenEmail)
	setOptional("endereco", in.Address)
	setOptional("observacoes", in.Notes)
	setOptional("resposta", in.Response)
	if in.Type != nil {
		patch["tipo"] = string(*in.Type)
	}
	if in.Latitude != nil {
		patch["latitude"] = *in.Latitude
	}
	if in.Longitude != nil {
		patch["longitude"] = *in.Longitude
	}
	if in.Status != nil {
		patch["status"] = string(*in.Status)
		if *in.Status == models.DemandStatusResolved && current.ResolvedAt == nil {
			patch["resolvida_em"] = now
		}
	}

	var updated models.Demand
	if err := s.store.Update(ctx, tablestore.TableDemands, tablestore.ByID(id), patch, &updated); err != nil {
		return nil, storeFailure(s.log, tablestore.TableDemands, "update", err)
	}

	if in.Status != nil && *in.Status != current.Status {
		s.notifier.DemandUpdated(ctx, &updated)
	}
	return &updated, nil
}

func (s *DemandService) Delete(ctx context.Context, id string) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, tablestore.TableDemands, tablestore.ByID(id)); err != nil {
		return storeFailure(s.log, tablestore.TableDemands, "delete", err)
	}
	return nil
}

// Stats agrega por status, tipo e bairro no próprio armazenamento.
func (s *DemandService) Stats(ctx context.Context) (*models.DemandStats, error) {
	stats := &models.DemandStats{}

	g, gctx := errgroup.WithContext(ctx)
	count := func(column string, dest *map[string]int64) {
		g.Go(func() error {
			counts, err := s.store.CountBy(gctx, tablestore.TableDemands, column, tablestore.Query{})
			if err != nil {
				return err
			}
			*dest = counts
			return nil
		})
	}
	count("status", &stats.ByStatus)
	count("tipo", &stats.ByType)
	count("bairro", &stats.ByNeighborhood)

	if err := g.Wait(); err != nil {
		return nil, storeFailure(s.log, tablestore.TableDemands, "stats", err)
	}

	stats.Total = sum(stats.ByStatus)
	return stats, nil
}

// Nearby devolve as demandas georreferenciadas num raio (km) do ponto, da mais
// próxima para a mais distante.
func (s *DemandService) Nearby(ctx context.Context, lat, lng, radiusKm float64, f models.DemandFilters) ([]models.Demand, error) {
	if err := utils.ValidateCoordinates(&lat, &lng); err != nil {
		return nil, err
	}

	demands, err := s.List(ctx, f)
	if err != nil {
		return nil, err
	}

	type ranked struct {
		demand   models.Demand
		distance float64
	}
	var hits []ranked
	for _, d := range demands {
		if d.Latitude == nil || d.Longitude == nil {
			continue
		}
		dist := utils.CalculateDistance(lat, lng, *d.Latitude, *d.Longitude)
		if dist <= radiusKm {
			hits = append(hits, ranked{demand: d, distance: dist})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].distance < hits[j].distance })

	out := make([]models.Demand, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.demand)
	}
	return out, nil
}
