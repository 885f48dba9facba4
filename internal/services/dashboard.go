package services

import (
	"context"

	"gabinete-digital/internal/models"

	"golang.org/x/sync/errgroup"
)

const recentDemandsOnDashboard = 5

type Dashboard struct {
	Demands        *models.DemandStats `json:"demandas"`
	RecentDemands  []models.Demand     `json:"demandasRecentes"`
	TotalContacts  int64               `json:"totalContatos"`
	UnreadMessages int64               `json:"mensagensNaoLidas"`
}

// DashboardService monta o painel inicial com leituras em paralelo.
type DashboardService struct {
	demands  *DemandService
	contacts *ContactService
	messages *MessageService
}

func NewDashboardService(demands *DemandService, contacts *ContactService, messages *MessageService) *DashboardService {
	return &DashboardService{
		demands:  demands,
		contacts: contacts,
		messages: messages,
	}
}

func (s *DashboardService) Get(ctx context.Context) (*Dashboard, error) {
	dash := &Dashboard{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		dash.Demands, err = s.demands.Stats(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		dash.RecentDemands, err = s.demands.Recent(gctx, recentDemandsOnDashboard)
		return err
	})
	g.Go(func() error {
		var err error
		dash.TotalContacts, err = s.contacts.Count(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		dash.UnreadMessages, err = s.messages.CountUnread(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return dash, nil
}
