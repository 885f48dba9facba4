package services

import (
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"gabinete-digital/internal/models"
	"gabinete-digital/internal/tablestore"

	"github.com/sirupsen/logrus"
)

type recordingHub struct {
	mu   sync.Mutex
	sent []models.Notification
}

func (h *recordingHub) Broadcast(n models.Notification) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sent = append(h.sent, n)
}

func (h *recordingHub) types() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, 0, len(h.sent))
	for _, n := range h.sent {
		out = append(out, n.Type)
	}
	return out
}

// clock avança um minuto a cada leitura, para que a ordem de criação seja estável.
type clock struct {
	mu sync.Mutex
	t  time.Time
}

func newClock() *clock {
	return &clock{t: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)}
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Minute)
	return c.t
}

type fixture struct {
	store    *tablestore.Memory
	hub      *recordingHub
	demands  *DemandService
	contacts *ContactService
	news     *NewsService
	messages *MessageService
	settings *SettingsService
}

func testLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	log := testLogger()
	store := tablestore.NewMemory(tablestore.WithUnique(tablestore.TableNews, "slug"))
	hub := &recordingHub{}
	notifier := NewNotifier(hub, "", log)
	clk := newClock()

	f := &fixture{
		store:    store,
		hub:      hub,
		demands:  NewDemandService(store, notifier, log),
		contacts: NewContactService(store, log),
		news:     NewNewsService(store, notifier, log),
		messages: NewMessageService(store, notifier, log),
		settings: NewSettingsService(store, log),
	}
	f.demands.now = clk.Now
	f.contacts.now = clk.Now
	f.news.now = clk.Now
	f.messages.now = clk.Now
	f.settings.now = clk.Now
	return f
}

func demandInput(title string) models.CreateDemandInput {
	return models.CreateDemandInput{
		Title:        title,
		Description:  "Descrição detalhada do problema",
		Type:         models.DemandTypeLighting,
		CitizenName:  "Maria Souza",
		CitizenPhone: "(12) 99999-0000",
		Neighborhood: "Centro",
	}
}

func boolPtr(b bool) *bool { return &b }

func strPtr(s string) *string { return &s }

var errStoreDown = errors.New("armazenamento indisponível")
