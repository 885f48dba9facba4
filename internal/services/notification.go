package services

import (
	"context"
	"fmt"
	"time"

	"gabinete-digital/internal/models"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

// Broadcaster entrega eventos aos painéis conectados (realtime.Hub).
type Broadcaster interface {
	Broadcast(n models.Notification)
}

// Notifier publica os eventos do gabinete no hub em tempo real e, se configurado,
// num webhook externo (ex.: integração de mensagens da equipe).
type Notifier struct {
	hub        Broadcaster
	webhook    *resty.Client
	webhookURL string
	log        logrus.FieldLogger
	now        func() time.Time
}

func NewNotifier(hub Broadcaster, webhookURL string, log logrus.FieldLogger) *Notifier {
	n := &Notifier{
		hub: hub,
		log: log,
		now: time.Now,
	}
	if webhookURL != "" {
		n.webhookURL = webhookURL
		n.webhook = resty.New().
			SetTimeout(5*time.Second).
			SetHeader("Content-Type", "application/json")
	}
	return n
}

// Publish nunca falha para quem chama: o registro já foi gravado, então erros de
// entrega são apenas registrados no log.
func (n *Notifier) Publish(ctx context.Context, notification models.Notification) {
	if n == nil {
		return
	}
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = n.now()
	}

	if n.hub != nil {
		n.hub.Broadcast(notification)
	}

	if n.webhook == nil {
		return
	}
	if err := n.sendWebhook(ctx, notification); err != nil {
		n.log.WithFields(logrus.Fields{
			"type":  notification.Type,
			"error": err.Error(),
		}).Warn("falha ao entregar webhook")
	}
}

func (n *Notifier) sendWebhook(ctx context.Context, notification models.Notification) error {
	resp, err := n.webhook.R().
		SetContext(ctx).
		SetBody(notification).
		Post(n.webhookURL)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("webhook respondeu %d", resp.StatusCode())
	}
	return nil
}

func (n *Notifier) DemandCreated(ctx context.Context, d *models.Demand) {
	n.Publish(ctx, models.Notification{
		Type:     models.NotificationDemandCreated,
		EntityID: d.ID,
		Title:    "Nova demanda: " + d.Title,
		Body:     fmt.Sprintf("%s · %s · protocolo %s", d.Type.Label(), d.Neighborhood, d.Protocol),
		Data: map[string]any{
			"protocolo": d.Protocol,
			"tipo":      d.Type,
			"bairro":    d.Neighborhood,
		},
	})
}

func (n *Notifier) DemandUpdated(ctx context.Context, d *models.Demand) {
	n.Publish(ctx, models.Notification{
		Type:     models.NotificationDemandUpdated,
		EntityID: d.ID,
		Title:    "Demanda atualizada: " + d.Title,
		Body:     "Status: " + d.Status.Label(),
		Data: map[string]any{
			"protocolo": d.Protocol,
			"status":    d.Status,
		},
	})
}

func (n *Notifier) MessageReceived(ctx context.Context, m *models.ContactMessage) {
	n.Publish(ctx, models.Notification{
		Type:     models.NotificationMessageReceived,
		EntityID: m.ID,
		Title:    "Nova mensagem de " + m.Name,
		Body:     m.Subject,
	})
}

func (n *Notifier) NewsPublished(ctx context.Context, a *models.NewsArticle) {
	n.Publish(ctx, models.Notification{
		Type:     models.NotificationNewsPublished,
		EntityID: a.ID,
		Title:    "Notícia publicada",
		Body:     a.Title,
		Data:     map[string]any{"slug": a.Slug},
	})
}
