// internal/models/notification.go
package models

import "time"

// Tipos de evento enviados ao painel em tempo real
const (
	NotificationDemandCreated   = "demanda.criada"
	NotificationDemandUpdated   = "demanda.atualizada"
	NotificationMessageReceived = "mensagem.recebida"
	NotificationNewsPublished   = "noticia.publicada"
)

// Notification é um evento do painel, entregue pelo websocket e pelo webhook opcional.
type Notification struct {
	Type      string         `json:"type"`
	EntityID  string         `json:"entity_id"`
	Title     string         `json:"title"`
	Body      string         `json:"body"`
	Data      map[string]any `json:"data,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}
