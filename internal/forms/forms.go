// Package forms modela os formulários do gabinete (assistente público e cadastros
// do painel) como estado puro, independente da interface que os desenha.
package forms

import (
	"context"
	"errors"
	"strings"

	"gabinete-digital/internal/models"
)

// Mensagens exibidas no banner de erro de cada formulário
const (
	WizardErrorMessage  = "Ocorreu um erro ao enviar sua demanda. Por favor, tente novamente."
	MessageErrorMessage = "Ocorreu um erro ao enviar sua mensagem. Por favor, tente novamente."
	DemandErrorMessage  = "Erro ao criar demanda. Verifique os dados e tente novamente."
	ContactErrorMessage = "Erro ao criar contato. Verifique os dados e tente novamente."
	NewsErrorMessage    = "Erro ao criar notícia. Verifique os dados e tente novamente."
	RequiredMessage     = "Preencha os campos obrigatórios."
)

var (
	ErrStepIncomplete = errors.New("etapa incompleta")
	ErrBusy           = errors.New("envio em andamento")
)

// Os formulários enviam pelo client da API (internal/client).
type DemandCreator interface {
	CreateDemand(ctx context.Context, in models.CreateDemandInput) (*models.Demand, error)
}

type ContactCreator interface {
	CreateContact(ctx context.Context, in models.CreateContactInput) (*models.Contact, error)
}

type NewsCreator interface {
	CreateNews(ctx context.Context, in models.CreateNewsInput) (*models.NewsArticle, error)
}

type MessageSender interface {
	SendMessage(ctx context.Context, in models.SendMessageInput) (*models.ContactMessage, error)
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func anyBlank(values ...string) bool {
	for _, v := range values {
		if blank(v) {
			return true
		}
	}
	return false
}
