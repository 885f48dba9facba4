// Package client fala com a API do gabinete por HTTP. É usado pela interface de
// terminal e implementa os contratos de envio de internal/forms.
package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"gabinete-digital/internal/models"
	"gabinete-digital/internal/services"

	"github.com/go-resty/resty/v2"
)

// APIError é a resposta de erro da API ({"error": ..., "fields": ...})
type APIError struct {
	Status  int               `json:"-"`
	Message string            `json:"error"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("API respondeu %d", e.Status)
	}
	return fmt.Sprintf("API respondeu %d: %s", e.Status, e.Message)
}

// Is liga os status HTTP aos erros de domínio, para errors.Is funcionar do
// lado do cliente como funciona no servidor.
func (e *APIError) Is(target error) bool {
	switch target {
	case services.ErrSlugTaken:
		return e.Status == http.StatusConflict
	case services.ErrNotFound:
		return e.Status == http.StatusNotFound
	case services.ErrInvalidInput:
		return e.Status == http.StatusBadRequest
	}
	return false
}

type Client struct {
	http *resty.Client
}

func New(baseURL, token string) *Client {
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")+"/api/v1").
		SetTimeout(15*time.Second).
		SetHeader("Accept", "application/json")
	if token != "" {
		client.SetAuthToken(token)
	}
	return &Client{http: client}
}

// SetToken troca o token após o login
func (c *Client) SetToken(token string) {
	c.http.SetAuthToken(token)
}

type LoginResult struct {
	Token string          `json:"token"`
	Email string          `json:"email"`
	Role  models.UserRole `json:"role"`
}

func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	var out LoginResult
	err := c.do(ctx, http.MethodPost, "/auth/login", nil, map[string]string{
		"email": email,
		"senha": password,
	}, &out)
	if err != nil {
		return nil, err
	}
	c.SetToken(out.Token)
	return &out, nil
}

// Admin

func (c *Client) CreateDemand(ctx context.Context, in models.CreateDemandInput) (*models.Demand, error) {
	var out models.Demand
	if err := c.do(ctx, http.MethodPost, "/admin/demandas", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateDemand(ctx context.Context, id string, in models.UpdateDemandInput) (*models.Demand, error) {
	var out models.Demand
	if err := c.do(ctx, http.MethodPatch, "/admin/demandas/"+url.PathEscape(id), nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListDemands recebe os parâmetros já codificados pela listagem (listview)
func (c *Client) ListDemands(ctx context.Context, query url.Values) ([]models.Demand, error) {
	var out struct {
		Demands []models.Demand `json:"demandas"`
	}
	if err := c.do(ctx, http.MethodGet, "/admin/demandas", query, nil, &out); err != nil {
		return nil, err
	}
	return out.Demands, nil
}

func (c *Client) CreateContact(ctx context.Context, in models.CreateContactInput) (*models.Contact, error) {
	var out models.Contact
	if err := c.do(ctx, http.MethodPost, "/admin/contatos", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListContacts(ctx context.Context, query url.Values) ([]models.Contact, error) {
	var out struct {
		Contacts []models.Contact `json:"contatos"`
	}
	if err := c.do(ctx, http.MethodGet, "/admin/contatos", query, nil, &out); err != nil {
		return nil, err
	}
	return out.Contacts, nil
}

func (c *Client) CreateNews(ctx context.Context, in models.CreateNewsInput) (*models.NewsArticle, error) {
	var out models.NewsArticle
	if err := c.do(ctx, http.MethodPost, "/admin/noticias", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListNews(ctx context.Context, query url.Values) ([]models.NewsArticle, error) {
	var out struct {
		News []models.NewsArticle `json:"noticias"`
	}
	if err := c.do(ctx, http.MethodGet, "/admin/noticias", query, nil, &out); err != nil {
		return nil, err
	}
	return out.News, nil
}

func (c *Client) ListMessages(ctx context.Context, query url.Values) ([]models.ContactMessage, error) {
	var out struct {
		Messages []models.ContactMessage `json:"mensagens"`
	}
	if err := c.do(ctx, http.MethodGet, "/admin/mensagens", query, nil, &out); err != nil {
		return nil, err
	}
	return out.Messages, nil
}

func (c *Client) MarkMessageRead(ctx context.Context, id string) (*models.ContactMessage, error) {
	var out models.ContactMessage
	if err := c.do(ctx, http.MethodPatch, "/admin/mensagens/"+url.PathEscape(id)+"/lida", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Dashboard(ctx context.Context) (*services.Dashboard, error) {
	var out services.Dashboard
	if err := c.do(ctx, http.MethodGet, "/admin/dashboard", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Público

// Public envia pelas rotas do site, sem token
type Public struct {
	c *Client
}

func (c *Client) Public() *Public {
	return &Public{c: c}
}

// CreateDemand registra pelo formulário público; a resposta traz só id,
// protocolo e status
func (p *Public) CreateDemand(ctx context.Context, in models.CreateDemandInput) (*models.Demand, error) {
	var out struct {
		ID       string              `json:"id"`
		Protocol string              `json:"protocolo"`
		Status   models.DemandStatus `json:"status"`
	}
	if err := p.c.do(ctx, http.MethodPost, "/demandas", nil, in, &out); err != nil {
		return nil, err
	}
	return &models.Demand{
		ID:           out.ID,
		Protocol:     out.Protocol,
		Status:       out.Status,
		Title:        in.Title,
		Type:         in.Type,
		CitizenName:  in.CitizenName,
		Neighborhood: in.Neighborhood,
	}, nil
}

func (p *Public) SendMessage(ctx context.Context, in models.SendMessageInput) (*models.ContactMessage, error) {
	if err := p.c.do(ctx, http.MethodPost, "/mensagens", nil, in, nil); err != nil {
		return nil, err
	}
	return &models.ContactMessage{
		Name:    in.Name,
		Email:   in.Email,
		Subject: in.Subject,
		Body:    in.Body,
	}, nil
}

func (p *Public) Meta(ctx context.Context) (*Meta, error) {
	var out Meta
	if err := p.c.do(ctx, http.MethodGet, "/meta", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Export baixa a planilha .xlsx de "demandas" ou "contatos" com os mesmos
// filtros da listagem.
func (c *Client) Export(ctx context.Context, resource string, query url.Values) ([]byte, error) {
	path := "/admin/" + resource + "/exportar"
	req := c.http.R().
		SetContext(ctx).
		SetError(&APIError{})
	if query != nil {
		req.SetQueryParamsFromValues(query)
	}

	resp, err := req.Get(path)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", path, err)
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	return resp.Body(), nil
}

// Meta são as listas fixas servidas em /meta
type Meta struct {
	DemandTypes   []models.DemandTypeOption `json:"tiposDemanda"`
	Neighborhoods []string                  `json:"bairros"`
	SuggestedTags []string                  `json:"tagsSugeridas"`
	Categories    []string                  `json:"categorias"`
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, dest any) error {
	req := c.http.R().
		SetContext(ctx).
		SetError(&APIError{})
	if query != nil {
		req.SetQueryParamsFromValues(query)
	}
	if body != nil {
		req.SetBody(body)
	}
	if dest != nil {
		req.SetResult(dest)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	if resp.IsError() {
		return apiError(resp)
	}
	return nil
}

func apiError(resp *resty.Response) error {
	apiErr, _ := resp.Error().(*APIError)
	if apiErr == nil {
		apiErr = &APIError{}
	}
	apiErr.Status = resp.StatusCode()
	return apiErr
}
