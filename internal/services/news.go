package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gabinete-digital/internal/models"
	"gabinete-digital/internal/tablestore"
	"gabinete-digital/internal/utils"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var newsSearchColumns = []string{"titulo", "resumo"}

type NewsService struct {
	store    tablestore.Store
	notifier *Notifier
	log      logrus.FieldLogger
	now      func() time.Time
}

func NewNewsService(store tablestore.Store, notifier *Notifier, log logrus.FieldLogger) *NewsService {
	return &NewsService{
		store:    store,
		notifier: notifier,
		log:      log.WithField("entity", tablestore.TableNews),
		now:      time.Now,
	}
}

func (s *NewsService) List(ctx context.Context, f models.NewsFilters) ([]models.NewsArticle, error) {
	var filters []tablestore.Filter
	if f.Status != "" {
		filters = append(filters, tablestore.Eq("status", string(f.Status)))
	}
	if f.Category != "" {
		filters = append(filters, tablestore.Eq("categoria", f.Category))
	}
	if f.Search != "" {
		filters = append(filters, tablestore.ILikeAny(f.Search, newsSearchColumns...))
	}

	q := tablestore.NewQuery(filters...)
	if f.Limit > 0 {
		q = q.WithLimit(f.Limit)
	}

	articles := []models.NewsArticle{}
	if err := s.store.Find(ctx, tablestore.TableNews, q, &articles); err != nil {
		return nil, storeFailure(s.log, tablestore.TableNews, "list", err)
	}
	return articles, nil
}

// ListPublished alimenta o site público.
func (s *NewsService) ListPublished(ctx context.Context, limit int) ([]models.NewsArticle, error) {
	return s.List(ctx, models.NewsFilters{Status: models.NewsStatusPublished, Limit: limit})
}

func (s *NewsService) GetByID(ctx context.Context, id string) (*models.NewsArticle, error) {
	var article models.NewsArticle
	if err := s.store.FindOne(ctx, tablestore.TableNews, tablestore.ByID(id), &article); err != nil {
		return nil, storeFailure(s.log, tablestore.TableNews, "get", err)
	}
	return &article, nil
}

// GetBySlug lê a notícia e conta uma visualização.
func (s *NewsService) GetBySlug(ctx context.Context, slug string) (*models.NewsArticle, error) {
	return s.readBySlug(ctx, tablestore.NewQuery(tablestore.Eq("slug", slug)))
}

// GetPublishedBySlug é a leitura do site público: rascunhos não são encontrados
// e não contam visualização.
func (s *NewsService) GetPublishedBySlug(ctx context.Context, slug string) (*models.NewsArticle, error) {
	return s.readBySlug(ctx, tablestore.NewQuery(
		tablestore.Eq("slug", slug),
		tablestore.Eq("status", string(models.NewsStatusPublished)),
	))
}

func (s *NewsService) readBySlug(ctx context.Context, q tablestore.Query) (*models.NewsArticle, error) {
	var article models.NewsArticle
	if err := s.store.FindOne(ctx, tablestore.TableNews, q, &article); err != nil {
		return nil, storeFailure(s.log, tablestore.TableNews, "get_by_slug", err)
	}

	if err := s.store.Increment(ctx, tablestore.TableNews, "visualizacoes", tablestore.ByID(article.ID), 1); err != nil {
		s.log.WithFields(logrus.Fields{
			"slug":  article.Slug,
			"error": err.Error(),
		}).Warn("falha ao contar visualização")
		return &article, nil
	}

	article.Views++
	return &article, nil
}

// Create aplica os padrões do formulário: slug a partir do título, categoria
// "Geral", status rascunho e autor "Assessoria".
func (s *NewsService) Create(ctx context.Context, in models.CreateNewsInput) (*models.NewsArticle, error) {
	if err := validate(in); err != nil {
		return nil, err
	}

	slug := strings.TrimSpace(in.Slug)
	if slug == "" {
		slug = utils.Slugify(in.Title)
	}
	if slug == "" {
		return nil, fmt.Errorf("%w: não foi possível gerar o slug a partir do título", ErrInvalidInput)
	}

	category := strings.TrimSpace(in.Category)
	if category == "" {
		category = models.DefaultNewsCategory
	}
	status := in.Status
	if status == "" {
		status = models.NewsStatusDraft
	}
	author := strings.TrimSpace(in.Author)
	if author == "" {
		author = models.DefaultNewsAuthor
	}

	now := s.now().UTC()
	article := models.NewsArticle{
		ID:        uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
		Title:     in.Title,
		Slug:      slug,
		Summary:   in.Summary,
		Body:      in.Body,
		ImageURL:  optional(in.ImageURL),
		Category:  category,
		Status:    status,
		Author:    author,
	}
	if status == models.NewsStatusPublished {
		article.PublishedAt = &now
	}

	if err := s.store.Insert(ctx, tablestore.TableNews, article, nil); err != nil {
		if tablestore.IsUniqueViolation(err) {
			return nil, ErrSlugTaken
		}
		return nil, storeFailure(s.log, tablestore.TableNews, "create", err)
	}

	if article.IsPublished() {
		s.notifier.NewsPublished(ctx, &article)
	}
	return &article, nil
}

// Update grava só os campos informados. Publicar sem data explícita registra
// publicada_em quando ainda não houver.
func (s *NewsService) Update(ctx context.Context, id string, in models.UpdateNewsInput) (*models.NewsArticle, error) {
	if err := validate(in); err != nil {
		return nil, err
	}

	current, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	patch := map[string]any{"updated_at": s.now().UTC()}
	if in.Title != nil {
		patch["titulo"] = *in.Title
	}
	if in.Slug != nil {
		patch["slug"] = strings.TrimSpace(*in.Slug)
	}
	if in.Summary != nil {
		patch["resumo"] = *in.Summary
	}
	if in.Body != nil {
		patch["conteudo"] = *in.Body
	}
	if in.ImageURL != nil {
		patch["imagem_url"] = optional(*in.ImageURL)
	}
	if in.Category != nil {
		patch["categoria"] = *in.Category
	}
	if in.Author != nil {
		patch["autor"] = *in.Author
	}
	if in.PublishedAt != nil {
		patch["publicada_em"] = in.PublishedAt.UTC()
	}
	if in.Status != nil {
		patch["status"] = string(*in.Status)
		if *in.Status == models.NewsStatusPublished && in.PublishedAt == nil && current.PublishedAt == nil {
			patch["publicada_em"] = s.now().UTC()
		}
	}

	var updated models.NewsArticle
	if err := s.store.Update(ctx, tablestore.TableNews, tablestore.ByID(id), patch, &updated); err != nil {
		if tablestore.IsUniqueViolation(err) {
			return nil, ErrSlugTaken
		}
		return nil, storeFailure(s.log, tablestore.TableNews, "update", err)
	}

	if updated.IsPublished() && !current.IsPublished() {
		s.notifier.NewsPublished(ctx, &updated)
	}
	return &updated, nil
}

func (s *NewsService) Delete(ctx context.Context, id string) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, tablestore.TableNews, tablestore.ByID(id)); err != nil {
		return storeFailure(s.log, tablestore.TableNews, "delete", err)
	}
	return nil
}
