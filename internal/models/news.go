// internal/models/news.go
package models

import (
	"time"
)

type NewsArticle struct {
	ID        string    `bson:"_id" json:"id"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`

	Title    string  `bson:"titulo" json:"titulo"`
	Slug     string  `bson:"slug" json:"slug"`
	Summary  string  `bson:"resumo" json:"resumo"`
	Body     string  `bson:"conteudo" json:"conteudo"`
	ImageURL *string `bson:"imagem_url" json:"imagem_url"`
	Category string  `bson:"categoria" json:"categoria"`

	// Publicação
	Status      NewsStatus `bson:"status" json:"status"`
	Author      string     `bson:"autor" json:"autor"`
	PublishedAt *time.Time `bson:"publicada_em" json:"publicada_em"`

	// Estatística
	Views int64 `bson:"visualizacoes" json:"visualizacoes"`
}

type NewsStatus string

const (
	NewsStatusDraft     NewsStatus = "rascunho"
	NewsStatusPending   NewsStatus = "pendente_aprovacao"
	NewsStatusPublished NewsStatus = "publicada"
	NewsStatusArchived  NewsStatus = "arquivada"
)

// Valores padrão do formulário de notícia
const (
	DefaultNewsAuthor   = "Assessoria"
	DefaultNewsCategory = "Geral"
)

// Categorias sugeridas no formulário. O campo é texto livre.
var NewsCategories = []string{
	"Geral",
	"Saúde",
	"Educação",
	"Segurança",
	"Meio Ambiente",
	"Cultura",
	"Esporte",
	"Infraestrutura",
	"Social",
}

var NewsStatuses = []NewsStatus{
	NewsStatusDraft,
	NewsStatusPending,
	NewsStatusPublished,
	NewsStatusArchived,
}

func (s NewsStatus) IsValid() bool {
	switch s {
	case NewsStatusDraft, NewsStatusPending, NewsStatusPublished, NewsStatusArchived:
		return true
	}
	return false
}

func (s NewsStatus) Label() string {
	switch s {
	case NewsStatusDraft:
		return "Rascunho"
	case NewsStatusPending:
		return "Pendente de aprovação"
	case NewsStatusPublished:
		return "Publicada"
	case NewsStatusArchived:
		return "Arquivada"
	}
	return string(s)
}

func (n *NewsArticle) IsPublished() bool {
	return n.Status == NewsStatusPublished
}

type CreateNewsInput struct {
	Title    string     `json:"titulo" validate:"required,notblank,max=200"`
	Slug     string     `json:"slug" validate:"omitempty,max=200"`
	Summary  string     `json:"resumo" validate:"required,notblank,max=500"`
	Body     string     `json:"conteudo" validate:"required,notblank"`
	ImageURL string     `json:"imagem_url" validate:"omitempty,url"`
	Category string     `json:"categoria" validate:"max=60"`
	Status   NewsStatus `json:"status" validate:"omitempty,news_status"`
	Author   string     `json:"autor" validate:"max=120"`
}

type UpdateNewsInput struct {
	Title       *string     `json:"titulo" validate:"omitempty,notblank,max=200"`
	Slug        *string     `json:"slug" validate:"omitempty,notblank,max=200"`
	Summary     *string     `json:"resumo" validate:"omitempty,notblank,max=500"`
	Body        *string     `json:"conteudo" validate:"omitempty,notblank"`
	ImageURL    *string     `json:"imagem_url" validate:"omitempty,url"`
	Category    *string     `json:"categoria" validate:"omitempty,notblank,max=60"`
	Status      *NewsStatus `json:"status" validate:"omitempty,news_status"`
	Author      *string     `json:"autor" validate:"omitempty,notblank,max=120"`
	PublishedAt *time.Time  `json:"publicada_em"`
}

type NewsFilters struct {
	Status   NewsStatus
	Category string
	Search   string
	Limit    int
}
