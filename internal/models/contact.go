// internal/models/contact.go
package models

import (
	"time"
)

// Contact é uma pessoa da rede de relacionamento do mandato.
type Contact struct {
	ID        string    `bson:"_id" json:"id"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`

	Name         string  `bson:"nome" json:"nome"`
	Phone        string  `bson:"telefone" json:"telefone"`
	Email        *string `bson:"email" json:"email"`
	Neighborhood string  `bson:"bairro" json:"bairro"`

	Tags        []string `bson:"tags" json:"tags"`
	IsSupporter bool     `bson:"is_apoiador" json:"is_apoiador"`
	Notes       *string  `bson:"notas" json:"notas"`
}

// Tags sugeridas no formulário de contato
var SuggestedTags = []string{
	"Líder Comunitário",
	"Comerciante",
	"Saúde",
	"Educação",
	"Religioso",
	"Apoiador",
	"Voluntário",
}

// Bairros atendidos. "Outro" cobre o restante do município.
var Neighborhoods = []string{
	"Centro",
	"Martim de Sá",
	"Indaiá",
	"Massaguaçu",
	"Tabatinga",
	"Sumaré",
	"Jaraguazinho",
	"Porto Novo",
	"Caputera",
	"Travessão",
	"Outro",
}

func (c *Contact) HasTag(tag string) bool {
	for _, t := range c.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

type CreateContactInput struct {
	Name         string   `json:"nome" validate:"required,notblank,max=120"`
	Phone        string   `json:"telefone" validate:"required,notblank,max=30"`
	Email        string   `json:"email" validate:"omitempty,email"`
	Neighborhood string   `json:"bairro" validate:"required,notblank,max=80"`
	Tags         []string `json:"tags" validate:"dive,required,max=60"`
	IsSupporter  bool     `json:"is_apoiador"`
	Notes        string   `json:"notas"`
}

type UpdateContactInput struct {
	Name         *string   `json:"nome" validate:"omitempty,notblank,max=120"`
	Phone        *string   `json:"telefone" validate:"omitempty,notblank,max=30"`
	Email        *string   `json:"email" validate:"omitzero,email"`
	Neighborhood *string   `json:"bairro" validate:"omitempty,notblank,max=80"`
	Tags         *[]string `json:"tags"`
	IsSupporter  *bool     `json:"is_apoiador"`
	Notes        *string   `json:"notas"`
}

type ContactFilters struct {
	Neighborhood string
	Supporter    *bool
	Search       string
	Tags         []string
}

type ContactStats struct {
	Total          int64            `json:"total"`
	Supporters     int64            `json:"apoiadores"`
	ByNeighborhood map[string]int64 `json:"porBairro"`
	TagCounts      map[string]int64 `json:"tagsCounts"`
}
