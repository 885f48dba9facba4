// internal/models/demand.go
package models

import (
	"time"
)

// Demand é uma solicitação de cidadão registrada pelo Gabinete Digital.
type Demand struct {
	ID        string    `bson:"_id" json:"id"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
	Protocol  string    `bson:"protocolo" json:"protocolo"`

	// Conteúdo
	Title       string       `bson:"titulo" json:"titulo"`
	Description string       `bson:"descricao" json:"descricao"`
	Type        DemandType   `bson:"tipo" json:"tipo"`
	Status      DemandStatus `bson:"status" json:"status"`

	// Cidadão
	CitizenName  string  `bson:"cidadao_nome" json:"cidadao_nome"`
	CitizenPhone string  `bson:"cidadao_telefone" json:"cidadao_telefone"`
	CitizenEmail *string `bson:"cidadao_email" json:"cidadao_email"`

	// Localização
	Neighborhood string   `bson:"bairro" json:"bairro"`
	Address      *string  `bson:"endereco" json:"endereco"`
	Latitude     *float64 `bson:"latitude" json:"latitude"`
	Longitude    *float64 `bson:"longitude" json:"longitude"`

	// Atendimento
	Notes      *string    `bson:"observacoes" json:"observacoes"`
	Response   *string    `bson:"resposta" json:"resposta"`
	ResolvedAt *time.Time `bson:"resolvida_em" json:"resolvida_em"`
}

type DemandType string

type DemandStatus string

// Tipos de demanda
const (
	DemandTypeLighting  DemandType = "iluminacao"
	DemandTypeRoad      DemandType = "buraco"
	DemandTypeSocial    DemandType = "assistencia"
	DemandTypeHealth    DemandType = "saude"
	DemandTypeEducation DemandType = "educacao"
	DemandTypeTransport DemandType = "transporte"
	DemandTypeHousing   DemandType = "moradia"
	DemandTypeOther     DemandType = "outros"
)

// Status de demanda, na ordem do ciclo de atendimento
const (
	DemandStatusNew       DemandStatus = "nova"
	DemandStatusInReview  DemandStatus = "em_analise"
	DemandStatusForwarded DemandStatus = "encaminhada_prefeitura"
	DemandStatusResolved  DemandStatus = "resolvida"
	DemandStatusArchived  DemandStatus = "arquivada"
)

// DemandTypeOption descreve um tipo para os formulários.
type DemandTypeOption struct {
	ID    DemandType `json:"id"`
	Label string     `json:"label"`
	Emoji string     `json:"emoji"`
}

var DemandTypes = []DemandTypeOption{
	{ID: DemandTypeLighting, Label: "Iluminação", Emoji: "💡"},
	{ID: DemandTypeRoad, Label: "Buraco/Via", Emoji: "🕳️"},
	{ID: DemandTypeSocial, Label: "Assistência Social", Emoji: "❤️"},
	{ID: DemandTypeHealth, Label: "Saúde", Emoji: "🏥"},
	{ID: DemandTypeEducation, Label: "Educação", Emoji: "📚"},
	{ID: DemandTypeTransport, Label: "Transporte", Emoji: "🚌"},
	{ID: DemandTypeHousing, Label: "Moradia", Emoji: "🏠"},
	{ID: DemandTypeOther, Label: "Outros", Emoji: "📋"},
}

var DemandStatuses = []DemandStatus{
	DemandStatusNew,
	DemandStatusInReview,
	DemandStatusForwarded,
	DemandStatusResolved,
	DemandStatusArchived,
}

var demandStatusLabels = map[DemandStatus]string{
	DemandStatusNew:       "Nova",
	DemandStatusInReview:  "Em análise",
	DemandStatusForwarded: "Encaminhada à Prefeitura",
	DemandStatusResolved:  "Resolvida",
	DemandStatusArchived:  "Arquivada",
}

func (t DemandType) IsValid() bool {
	for _, opt := range DemandTypes {
		if opt.ID == t {
			return true
		}
	}
	return false
}

func (t DemandType) Label() string {
	for _, opt := range DemandTypes {
		if opt.ID == t {
			return opt.Label
		}
	}
	return string(t)
}

func (s DemandStatus) IsValid() bool {
	_, ok := demandStatusLabels[s]
	return ok
}

func (s DemandStatus) Label() string {
	if label, ok := demandStatusLabels[s]; ok {
		return label
	}
	return string(s)
}

func (d *Demand) IsResolved() bool {
	return d.Status == DemandStatusResolved
}

func (d *Demand) IsOpen() bool {
	return d.Status == DemandStatusNew || d.Status == DemandStatusInReview || d.Status == DemandStatusForwarded
}

// CreateDemandInput são os campos aceitos na criação.
// O status não faz parte da entrada: toda demanda nasce "nova".
type CreateDemandInput struct {
	Title        string     `json:"titulo" validate:"required,notblank,max=200"`
	Description  string     `json:"descricao" validate:"required,notblank,max=5000"`
	Type         DemandType `json:"tipo" validate:"required,demand_type"`
	CitizenName  string     `json:"cidadao_nome" validate:"required,notblank,max=120"`
	CitizenPhone string     `json:"cidadao_telefone" validate:"required,notblank,max=30"`
	CitizenEmail string     `json:"cidadao_email" validate:"omitempty,email"`
	Neighborhood string     `json:"bairro" validate:"required,notblank,max=80"`
	Address      string     `json:"endereco" validate:"max=200"`
	Latitude     *float64   `json:"latitude" validate:"omitempty,latitude"`
	Longitude    *float64   `json:"longitude" validate:"omitempty,longitude"`
	Notes        string     `json:"observacoes"`
}

// UpdateDemandInput usa ponteiros: campo ausente = não alterar.
type UpdateDemandInput struct {
	Title        *string       `json:"titulo" validate:"omitempty,notblank,max=200"`
	Description  *string       `json:"descricao" validate:"omitempty,notblank"`
	Type         *DemandType   `json:"tipo" validate:"omitempty,demand_type"`
	Status       *DemandStatus `json:"status" validate:"omitempty,demand_status"`
	CitizenName  *string       `json:"cidadao_nome" validate:"omitempty,notblank"`
	CitizenPhone *string       `json:"cidadao_telefone" validate:"omitempty,notblank"`
	CitizenEmail *string       `json:"cidadao_email" validate:"omitzero,email"`
	Neighborhood *string       `json:"bairro" validate:"omitempty,notblank"`
	Address      *string       `json:"endereco"`
	Latitude     *float64      `json:"latitude" validate:"omitempty,latitude"`
	Longitude    *float64      `json:"longitude" validate:"omitempty,longitude"`
	Notes        *string       `json:"observacoes"`
	Response     *string       `json:"resposta"`
}

// DemandFilters: campo vazio significa "sem restrição".
type DemandFilters struct {
	Status       DemandStatus
	Type         DemandType
	Neighborhood string
	Search       string
}

// DemandStats são contagens agregadas pelo próprio armazenamento.
type DemandStats struct {
	Total          int64            `json:"total"`
	ByStatus       map[string]int64 `json:"porStatus"`
	ByType         map[string]int64 `json:"porTipo"`
	ByNeighborhood map[string]int64 `json:"porBairro"`
}
