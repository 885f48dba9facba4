// internal/models/message.go
package models

import "time"

// ContactMessage chega pelo formulário público "Fale Conosco".
type ContactMessage struct {
	ID        string    `bson:"_id" json:"id"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`

	Name    string  `bson:"nome" json:"nome"`
	Email   string  `bson:"email" json:"email"`
	Phone   *string `bson:"telefone" json:"telefone"`
	Subject string  `bson:"assunto" json:"assunto"`
	Body    string  `bson:"mensagem" json:"mensagem"`

	IsRead     bool `bson:"lida" json:"lida"`
	IsAnswered bool `bson:"respondida" json:"respondida"`
}

type SendMessageInput struct {
	Name    string `json:"nome" validate:"required,notblank,max=120"`
	Email   string `json:"email" validate:"required,notblank,email"`
	Phone   string `json:"telefone" validate:"max=30"`
	Subject string `json:"assunto" validate:"required,notblank,max=200"`
	Body    string `json:"mensagem" validate:"required,notblank,max=5000"`
}

type MessageFilters struct {
	Read     *bool
	Answered *bool
}

// Setting é um par chave/valor da tabela configuracoes.
type Setting struct {
	ID        string    `bson:"_id" json:"id"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
	Key       string    `bson:"chave" json:"chave"`
	Value     any       `bson:"valor" json:"valor"`
}
