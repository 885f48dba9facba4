package forms

import (
	"context"

	"gabinete-digital/internal/models"
)

// MessageForm é o formulário público "Fale Conosco".
type MessageForm struct {
	Name    string
	Email   string
	Phone   string
	Subject string
	Body    string

	Sent    bool
	Sending bool
	Err     string
}

func (f *MessageForm) Valid() bool {
	return !anyBlank(f.Name, f.Email, f.Subject, f.Body)
}

func (f *MessageForm) Input() models.SendMessageInput {
	return models.SendMessageInput{
		Name:    f.Name,
		Email:   f.Email,
		Phone:   f.Phone,
		Subject: f.Subject,
		Body:    f.Body,
	}
}

func (f *MessageForm) BeginSubmit() (models.SendMessageInput, error) {
	if f.Sending || f.Sent {
		return models.SendMessageInput{}, ErrBusy
	}
	if !f.Valid() {
		f.Err = RequiredMessage
		return models.SendMessageInput{}, ErrStepIncomplete
	}
	f.Sending = true
	f.Err = ""
	return f.Input(), nil
}

func (f *MessageForm) FinishSubmit(err error) {
	f.Sending = false
	if err != nil {
		f.Err = MessageErrorMessage
		return
	}
	f.Sent = true
}

func (f *MessageForm) Submit(ctx context.Context, sender MessageSender) error {
	in, err := f.BeginSubmit()
	if err != nil {
		return err
	}
	_, err = sender.SendMessage(ctx, in)
	f.FinishSubmit(err)
	return err
}

// Reset limpa o formulário após o envio.
func (f *MessageForm) Reset() {
	*f = MessageForm{}
}
