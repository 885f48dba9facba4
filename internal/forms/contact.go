package forms

import (
	"context"
	"strings"

	"gabinete-digital/internal/models"
)

type ContactForm struct {
	Name         string
	Phone        string
	Email        string
	Neighborhood string
	Notes        string
	IsSupporter  bool
	Tags         []string

	Saving bool
	Err    string
}

func NewContactForm() *ContactForm {
	return &ContactForm{Tags: []string{}}
}

func (f *ContactForm) HasTag(tag string) bool {
	for _, t := range f.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// ToggleTag liga ou desliga uma tag sugerida.
func (f *ContactForm) ToggleTag(tag string) {
	if f.HasTag(tag) {
		f.RemoveTag(tag)
		return
	}
	f.Tags = append(f.Tags, tag)
}

func (f *ContactForm) RemoveTag(tag string) {
	kept := make([]string, 0, len(f.Tags))
	for _, t := range f.Tags {
		if t != tag {
			kept = append(kept, t)
		}
	}
	f.Tags = kept
}

// AddCustomTag adiciona a tag digitada (Enter). Comparação exata, com
// diferença entre maiúsculas e minúsculas.
func (f *ContactForm) AddCustomTag(raw string) bool {
	tag := strings.TrimSpace(raw)
	if tag == "" || f.HasTag(tag) {
		return false
	}
	f.Tags = append(f.Tags, tag)
	return true
}

func (f *ContactForm) Valid() bool {
	return !anyBlank(f.Name, f.Phone, f.Neighborhood)
}

func (f *ContactForm) Input() models.CreateContactInput {
	return models.CreateContactInput{
		Name:         f.Name,
		Phone:        f.Phone,
		Email:        f.Email,
		Neighborhood: f.Neighborhood,
		Tags:         append([]string(nil), f.Tags...),
		IsSupporter:  f.IsSupporter,
		Notes:        f.Notes,
	}
}

func (f *ContactForm) BeginSubmit() (models.CreateContactInput, error) {
	if f.Saving {
		return models.CreateContactInput{}, ErrBusy
	}
	if !f.Valid() {
		f.Err = RequiredMessage
		return models.CreateContactInput{}, ErrStepIncomplete
	}
	f.Saving = true
	f.Err = ""
	return f.Input(), nil
}

func (f *ContactForm) FinishSubmit(err error) {
	f.Saving = false
	if err != nil {
		f.Err = ContactErrorMessage
		return
	}
	f.Err = ""
}

func (f *ContactForm) Submit(ctx context.Context, creator ContactCreator) (*models.Contact, error) {
	in, err := f.BeginSubmit()
	if err != nil {
		return nil, err
	}
	contact, err := creator.CreateContact(ctx, in)
	f.FinishSubmit(err)
	return contact, err
}
