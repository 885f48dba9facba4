package forms

import (
	"context"
	"errors"

	"gabinete-digital/internal/models"
	"gabinete-digital/internal/services"
	"gabinete-digital/internal/utils"
)

// SlugMode controla a derivação do slug. A passagem Auto -> Manual é definitiva
// dentro da sessão do formulário.
type SlugMode int

const (
	SlugAuto SlugMode = iota
	SlugManual
)

func (m SlugMode) String() string {
	if m == SlugManual {
		return "manual"
	}
	return "auto"
}

type NewsForm struct {
	Title    string
	Summary  string
	Body     string
	ImageURL string
	Category string
	Status   models.NewsStatus
	Author   string

	slug     string
	slugMode SlugMode

	Saving bool
	Err    string
}

// NewNewsForm devolve o formulário com os valores padrão.
func NewNewsForm() *NewsForm {
	return &NewsForm{
		Category: models.DefaultNewsCategory,
		Status:   models.NewsStatusDraft,
		Author:   models.DefaultNewsAuthor,
	}
}

// SetTitle atualiza o título e, enquanto o slug estiver em modo automático,
// deriva o slug dele.
func (f *NewsForm) SetTitle(title string) {
	f.Title = title
	if f.slugMode == SlugAuto {
		f.slug = utils.Slugify(title)
	}
}

// SetSlug é a edição direta do campo; trava o slug em modo manual.
func (f *NewsForm) SetSlug(slug string) {
	f.slug = slug
	f.slugMode = SlugManual
}

func (f *NewsForm) Slug() string {
	return f.slug
}

func (f *NewsForm) SlugMode() SlugMode {
	return f.slugMode
}

func (f *NewsForm) Valid() bool {
	return !anyBlank(f.Title, f.slug, f.Summary, f.Body)
}

func (f *NewsForm) Input() models.CreateNewsInput {
	return models.CreateNewsInput{
		Title:    f.Title,
		Slug:     f.slug,
		Summary:  f.Summary,
		Body:     f.Body,
		ImageURL: f.ImageURL,
		Category: f.Category,
		Status:   f.Status,
		Author:   f.Author,
	}
}

func (f *NewsForm) BeginSubmit() (models.CreateNewsInput, error) {
	if f.Saving {
		return models.CreateNewsInput{}, ErrBusy
	}
	if !f.Valid() {
		f.Err = RequiredMessage
		return models.CreateNewsInput{}, ErrStepIncomplete
	}
	f.Saving = true
	f.Err = ""
	return f.Input(), nil
}

// FinishSubmit mostra a mensagem específica quando o slug já existe.
func (f *NewsForm) FinishSubmit(err error) {
	f.Saving = false
	switch {
	case err == nil:
		f.Err = ""
	case errors.Is(err, services.ErrSlugTaken):
		f.Err = services.SlugTakenMessage
	default:
		f.Err = NewsErrorMessage
	}
}

func (f *NewsForm) Submit(ctx context.Context, creator NewsCreator) (*models.NewsArticle, error) {
	in, err := f.BeginSubmit()
	if err != nil {
		return nil, err
	}
	article, err := creator.CreateNews(ctx, in)
	f.FinishSubmit(err)
	return article, err
}
