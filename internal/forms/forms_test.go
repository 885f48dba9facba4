package forms

import (
	"context"
	"errors"
	"testing"

	"gabinete-digital/internal/models"
	"gabinete-digital/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errOffline = errors.New("sem conexão")

type fakeBackend struct {
	err      error
	demands  []models.CreateDemandInput
	contacts []models.CreateContactInput
	news     []models.CreateNewsInput
	messages []models.SendMessageInput
}

func (b *fakeBackend) CreateDemand(_ context.Context, in models.CreateDemandInput) (*models.Demand, error) {
	if b.err != nil {
		return nil, b.err
	}
	b.demands = append(b.demands, in)
	return &models.Demand{ID: "d1", Protocol: "2025-0000ABCD", Title: in.Title, Status: models.DemandStatusNew}, nil
}

func (b *fakeBackend) CreateContact(_ context.Context, in models.CreateContactInput) (*models.Contact, error) {
	if b.err != nil {
		return nil, b.err
	}
	b.contacts = append(b.contacts, in)
	return &models.Contact{ID: "c1", Name: in.Name, Tags: in.Tags}, nil
}

func (b *fakeBackend) CreateNews(_ context.Context, in models.CreateNewsInput) (*models.NewsArticle, error) {
	if b.err != nil {
		return nil, b.err
	}
	b.news = append(b.news, in)
	return &models.NewsArticle{ID: "n1", Slug: in.Slug}, nil
}

func (b *fakeBackend) SendMessage(_ context.Context, in models.SendMessageInput) (*models.ContactMessage, error) {
	if b.err != nil {
		return nil, b.err
	}
	b.messages = append(b.messages, in)
	return &models.ContactMessage{ID: "m1"}, nil
}

func fillWizard(t *testing.T, w *Wizard) {
	t.Helper()
	w.SelectType(models.DemandTypeLighting)
	require.NoError(t, w.Next())
	w.Fields.Name = "Maria"
	w.Fields.Phone = "(12) 99999-0000"
	w.Fields.Neighborhood = "Centro"
	require.NoError(t, w.Next())
	w.Fields.Title = "Poste apagado"
	w.Fields.Description = "Rua escura há dias"
}

func TestWizard_GuardsEachStep(t *testing.T) {
	w := NewWizard()

	assert.False(t, w.CanContinue())
	assert.ErrorIs(t, w.Next(), ErrStepIncomplete)
	assert.Equal(t, StepType, w.Step)

	w.SelectType(models.DemandTypeRoad)
	require.NoError(t, w.Next())
	assert.Equal(t, StepIdentification, w.Step)

	w.Fields.Name = "Maria"
	w.Fields.Phone = "   "
	w.Fields.Neighborhood = "Centro"
	assert.ErrorIs(t, w.Next(), ErrStepIncomplete)
	assert.Equal(t, StepIdentification, w.Step)

	w.Fields.Phone = "123"
	require.NoError(t, w.Next())
	assert.Equal(t, StepDetails, w.Step)
	assert.False(t, w.CanContinue())
	assert.False(t, w.CanSubmit())
}

func TestWizard_EmailIsOptional(t *testing.T) {
	w := NewWizard()
	w.SelectType(models.DemandTypeHealth)
	require.NoError(t, w.Next())
	w.Fields = WizardFields{Type: models.DemandTypeHealth, Name: "João", Phone: "1", Neighborhood: "Outro"}
	assert.True(t, w.CanContinue())
}

func TestWizard_BackIsAlwaysAllowed(t *testing.T) {
	w := NewWizard()
	w.Back()
	assert.Equal(t, StepType, w.Step)

	fillWizard(t, w)
	w.Fields.Title = ""
	w.Back()
	assert.Equal(t, StepIdentification, w.Step)
	w.Back()
	assert.Equal(t, StepType, w.Step)
	assert.Equal(t, "Maria", w.Fields.Name)
}

func TestWizard_SubmitCreatesOneDemand(t *testing.T) {
	backend := &fakeBackend{}
	w := NewWizard()
	fillWizard(t, w)

	require.True(t, w.CanSubmit())
	require.NoError(t, w.Submit(context.Background(), backend))

	assert.True(t, w.Submitted)
	assert.False(t, w.Loading)
	assert.Empty(t, w.Err)
	require.Len(t, backend.demands, 1)
	assert.Equal(t, models.DemandTypeLighting, backend.demands[0].Type)
	assert.Equal(t, "2025-0000ABCD", w.Created.Protocol)

	assert.ErrorIs(t, w.Submit(context.Background(), backend), ErrBusy)
	assert.Len(t, backend.demands, 1)
}

func TestWizard_FailureKeepsFieldsForRetry(t *testing.T) {
	backend := &fakeBackend{err: errOffline}
	w := NewWizard()
	fillWizard(t, w)
	before := w.Fields

	err := w.Submit(context.Background(), backend)
	assert.ErrorIs(t, err, errOffline)
	assert.Equal(t, StepDetails, w.Step)
	assert.Equal(t, before, w.Fields)
	assert.False(t, w.Loading)
	assert.False(t, w.Submitted)
	assert.Equal(t, WizardErrorMessage, w.Err)

	backend.err = nil
	require.NoError(t, w.Submit(context.Background(), backend))
	assert.Empty(t, w.Err)
	assert.Len(t, backend.demands, 1)
}

func TestWizard_LoadingBlocksNavigation(t *testing.T) {
	w := NewWizard()
	fillWizard(t, w)

	_, err := w.BeginSubmit()
	require.NoError(t, err)
	assert.True(t, w.Loading)

	w.Back()
	assert.Equal(t, StepDetails, w.Step)
	_, err = w.BeginSubmit()
	assert.ErrorIs(t, err, ErrBusy)

	w.FinishSubmit(nil, errOffline)
	assert.False(t, w.Loading)

	w.Back()
	assert.Equal(t, StepIdentification, w.Step)
}

func TestWizard_ResetStartsOver(t *testing.T) {
	w := NewWizard()
	fillWizard(t, w)
	require.NoError(t, w.Submit(context.Background(), &fakeBackend{}))

	w.Reset()
	assert.Equal(t, StepType, w.Step)
	assert.Equal(t, WizardFields{}, w.Fields)
	assert.False(t, w.Submitted)
	assert.Nil(t, w.Created)
}

func TestNewsForm_Defaults(t *testing.T) {
	f := NewNewsForm()
	assert.Equal(t, models.NewsStatusDraft, f.Status)
	assert.Equal(t, models.DefaultNewsCategory, f.Category)
	assert.Equal(t, models.DefaultNewsAuthor, f.Author)
	assert.Equal(t, SlugAuto, f.SlugMode())
}

func TestNewsForm_SlugLatchIsOneWay(t *testing.T) {
	f := NewNewsForm()

	f.SetTitle("Educação")
	assert.Equal(t, "educacao", f.Slug())
	f.SetTitle("Educação Já!")
	assert.Equal(t, "educacao-ja", f.Slug())

	f.SetSlug("minha-url")
	assert.Equal(t, SlugManual, f.SlugMode())

	for _, title := range []string{"Outro título", "", "Educação Já!"} {
		f.SetTitle(title)
		assert.Equal(t, "minha-url", f.Slug())
		assert.Equal(t, SlugManual, f.SlugMode())
	}

	f.SetSlug("")
	f.SetTitle("Novo título")
	assert.Empty(t, f.Slug())
	assert.Equal(t, SlugManual, f.SlugMode())
}

func TestNewsForm_SubmitErrors(t *testing.T) {
	f := NewNewsForm()
	_, err := f.Submit(context.Background(), &fakeBackend{})
	assert.ErrorIs(t, err, ErrStepIncomplete)
	assert.Equal(t, RequiredMessage, f.Err)

	f.SetTitle("Sessão da Câmara")
	f.Summary = "Resumo"
	f.Body = "Texto"

	_, err = f.Submit(context.Background(), &fakeBackend{err: services.ErrSlugTaken})
	assert.ErrorIs(t, err, services.ErrSlugTaken)
	assert.Equal(t, services.SlugTakenMessage, f.Err)
	assert.False(t, f.Saving)

	_, err = f.Submit(context.Background(), &fakeBackend{err: errOffline})
	assert.Error(t, err)
	assert.Equal(t, NewsErrorMessage, f.Err)
	assert.Equal(t, "Sessão da Câmara", f.Title)

	backend := &fakeBackend{}
	article, err := f.Submit(context.Background(), backend)
	require.NoError(t, err)
	assert.Empty(t, f.Err)
	assert.Equal(t, "sessao-da-camara", article.Slug)
	assert.Equal(t, models.NewsStatusDraft, backend.news[0].Status)
}

func TestContactForm_ToggleTwiceRestoresTags(t *testing.T) {
	f := NewContactForm()
	f.Tags = []string{"Comerciante"}
	original := append([]string(nil), f.Tags...)

	f.ToggleTag("Saúde")
	assert.Equal(t, []string{"Comerciante", "Saúde"}, f.Tags)
	f.ToggleTag("Saúde")
	assert.Equal(t, original, f.Tags)
}

func TestContactForm_AddCustomTag(t *testing.T) {
	f := NewContactForm()

	assert.True(t, f.AddCustomTag("  Feirante "))
	assert.False(t, f.AddCustomTag("Feirante"))
	assert.True(t, f.AddCustomTag("feirante"))
	assert.False(t, f.AddCustomTag("   "))

	assert.Equal(t, []string{"Feirante", "feirante"}, f.Tags)
}

func TestContactForm_Submit(t *testing.T) {
	f := NewContactForm()
	f.Name = "Ana"
	f.Phone = "123"
	f.Neighborhood = "Centro"
	f.ToggleTag("Saúde")

	_, err := f.Submit(context.Background(), &fakeBackend{err: errOffline})
	assert.Error(t, err)
	assert.Equal(t, ContactErrorMessage, f.Err)
	assert.False(t, f.Saving)
	assert.Equal(t, []string{"Saúde"}, f.Tags)

	backend := &fakeBackend{}
	c, err := f.Submit(context.Background(), backend)
	require.NoError(t, err)
	assert.Equal(t, []string{"Saúde"}, c.Tags)
	assert.Empty(t, f.Err)
}

func TestDemandForm(t *testing.T) {
	f := NewDemandForm()
	assert.Equal(t, models.DemandTypeOther, f.Type)
	assert.Equal(t, models.DemandStatusNew, f.Status())

	_, err := f.Submit(context.Background(), &fakeBackend{})
	assert.ErrorIs(t, err, ErrStepIncomplete)

	f.Title = "Calçada quebrada"
	f.Description = "Na frente da escola"
	f.CitizenName = "José"
	f.CitizenPhone = "1"
	f.Neighborhood = "Porto Novo"

	_, err = f.Submit(context.Background(), &fakeBackend{err: errOffline})
	assert.Error(t, err)
	assert.Equal(t, DemandErrorMessage, f.Err)

	backend := &fakeBackend{}
	_, err = f.Submit(context.Background(), backend)
	require.NoError(t, err)
	require.Len(t, backend.demands, 1)
	assert.Equal(t, "Porto Novo", backend.demands[0].Neighborhood)
}

func TestMessageForm(t *testing.T) {
	f := &MessageForm{Name: "Rita", Email: "rita@example.com", Subject: "Elogio", Body: "Obrigada"}

	err := f.Submit(context.Background(), &fakeBackend{err: errOffline})
	assert.Error(t, err)
	assert.Equal(t, MessageErrorMessage, f.Err)
	assert.False(t, f.Sent)

	require.NoError(t, f.Submit(context.Background(), &fakeBackend{}))
	assert.True(t, f.Sent)
	assert.ErrorIs(t, f.Submit(context.Background(), &fakeBackend{}), ErrBusy)

	f.Reset()
	assert.False(t, f.Sent)
	assert.Empty(t, f.Name)
}
