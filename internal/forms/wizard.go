package forms

import (
	"context"

	"gabinete-digital/internal/models"
)

type Step int

// Etapas do assistente "Gabinete Digital"
const (
	StepType Step = iota + 1
	StepIdentification
	StepDetails
)

type WizardFields struct {
	Type         models.DemandType
	Name         string
	Phone        string
	Email        string
	Neighborhood string
	Title        string
	Description  string
}

// Wizard é o assistente público de registro de demandas: três etapas lineares,
// sem salto. O estado vive só em memória.
type Wizard struct {
	Step      Step
	Fields    WizardFields
	Submitted bool
	Loading   bool
	Err       string

	// Created é a demanda registrada no último envio bem-sucedido.
	Created *models.Demand
}

func NewWizard() *Wizard {
	return &Wizard{Step: StepType}
}

// StepComplete diz se os campos obrigatórios da etapa estão preenchidos.
func (w *Wizard) StepComplete(step Step) bool {
	f := w.Fields
	switch step {
	case StepType:
		return f.Type != ""
	case StepIdentification:
		return !anyBlank(f.Name, f.Phone, f.Neighborhood)
	case StepDetails:
		return !anyBlank(f.Title, f.Description)
	}
	return false
}

// CanContinue habilita o botão "Continuar" da etapa atual.
func (w *Wizard) CanContinue() bool {
	return w.Step < StepDetails && w.StepComplete(w.Step)
}

func (w *Wizard) Next() error {
	if w.Submitted || w.Loading {
		return ErrBusy
	}
	if !w.CanContinue() {
		return ErrStepIncomplete
	}
	w.Step++
	return nil
}

// Back é sempre permitido, exceto na primeira etapa e durante o envio.
func (w *Wizard) Back() {
	if w.Loading || w.Submitted || w.Step == StepType {
		return
	}
	w.Step--
}

func (w *Wizard) SelectType(t models.DemandType) {
	w.Fields.Type = t
}

// CanSubmit exige a última etapa e todas as etapas completas.
func (w *Wizard) CanSubmit() bool {
	return w.Step == StepDetails && !w.Loading && !w.Submitted &&
		w.StepComplete(StepType) && w.StepComplete(StepIdentification) && w.StepComplete(StepDetails)
}

// Input monta a demanda a enviar. O status não faz parte da entrada:
// toda demanda nasce "nova".
func (w *Wizard) Input() models.CreateDemandInput {
	f := w.Fields
	return models.CreateDemandInput{
		Title:        f.Title,
		Description:  f.Description,
		Type:         f.Type,
		CitizenName:  f.Name,
		CitizenPhone: f.Phone,
		CitizenEmail: f.Email,
		Neighborhood: f.Neighborhood,
	}
}

// BeginSubmit marca o envio como em andamento e devolve a entrada. Interfaces
// assíncronas chamam BeginSubmit, executam o envio e depois FinishSubmit.
func (w *Wizard) BeginSubmit() (models.CreateDemandInput, error) {
	if w.Loading || w.Submitted {
		return models.CreateDemandInput{}, ErrBusy
	}
	if !w.CanSubmit() {
		return models.CreateDemandInput{}, ErrStepIncomplete
	}
	w.Loading = true
	w.Err = ""
	return w.Input(), nil
}

// FinishSubmit aplica o resultado. Em caso de erro o assistente continua na
// etapa 3 com os campos preservados.
func (w *Wizard) FinishSubmit(created *models.Demand, err error) {
	w.Loading = false
	if err != nil {
		w.Err = WizardErrorMessage
		return
	}
	w.Created = created
	w.Submitted = true
}

func (w *Wizard) Submit(ctx context.Context, creator DemandCreator) error {
	in, err := w.BeginSubmit()
	if err != nil {
		return err
	}
	created, err := creator.CreateDemand(ctx, in)
	w.FinishSubmit(created, err)
	return err
}

// Reset é a ação "Enviar outra demanda".
func (w *Wizard) Reset() {
	*w = Wizard{Step: StepType}
}
