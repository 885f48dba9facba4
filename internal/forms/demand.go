package forms

import (
	"context"

	"gabinete-digital/internal/models"
)

// DemandForm é o cadastro manual de demanda pelo painel. O status é sempre
// "nova" e não é editável.
type DemandForm struct {
	Title        string
	Description  string
	Type         models.DemandType
	CitizenName  string
	CitizenPhone string
	CitizenEmail string
	Neighborhood string
	Address      string

	Saving bool
	Err    string
}

func NewDemandForm() *DemandForm {
	return &DemandForm{Type: models.DemandTypeOther}
}

func (f *DemandForm) Status() models.DemandStatus {
	return models.DemandStatusNew
}

func (f *DemandForm) Valid() bool {
	return f.Type != "" && !anyBlank(f.Title, f.Description, f.CitizenName, f.CitizenPhone, f.Neighborhood)
}

func (f *DemandForm) Input() models.CreateDemandInput {
	return models.CreateDemandInput{
		Title:        f.Title,
		Description:  f.Description,
		Type:         f.Type,
		CitizenName:  f.CitizenName,
		CitizenPhone: f.CitizenPhone,
		CitizenEmail: f.CitizenEmail,
		Neighborhood: f.Neighborhood,
		Address:      f.Address,
	}
}

func (f *DemandForm) BeginSubmit() (models.CreateDemandInput, error) {
	if f.Saving {
		return models.CreateDemandInput{}, ErrBusy
	}
	if !f.Valid() {
		f.Err = RequiredMessage
		return models.CreateDemandInput{}, ErrStepIncomplete
	}
	f.Saving = true
	f.Err = ""
	return f.Input(), nil
}

func (f *DemandForm) FinishSubmit(err error) {
	f.Saving = false
	if err != nil {
		f.Err = DemandErrorMessage
		return
	}
	f.Err = ""
}

func (f *DemandForm) Submit(ctx context.Context, creator DemandCreator) (*models.Demand, error) {
	in, err := f.BeginSubmit()
	if err != nil {
		return nil, err
	}
	demand, err := creator.CreateDemand(ctx, in)
	f.FinishSubmit(err)
	return demand, err
}
