package validator

import (
	"testing"

	"gabinete-digital/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_DomainTags(t *testing.T) {
	in := models.CreateDemandInput{
		Title:        "Poste apagado",
		Description:  "Rua sem luz há uma semana",
		Type:         "iluminacao",
		CitizenName:  "Maria",
		CitizenPhone: "(12) 99999-0000",
		Neighborhood: "Centro",
	}
	require.NoError(t, Validate(in))

	in.Type = "foguete"
	err := Validate(in)
	require.Error(t, err)
	assert.Equal(t, map[string]string{"tipo": "tipo de demanda desconhecido"}, Describe(err))
}

func TestValidate_UpdateStatus(t *testing.T) {
	bad := models.DemandStatus("perdida")
	err := Validate(models.UpdateDemandInput{Status: &bad})
	assert.Equal(t, map[string]string{"status": "status desconhecido"}, Describe(err))

	ok := models.DemandStatusResolved
	assert.NoError(t, Validate(models.UpdateDemandInput{Status: &ok}))
}

func TestValidate_RequiredAndEmail(t *testing.T) {
	err := Validate(models.SendMessageInput{Name: "João", Email: "joao@", Body: "Olá"})
	fields := Describe(err)
	assert.Equal(t, "e-mail inválido", fields["email"])
	assert.Equal(t, "campo obrigatório", fields["assunto"])
	assert.NotContains(t, fields, "nome")
}

func TestValidate_BlankIsMissing(t *testing.T) {
	err := Validate(models.SendMessageInput{Name: "  ", Email: "joao@example.com", Subject: "\t", Body: "Olá"})
	fields := Describe(err)
	assert.Equal(t, "campo obrigatório", fields["nome"])
	assert.Equal(t, "campo obrigatório", fields["assunto"])
	assert.Len(t, fields, 2)

	blank := " "
	err = Validate(models.UpdateNewsInput{Title: &blank})
	assert.Equal(t, map[string]string{"titulo": "campo obrigatório"}, Describe(err))
}

func TestDescribe_NonValidationError(t *testing.T) {
	assert.Nil(t, Describe(assert.AnError))
}
