package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Educação Já!", "educacao-ja"},
		{"Projeto de Lei Nº 12/2025 aprovado", "projeto-de-lei-n-12-2025-aprovado"},
		{"  Saúde   na Praça  ", "saude-na-praca"},
		{"Iluminação: Martim de Sá", "iluminacao-martim-de-sa"},
		{"---", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.title))
		})
	}
}

func TestSlugify_Idempotent(t *testing.T) {
	s := Slugify("Câmara aprova orçamento")
	assert.Equal(t, s, Slugify(s))
}
