// Package services é a camada de acesso a dados: uma fachada por entidade sobre o
// tablestore, com validação de entrada e agregações.
package services

import (
	"errors"
	"fmt"
	"strings"

	"gabinete-digital/internal/tablestore"
	"gabinete-digital/pkg/validator"

	"github.com/sirupsen/logrus"
)

// SlugTakenMessage é exibida quando o slug da notícia já está em uso.
const SlugTakenMessage = "Este slug já existe. Por favor, escolha outro."

var (
	ErrSlugTaken    = errors.New("slug já existe")
	ErrInvalidInput = errors.New("dados inválidos")
	ErrNotFound     = tablestore.ErrNotFound
)

func validate(input any) error {
	if err := validator.Validate(input); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return nil
}

// storeFailure registra a falha com o detalhe técnico e a devolve intacta.
func storeFailure(log logrus.FieldLogger, entity, op string, err error) error {
	if !errors.Is(err, tablestore.ErrNotFound) {
		log.WithFields(logrus.Fields{
			"entity": entity,
			"op":     op,
			"error":  err.Error(),
		}).Error("falha no armazenamento")
	}
	return err
}

// trimAll remove espaços das pontas de cada campo, inclusive ponteiros
// informados. Roda antes da validação para que um opcional só com espaços
// conte como ausente.
func trimAll(fields ...any) {
	for _, f := range fields {
		switch v := f.(type) {
		case *string:
			*v = strings.TrimSpace(*v)
		case **string:
			if *v != nil {
				t := strings.TrimSpace(**v)
				*v = &t
			}
		}
	}
}

// optional converte texto vazio em nulo.
func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// uniqueStrings remove vazios e repetidos, preservando a ordem.
func uniqueStrings(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

func sum(counts map[string]int64) int64 {
	var total int64
	for _, n := range counts {
		total += n
	}
	return total
}
