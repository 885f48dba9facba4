package utils

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var protocolPattern = regexp.MustCompile(`^\d{4}-[0-9A-F]{8}$`)

// NewProtocol gera o número de protocolo informado ao cidadão: ano + 8 hex (ex.: 2025-4F1A09C2).
func NewProtocol(now time.Time) string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("%04d-%s", now.Year(), strings.ToUpper(id[:8]))
}

func IsProtocol(s string) bool {
	return protocolPattern.MatchString(s)
}
