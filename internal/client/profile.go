package client

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	ProfileFile   = ".gabinete.yaml"
	DefaultAPIURL = "http://localhost:8080"
)

// Profile é a sessão salva do terminal
type Profile struct {
	APIURL string `yaml:"api_url"`
	Email  string `yaml:"email,omitempty"`
	Token  string `yaml:"token,omitempty"`
}

// DefaultProfilePath é ~/.gabinete.yaml
func DefaultProfilePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ProfileFile), nil
}

// LoadProfile lê o perfil; um arquivo ausente devolve o perfil padrão
func LoadProfile(path string) (*Profile, error) {
	profile := &Profile{APIURL: DefaultAPIURL}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return profile, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lendo %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, profile); err != nil {
		return nil, fmt.Errorf("perfil inválido em %s: %w", path, err)
	}
	if profile.APIURL == "" {
		profile.APIURL = DefaultAPIURL
	}
	return profile, nil
}

// Save grava com permissão 0600, pois guarda o token
func (p *Profile) Save(path string) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
