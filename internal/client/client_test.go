package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"

	"gabinete-digital/internal/forms"
	"gabinete-digital/internal/models"
	"gabinete-digital/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func TestLoginStoresToken(t *testing.T) {
	var authHeader string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/auth/login":
			var body map[string]string
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "segredo", body["senha"])
			writeJSON(w, http.StatusOK, map[string]string{"token": "tok", "email": body["email"], "role": "ASSESSOR"})
		case "/api/v1/admin/demandas":
			authHeader = r.Header.Get("Authorization")
			assert.Equal(t, "nova", r.URL.Query().Get("status"))
			writeJSON(w, http.StatusOK, map[string]any{"demandas": []map[string]any{{"id": "d1", "titulo": "Poste"}}})
		}
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	res, err := c.Login(context.Background(), "a@gabinete.example.com", "segredo")
	require.NoError(t, err)
	assert.Equal(t, models.RoleStaff, res.Role)

	demands, err := c.ListDemands(context.Background(), url.Values{"status": {"nova"}})
	require.NoError(t, err)
	require.Len(t, demands, 1)
	assert.Equal(t, "Poste", demands[0].Title)
	assert.Equal(t, "Bearer tok", authHeader)
}

func TestAPIErrorMapsToDomainErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/admin/noticias":
			writeJSON(w, http.StatusConflict, map[string]string{"error": services.SlugTakenMessage})
		case "/api/v1/admin/contatos":
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Dados inválidos", "fields": map[string]string{"nome": "campo obrigatório"}})
		default:
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Registro não encontrado"})
		}
	}))
	defer srv.Close()

	c := New(srv.URL, "tok")

	_, err := c.CreateNews(context.Background(), models.CreateNewsInput{Title: "x"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, services.ErrSlugTaken))
	assert.False(t, errors.Is(err, services.ErrNotFound))

	_, err = c.CreateContact(context.Background(), models.CreateContactInput{})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "campo obrigatório", apiErr.Fields["nome"])
	assert.ErrorIs(t, err, services.ErrInvalidInput)

	_, err = c.MarkMessageRead(context.Background(), "m1")
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestNewsFormShowsSlugMessageThroughClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusConflict, map[string]string{"error": services.SlugTakenMessage})
	}))
	defer srv.Close()

	form := forms.NewNewsForm()
	form.SetTitle("Educação Já")
	form.Summary = "Resumo"
	form.Body = "Texto"

	_, err := form.Submit(context.Background(), New(srv.URL, "tok"))
	require.Error(t, err)
	assert.Equal(t, services.SlugTakenMessage, form.Err)
	assert.False(t, form.Saving)
}

func TestPublicCreateDemand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		assert.Equal(t, "/api/v1/demandas", r.URL.Path)
		writeJSON(w, http.StatusCreated, map[string]string{"id": "d1", "protocolo": "2026-0A1B2C3D", "status": "nova"})
	}))
	defer srv.Close()

	wizard := forms.NewWizard()
	wizard.SelectType(models.DemandTypeHealth)
	require.NoError(t, wizard.Next())
	wizard.Fields.Name = "Maria"
	wizard.Fields.Phone = "12 99999-0000"
	wizard.Fields.Neighborhood = "Centro"
	require.NoError(t, wizard.Next())
	wizard.Fields.Title = "Falta de médico"
	wizard.Fields.Description = "UBS sem clínico"

	require.NoError(t, wizard.Submit(context.Background(), New(srv.URL, "").Public()))
	assert.True(t, wizard.Submitted)
	require.NotNil(t, wizard.Created)
	assert.Equal(t, "2026-0A1B2C3D", wizard.Created.Protocol)
}

func TestProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ProfileFile)

	p, err := LoadProfile(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultAPIURL, p.APIURL)

	p.Token = "tok"
	p.Email = "a@gabinete.example.com"
	require.NoError(t, p.Save(path))

	loaded, err := LoadProfile(path)
	require.NoError(t, err)
	assert.Equal(t, p, loaded)
}

func TestExportReturnsWorkbookBytes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/admin/demandas/exportar":
			assert.Equal(t, "resolvida", r.URL.Query().Get("status"))
			w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
			_, _ = w.Write([]byte("PK\x03\x04planilha"))
		default:
			writeJSON(w, http.StatusForbidden, map[string]string{"error": "Permissão insuficiente"})
		}
	}))
	defer srv.Close()

	c := New(srv.URL, "tok")
	data, err := c.Export(context.Background(), "demandas", url.Values{"status": {"resolvida"}})
	require.NoError(t, err)
	assert.Equal(t, []byte("PK\x03\x04planilha"), data)

	_, err = c.Export(context.Background(), "contatos", nil)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.Status)
	assert.Equal(t, "Permissão insuficiente", apiErr.Message)
}
