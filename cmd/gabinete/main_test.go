package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gabinete-digital/internal/client"
)

func newTestCommand() (*cobra.Command, *bytes.Buffer) {
	out := &bytes.Buffer{}
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	cmd.SetOut(out)
	cmd.SetIn(strings.NewReader(""))
	return cmd, out
}

func resetFlags(t *testing.T) {
	t.Helper()
	profilePath = filepath.Join(t.TempDir(), client.ProfileFile)
	apiURL = ""
	timeout = 5 * time.Second
	loginEmail, loginPassword = "", ""
	exportOutput, exportFilter = "", ""
}

func fakeAPI(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/auth/login":
			var body map[string]string
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			w.Header().Set("Content-Type", "application/json")
			if body["senha"] != "segredo" {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"Credenciais inválidas"}`))
				return
			}
			_, _ = w.Write([]byte(`{"token":"tok-123","email":"` + body["email"] + `","role":"ADMIN"}`))
		case "/api/v1/admin/contatos/exportar":
			assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
			assert.Equal(t, "true", r.URL.Query().Get("apoiador"))
			_, _ = w.Write([]byte("PK-contatos"))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestLoginSavesProfile(t *testing.T) {
	resetFlags(t)
	srv := fakeAPI(t)
	apiURL = srv.URL
	loginEmail = "admin@gabinete.example.com"

	cmd, out := newTestCommand()
	cmd.SetIn(strings.NewReader("segredo\n"))

	require.NoError(t, runLogin(cmd, nil))
	assert.Contains(t, out.String(), "admin@gabinete.example.com")

	profile, err := client.LoadProfile(profilePath)
	require.NoError(t, err)
	assert.Equal(t, "tok-123", profile.Token)
	assert.Equal(t, srv.URL, profile.APIURL)

	require.NoError(t, runLogout(cmd, nil))
	profile, err = client.LoadProfile(profilePath)
	require.NoError(t, err)
	assert.Empty(t, profile.Token)
	assert.Equal(t, "admin@gabinete.example.com", profile.Email)
}

func TestLoginWrongPassword(t *testing.T) {
	resetFlags(t)
	apiURL = fakeAPI(t).URL
	loginEmail = "admin@gabinete.example.com"
	loginPassword = "errada"

	cmd, _ := newTestCommand()
	err := runLogin(cmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Credenciais inválidas")

	_, statErr := os.Stat(profilePath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestExportRequiresLogin(t *testing.T) {
	resetFlags(t)

	cmd, _ := newTestCommand()
	assert.ErrorIs(t, runExport(cmd, []string{"demandas"}), errNotLoggedIn)
	assert.ErrorIs(t, runPanel(cmd, nil), errNotLoggedIn)
}

func TestExportWritesFile(t *testing.T) {
	resetFlags(t)
	srv := fakeAPI(t)
	require.NoError(t, (&client.Profile{APIURL: srv.URL, Token: "tok-123"}).Save(profilePath))

	exportOutput = filepath.Join(t.TempDir(), "apoiadores.xlsx")
	exportFilter = "apoiador=true"

	cmd, out := newTestCommand()
	require.NoError(t, runExport(cmd, []string{"contatos"}))

	data, err := os.ReadFile(exportOutput)
	require.NoError(t, err)
	assert.Equal(t, "PK-contatos", string(data))
	assert.Contains(t, out.String(), "apoiadores.xlsx")
}

func TestExportArgsValidated(t *testing.T) {
	assert.Error(t, exportCmd.Args(exportCmd, []string{"noticias"}))
	assert.NoError(t, exportCmd.Args(exportCmd, []string{"demandas"}))
}
