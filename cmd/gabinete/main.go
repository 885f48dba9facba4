// cmd/gabinete/main.go
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"gabinete-digital/internal/client"
	"gabinete-digital/internal/tui"
)

var (
	profilePath string
	apiURL      string
	timeout     time.Duration

	loginEmail    string
	loginPassword string

	panelTab    string
	panelFilter string

	exportOutput string
	exportFilter string
)

var errNotLoggedIn = errors.New("sessão não encontrada: rode 'gabinete login' primeiro")

var rootCmd = &cobra.Command{
	Use:   "gabinete",
	Short: "Terminal do Gabinete Digital",
	Long: `Cliente de terminal da API do Gabinete Digital.

Comandos públicos:
  demanda  - assistente de registro de demandas
  contato  - formulário "Fale Conosco"

Comandos da equipe (exigem login):
  painel   - listagens e cadastros
  exportar - planilha de demandas ou contatos`,
	SilenceUsage: true,
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Entra com email e senha e salva a sessão",
	RunE:  runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove o token salvo",
	RunE:  runLogout,
}

var panelCmd = &cobra.Command{
	Use:   "painel",
	Short: "Abre o painel administrativo",
	Long: `Abre o painel com as abas Demandas, Contatos, Notícias e Mensagens.

--aba escolhe a aba inicial e --filtro aplica uma query string a ela,
por exemplo: gabinete painel --aba demandas --filtro "status=nova&search=poste"`,
	RunE: runPanel,
}

var wizardCmd = &cobra.Command{
	Use:   "demanda",
	Short: "Registra uma demanda pelo assistente público",
	RunE:  runWizard,
}

var messageCmd = &cobra.Command{
	Use:   "contato",
	Short: "Envia uma mensagem ao gabinete",
	RunE:  runMessage,
}

var exportCmd = &cobra.Command{
	Use:       "exportar {demandas|contatos}",
	Short:     "Baixa a planilha .xlsx",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"demandas", "contatos"},
	RunE:      runExport,
}

func init() {
	defaultProfile, err := client.DefaultProfilePath()
	if err != nil {
		defaultProfile = client.ProfileFile
	}

	rootCmd.PersistentFlags().StringVar(&profilePath, "perfil", defaultProfile, "Arquivo da sessão")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "", "URL da API (padrão: a do perfil)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 15*time.Second, "Tempo máximo das operações de linha de comando")

	loginCmd.Flags().StringVarP(&loginEmail, "email", "e", "", "Email da conta")
	loginCmd.Flags().StringVar(&loginPassword, "senha", "", "Senha (padrão: GABINETE_SENHA ou pergunta)")
	_ = loginCmd.MarkFlagRequired("email")

	panelCmd.Flags().StringVar(&panelTab, "aba", "demandas", "Aba inicial: demandas, contatos, noticias ou mensagens")
	panelCmd.Flags().StringVar(&panelFilter, "filtro", "", "Filtros iniciais como query string")

	exportCmd.Flags().StringVarP(&exportOutput, "saida", "o", "", "Arquivo de saída (padrão: <recurso>.xlsx)")
	exportCmd.Flags().StringVar(&exportFilter, "filtro", "", "Filtros como query string")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(panelCmd)
	rootCmd.AddCommand(wizardCmd)
	rootCmd.AddCommand(messageCmd)
	rootCmd.AddCommand(exportCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadProfile aplica --api sobre o perfil salvo.
func loadProfile() (*client.Profile, error) {
	profile, err := client.LoadProfile(profilePath)
	if err != nil {
		return nil, err
	}
	if apiURL != "" {
		profile.APIURL = apiURL
	}
	return profile, nil
}

func authedClient() (*client.Client, *client.Profile, error) {
	profile, err := loadProfile()
	if err != nil {
		return nil, nil, err
	}
	if profile.Token == "" {
		return nil, nil, errNotLoggedIn
	}
	return client.New(profile.APIURL, profile.Token), profile, nil
}

func readPassword(in io.Reader, out io.Writer) (string, error) {
	if loginPassword != "" {
		return loginPassword, nil
	}
	if env := os.Getenv("GABINETE_SENHA"); env != "" {
		return env, nil
	}

	fmt.Fprint(out, "Senha: ")
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func runLogin(cmd *cobra.Command, _ []string) error {
	profile, err := loadProfile()
	if err != nil {
		return err
	}

	password, err := readPassword(cmd.InOrStdin(), cmd.OutOrStdout())
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	res, err := client.New(profile.APIURL, "").Login(ctx, loginEmail, password)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}

	profile.Email = res.Email
	profile.Token = res.Token
	if err := profile.Save(profilePath); err != nil {
		return fmt.Errorf("salvando sessão: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✅ Conectado como %s (%s)\n", res.Email, res.Role)
	return nil
}

func runLogout(cmd *cobra.Command, _ []string) error {
	profile, err := client.LoadProfile(profilePath)
	if err != nil {
		return err
	}
	profile.Token = ""
	if err := profile.Save(profilePath); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "👋 Sessão encerrada")
	return nil
}

func runPanel(cmd *cobra.Command, _ []string) error {
	c, profile, err := authedClient()
	if err != nil {
		return err
	}

	values, err := url.ParseQuery(panelFilter)
	if err != nil {
		return fmt.Errorf("--filtro inválido: %w", err)
	}

	admin := tui.NewAdmin(c, profile.Email, tui.WithQuery(panelTab, values))
	defer admin.Stop()

	_, err = tea.NewProgram(admin, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
	return err
}

func runWizard(cmd *cobra.Command, _ []string) error {
	profile, err := loadProfile()
	if err != nil {
		return err
	}

	public := client.New(profile.APIURL, "").Public()
	_, err = tea.NewProgram(tui.NewWizard(public), tea.WithContext(cmd.Context())).Run()
	return err
}

func runMessage(cmd *cobra.Command, _ []string) error {
	profile, err := loadProfile()
	if err != nil {
		return err
	}

	public := client.New(profile.APIURL, "").Public()
	_, err = tea.NewProgram(tui.NewMessageForm(public), tea.WithContext(cmd.Context())).Run()
	return err
}

func runExport(cmd *cobra.Command, args []string) error {
	c, _, err := authedClient()
	if err != nil {
		return err
	}

	resource := args[0]
	values, err := url.ParseQuery(exportFilter)
	if err != nil {
		return fmt.Errorf("--filtro inválido: %w", err)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	data, err := c.Export(ctx, resource, values)
	if err != nil {
		return fmt.Errorf("exportando %s: %w", resource, err)
	}

	output := exportOutput
	if output == "" {
		output = resource + ".xlsx"
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "📊 %s salvo (%d bytes)\n", output, len(data))
	return nil
}
