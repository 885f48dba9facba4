package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"gabinete-digital/internal/config"

	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

// schema espelha as tabelas do projeto hospedado. Idempotente.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS demandas (
		id               text PRIMARY KEY,
		created_at       timestamptz NOT NULL DEFAULT now(),
		updated_at       timestamptz NOT NULL DEFAULT now(),
		protocolo        text NOT NULL UNIQUE,
		titulo           text NOT NULL,
		descricao        text NOT NULL,
		tipo             text NOT NULL,
		status           text NOT NULL DEFAULT 'nova',
		cidadao_nome     text NOT NULL,
		cidadao_telefone text NOT NULL,
		cidadao_email    text,
		bairro           text NOT NULL,
		endereco         text,
		latitude         double precision,
		longitude        double precision,
		observacoes      text,
		resposta         text,
		resolvida_em     timestamptz
	)`,
	`CREATE INDEX IF NOT EXISTS demandas_status_tipo_idx ON demandas (status, tipo)`,
	`CREATE INDEX IF NOT EXISTS demandas_created_at_idx ON demandas (created_at DESC)`,

	`CREATE TABLE IF NOT EXISTS contatos (
		id          text PRIMARY KEY,
		created_at  timestamptz NOT NULL DEFAULT now(),
		updated_at  timestamptz NOT NULL DEFAULT now(),
		nome        text NOT NULL,
		telefone    text NOT NULL,
		email       text,
		bairro      text NOT NULL,
		tags        text[] NOT NULL DEFAULT '{}',
		is_apoiador boolean NOT NULL DEFAULT false,
		notas       text
	)`,
	`CREATE INDEX IF NOT EXISTS contatos_tags_idx ON contatos USING gin (tags)`,

	`CREATE TABLE IF NOT EXISTS noticias (
		id            text PRIMARY KEY,
		created_at    timestamptz NOT NULL DEFAULT now(),
		updated_at    timestamptz NOT NULL DEFAULT now(),
		titulo        text NOT NULL,
		slug          text NOT NULL,
		resumo        text NOT NULL,
		conteudo      text NOT NULL,
		imagem_url    text,
		categoria     text NOT NULL DEFAULT 'Geral',
		status        text NOT NULL DEFAULT 'rascunho',
		autor         text NOT NULL DEFAULT 'Assessoria',
		publicada_em  timestamptz,
		visualizacoes bigint NOT NULL DEFAULT 0,
		CONSTRAINT noticias_slug_key UNIQUE (slug)
	)`,
	`CREATE INDEX IF NOT EXISTS noticias_status_idx ON noticias (status, created_at DESC)`,

	`CREATE TABLE IF NOT EXISTS mensagens_contato (
		id         text PRIMARY KEY,
		created_at timestamptz NOT NULL DEFAULT now(),
		nome       text NOT NULL,
		email      text NOT NULL,
		telefone   text,
		assunto    text NOT NULL,
		mensagem   text NOT NULL,
		lida       boolean NOT NULL DEFAULT false,
		respondida boolean NOT NULL DEFAULT false
	)`,

	`CREATE TABLE IF NOT EXISTS configuracoes (
		id         text PRIMARY KEY,
		created_at timestamptz NOT NULL DEFAULT now(),
		updated_at timestamptz NOT NULL DEFAULT now(),
		chave      text NOT NULL,
		valor      jsonb,
		CONSTRAINT configuracoes_chave_key UNIQUE (chave)
	)`,
}

func NewPostgres(cfg *config.Config, log *logrus.Logger) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("erro ao abrir conexão com o Postgres: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("erro no ping do Postgres: %w", err)
	}

	log.Info("Conectado ao Postgres")
	return db, nil
}

// Migrate aplica o esquema em uma transação
func Migrate(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range schema {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("erro ao aplicar esquema: %w", err)
		}
	}
	return tx.Commit()
}
