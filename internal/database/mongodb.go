package database

import (
	"context"
	"fmt"
	"time"

	"gabinete-digital/internal/config"
	"gabinete-digital/internal/tablestore"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type MongoDB struct {
	Client   *mongo.Client
	Database *mongo.Database
	log      *logrus.Logger
}

func NewMongoDB(cfg *config.Config, log *logrus.Logger) (*MongoDB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.MongoTimeout)*time.Second)
	defer cancel()

	clientOptions := options.Client().
		ApplyURI(cfg.MongoURI).
		SetMaxPoolSize(100).
		SetMinPoolSize(5).
		SetMaxConnIdleTime(30 * time.Second)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("erro ao conectar no MongoDB: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("erro no ping do MongoDB: %w", err)
	}

	log.WithField("database", cfg.DatabaseName).Info("Conectado ao MongoDB")

	return &MongoDB{
		Client:   client,
		Database: client.Database(cfg.DatabaseName),
		log:      log,
	}, nil
}

func (m *MongoDB) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := m.Client.Disconnect(ctx); err != nil {
		return fmt.Errorf("erro ao desconectar do MongoDB: %w", err)
	}

	m.log.Info("Desconectado do MongoDB")
	return nil
}

// mongoIndexes lista os índices de cada coleção. Usa bson.D para manter a
// ordem das chaves.
func mongoIndexes() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		tablestore.TableDemands: {
			{
				Keys:    bson.D{{Key: "protocolo", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{
				// Filtros do painel
				Keys: bson.D{
					{Key: "status", Value: 1},
					{Key: "tipo", Value: 1},
				},
			},
			{
				Keys: bson.D{{Key: "bairro", Value: 1}},
			},
			{
				Keys: bson.D{{Key: "created_at", Value: -1}},
			},
		},
		tablestore.TableContacts: {
			{
				Keys: bson.D{{Key: "bairro", Value: 1}},
			},
			{
				Keys: bson.D{{Key: "tags", Value: 1}},
			},
			{
				Keys: bson.D{{Key: "created_at", Value: -1}},
			},
		},
		tablestore.TableNews: {
			{
				Keys:    bson.D{{Key: "slug", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("noticias_slug_key"),
			},
			{
				Keys: bson.D{
					{Key: "status", Value: 1},
					{Key: "created_at", Value: -1},
				},
			},
			{
				Keys: bson.D{{Key: "categoria", Value: 1}},
			},
		},
		tablestore.TableMessages: {
			{
				Keys: bson.D{
					{Key: "lida", Value: 1},
					{Key: "created_at", Value: -1},
				},
			},
		},
		tablestore.TableSettings: {
			{
				Keys:    bson.D{{Key: "chave", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("configuracoes_chave_key"),
			},
		},
	}
}

// CreateIndexes cria os índices de todas as coleções
func (m *MongoDB) CreateIndexes(ctx context.Context) error {
	for collection, indexes := range mongoIndexes() {
		if _, err := m.Database.Collection(collection).Indexes().CreateMany(ctx, indexes); err != nil {
			return fmt.Errorf("erro ao criar índices de %s: %w", collection, err)
		}
	}

	m.log.Info("✅ Índices criados para todas as coleções")
	return nil
}
