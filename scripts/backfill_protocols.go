package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"gabinete-digital/internal/tablestore"
	"gabinete-digital/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Atribui protocolo às demandas gravadas sem um (importações antigas)
func main() {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}
	dbName := os.Getenv("DATABASE_NAME")
	if dbName == "" {
		dbName = "gabinete_digital"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		log.Fatal(err)
	}
	defer client.Disconnect(ctx)

	collection := client.Database(dbName).Collection(tablestore.TableDemands)

	cursor, err := collection.Find(ctx, bson.M{
		"$or": []bson.M{
			{"protocolo": bson.M{"$exists": false}},
			{"protocolo": ""},
			{"protocolo": nil},
		},
	}, options.Find().SetProjection(bson.M{"_id": 1, "created_at": 1}))
	if err != nil {
		log.Fatal(err)
	}
	defer cursor.Close(ctx)

	var updated int64
	for cursor.Next(ctx) {
		var doc struct {
			ID        any       `bson:"_id"`
			CreatedAt time.Time `bson:"created_at"`
		}
		if err := cursor.Decode(&doc); err != nil {
			log.Fatal(err)
		}

		created := doc.CreatedAt
		if created.IsZero() {
			created = time.Now()
		}

		result, err := collection.UpdateByID(ctx, doc.ID, bson.M{
			"$set": bson.M{"protocolo": utils.NewProtocol(created)},
		})
		if err != nil {
			log.Fatal(err)
		}
		updated += result.ModifiedCount
	}
	if err := cursor.Err(); err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Protocolo atribuído a %d demandas\n", updated)
}
