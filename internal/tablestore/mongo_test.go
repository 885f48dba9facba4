package tablestore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
)

func TestMongoFilter(t *testing.T) {
	assert.Equal(t, bson.M{}, MongoFilter(nil))

	assert.Equal(t, bson.M{"_id": "abc"}, MongoFilter(ByID("abc").Filters))

	got := MongoFilter([]Filter{
		Eq("status", "nova"),
		ILikeAny("a.b", "titulo", "protocolo"),
		Overlaps("tags", "Saúde"),
	})

	assert.Equal(t, bson.M{"$and": []bson.M{
		{"status": "nova"},
		{"$or": []bson.M{
			{"titulo": bson.M{"$regex": `a\.b`, "$options": "i"}},
			{"protocolo": bson.M{"$regex": `a\.b`, "$options": "i"}},
		}},
		{"tags": bson.M{"$in": []string{"Saúde"}}},
	}}, got)
}

func TestMongoSort(t *testing.T) {
	assert.Nil(t, mongoSort(Query{}))
	assert.Equal(t, bson.D{{Key: "created_at", Value: -1}}, mongoSort(NewQuery()))
}
