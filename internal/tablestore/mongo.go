package tablestore

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Mongo implementa Store sobre coleções do MongoDB. A coluna "id" do esquema
// corresponde ao campo "_id" dos documentos.
type Mongo struct {
	client   *mongo.Client
	database *mongo.Database
}

func NewMongo(client *mongo.Client, database *mongo.Database) *Mongo {
	return &Mongo{client: client, database: database}
}

var mongoIndexName = regexp.MustCompile(`index: (\S+)`)

func (s *Mongo) Find(ctx context.Context, table string, q Query, dest any) error {
	opts := options.Find()
	if sort := mongoSort(q); sort != nil {
		opts.SetSort(sort)
	}
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}

	cursor, err := s.database.Collection(table).Find(ctx, MongoFilter(q.Filters), opts)
	if err != nil {
		return fmt.Errorf("%s: consulta: %w", table, err)
	}
	defer cursor.Close(ctx)

	if err := cursor.All(ctx, dest); err != nil {
		return fmt.Errorf("%s: decodificando: %w", table, err)
	}
	ensureSlice(dest)
	return nil
}

func (s *Mongo) FindOne(ctx context.Context, table string, q Query, dest any) error {
	opts := options.FindOne()
	if sort := mongoSort(q); sort != nil {
		opts.SetSort(sort)
	}

	err := s.database.Collection(table).FindOne(ctx, MongoFilter(q.Filters), opts).Decode(dest)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("%s: consulta: %w", table, err)
	}
	return nil
}

func (s *Mongo) Insert(ctx context.Context, table string, doc any, dest any) error {
	if _, err := s.database.Collection(table).InsertOne(ctx, doc); err != nil {
		return mongoError(table, err)
	}
	if dest == nil {
		return nil
	}

	raw, err := bson.Marshal(doc)
	if err != nil {
		return err
	}
	return bson.Unmarshal(raw, dest)
}

func (s *Mongo) Update(ctx context.Context, table string, q Query, patch map[string]any, dest any) error {
	collection := s.database.Collection(table)
	update := bson.M{"$set": mongoDocument(patch)}

	if dest != nil {
		opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
		err := collection.FindOneAndUpdate(ctx, MongoFilter(q.Filters), update, opts).Decode(dest)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		if err != nil {
			return mongoError(table, err)
		}
		return nil
	}

	result, err := collection.UpdateMany(ctx, MongoFilter(q.Filters), update)
	if err != nil {
		return mongoError(table, err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Mongo) Delete(ctx context.Context, table string, q Query) error {
	if _, err := s.database.Collection(table).DeleteMany(ctx, MongoFilter(q.Filters)); err != nil {
		return fmt.Errorf("%s: exclusão: %w", table, err)
	}
	return nil
}

func (s *Mongo) CountBy(ctx context.Context, table, column string, q Query) (map[string]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: MongoFilter(q.Filters)}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$" + mongoField(column)},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}
	return s.aggregateCounts(ctx, table, pipeline)
}

func (s *Mongo) CountElements(ctx context.Context, table, column string, q Query) (map[string]int64, error) {
	field := mongoField(column)
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: MongoFilter(q.Filters)}},
		{{Key: "$unwind", Value: "$" + field}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$" + field},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}
	return s.aggregateCounts(ctx, table, pipeline)
}

func (s *Mongo) aggregateCounts(ctx context.Context, table string, pipeline mongo.Pipeline) (map[string]int64, error) {
	cursor, err := s.database.Collection(table).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("%s: agregação: %w", table, err)
	}
	defer cursor.Close(ctx)

	var groups []struct {
		Key   any   `bson:"_id"`
		Count int64 `bson:"count"`
	}
	if err := cursor.All(ctx, &groups); err != nil {
		return nil, fmt.Errorf("%s: decodificando agregação: %w", table, err)
	}

	counts := make(map[string]int64, len(groups))
	for _, g := range groups {
		counts[groupKey(g.Key)] += g.Count
	}
	return counts, nil
}

func (s *Mongo) Increment(ctx context.Context, table, column string, q Query, delta int64) error {
	result, err := s.database.Collection(table).UpdateMany(ctx, MongoFilter(q.Filters), bson.M{
		"$inc": bson.M{mongoField(column): delta},
	})
	if err != nil {
		return fmt.Errorf("%s: incremento: %w", table, err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Mongo) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// MongoFilter traduz os filtros para um documento de consulta.
func MongoFilter(filters []Filter) bson.M {
	clauses := make([]bson.M, 0, len(filters))
	for _, f := range filters {
		switch f.Kind {
		case FilterEq:
			clauses = append(clauses, bson.M{mongoField(f.Column): f.Value})
		case FilterILikeAny:
			pattern := regexp.QuoteMeta(fmt.Sprint(f.Value))
			or := make([]bson.M, 0, len(f.Columns))
			for _, column := range f.Columns {
				or = append(or, bson.M{mongoField(column): bson.M{"$regex": pattern, "$options": "i"}})
			}
			clauses = append(clauses, bson.M{"$or": or})
		case FilterOverlaps:
			clauses = append(clauses, bson.M{mongoField(f.Column): bson.M{"$in": f.Values}})
		}
	}

	switch len(clauses) {
	case 0:
		return bson.M{}
	case 1:
		return clauses[0]
	}
	return bson.M{"$and": clauses}
}

func mongoSort(q Query) bson.D {
	if q.OrderBy == "" {
		return nil
	}
	order := 1
	if q.Desc {
		order = -1
	}
	return bson.D{{Key: mongoField(q.OrderBy), Value: order}}
}

func mongoField(column string) string {
	if column == "id" {
		return "_id"
	}
	return column
}

func mongoDocument(patch map[string]any) bson.M {
	doc := make(bson.M, len(patch))
	for k, v := range patch {
		doc[mongoField(k)] = v
	}
	return doc
}

func mongoError(table string, err error) error {
	if mongo.IsDuplicateKeyError(err) {
		constraint := ""
		if m := mongoIndexName.FindStringSubmatch(err.Error()); m != nil {
			constraint = m[1]
		}
		return &ConstraintError{Kind: UniqueViolation, Table: table, Constraint: constraint, Err: err}
	}
	return fmt.Errorf("%s: escrita: %w", table, err)
}

// ensureSlice troca um slice nil por um vazio, para que listagens vazias
// sejam serializadas como [] e não null.
func ensureSlice(dest any) {
	v := reflect.ValueOf(dest)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Slice {
		return
	}
	if v.Elem().IsNil() {
		v.Elem().Set(reflect.MakeSlice(v.Elem().Type(), 0, 0))
	}
}
