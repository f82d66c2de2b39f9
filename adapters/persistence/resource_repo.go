package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/khoahotran/portfolio-api/internal/domain/resource"
	"github.com/khoahotran/portfolio-api/pkg/apperror"
	"github.com/khoahotran/portfolio-api/pkg/logger"
)

// documentValidationFailure is the server code for a write rejected by a
// collection's $jsonSchema validator.
const documentValidationFailure = 121

type mongoStore struct {
	db  *mongo.Database
	log logger.Logger
}

func (s *mongoStore) coll(kind resource.Kind) *mongo.Collection {
	return s.db.Collection(kind.Collection)
}

func (s *mongoStore) List(ctx context.Context, kind resource.Kind) ([]bson.M, error) {
	opts := options.Find().SetSort(bson.D{{Key: kind.SortKey, Value: -1}})
	cur, err := s.coll(kind).Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Sprintf("failed to query %s", kind.Collection), err)
	}
	var docs []bson.M
	if err := cur.All(ctx, &docs); err != nil {
		return nil, apperror.NewInternal(fmt.Sprintf("failed to read %s cursor", kind.Collection), err)
	}
	out := make([]bson.M, 0, len(docs))
	for _, doc := range docs {
		out = append(out, normalizeDocument(doc))
	}
	return out, nil
}

func (s *mongoStore) Get(ctx context.Context, kind resource.Kind, id string) (bson.M, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperror.NewMalformedID(kind.LowerName())
	}
	return s.decodeOne(kind, s.coll(kind).FindOne(ctx, bson.M{"_id": oid}))
}

func (s *mongoStore) First(ctx context.Context, kind resource.Kind) (bson.M, error) {
	return s.decodeOne(kind, s.coll(kind).FindOne(ctx, bson.D{}))
}

func (s *mongoStore) Insert(ctx context.Context, kind resource.Kind, doc bson.M) (bson.M, error) {
	now := time.Now().UTC()
	doc["createdAt"] = now
	doc["updatedAt"] = now

	res, err := s.coll(kind).InsertOne(ctx, doc)
	if err != nil {
		return nil, s.mapWriteError(kind, err)
	}
	doc["_id"] = res.InsertedID
	return normalizeDocument(doc), nil
}

func (s *mongoStore) Update(ctx context.Context, kind resource.Kind, id string, doc bson.M) (bson.M, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperror.NewMalformedID(kind.LowerName())
	}
	doc["updatedAt"] = time.Now().UTC()

	res := s.coll(kind).FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": doc},
		options.FindOneAndUpdate().SetReturnDocument(options.After))
	return s.decodeOne(kind, res)
}

func (s *mongoStore) Delete(ctx context.Context, kind resource.Kind, id string) (bson.M, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperror.NewMalformedID(kind.LowerName())
	}
	return s.decodeOne(kind, s.coll(kind).FindOneAndDelete(ctx, bson.M{"_id": oid}))
}

func (s *mongoStore) Upsert(ctx context.Context, kind resource.Kind, doc bson.M) (bson.M, error) {
	now := time.Now().UTC()
	doc["updatedAt"] = now

	res := s.coll(kind).FindOneAndUpdate(ctx,
		bson.D{},
		bson.M{"$set": doc, "$setOnInsert": bson.M{"createdAt": now}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After))
	return s.decodeOne(kind, res)
}

func (s *mongoStore) decodeOne(kind resource.Kind, res *mongo.SingleResult) (bson.M, error) {
	var doc bson.M
	if err := res.Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperror.NewNotFound(kind.Name)
		}
		return nil, s.mapWriteError(kind, err)
	}
	return normalizeDocument(doc), nil
}

func (s *mongoStore) mapWriteError(kind resource.Kind, err error) error {
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == documentValidationFailure {
				return apperror.NewInvalidInput("Validation failed", e.Message)
			}
		}
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == documentValidationFailure {
		return apperror.NewInvalidInput("Validation failed", ce.Message)
	}
	return apperror.NewInternal(fmt.Sprintf("storage operation on %s failed", kind.Collection), err)
}

// ensureCollections creates each collection with a $jsonSchema validator
// derived from its kind descriptor. Existing collections are left alone.
func (s *mongoStore) ensureCollections(ctx context.Context) error {
	for _, kind := range resource.Kinds() {
		opts := options.CreateCollection().SetValidator(bson.M{"$jsonSchema": jsonSchema(kind)})
		if err := s.db.CreateCollection(ctx, kind.Collection, opts); err != nil {
			var ce mongo.CommandError
			if errors.As(err, &ce) && ce.Code == 48 { // NamespaceExists
				continue
			}
			return err
		}
	}
	return nil
}

func jsonSchema(kind resource.Kind) bson.M {
	props := bson.M{
		"createdAt": bson.M{"bsonType": "date"},
		"updatedAt": bson.M{"bsonType": "date"},
	}
	var required []string
	for _, f := range kind.Fields {
		props[f.Name] = fieldSchema(f)
		if f.Required {
			required = append(required, f.Name)
		}
	}
	return bson.M{"bsonType": "object", "required": required, "properties": props}
}

func fieldSchema(f resource.Field) bson.M {
	switch f.Type {
	case resource.TypeBool:
		return bson.M{"bsonType": "bool"}
	case resource.TypeStringList:
		return bson.M{"bsonType": "array", "items": bson.M{"bsonType": "string"}}
	case resource.TypeDate:
		return bson.M{"bsonType": "date"}
	case resource.TypeObject:
		return bson.M{"bsonType": "object"}
	}
	schema := bson.M{"bsonType": "string"}
	if f.Required {
		schema["minLength"] = 1
	}
	return schema
}

// normalizeDocument rewrites driver types into JSON-friendly ones: BSON
// datetimes become time.Time, ordered subdocuments become maps. ObjectIDs
// already marshal as hex strings.
func normalizeDocument(doc bson.M) bson.M {
	out := bson.M{}
	for k, v := range doc {
		out[k] = normalizeValue(v)
	}
	return out
}

func normalizeValue(v any) any {
	switch t := v.(type) {
	case primitive.DateTime:
		return t.Time().UTC()
	case time.Time:
		return t.UTC()
	case bson.D:
		m := bson.M{}
		for _, e := range t {
			m[e.Key] = normalizeValue(e.Value)
		}
		return m
	case bson.M:
		return normalizeDocument(t)
	case bson.A:
		arr := make([]any, len(t))
		for i, e := range t {
			arr[i] = normalizeValue(e)
		}
		return arr
	case []any:
		arr := make([]any, len(t))
		for i, e := range t {
			arr[i] = normalizeValue(e)
		}
		return arr
	}
	return v
}
