// Package mongostore keeps tasks as documents in a MongoDB collection.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tasks-manager-backend/internal/tasks"
)

type taskDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Title     string             `bson:"title"`
	Desc      string             `bson:"desc,omitempty"`
	Deadline  time.Time          `bson:"deadline"`
	Priority  string             `bson:"priority"`
	Completed bool               `bson:"completed"`
	CreatedAt time.Time          `bson:"createdAt"`
}

type Store struct {
	coll *mongo.Collection
}

func New(coll *mongo.Collection) *Store {
	return &Store{coll: coll}
}

// EnsureIndexes creates the deadline index List sorts on. It is idempotent.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "deadline", Value: 1}},
		Options: options.Index().SetName("deadline_1"),
	})
	if err != nil {
		return fmt.Errorf("create deadline index: %w", err)
	}
	return nil
}

func (s *Store) List(ctx context.Context) ([]tasks.Task, error) {
	opts := options.Find().SetSort(bson.D{{Key: "deadline", Value: 1}, {Key: "_id", Value: 1}})

	cur, err := s.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find tasks: %w", err)
	}

	var docs []taskDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("read tasks: %w", err)
	}

	out := make([]tasks.Task, 0, len(docs))
	for _, d := range docs {
		out = append(out, fromDocument(d))
	}
	return out, nil
}

func (s *Store) Create(ctx context.Context, t tasks.Task) (tasks.Task, error) {
	doc := toDocument(t)
	doc.ID = primitive.NewObjectID()

	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		return tasks.Task{}, fmt.Errorf("insert task: %w", err)
	}
	return fromDocument(doc), nil
}

func (s *Store) Get(ctx context.Context, id string) (tasks.Task, error) {
	oid, err := parseID(id)
	if err != nil {
		return tasks.Task{}, err
	}

	var doc taskDocument
	err = s.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return tasks.Task{}, tasks.ErrNotFound
	}
	if err != nil {
		return tasks.Task{}, fmt.Errorf("find task %s: %w", id, err)
	}
	return fromDocument(doc), nil
}

func (s *Store) Replace(ctx context.Context, t tasks.Task) (tasks.Task, error) {
	oid, err := parseID(t.ID)
	if err != nil {
		return tasks.Task{}, err
	}

	doc := toDocument(t)
	doc.ID = oid

	res, err := s.coll.ReplaceOne(ctx, bson.M{"_id": oid}, doc)
	if err != nil {
		return tasks.Task{}, fmt.Errorf("replace task %s: %w", t.ID, err)
	}
	if res.MatchedCount == 0 {
		return tasks.Task{}, tasks.ErrNotFound
	}
	return fromDocument(doc), nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}

	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete task %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return tasks.ErrNotFound
	}
	return nil
}

func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q is not an ObjectId", tasks.ErrInvalidID, id)
	}
	return oid, nil
}

// BSON dates carry millisecond precision; truncating up front keeps the
// returned record equal to what a later read yields.
func toDocument(t tasks.Task) taskDocument {
	return taskDocument{
		Title:     t.Title,
		Desc:      t.Desc,
		Deadline:  t.Deadline.UTC().Truncate(time.Millisecond),
		Priority:  string(t.Priority),
		Completed: t.Completed,
		CreatedAt: t.CreatedAt.UTC().Truncate(time.Millisecond),
	}
}

func fromDocument(d taskDocument) tasks.Task {
	return tasks.Task{
		ID:        d.ID.Hex(),
		Title:     d.Title,
		Desc:      d.Desc,
		Deadline:  d.Deadline.UTC(),
		Priority:  tasks.Priority(d.Priority),
		Completed: d.Completed,
		CreatedAt: d.CreatedAt.UTC(),
	}
}
