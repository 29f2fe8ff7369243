package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tonotes/model"
	"tonotes/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// NoteCollation compares strings ignoring case and diacritics. The duplicate
// query and the notes index must use the same collation for the index to
// serve the query.
var NoteCollation = &options.Collation{Locale: "en", Strength: 1}

type NotesRepo struct {
	MongoCollection *mongo.Collection
}

func GetNotesRepo(client *mongo.Client, dbName, collectionName string) *NotesRepo {
	return &NotesRepo{
		MongoCollection: client.Database(dbName).Collection(collectionName),
	}
}

// FindAll returns every note in natural order.
func (r *NotesRepo) FindAll(ctx context.Context) ([]*model.Note, error) {
	timer := utils.TrackDBOperation("find", r.MongoCollection.Name())
	defer timer.ObserveDuration()

	cursor, err := r.MongoCollection.Find(ctx, bson.M{})
	if err != nil {
		utils.TrackError("database", "notes_find_failed")
		return nil, fmt.Errorf("find notes: %w", err)
	}
	defer cursor.Close(ctx)

	notes := make([]*model.Note, 0)
	if err = cursor.All(ctx, &notes); err != nil {
		return nil, fmt.Errorf("decode notes: %w", err)
	}
	return notes, nil
}

func (r *NotesRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Note, error) {
	timer := utils.TrackDBOperation("find_one", r.MongoCollection.Name())
	defer timer.ObserveDuration()

	var note model.Note
	err := r.MongoCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&note)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		utils.TrackError("database", "note_lookup_failed")
		return nil, fmt.Errorf("find note %s: %w", id.Hex(), err)
	}
	return &note, nil
}

// FindDuplicate returns a note with the same owner, title and text under
// NoteCollation, or nil when there is none.
func (r *NotesRepo) FindDuplicate(ctx context.Context, user primitive.ObjectID, title, text string) (*model.Note, error) {
	timer := utils.TrackDBOperation("find_one", r.MongoCollection.Name())
	defer timer.ObserveDuration()

	filter := bson.M{
		"user":  user,
		"title": title,
		"text":  text,
	}
	opts := options.FindOne().SetCollation(NoteCollation)

	var note model.Note
	err := r.MongoCollection.FindOne(ctx, filter, opts).Decode(&note)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		utils.TrackError("database", "duplicate_lookup_failed")
		return nil, fmt.Errorf("find duplicate note: %w", err)
	}
	return &note, nil
}

// Insert stores a new note with completed unset and fresh timestamps.
func (r *NotesRepo) Insert(ctx context.Context, note *model.Note) (*model.Note, error) {
	timer := utils.TrackDBOperation("insert", r.MongoCollection.Name())
	defer timer.ObserveDuration()

	now := time.Now().UTC().Truncate(time.Millisecond)
	doc := *note
	if doc.ID.IsZero() {
		doc.ID = primitive.NewObjectID()
	}
	doc.Completed = false
	doc.CreatedAt = now
	doc.UpdatedAt = now

	if _, err := r.MongoCollection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicate
		}
		utils.TrackError("database", "note_insert_failed")
		return nil, fmt.Errorf("insert note: %w", err)
	}
	return &doc, nil
}

// Save writes the mutable fields of an existing note.
func (r *NotesRepo) Save(ctx context.Context, note *model.Note) (*model.Note, error) {
	timer := utils.TrackDBOperation("update", r.MongoCollection.Name())
	defer timer.ObserveDuration()

	doc := *note
	doc.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)

	update := bson.M{
		"$set": bson.M{
			"user":      doc.User,
			"title":     doc.Title,
			"text":      doc.Text,
			"completed": doc.Completed,
			"updatedAt": doc.UpdatedAt,
		},
	}

	result, err := r.MongoCollection.UpdateOne(ctx, bson.M{"_id": doc.ID}, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicate
		}
		utils.TrackError("database", "note_update_failed")
		return nil, fmt.Errorf("update note %s: %w", doc.ID.Hex(), err)
	}

	if result.MatchedCount == 0 {
		return nil, ErrNotFound
	}
	return &doc, nil
}

func (r *NotesRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	timer := utils.TrackDBOperation("delete", r.MongoCollection.Name())
	defer timer.ObserveDuration()

	result, err := r.MongoCollection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		utils.TrackError("database", "note_delete_failed")
		return fmt.Errorf("delete note %s: %w", id.Hex(), err)
	}

	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *NotesRepo) Ping(ctx context.Context) error {
	return r.MongoCollection.Database().Client().Ping(ctx, readpref.Primary())
}
