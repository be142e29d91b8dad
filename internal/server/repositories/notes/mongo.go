package notes

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/server/models"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const CollectionName = "notes"

type noteDocument struct {
	ID       bson.ObjectID `bson:"_id,omitempty"`
	AuthorID string        `bson:"author"`
	ParentID string        `bson:"parent,omitempty"`
	Text     string        `bson:"text"`
	Private  bool          `bson:"private"`
	Date     time.Time     `bson:"date"`
}

func (d *noteDocument) model() *models.Note {
	return &models.Note{
		ID: d.ID.Hex(), AuthorID: d.AuthorID, ParentID: d.ParentID,
		Text: d.Text, Private: d.Private, Date: d.Date,
	}
}

type MongoRepository struct {
	col *mongo.Collection
	now func() time.Time
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{col: db.Collection(CollectionName), now: time.Now}
}

// EnsureIndexes indexes notes by author and date.
func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "author", Value: 1}, {Key: "date", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("create notes index: %w", err)
	}
	return nil
}

func objectID(id string) (bson.ObjectID, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return bson.NilObjectID, common.ErrorNotFound
	}
	return oid, nil
}

func mapMongoError(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return common.ErrorNotFound
	}
	return fmt.Errorf("db error: %w", err)
}

func findFilter(c models.NoteCriteria) bson.D {
	f := bson.D{}
	if c.AuthorID != "" {
		f = append(f, bson.E{Key: "author", Value: c.AuthorID})
	}
	if c.Private != nil {
		f = append(f, bson.E{Key: "private", Value: *c.Private})
	}
	return f
}

func updateDocument(upd models.NoteUpdate) bson.D {
	set := bson.D{}
	if upd.Text != nil {
		set = append(set, bson.E{Key: "text", Value: *upd.Text})
	}
	if upd.Private != nil {
		set = append(set, bson.E{Key: "private", Value: *upd.Private})
	}
	return bson.D{{Key: "$set", Value: set}}
}

func (r *MongoRepository) Create(ctx context.Context, note *models.Note) (*models.Note, error) {
	date := note.Date
	if date.IsZero() {
		date = r.now().UTC()
	}
	doc := noteDocument{
		ID:       bson.NewObjectID(),
		AuthorID: note.AuthorID,
		ParentID: note.ParentID,
		Text:     note.Text,
		Private:  note.Private,
		Date:     date.Truncate(time.Millisecond),
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, mapMongoError(err)
	}
	return doc.model(), nil
}

func (r *MongoRepository) Find(ctx context.Context, c models.NoteCriteria) ([]*models.Note, error) {
	cur, err := r.col.Find(ctx, findFilter(c), options.Find().SetSort(bson.D{{Key: "date", Value: -1}}))
	if err != nil {
		return nil, mapMongoError(err)
	}

	var docs []noteDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, mapMongoError(err)
	}

	res := make([]*models.Note, 0, len(docs))
	for i := range docs {
		res = append(res, docs[i].model())
	}
	return res, nil
}

func (r *MongoRepository) Retrieve(ctx context.Context, id string) (*models.Note, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var doc noteDocument
	if err := r.col.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc); err != nil {
		return nil, mapMongoError(err)
	}
	return doc.model(), nil
}

func (r *MongoRepository) Update(ctx context.Context, id string, upd models.NoteUpdate) (*models.Note, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	if upd.Text == nil && upd.Private == nil {
		return r.Retrieve(ctx, id)
	}

	var doc noteDocument
	err = r.col.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: oid}}, updateDocument(upd),
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&doc)
	if err != nil {
		return nil, mapMongoError(err)
	}
	return doc.model(), nil
}

func (r *MongoRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := r.col.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return mapMongoError(err)
	}
	if res.DeletedCount == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *MongoRepository) DeleteByAuthor(ctx context.Context, authorID string) (int64, error) {
	res, err := r.col.DeleteMany(ctx, bson.D{{Key: "author", Value: authorID}})
	if err != nil {
		return 0, mapMongoError(err)
	}
	return res.DeletedCount, nil
}
