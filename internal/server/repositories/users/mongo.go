package users

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/server/models"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// CollectionName is the MongoDB collection holding users.
const CollectionName = "users"

type userDocument struct {
	ID        bson.ObjectID `bson:"_id,omitempty"`
	Name      string        `bson:"name"`
	Surname   string        `bson:"surname"`
	Email     string        `bson:"email"`
	Password  string        `bson:"password"`
	Favorites []string      `bson:"favorites"`
	CreatedAt time.Time     `bson:"created_at"`
	UpdatedAt time.Time     `bson:"updated_at"`
}

func (d *userDocument) model() *models.User {
	return &models.User{
		ID: d.ID.Hex(), Name: d.Name, Surname: d.Surname, Email: d.Email, Password: d.Password,
		Favorites: d.Favorites, CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt,
	}
}

type MongoRepository struct {
	col *mongo.Collection
	now func() time.Time
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{col: db.Collection(CollectionName), now: time.Now}
}

// EnsureIndexes creates the unique email index Create relies on.
func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("users_email_unique"),
	})
	if err != nil {
		return fmt.Errorf("create users index: %w", err)
	}
	return nil
}

// objectID parses a hex id; anything else cannot exist in the collection.
func objectID(id string) (bson.ObjectID, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return bson.NilObjectID, common.ErrorNotFound
	}
	return oid, nil
}

func mapMongoError(err error) error {
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return common.ErrorNotFound
	case mongo.IsDuplicateKeyError(err):
		return common.ErrorAlreadyExists
	}
	return fmt.Errorf("db error: %w", err)
}

func (r *MongoRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	now := r.now().UTC().Truncate(time.Millisecond)
	doc := userDocument{
		ID:        bson.NewObjectID(),
		Name:      user.Name,
		Surname:   user.Surname,
		Email:     user.Email,
		Password:  user.Password,
		Favorites: user.Favorites,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if doc.Favorites == nil {
		doc.Favorites = []string{}
	}

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, mapMongoError(err)
	}
	return doc.model(), nil
}

// findFilter turns criteria into a query document.
func findFilter(c models.UserCriteria) bson.D {
	f := bson.D{}
	if c.Email != "" {
		f = append(f, bson.E{Key: "email", Value: c.Email})
	}
	return f
}

func (r *MongoRepository) Find(ctx context.Context, c models.UserCriteria) ([]*models.User, error) {
	cur, err := r.col.Find(ctx, findFilter(c), options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, mapMongoError(err)
	}

	var docs []userDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, mapMongoError(err)
	}

	res := make([]*models.User, 0, len(docs))
	for i := range docs {
		res = append(res, docs[i].model())
	}
	return res, nil
}

func (r *MongoRepository) Retrieve(ctx context.Context, id string) (*models.User, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var doc userDocument
	if err := r.col.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc); err != nil {
		return nil, mapMongoError(err)
	}
	return doc.model(), nil
}

// updateDocument builds the $set document for a partial update.
func updateDocument(upd models.UserUpdate, now time.Time) bson.D {
	set := bson.D{}
	if upd.Name != nil {
		set = append(set, bson.E{Key: "name", Value: *upd.Name})
	}
	if upd.Surname != nil {
		set = append(set, bson.E{Key: "surname", Value: *upd.Surname})
	}
	if upd.Email != nil {
		set = append(set, bson.E{Key: "email", Value: *upd.Email})
	}
	if upd.Password != nil {
		set = append(set, bson.E{Key: "password", Value: *upd.Password})
	}
	if upd.Favorites != nil {
		fav := *upd.Favorites
		if fav == nil {
			fav = []string{}
		}
		set = append(set, bson.E{Key: "favorites", Value: fav})
	}
	set = append(set, bson.E{Key: "updated_at", Value: now})
	return bson.D{{Key: "$set", Value: set}}
}

func (r *MongoRepository) Update(ctx context.Context, id string, upd models.UserUpdate) (*models.User, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var doc userDocument
	err = r.col.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: oid}},
		updateDocument(upd, r.now().UTC().Truncate(time.Millisecond)),
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return nil, mapMongoError(err)
	}
	return doc.model(), nil
}

// togglePipeline is an update pipeline that removes favorite from the
// favorites array when present and appends it otherwise.
func togglePipeline(favorite string, now time.Time) mongo.Pipeline {
	favorites := bson.D{{Key: "$ifNull", Value: bson.A{"$favorites", bson.A{}}}}
	return mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "favorites", Value: bson.D{{Key: "$cond", Value: bson.A{
				bson.D{{Key: "$in", Value: bson.A{favorite, favorites}}},
				bson.D{{Key: "$filter", Value: bson.D{
					{Key: "input", Value: favorites},
					{Key: "cond", Value: bson.D{{Key: "$ne", Value: bson.A{"$$this", favorite}}}},
				}}},
				bson.D{{Key: "$concatArrays", Value: bson.A{favorites, bson.A{favorite}}}},
			}}}},
			{Key: "updated_at", Value: now},
		}}},
	}
}

func (r *MongoRepository) ToggleFavorite(ctx context.Context, id, favorite string) (bool, error) {
	oid, err := objectID(id)
	if err != nil {
		return false, err
	}

	var doc userDocument
	err = r.col.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: oid}},
		togglePipeline(favorite, r.now().UTC().Truncate(time.Millisecond)),
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return false, mapMongoError(err)
	}
	return slices.Contains(doc.Favorites, favorite), nil
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
