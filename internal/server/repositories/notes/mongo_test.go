package notes

import (
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

func TestMongo_FindFilter(t *testing.T) {
	private := false
	assert.Equal(t, bson.D{}, findFilter(models.NoteCriteria{}))
	assert.Equal(t,
		bson.D{{Key: "author", Value: "u-1"}, {Key: "private", Value: false}},
		findFilter(models.NoteCriteria{AuthorID: "u-1", Private: &private}))
}

func TestMongo_UpdateDocument(t *testing.T) {
	text := "edited"
	assert.Equal(t,
		bson.D{{Key: "$set", Value: bson.D{{Key: "text", Value: "edited"}}}},
		updateDocument(models.NoteUpdate{Text: &text}))
}

func TestMongo_ErrorsAndIDs(t *testing.T) {
	_, err := objectID("zzz")
	require.ErrorIs(t, err, common.ErrorNotFound)

	assert.ErrorIs(t, mapMongoError(mongo.ErrNoDocuments), common.ErrorNotFound)
	assert.EqualError(t, mapMongoError(errors.New("timeout")), "db error: timeout")
}

func TestMongo_DocumentModel(t *testing.T) {
	oid := bson.NewObjectID()
	d := noteDocument{ID: oid, AuthorID: "u-1", Text: "hi", Private: true, Date: time.Unix(0, 0).UTC()}
	n := d.model()
	assert.Equal(t, oid.Hex(), n.ID)
	assert.Equal(t, "u-1", n.AuthorID)
	assert.True(t, n.Private)
}
