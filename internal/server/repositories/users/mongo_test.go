package users

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/dmitrijs2005/gophfeed/internal/common"
	"github.com/dmitrijs2005/gophfeed/internal/server/models"
)

func TestMongoRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()
	ns := "test.users"

	mt.Run("create", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		u, err := repo.Create(ctx, &models.User{Email: "a@x.com", Name: "Ann", Password: "h", Status: "new"})
		require.NoError(mt, err)
		assert.Len(mt, u.ID, 24)
		assert.Equal(mt, []string{}, u.Posts)
	})

	mt.Run("create duplicate email", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index: 0, Code: 11000, Message: "duplicate key error",
		}))

		_, err := repo.Create(ctx, &models.User{Email: "a@x.com"})
		assert.ErrorIs(mt, err, common.ErrorAlreadyExists)
	})

	mt.Run("get by email", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.DB)
		id := primitive.NewObjectID()
		post := primitive.NewObjectID()
		created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id},
			{Key: "email", Value: "a@x.com"},
			{Key: "name", Value: "Ann"},
			{Key: "password", Value: "h"},
			{Key: "status", Value: "busy"},
			{Key: "posts", Value: bson.A{post}},
			{Key: "createdAt", Value: created},
			{Key: "updatedAt", Value: created},
		}))

		u, err := repo.GetByEmail(ctx, "a@x.com")
		require.NoError(mt, err)
		assert.Equal(mt, id.Hex(), u.ID)
		assert.Equal(mt, []string{post.Hex()}, u.Posts)
		assert.Equal(mt, "busy", u.Status)
		assert.True(mt, created.Equal(u.CreatedAt))
	})

	mt.Run("get missing", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		_, err := repo.GetByID(ctx, primitive.NewObjectID().Hex())
		assert.ErrorIs(mt, err, common.ErrorNotFound)
	})

	mt.Run("malformed id", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.DB)
		_, err := repo.GetByID(ctx, "not-an-object-id")
		assert.ErrorIs(mt, err, common.ErrorNotFound)
		assert.ErrorIs(mt, repo.UpdateStatus(ctx, "nope", "x"), common.ErrorNotFound)
	})

	mt.Run("update status", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.DB)
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "n", Value: 1}, {Key: "nModified", Value: 1}})
		assert.NoError(mt, repo.UpdateStatus(ctx, primitive.NewObjectID().Hex(), "busy"))

		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "n", Value: 0}, {Key: "nModified", Value: 0}})
		assert.ErrorIs(mt, repo.UpdateStatus(ctx, primitive.NewObjectID().Hex(), "busy"), common.ErrorNotFound)
	})

	mt.Run("add and remove post", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.DB)
		uid := primitive.NewObjectID().Hex()
		pid := primitive.NewObjectID().Hex()

		mt.AddMockResponses(
			bson.D{{Key: "ok", Value: 1}, {Key: "n", Value: 1}, {Key: "nModified", Value: 1}},
			bson.D{{Key: "ok", Value: 1}, {Key: "n", Value: 1}, {Key: "nModified", Value: 1}},
		)
		assert.NoError(mt, repo.AddPost(ctx, uid, pid))
		assert.NoError(mt, repo.RemovePost(ctx, uid, pid))

		assert.Error(mt, repo.AddPost(ctx, uid, "bad"))
	})
}
