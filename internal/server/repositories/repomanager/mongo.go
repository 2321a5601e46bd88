package repomanager

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dmitrijs2005/gophfeed/internal/server/repositories/posts"
	"github.com/dmitrijs2005/gophfeed/internal/server/repositories/users"
)

// MongoRepositoryManager vends MongoDB-backed repositories. MongoDB writes
// here are single-document, so Atomically gives no rollback: a post inserted
// before a failed owner update stays behind as an orphan.
type MongoRepositoryManager struct {
	client *mongo.Client
	db     *mongo.Database
	repos  Repos
}

// mongoConnect is a seam for testing mongo.Connect.
var mongoConnect = func(ctx context.Context, opts ...*options.ClientOptions) (*mongo.Client, error) {
	return mongo.Connect(ctx, opts...)
}

// NewMongoRepositoryManager connects to uri, pings the server and makes sure
// the indexes the repositories rely on exist.
func NewMongoRepositoryManager(ctx context.Context, uri, database string) (*MongoRepositoryManager, error) {
	client, err := mongoConnect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect error: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping error: %w", err)
	}

	m := newMongoRepositoryManager(client, client.Database(database))
	if err := m.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return m, nil
}

func newMongoRepositoryManager(client *mongo.Client, db *mongo.Database) *MongoRepositoryManager {
	return &MongoRepositoryManager{
		client: client,
		db:     db,
		repos: Repos{
			Users: users.NewMongoRepository(db),
			Posts: posts.NewMongoRepository(db),
		},
	}
}

// EnsureIndexes creates the unique email index and the feed ordering index.
func (m *MongoRepositoryManager) EnsureIndexes(ctx context.Context) error {
	_, err := m.db.Collection(users.CollectionName).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("index error: %w", err)
	}

	_, err = m.db.Collection(posts.CollectionName).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("index error: %w", err)
	}
	return nil
}

func (m *MongoRepositoryManager) Repos() Repos {
	return m.repos
}

func (m *MongoRepositoryManager) Atomically(ctx context.Context, fn func(ctx context.Context, r Repos) error) error {
	return fn(ctx, m.repos)
}

func (m *MongoRepositoryManager) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}
