// Package graphql serves the GraphQL surface over the same services as the
// REST API.
package graphql

import (
	"context"
	"fmt"

	graphqlgo "github.com/graph-gophers/graphql-go"

	"github.com/dmitrijs2005/gophfeed/internal/logging"
	"github.com/dmitrijs2005/gophfeed/internal/server/identity"
	"github.com/dmitrijs2005/gophfeed/internal/server/models"
	"github.com/dmitrijs2005/gophfeed/internal/server/services"
)

const Schema = `
type Post {
	_id: ID!
	title: String!
	content: String!
	imageUrl: String!
	imageKey: String!
	creator: User!
	createdAt: String!
	updatedAt: String!
}

type User {
	_id: ID!
	name: String!
	email: String!
	password: String
	status: String!
	posts: [Post!]!
}

type AuthData {
	token: String!
	userId: String!
}

type PostData {
	posts: [Post!]!
	totalPosts: Int!
}

input UserInputData {
	email: String!
	name: String!
	password: String!
}

input PostInputData {
	title: String!
	content: String!
	imageUrl: String!
	imageKey: String!
}

type RootQuery {
	login(email: String!, password: String!): AuthData!
	posts(page: Int): PostData!
	post(id: ID!): Post!
	user: User!
}

type RootMutation {
	createUser(userInput: UserInputData): User!
	createPost(postInput: PostInputData): Post!
	updatePost(id: ID!, postInput: PostInputData): Post!
	deletePost(id: ID!): Boolean
	updateStatus(status: String!): User!
}

schema {
	query: RootQuery
	mutation: RootMutation
}
`

// UserService is the subset of the user service the resolvers call.
type UserService interface {
	Signup(ctx context.Context, in services.SignupInput) (*models.User, error)
	Login(ctx context.Context, email, password string) (*services.LoginResult, error)
	Get(ctx context.Context, ac identity.AuthContext) (*models.User, error)
	Lookup(ctx context.Context, userID string) (*models.User, error)
	UpdateStatus(ctx context.Context, ac identity.AuthContext, status string) (*models.User, error)
}

// PostService is the subset of the post service the resolvers call.
type PostService interface {
	Create(ctx context.Context, ac identity.AuthContext, in services.PostInput) (*models.PostView, error)
	Update(ctx context.Context, ac identity.AuthContext, postID string, in services.PostInput) (*models.PostView, error)
	Delete(ctx context.Context, ac identity.AuthContext, postID string) error
	Get(ctx context.Context, postID string) (*models.PostView, error)
	List(ctx context.Context, page int) (*models.FeedPage, error)
}

type Options struct {
	Users  UserService
	Posts  PostService
	Logger logging.Logger
	// NotFoundStatus is the extensions code for unknown posts and users;
	// 0 means 404.
	NotFoundStatus int
}

// NewSchema parses Schema against the resolvers built from opts.
func NewSchema(opts Options) (*graphqlgo.Schema, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop{}
	}
	notFound := opts.NotFoundStatus
	if notFound == 0 {
		notFound = defaultNotFoundStatus
	}

	root := &Resolver{users: opts.Users, posts: opts.Posts, logger: logger, notFound: notFound}
	schema, err := graphqlgo.ParseSchema(Schema, root,
		graphqlgo.MaxDepth(8),
		graphqlgo.Logger(panicLogger{logger: logger}),
	)
	if err != nil {
		return nil, fmt.Errorf("error parsing graphql schema: %w", err)
	}
	return schema, nil
}

// panicLogger routes resolver panics to the service logger.
type panicLogger struct {
	logger logging.Logger
}

func (l panicLogger) LogPanic(ctx context.Context, value interface{}) {
	l.logger.Error(ctx, "graphql resolver panic", "panic", fmt.Sprint(value))
}
