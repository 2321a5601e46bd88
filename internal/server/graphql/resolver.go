package graphql

import (
	"context"
	"sync"
	"time"

	graphqlgo "github.com/graph-gophers/graphql-go"

	"github.com/dmitrijs2005/gophfeed/internal/common"
	"github.com/dmitrijs2005/gophfeed/internal/logging"
	"github.com/dmitrijs2005/gophfeed/internal/server/identity"
	"github.com/dmitrijs2005/gophfeed/internal/server/models"
	"github.com/dmitrijs2005/gophfeed/internal/server/services"
)

const (
	postNotFoundMessage = "No post found!"
	userNotFoundMessage = "User not found."
)

// Resolver is the root of both RootQuery and RootMutation. The caller's
// identity comes from the request context.
type Resolver struct {
	users    UserService
	posts    PostService
	logger   logging.Logger
	notFound int
}

type userInputData struct {
	Email    string
	Name     string
	Password string
}

type postInputData struct {
	Title    string
	Content  string
	ImageURL string
	ImageKey string
}

func (in *postInputData) toService() services.PostInput {
	if in == nil {
		return services.PostInput{}
	}
	return services.PostInput{
		Title:   in.Title,
		Content: in.Content,
		Image:   models.ImageRef{URL: in.ImageURL, Key: in.ImageKey},
	}
}

func (r *Resolver) CreateUser(ctx context.Context, args struct{ UserInput *userInputData }) (*userResolver, error) {
	in := services.SignupInput{}
	if args.UserInput != nil {
		in = services.SignupInput{Email: args.UserInput.Email, Password: args.UserInput.Password, Name: args.UserInput.Name}
	}
	user, err := r.users.Signup(ctx, in)
	if err != nil {
		return nil, r.toError(ctx, err, userNotFoundMessage)
	}
	return r.userFrom(user), nil
}

func (r *Resolver) Login(ctx context.Context, args struct {
	Email    string
	Password string
}) (*authDataResolver, error) {
	res, err := r.users.Login(ctx, args.Email, args.Password)
	if err != nil {
		return nil, r.toError(ctx, err, userNotFoundMessage)
	}
	return &authDataResolver{res: res}, nil
}

func (r *Resolver) Posts(ctx context.Context, args struct{ Page *int32 }) (*postDataResolver, error) {
	page := 1
	if args.Page != nil && *args.Page > 1 {
		page = int(*args.Page)
	}
	if !identity.FromContext(ctx).IsAuthenticated() {
		return nil, r.toError(ctx, common.ErrUnauthenticated, "")
	}
	feed, err := r.posts.List(ctx, page)
	if err != nil {
		return nil, r.toError(ctx, err, postNotFoundMessage)
	}
	out := &postDataResolver{total: int32(feed.TotalItems)}
	for i := range feed.Posts {
		out.posts = append(out.posts, r.postFrom(&feed.Posts[i]))
	}
	return out, nil
}

func (r *Resolver) Post(ctx context.Context, args struct{ ID graphqlgo.ID }) (*postResolver, error) {
	if !identity.FromContext(ctx).IsAuthenticated() {
		return nil, r.toError(ctx, common.ErrUnauthenticated, "")
	}
	post, err := r.posts.Get(ctx, string(args.ID))
	if err != nil {
		return nil, r.toError(ctx, err, postNotFoundMessage)
	}
	return r.postFrom(post), nil
}

func (r *Resolver) User(ctx context.Context) (*userResolver, error) {
	user, err := r.users.Get(ctx, identity.FromContext(ctx))
	if err != nil {
		return nil, r.toError(ctx, err, userNotFoundMessage)
	}
	return r.userFrom(user), nil
}

func (r *Resolver) CreatePost(ctx context.Context, args struct{ PostInput *postInputData }) (*postResolver, error) {
	post, err := r.posts.Create(ctx, identity.FromContext(ctx), args.PostInput.toService())
	if err != nil {
		return nil, r.toError(ctx, err, userNotFoundMessage)
	}
	return r.postFrom(post), nil
}

func (r *Resolver) UpdatePost(ctx context.Context, args struct {
	ID        graphqlgo.ID
	PostInput *postInputData
}) (*postResolver, error) {
	post, err := r.posts.Update(ctx, identity.FromContext(ctx), string(args.ID), args.PostInput.toService())
	if err != nil {
		return nil, r.toError(ctx, err, postNotFoundMessage)
	}
	return r.postFrom(post), nil
}

func (r *Resolver) DeletePost(ctx context.Context, args struct{ ID graphqlgo.ID }) (*bool, error) {
	if err := r.posts.Delete(ctx, identity.FromContext(ctx), string(args.ID)); err != nil {
		return nil, r.toError(ctx, err, postNotFoundMessage)
	}
	ok := true
	return &ok, nil
}

func (r *Resolver) UpdateStatus(ctx context.Context, args struct{ Status string }) (*userResolver, error) {
	user, err := r.users.UpdateStatus(ctx, identity.FromContext(ctx), args.Status)
	if err != nil {
		return nil, r.toError(ctx, err, userNotFoundMessage)
	}
	return r.userFrom(user), nil
}

func (r *Resolver) postFrom(p *models.PostView) *postResolver {
	return &postResolver{root: r, post: p}
}

func (r *Resolver) userFrom(u *models.User) *userResolver {
	ur := &userResolver{root: r, id: u.ID}
	ur.once.Do(func() { ur.user = u })
	return ur
}

type authDataResolver struct {
	res *services.LoginResult
}

func (a *authDataResolver) Token() string  { return a.res.Token }
func (a *authDataResolver) UserID() string { return a.res.UserID }

type postDataResolver struct {
	posts []*postResolver
	total int32
}

func (d *postDataResolver) Posts() []*postResolver { return d.posts }
func (d *postDataResolver) TotalPosts() int32      { return d.total }

type postResolver struct {
	root *Resolver
	post *models.PostView
}

func (p *postResolver) ID() graphqlgo.ID  { return graphqlgo.ID(p.post.ID) }
func (p *postResolver) Title() string     { return p.post.Title }
func (p *postResolver) Content() string   { return p.post.Content }
func (p *postResolver) ImageURL() string  { return p.post.ImageURL }
func (p *postResolver) ImageKey() string  { return p.post.ImageKey }
func (p *postResolver) CreatedAt() string { return p.post.CreatedAt.UTC().Format(time.RFC3339) }
func (p *postResolver) UpdatedAt() string { return p.post.UpdatedAt.UTC().Format(time.RFC3339) }

// Creator resolves lazily: id and name come with the post, the rest of the
// user is loaded only when asked for.
func (p *postResolver) Creator() *userResolver {
	return &userResolver{root: p.root, id: p.post.Creator.ID, name: p.post.Creator.Name}
}

type userResolver struct {
	root *Resolver
	id   string
	name string

	once sync.Once
	user *models.User
	err  error
}

func (u *userResolver) load(ctx context.Context) (*models.User, error) {
	u.once.Do(func() {
		u.user, u.err = u.root.users.Lookup(ctx, u.id)
		if u.err != nil {
			u.err = u.root.toError(ctx, u.err, userNotFoundMessage)
		}
	})
	return u.user, u.err
}

func (u *userResolver) ID() graphqlgo.ID { return graphqlgo.ID(u.id) }

func (u *userResolver) Name(ctx context.Context) (string, error) {
	if u.name != "" {
		return u.name, nil
	}
	user, err := u.load(ctx)
	if err != nil {
		return "", err
	}
	return user.Name, nil
}

func (u *userResolver) Email(ctx context.Context) (string, error) {
	user, err := u.load(ctx)
	if err != nil {
		return "", err
	}
	return user.Email, nil
}

// Password is never exposed.
func (u *userResolver) Password() *string { return nil }

func (u *userResolver) Status(ctx context.Context) (string, error) {
	user, err := u.load(ctx)
	if err != nil {
		return "", err
	}
	return user.Status, nil
}

// Posts resolves the user's post set. Ids that no longer resolve are
// skipped.
func (u *userResolver) Posts(ctx context.Context) ([]*postResolver, error) {
	user, err := u.load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*postResolver, 0, len(user.Posts))
	for _, id := range user.Posts {
		post, err := u.root.posts.Get(ctx, id)
		if err != nil {
			u.root.logger.Warn(ctx, "user post not resolved", "user_id", user.ID, "post_id", id, "error", err)
			continue
		}
		out = append(out, u.root.postFrom(post))
	}
	return out, nil
}
