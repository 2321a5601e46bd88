package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/dmitrijs2005/gophfeed/internal/common"
	"github.com/dmitrijs2005/gophfeed/internal/logging"
	"github.com/dmitrijs2005/gophfeed/internal/server/access"
	"github.com/dmitrijs2005/gophfeed/internal/server/identity"
	"github.com/dmitrijs2005/gophfeed/internal/server/models"
	"github.com/dmitrijs2005/gophfeed/internal/server/repositories/repomanager"
)

type SignupInput struct {
	Email    string
	Password string
	Name     string
}

// LoginResult is what a successful login hands back to the client.
type LoginResult struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
}

// UserService handles signup, login and the user's status line.
type UserService struct {
	repos  repomanager.RepositoryManager
	creds  Credentials
	logger logging.Logger
}

func NewUserService(repos repomanager.RepositoryManager, creds Credentials, logger logging.Logger) *UserService {
	return &UserService{repos: repos, creds: creds, logger: logger}
}

// Signup validates every field, rejects a taken email and stores the user
// with a bcrypt credential and the default status.
func (s *UserService) Signup(ctx context.Context, in SignupInput) (*models.User, error) {
	email := common.NormalizeEmail(in.Email)
	name := strings.TrimSpace(in.Name)

	verr := common.NewValidationError(ValidationMessage)
	if !validEmail(email) {
		verr.Add("email", "Please enter a valid email.")
	}
	if common.TrimmedLen(in.Password) < common.MinTextLength {
		verr.Add("password", "Password must be at least 5 characters long.")
	}
	if name == "" {
		verr.Add("name", "Name must not be empty.")
	}

	users := s.repos.Repos().Users
	if validEmail(email) {
		_, err := users.GetByEmail(ctx, email)
		switch {
		case err == nil:
			verr.Add("email", "Email address already exists.")
		case !errors.Is(err, common.ErrorNotFound):
			return nil, fmt.Errorf("error looking up user: %w", err)
		}
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	hash, err := s.creds.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	user, err := users.Create(ctx, &models.User{
		Email:    email,
		Name:     name,
		Password: hash,
		Status:   common.DefaultUserStatus,
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			verr.Add("email", "Email address already exists.")
			return nil, verr
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	s.logger.Info(ctx, "user signed up", "user_id", user.ID)
	return user, nil
}

func validEmail(email string) bool {
	if email == "" {
		return false
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return false
	}
	_, domain, _ := strings.Cut(email, "@")
	return strings.Contains(domain, ".")
}

// Login checks the password and issues a bearer token. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.repos.Repos().Users.GetByEmail(ctx, common.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error looking up user: %w", err)
	}
	if !s.creds.Verify(password, user.Password) {
		return nil, common.ErrInvalidCredentials
	}

	token, err := s.creds.Issue(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("error issuing token: %w", err)
	}
	return &LoginResult{Token: token, UserID: user.ID}, nil
}

// Get returns the calling user.
func (s *UserService) Get(ctx context.Context, ac identity.AuthContext) (*models.User, error) {
	userID, err := access.RequireAuthenticated(ac)
	if err != nil {
		return nil, err
	}
	user, err := s.repos.Repos().Users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error loading user: %w", err)
	}
	return user, nil
}

// Lookup returns any user by id. It is used to resolve post creators.
func (s *UserService) Lookup(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repos.Repos().Users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error loading user: %w", err)
	}
	return user, nil
}

func (s *UserService) Status(ctx context.Context, ac identity.AuthContext) (string, error) {
	user, err := s.Get(ctx, ac)
	if err != nil {
		return "", err
	}
	return user.Status, nil
}

func (s *UserService) UpdateStatus(ctx context.Context, ac identity.AuthContext, status string) (*models.User, error) {
	userID, err := access.RequireAuthenticated(ac)
	if err != nil {
		return nil, err
	}

	status = strings.TrimSpace(status)
	if status == "" {
		verr := common.NewValidationError(ValidationMessage)
		verr.Add("status", "Status must not be empty.")
		return nil, verr
	}

	users := s.repos.Repos().Users
	if err := users.UpdateStatus(ctx, userID, status); err != nil {
		return nil, fmt.Errorf("error updating status: %w", err)
	}
	user, err := users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error loading user: %w", err)
	}
	return user, nil
}
