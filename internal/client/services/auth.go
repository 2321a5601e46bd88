// Package services contains application services for the gophfeed client.
// This file defines the session service: signup, login with a persisted
// bearer token, logout, and the user's status line.
package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophfeed/internal/client/client"
	"github.com/dmitrijs2005/gophfeed/internal/filex"
)

// AuthService defines session operations for the CLI.
//
// Contract:
//   - Restore: load a previously saved token, if any.
//   - Login: authenticate and persist the token.
//   - Logout: forget the token locally and on disk.
type AuthService interface {
	Restore(ctx context.Context) (bool, error)
	Signup(ctx context.Context, email, name string, password []byte) (string, error)
	Login(ctx context.Context, email string, password []byte) error
	Logout(ctx context.Context) error
	Status(ctx context.Context) (string, error)
	SetStatus(ctx context.Context, status string) error
	Ping(ctx context.Context) error
	LoggedIn() bool
	Email() string
}

type authService struct {
	client    client.Client
	tokenFile string
	token     string
	email     string
}

// NewAuthService binds the API client to the token file at tokenFile.
func NewAuthService(c client.Client, tokenFile string) AuthService {
	return &authService{client: c, tokenFile: tokenFile}
}

// token file layout: "<email>\n<token>"
func (a *authService) Restore(ctx context.Context) (bool, error) {
	data, err := filex.ReadSecret(a.tokenFile)
	if err != nil || data == nil {
		return false, err
	}
	email, token, ok := strings.Cut(strings.TrimSpace(string(data)), "\n")
	if !ok || token == "" {
		return false, nil
	}
	a.email, a.token = email, token
	a.client.SetToken(token)
	return true, nil
}

func (a *authService) Signup(ctx context.Context, email, name string, password []byte) (string, error) {
	return a.client.Signup(ctx, email, name, string(password))
}

// Login authenticates and saves the token so later sessions start logged in.
func (a *authService) Login(ctx context.Context, email string, password []byte) error {
	token, _, err := a.client.Login(ctx, email, string(password))
	if err != nil {
		return fmt.Errorf("login error: %w", err)
	}
	a.email, a.token = email, token
	a.client.SetToken(token)

	if err := filex.WriteSecret(a.tokenFile, []byte(email+"\n"+token)); err != nil {
		return fmt.Errorf("token saving error: %w", err)
	}
	return nil
}

func (a *authService) Logout(ctx context.Context) error {
	a.email, a.token = "", ""
	a.client.SetToken("")
	return filex.RemoveSecret(a.tokenFile)
}

func (a *authService) Status(ctx context.Context) (string, error) {
	return a.client.Status(ctx)
}

func (a *authService) SetStatus(ctx context.Context, status string) error {
	return a.client.SetStatus(ctx, status)
}

func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}

func (a *authService) LoggedIn() bool {
	return a.token != ""
}

func (a *authService) Email() string {
	return a.email
}
