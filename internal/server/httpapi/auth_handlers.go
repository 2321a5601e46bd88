package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/gophfeed/internal/logging"
	"github.com/dmitrijs2005/gophfeed/internal/server/identity"
	"github.com/dmitrijs2005/gophfeed/internal/server/services"
)

const userNotFoundMessage = "User not found."

type authHandlers struct {
	users    UserService
	logger   logging.Logger
	maxBytes int64
}

// signup handles PUT /auth/signup.
func (h *authHandlers) signup(w http.ResponseWriter, r *http.Request) {
	f, err := readForm(w, r, h.maxBytes)
	if err != nil {
		writeBadBody(w)
		return
	}
	defer f.Close()

	user, err := h.users.Signup(r.Context(), services.SignupInput{
		Email:    f.get("email"),
		Password: f.get("password"),
		Name:     f.get("name"),
	})
	if err != nil {
		writeServiceError(w, r, h.logger, err, http.StatusNotFound, userNotFoundMessage)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "User created!",
		"userId":  user.ID,
	})
}

// login handles POST /auth/login.
func (h *authHandlers) login(w http.ResponseWriter, r *http.Request) {
	f, err := readForm(w, r, h.maxBytes)
	if err != nil {
		writeBadBody(w)
		return
	}
	defer f.Close()

	res, err := h.users.Login(r.Context(), f.get("email"), f.get("password"))
	if err != nil {
		writeServiceError(w, r, h.logger, err, http.StatusNotFound, userNotFoundMessage)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *authHandlers) getStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.users.Status(r.Context(), identity.FromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, h.logger, err, http.StatusNotFound, userNotFoundMessage)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": status})
}

func (h *authHandlers) updateStatus(w http.ResponseWriter, r *http.Request) {
	f, err := readForm(w, r, h.maxBytes)
	if err != nil {
		writeBadBody(w)
		return
	}
	defer f.Close()

	if _, err := h.users.UpdateStatus(r.Context(), identity.FromContext(r.Context()), f.get("status")); err != nil {
		writeServiceError(w, r, h.logger, err, http.StatusNotFound, userNotFoundMessage)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "User updated."})
}
