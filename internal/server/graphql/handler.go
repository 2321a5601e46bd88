package graphql

import (
	"encoding/json"
	"net/http"

	graphqlgo "github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/relay"
)

// Handler serves GraphQL over POST (JSON body) and GET (query string).
type Handler struct {
	schema *graphqlgo.Schema
	post   *relay.Handler
}

func NewHandler(schema *graphqlgo.Schema) *Handler {
	return &Handler{schema: schema, post: &relay.Handler{Schema: schema}}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.post.ServeHTTP(w, r)
		return
	}

	q := r.URL.Query()
	var variables map[string]interface{}
	if raw := q.Get("variables"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &variables); err != nil {
			http.Error(w, "invalid variables", http.StatusBadRequest)
			return
		}
	}

	resp := h.schema.Exec(r.Context(), q.Get("query"), q.Get("operationName"), variables)
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}
