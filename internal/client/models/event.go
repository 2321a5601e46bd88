package models

import (
	"encoding/json"
	"fmt"
)

// UnmarshalJSON accepts either a full post or a bare id in the "post" field.
func (e *Event) UnmarshalJSON(b []byte) error {
	var raw struct {
		Channel string          `json:"channel"`
		Action  string          `json:"action"`
		Post    json.RawMessage `json:"post"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	e.Channel, e.Action, e.Post = raw.Channel, raw.Action, Post{}

	if len(raw.Post) == 0 || string(raw.Post) == "null" {
		return nil
	}
	if raw.Post[0] == '"' {
		return json.Unmarshal(raw.Post, &e.Post.ID)
	}
	if err := json.Unmarshal(raw.Post, &e.Post); err != nil {
		return fmt.Errorf("event post: %w", err)
	}
	return nil
}
