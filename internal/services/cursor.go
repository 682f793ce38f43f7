package services

import (
	"encoding/base64"
	"encoding/json"

	"church-portal-api/internal/models"
)

// encodeCursor turns a store key into an opaque pagination token
func encodeCursor(keyAttr, id string) string {
	if id == "" {
		return ""
	}
	data, _ := json.Marshal(map[string]string{keyAttr: id})
	return base64.RawURLEncoding.EncodeToString(data)
}

// decodeCursor reverses encodeCursor
func decodeCursor(keyAttr, cursor string) (string, error) {
	if cursor == "" {
		return "", nil
	}
	invalid := models.NewValidationError("last_evaluated_key", "Invalid last_evaluated_key")

	data, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return "", invalid
	}
	var key map[string]string
	if err := json.Unmarshal(data, &key); err != nil || key[keyAttr] == "" {
		return "", invalid
	}
	return key[keyAttr], nil
}

func validateLimit(limit int) error {
	if limit < 1 || limit > 100 {
		return models.NewValidationError("limit", "limit must be between 1 and 100")
	}
	return nil
}
