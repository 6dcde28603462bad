package graph

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var validate = validator.New()

// decodeInput maps a GraphQL argument value onto a typed input struct via
// its json tags, then runs struct validation. GraphQL already enforces
// the field types; validation adds the length/format/enum constraints.
func decodeInput(value any, target any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("invalid input: %w", err)
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("invalid input: %w", err)
	}

	if err := validate.Struct(target); err != nil {
		var fields validator.ValidationErrors
		if errors.As(err, &fields) && len(fields) > 0 {
			return fmt.Errorf("validation failed on field %s (%s)",
				strings.ToLower(fields[0].Field()), fields[0].Tag())
		}
		return err
	}

	return nil
}

// decodeSlice maps a GraphQL list argument onto a slice of input structs.
func decodeSlice(value any, target any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("invalid input: %w", err)
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("invalid input: %w", err)
	}
	return nil
}

// parseID parses a GraphQL ID argument.
func parseID(value any) (uuid.UUID, error) {
	s, ok := value.(string)
	if !ok {
		return uuid.Nil, fmt.Errorf("invalid id")
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid id: %s", s)
	}
	return id, nil
}

// parseIDs parses a list of GraphQL ID arguments.
func parseIDs(value any) ([]uuid.UUID, error) {
	raw, ok := value.([]any)
	if !ok {
		return nil, fmt.Errorf("invalid id list")
	}
	ids := make([]uuid.UUID, 0, len(raw))
	for _, item := range raw {
		id, err := parseID(item)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func stringArg(args map[string]any, key string) string {
	if s, ok := args[key].(string); ok {
		return s
	}
	return ""
}

func intArg(args map[string]any, key string, fallback int) int {
	if n, ok := args[key].(int); ok {
		return n
	}
	return fallback
}
