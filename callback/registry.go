package callback

import (
	"fmt"

	"QuizBot/model"
)

// Prefix is the choice id prefix used for values of d.
func Prefix(d model.Dimension) string {
	switch d {
	case model.DimensionOrganizer:
		return "org"
	case model.DimensionVenue:
		return "loc"
	case model.DimensionCategory:
		return "cat"
	}
	return "val"
}

// Choice is one registered value.
type Choice struct {
	ID    string
	Value string
}

// Registry maps short ids to the display values of one listing. Ids are derived
// from position, so a registry is only meaningful for the listing it was built
// from and must be replaced whenever the listing is fetched again.
type Registry struct {
	choices []Choice
	byID    map[string]string
}

// Register builds a registry over values, keeping their order.
func Register(prefix string, values []string) *Registry {
	r := &Registry{
		choices: make([]Choice, len(values)),
		byID:    make(map[string]string, len(values)),
	}
	for i, v := range values {
		id := fmt.Sprintf("%s_%d", prefix, i)
		r.choices[i] = Choice{ID: id, Value: v}
		r.byID[id] = v
	}
	return r
}

// Resolve returns the value registered under id. A nil registry resolves
// nothing.
func (r *Registry) Resolve(id string) (string, error) {
	if r == nil {
		return "", fmt.Errorf("choice %q: %w", id, model.ErrNotFound)
	}
	v, ok := r.byID[id]
	if !ok {
		return "", fmt.Errorf("choice %q: %w", id, model.ErrNotFound)
	}
	return v, nil
}

// Choices returns the registered values in listing order.
func (r *Registry) Choices() []Choice {
	if r == nil {
		return nil
	}
	return r.choices
}

func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.choices)
}
