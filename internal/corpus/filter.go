package corpus

import (
	"strings"

	"github.com/ppiankov/linkeval/internal/model"
)

// MissingClass is the entity class of a tag without a type segment (e.g. "O")
const MissingClass = "MISSING"

// EntityFilter decides which tag classes count as linkable named entities
type EntityFilter struct {
	excluded map[string]struct{}
}

// NewEntityFilter creates a filter rejecting the given classes.
// A nil slice falls back to model.DefaultExcludedClasses.
func NewEntityFilter(excluded []string) *EntityFilter {
	if excluded == nil {
		excluded = model.DefaultExcludedClasses
	}

	set := make(map[string]struct{}, len(excluded))
	for _, class := range excluded {
		set[strings.TrimSpace(class)] = struct{}{}
	}

	return &EntityFilter{excluded: set}
}

// Accept reports whether the tag denotes an in-scope entity type
func (f *EntityFilter) Accept(tag string) bool {
	_, rejected := f.excluded[EntityClass(tag)]
	return !rejected
}

// EntityClass returns the second dash-delimited segment of a tag
func EntityClass(tag string) string {
	parts := strings.Split(tag, "-")
	if len(parts) < 2 {
		return MissingClass
	}
	return parts[1]
}
