// Package registry holds the entity registry: the caller-owned mapping
// from entity type name to computed-field descriptors and their declared
// dependency documents.
package registry

import (
	"errors"
	"fmt"

	language "github.com/hanpama/queryweave/internal/language"
)

var (
	ErrUnknownEntityType    = errors.New("unknown entity type")
	ErrUnknownComputedField = errors.New("unknown computed field")
)

// Registry maps entity type names to their descriptors.
type Registry map[string]*Entity

// Entity describes one entity type and its computed fields.
type Entity struct {
	Name   string
	Fields map[string]*Field
}

// Field describes a computed field. Dependency is a parsed document whose
// first fragment definition declares the field's data dependencies.
type Field struct {
	Name       string
	Dependency *language.QueryDocument
}

// LookupField returns the descriptor for fieldName on typeName.
func (r Registry) LookupField(typeName, fieldName string) (*Field, error) {
	entity, ok := r[typeName]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEntityType, typeName)
	}
	field, ok := entity.Fields[fieldName]
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrUnknownComputedField, typeName, fieldName)
	}
	return field, nil
}
