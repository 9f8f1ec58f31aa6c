package registry

import (
	"context"
)

// FieldID identifies a computed field as "Type.field".
type FieldID string

type FieldMetadata struct {
	ID       FieldID
	TypeName string
	Field    string
	FilePath string
}

// Discovery enumerates computed-field declarations and reads their
// dependency fragment sources.
type Discovery interface {
	ListMetadata(ctx context.Context) ([]*FieldMetadata, error)
	ReadDependency(ctx context.Context, id FieldID) (string, error)
}
