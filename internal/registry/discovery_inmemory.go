package registry

import (
	"context"
	"fmt"
)

type InMemoryField struct {
	TypeName string
	Field    string
	Content  string
}

// InMemoryDiscovery is a Discovery backed by in-memory declarations,
// used in tests and for programmatic registry construction.
type InMemoryDiscovery struct {
	metas    map[FieldID]*FieldMetadata
	contents map[FieldID]string
}

func NewInMemoryDiscovery(fields []InMemoryField) *InMemoryDiscovery {
	discovery := &InMemoryDiscovery{
		metas:    make(map[FieldID]*FieldMetadata),
		contents: make(map[FieldID]string),
	}
	for _, f := range fields {
		id := FieldID(f.TypeName + "." + f.Field)
		discovery.metas[id] = &FieldMetadata{
			ID:       id,
			TypeName: f.TypeName,
			Field:    f.Field,
			FilePath: f.TypeName + "/" + f.Field + ".graphql",
		}
		discovery.contents[id] = f.Content
	}
	return discovery
}

// ListMetadata implements Discovery.
func (d *InMemoryDiscovery) ListMetadata(ctx context.Context) ([]*FieldMetadata, error) {
	metas := make([]*FieldMetadata, 0, len(d.metas))
	for _, meta := range d.metas {
		metas = append(metas, meta)
	}
	return metas, nil
}

// ReadDependency implements Discovery.
func (d *InMemoryDiscovery) ReadDependency(ctx context.Context, id FieldID) (string, error) {
	content, ok := d.contents[id]
	if !ok {
		return "", fmt.Errorf("computed field %q not found", id)
	}
	return content, nil
}
