package registry

import (
	"context"
	"fmt"
	"sort"

	language "github.com/hanpama/queryweave/internal/language"
)

// Build parses every discovered dependency and assembles the registry.
// A dependency that fails to parse aborts the build.
func Build(ctx context.Context, discovery Discovery) (Registry, error) {
	metas, err := discovery.ListMetadata(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(metas, func(i, j int) bool { return metas[i].ID < metas[j].ID })

	reg := Registry{}
	for _, meta := range metas {
		src, err := discovery.ReadDependency(ctx, meta.ID)
		if err != nil {
			return nil, err
		}
		doc, err := language.ParseQueryFile(meta.FilePath, src)
		if err != nil {
			return nil, fmt.Errorf("dependency %s: %w", meta.ID, err)
		}
		entity := reg[meta.TypeName]
		if entity == nil {
			entity = &Entity{Name: meta.TypeName, Fields: make(map[string]*Field)}
			reg[meta.TypeName] = entity
		}
		entity.Fields[meta.Field] = &Field{Name: meta.Field, Dependency: doc}
	}
	return reg, nil
}
