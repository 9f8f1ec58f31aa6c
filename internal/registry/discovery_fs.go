package registry

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileSystemDiscovery implements Discovery over a directory tree where
// each dependency fragment lives at <rootDir>/<Type>/<field>.graphql.
type FileSystemDiscovery struct {
	filePaths map[FieldID]string
	metas     map[FieldID]*FieldMetadata
}

// NewFileSystemDiscovery creates a FileSystemDiscovery for the given root directory.
func NewFileSystemDiscovery(ctx context.Context, rootDir string) (*FileSystemDiscovery, error) {
	discovery := &FileSystemDiscovery{
		filePaths: make(map[FieldID]string),
		metas:     make(map[FieldID]*FieldMetadata),
	}

	err := filepath.WalkDir(rootDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if filepath.Ext(d.Name()) != ".graphql" {
			return nil
		}

		relPath, err := filepath.Rel(rootDir, path)
		if err != nil {
			return fmt.Errorf("failed to get relative path for %q: %w", path, err)
		}

		dir := filepath.Dir(relPath)
		if dir == "." {
			return fmt.Errorf("dependency file %q must live under a <Type>/ directory", relPath)
		}
		typeName := filepath.Base(dir)
		fieldName := strings.TrimSuffix(d.Name(), ".graphql")
		id := FieldID(typeName + "." + fieldName)

		discovery.filePaths[id] = path
		discovery.metas[id] = &FieldMetadata{
			ID:       id,
			TypeName: typeName,
			Field:    fieldName,
			FilePath: relPath,
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk root directory %q: %w", rootDir, err)
	}
	return discovery, nil
}

// ListMetadata returns the metadata of every discovered computed field.
func (d *FileSystemDiscovery) ListMetadata(ctx context.Context) ([]*FieldMetadata, error) {
	metas := make([]*FieldMetadata, 0, len(d.metas))
	for _, meta := range d.metas {
		metas = append(metas, meta)
	}
	return metas, nil
}

// ReadDependency reads the dependency fragment source for a computed field.
func (d *FileSystemDiscovery) ReadDependency(ctx context.Context, id FieldID) (string, error) {
	fp, ok := d.filePaths[id]
	if !ok {
		return "", fmt.Errorf("computed field %q not found", id)
	}
	content, err := os.ReadFile(fp)
	if err != nil {
		return "", fmt.Errorf("failed to read dependency for %q: %w", id, err)
	}
	return string(content), nil
}

// Load is a convenience function that discovers rootDir and builds the registry.
func Load(rootDir string) (Registry, error) {
	discovery, err := NewFileSystemDiscovery(context.Background(), rootDir)
	if err != nil {
		return nil, err
	}
	return Build(context.Background(), discovery)
}
