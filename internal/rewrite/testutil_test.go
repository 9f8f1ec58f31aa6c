package rewrite

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	language "github.com/hanpama/queryweave/internal/language"
	registry "github.com/hanpama/queryweave/internal/registry"
)

func mustParseQuery(t *testing.T, src string) *language.QueryDocument {
	t.Helper()
	doc, err := language.ParseQuery(src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc
}

// testRegistry builds a registry from "Type.field" -> fragment source pairs.
func testRegistry(t *testing.T, deps map[string]string) registry.Registry {
	t.Helper()
	var fields []registry.InMemoryField
	for id, content := range deps {
		typeName, fieldName, ok := strings.Cut(id, ".")
		if !ok {
			t.Fatalf("bad dependency id %q", id)
		}
		fields = append(fields, registry.InMemoryField{TypeName: typeName, Field: fieldName, Content: content})
	}
	reg, err := registry.Build(context.Background(), registry.NewInMemoryDiscovery(fields))
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	return reg
}

// assertDocEqual compares documents on their formatted text; positions
// make node-level comparison noisy.
func assertDocEqual(t *testing.T, want string, got *language.QueryDocument) {
	t.Helper()
	wantText := language.FormatQuery(mustParseQuery(t, want))
	gotText := language.FormatQuery(got)
	if diff := cmp.Diff(wantText, gotText); diff != "" {
		t.Fatalf("document mismatch (-want +got):\n%s", diff)
	}
}
