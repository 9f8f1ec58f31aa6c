package visitor

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	language "github.com/hanpama/queryweave/internal/language"
)

func mustParseQuery(t *testing.T, src string) *language.QueryDocument {
	t.Helper()
	doc, err := language.ParseQuery(src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc
}

func format(doc *language.QueryDocument) string {
	return language.FormatQuery(doc)
}

func TestWalkFieldEdits(t *testing.T) {
	t.Run("replace splices in place", func(t *testing.T) {
		doc := mustParseQuery(t, `{ a b c }`)
		replacement := mustParseQuery(t, `{ x y }`).Operations[0].SelectionSet
		err := WalkQueryDocument(doc, Visitor{
			EnterField: func(f *language.Field) (FieldEdit, error) {
				if f.Name == "b" {
					return FieldEdit{Action: Replace, Selections: replacement}, nil
				}
				return FieldEdit{}, nil
			},
		})
		if err != nil {
			t.Fatal(err)
		}
		want := format(mustParseQuery(t, `{ a x y c }`))
		if diff := cmp.Diff(want, format(doc)); diff != "" {
			t.Fatalf("document mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("delete removes the field", func(t *testing.T) {
		doc := mustParseQuery(t, `{ a b c }`)
		err := WalkQueryDocument(doc, Visitor{
			EnterField: func(f *language.Field) (FieldEdit, error) {
				if f.Name == "b" {
					return FieldEdit{Action: Delete}, nil
				}
				return FieldEdit{}, nil
			},
		})
		if err != nil {
			t.Fatal(err)
		}
		want := format(mustParseQuery(t, `{ a c }`))
		if diff := cmp.Diff(want, format(doc)); diff != "" {
			t.Fatalf("document mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("replacement content is not re-visited", func(t *testing.T) {
		doc := mustParseQuery(t, `{ a }`)
		replacement := mustParseQuery(t, `{ a }`).Operations[0].SelectionSet
		calls := 0
		err := WalkQueryDocument(doc, Visitor{
			EnterField: func(f *language.Field) (FieldEdit, error) {
				calls++
				return FieldEdit{Action: Replace, Selections: replacement}, nil
			},
		})
		if err != nil {
			t.Fatal(err)
		}
		if calls != 1 {
			t.Fatalf("expected 1 field visit, got %d", calls)
		}
	})
}

func TestWalkDescendsNestedSets(t *testing.T) {
	doc := mustParseQuery(t, `{ a { b { c } } ... on T { d } ...Spread }`)
	var visited []string
	err := WalkQueryDocument(doc, Visitor{
		EnterField: func(f *language.Field) (FieldEdit, error) {
			visited = append(visited, f.Name)
			return FieldEdit{}, nil
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"a", "b", "c", "d"}
	if diff := cmp.Diff(want, visited); diff != "" {
		t.Fatalf("visit order mismatch (-want +got):\n%s", diff)
	}
}

func TestWalkDirectiveDeletion(t *testing.T) {
	doc := mustParseQuery(t, `query @one { a @one @two { b @one } }`)
	err := WalkQueryDocument(doc, Visitor{
		EnterDirective: func(d *language.Directive) (Action, error) {
			if d.Name == "one" {
				return Delete, nil
			}
			return Continue, nil
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	want := format(mustParseQuery(t, `query { a @two { b } }`))
	if diff := cmp.Diff(want, format(doc)); diff != "" {
		t.Fatalf("document mismatch (-want +got):\n%s", diff)
	}
}

func TestWalkErrorAborts(t *testing.T) {
	doc := mustParseQuery(t, `{ a b }`)
	boom := errors.New("boom")
	var visited []string
	err := WalkQueryDocument(doc, Visitor{
		EnterField: func(f *language.Field) (FieldEdit, error) {
			visited = append(visited, f.Name)
			if f.Name == "a" {
				return FieldEdit{}, boom
			}
			return FieldEdit{}, nil
		},
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if len(visited) != 1 {
		t.Fatalf("walk should stop at the first error, visited %v", visited)
	}
}

func TestWalkSelectionSetTransform(t *testing.T) {
	doc := mustParseQuery(t, `{ a b }`)
	err := WalkQueryDocument(doc, Visitor{
		EnterSelectionSet: func(set language.SelectionSet) (language.SelectionSet, error) {
			// reverse the list
			out := make(language.SelectionSet, 0, len(set))
			for i := len(set) - 1; i >= 0; i-- {
				out = append(out, set[i])
			}
			return out, nil
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	want := format(mustParseQuery(t, `{ b a }`))
	if diff := cmp.Diff(want, format(doc)); diff != "" {
		t.Fatalf("document mismatch (-want +got):\n%s", diff)
	}
}
