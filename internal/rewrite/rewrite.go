// Package rewrite resolves @computed directives in query documents by
// splicing registry-declared dependency fragments into the tree.
//
// A computed field names its owning entity type through the directive's
// first argument: `fullName @computed(type: "User")`. The registry maps
// (type, field) to a dependency fragment whose selections stand in for
// the server-side computation's inputs. Dependencies may themselves
// contain computed fields; those are resolved first.
package rewrite

import (
	language "github.com/hanpama/queryweave/internal/language"
	registry "github.com/hanpama/queryweave/internal/registry"
	visitor "github.com/hanpama/queryweave/internal/visitor"
)

// Mode selects how annotated fields are rewritten.
type Mode int

const (
	// ModeReplace deletes each annotated field, splices in its resolved
	// dependency selections, merges duplicate response keys and strips
	// the annotation everywhere. The output is safe to send to a server
	// that does not know the directive.
	ModeReplace Mode = iota
	// ModeAugment keeps each annotated field, annotation included, and
	// appends its resolved dependency selections as later siblings, so
	// a consumer such as a cache layer can still see which fields were
	// computed and what they depend on.
	ModeAugment
)

func (m Mode) String() string {
	switch m {
	case ModeReplace:
		return "replace"
	case ModeAugment:
		return "augment"
	}
	return "unknown"
}

// Replace rewrites doc in ModeReplace. The input document is never
// mutated; a nil document yields a nil document.
func Replace(doc *language.QueryDocument, reg registry.Registry) (*language.QueryDocument, error) {
	return rewriteDocument(doc, reg, ModeReplace)
}

// Augment rewrites doc in ModeAugment. The input document is never
// mutated; a nil document yields a nil document.
func Augment(doc *language.QueryDocument, reg registry.Registry) (*language.QueryDocument, error) {
	return rewriteDocument(doc, reg, ModeAugment)
}

func rewriteDocument(doc *language.QueryDocument, reg registry.Registry, mode Mode) (*language.QueryDocument, error) {
	if doc == nil {
		return nil, nil
	}
	out := language.CopyQueryDocument(doc)
	rw := &rewriter{reg: reg, mode: mode, resolving: make(map[string]bool)}
	if err := visitor.WalkQueryDocument(out, rw.expandVisitor()); err != nil {
		return nil, err
	}
	if mode == ModeReplace {
		if err := visitor.WalkQueryDocument(out, normalizeVisitor()); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// rewriter carries the state of one rewrite call. resolving tracks the
// Type.field chain currently being resolved so that a cyclic registry
// fails instead of recursing until stack exhaustion.
type rewriter struct {
	reg       registry.Registry
	mode      Mode
	resolving map[string]bool
}

// expandVisitor is the first pass: each annotated field is substituted
// with its resolved dependency selections (preceded by the original
// field in ModeAugment). Replacement content has already been rewritten
// by resolve and is not re-visited.
func (rw *rewriter) expandVisitor() visitor.Visitor {
	return visitor.Visitor{
		EnterField: func(f *language.Field) (visitor.FieldEdit, error) {
			if !hasComputed(f.Directives) {
				return visitor.FieldEdit{}, nil
			}
			frag, err := rw.resolve(f)
			if err != nil {
				return visitor.FieldEdit{}, err
			}
			selections := frag.SelectionSet
			if rw.mode == ModeAugment {
				selections = append(language.SelectionSet{f}, selections...)
			}
			return visitor.FieldEdit{Action: visitor.Replace, Selections: selections}, nil
		},
	}
}

// rewriteFragment applies the current mode's passes to a dependency
// fragment before its selections are spliced into the caller's tree.
func (rw *rewriter) rewriteFragment(frag *language.FragmentDefinition) error {
	if err := visitor.WalkFragment(frag, rw.expandVisitor()); err != nil {
		return err
	}
	if rw.mode == ModeReplace {
		return visitor.WalkFragment(frag, normalizeVisitor())
	}
	return nil
}
