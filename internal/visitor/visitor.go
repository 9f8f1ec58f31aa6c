// Package visitor implements a depth-first walker over query documents
// whose callbacks can structurally edit the tree: a field may be kept,
// replaced by a list of selections spliced into its parent, or deleted,
// and directives may be removed from their owning node.
package visitor

import (
	language "github.com/hanpama/queryweave/internal/language"
)

// Action tells the walker what to do with a visited node.
type Action int

const (
	// Continue keeps the node and descends into its children.
	Continue Action = iota
	// Replace substitutes the node with the edit's selection list. The
	// replacement is spliced into the parent selection list in place,
	// preserving sibling order, and is not descended into.
	Replace
	// Delete removes the node from its parent.
	Delete
)

// FieldEdit is the result of visiting a field.
type FieldEdit struct {
	Action     Action
	Selections language.SelectionSet
}

// Visitor holds the enter callbacks. A nil callback means Continue.
type Visitor struct {
	// EnterSelectionSet may transform a selection list before its
	// members are visited.
	EnterSelectionSet func(language.SelectionSet) (language.SelectionSet, error)
	EnterField        func(*language.Field) (FieldEdit, error)
	// EnterDirective may return Delete to drop the directive from its
	// owning node's directive list.
	EnterDirective func(*language.Directive) (Action, error)
}

// WalkQueryDocument visits every operation and fragment definition in doc.
// The first error aborts the walk.
func WalkQueryDocument(doc *language.QueryDocument, v Visitor) error {
	for _, op := range doc.Operations {
		if err := WalkOperation(op, v); err != nil {
			return err
		}
	}
	for _, frag := range doc.Fragments {
		if err := WalkFragment(frag, v); err != nil {
			return err
		}
	}
	return nil
}

func WalkOperation(op *language.OperationDefinition, v Visitor) error {
	directives, err := walkDirectives(op.Directives, v)
	if err != nil {
		return err
	}
	op.Directives = directives
	set, err := walkSelectionSet(op.SelectionSet, v)
	if err != nil {
		return err
	}
	op.SelectionSet = set
	return nil
}

func WalkFragment(frag *language.FragmentDefinition, v Visitor) error {
	directives, err := walkDirectives(frag.Directives, v)
	if err != nil {
		return err
	}
	frag.Directives = directives
	set, err := walkSelectionSet(frag.SelectionSet, v)
	if err != nil {
		return err
	}
	frag.SelectionSet = set
	return nil
}

func walkSelectionSet(set language.SelectionSet, v Visitor) (language.SelectionSet, error) {
	if v.EnterSelectionSet != nil {
		var err error
		if set, err = v.EnterSelectionSet(set); err != nil {
			return nil, err
		}
	}
	if len(set) == 0 {
		return set, nil
	}
	out := make(language.SelectionSet, 0, len(set))
	for _, sel := range set {
		switch s := sel.(type) {
		case *language.Field:
			edit := FieldEdit{}
			if v.EnterField != nil {
				var err error
				if edit, err = v.EnterField(s); err != nil {
					return nil, err
				}
			}
			switch edit.Action {
			case Replace:
				out = append(out, edit.Selections...)
			case Delete:
			default:
				directives, err := walkDirectives(s.Directives, v)
				if err != nil {
					return nil, err
				}
				s.Directives = directives
				children, err := walkSelectionSet(s.SelectionSet, v)
				if err != nil {
					return nil, err
				}
				s.SelectionSet = children
				out = append(out, s)
			}
		case *language.InlineFragment:
			directives, err := walkDirectives(s.Directives, v)
			if err != nil {
				return nil, err
			}
			s.Directives = directives
			children, err := walkSelectionSet(s.SelectionSet, v)
			if err != nil {
				return nil, err
			}
			s.SelectionSet = children
			out = append(out, s)
		case *language.FragmentSpread:
			directives, err := walkDirectives(s.Directives, v)
			if err != nil {
				return nil, err
			}
			s.Directives = directives
			out = append(out, s)
		default:
			out = append(out, sel)
		}
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}

func walkDirectives(list language.DirectiveList, v Visitor) (language.DirectiveList, error) {
	if v.EnterDirective == nil || len(list) == 0 {
		return list, nil
	}
	out := make(language.DirectiveList, 0, len(list))
	for _, d := range list {
		action, err := v.EnterDirective(d)
		if err != nil {
			return nil, err
		}
		if action != Delete {
			out = append(out, d)
		}
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}
