package rewrite

import (
	language "github.com/hanpama/queryweave/internal/language"
	visitor "github.com/hanpama/queryweave/internal/visitor"
)

// normalizeVisitor is the second pass of ModeReplace: it merges fields
// sharing a response key after splicing and strips the computed
// annotation everywhere. Running it on already-normalized output leaves
// the tree unchanged.
func normalizeVisitor() visitor.Visitor {
	return visitor.Visitor{
		EnterSelectionSet: mergeSameKeyFields,
		EnterDirective: func(d *language.Directive) (visitor.Action, error) {
			if d.Name == DirectiveName {
				return visitor.Delete, nil
			}
			return visitor.Continue, nil
		},
	}
}

// mergeSameKeyFields reassembles a selection list as: non-field
// selections in their original order, followed by one merged field per
// response key in first-seen order.
func mergeSameKeyFields(set language.SelectionSet) (language.SelectionSet, error) {
	if len(set) == 0 {
		return set, nil
	}
	var rest language.SelectionSet
	groups := newFieldGroups()
	for _, sel := range set {
		if f, ok := sel.(*language.Field); ok {
			groups.add(responseKey(f), f)
		} else {
			rest = append(rest, sel)
		}
	}
	if len(groups.keys) == 0 {
		return set, nil
	}
	out := rest
	for i := range groups.keys {
		out = append(out, mergeGroup(groups.groups[i]))
	}
	return out, nil
}

func responseKey(f *language.Field) string {
	if f.Alias != "" {
		return f.Alias
	}
	return f.Name
}

// fieldGroups preserves first-seen response-key order while grouping.
type fieldGroups struct {
	keys   []string
	index  map[string]int
	groups [][]*language.Field
}

func newFieldGroups() *fieldGroups {
	return &fieldGroups{index: make(map[string]int)}
}

func (g *fieldGroups) add(key string, f *language.Field) {
	if i, ok := g.index[key]; ok {
		g.groups[i] = append(g.groups[i], f)
		return
	}
	g.index[key] = len(g.keys)
	g.keys = append(g.keys, key)
	g.groups = append(g.groups, []*language.Field{f})
}

// mergeGroup collapses fields sharing a response key into one node.
// Later fields overwrite scalar properties while list properties are
// concatenated, so duplicate keys contribute the union of their
// sub-selections.
func mergeGroup(group []*language.Field) *language.Field {
	if len(group) == 1 {
		return group[0]
	}
	merged := *group[0]
	merged.Arguments = append(language.ArgumentList{}, group[0].Arguments...)
	merged.Directives = append(language.DirectiveList{}, group[0].Directives...)
	merged.SelectionSet = append(language.SelectionSet{}, group[0].SelectionSet...)
	for _, f := range group[1:] {
		merged.Alias = f.Alias
		merged.Name = f.Name
		merged.Position = f.Position
		merged.Definition = f.Definition
		merged.ObjectDefinition = f.ObjectDefinition
		merged.Arguments = append(merged.Arguments, f.Arguments...)
		merged.Directives = append(merged.Directives, f.Directives...)
		merged.SelectionSet = append(merged.SelectionSet, f.SelectionSet...)
	}
	return &merged
}
