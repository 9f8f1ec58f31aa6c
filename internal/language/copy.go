package language

// Deep copies of query-document nodes. Spliced registry fragments must be
// detached from their stored source so that mutating a rewritten document
// never reaches back into the registry.

func CopyQueryDocument(doc *QueryDocument) *QueryDocument {
	if doc == nil {
		return nil
	}
	out := &QueryDocument{Position: doc.Position}
	for _, op := range doc.Operations {
		out.Operations = append(out.Operations, CopyOperationDefinition(op))
	}
	for _, frag := range doc.Fragments {
		out.Fragments = append(out.Fragments, CopyFragmentDefinition(frag))
	}
	return out
}

func CopyOperationDefinition(op *OperationDefinition) *OperationDefinition {
	if op == nil {
		return nil
	}
	return &OperationDefinition{
		Operation:           op.Operation,
		Name:                op.Name,
		VariableDefinitions: copyVariableDefinitions(op.VariableDefinitions),
		Directives:          CopyDirectiveList(op.Directives),
		SelectionSet:        CopySelectionSet(op.SelectionSet),
		Position:            op.Position,
	}
}

func CopyFragmentDefinition(frag *FragmentDefinition) *FragmentDefinition {
	if frag == nil {
		return nil
	}
	return &FragmentDefinition{
		Name:               frag.Name,
		VariableDefinition: copyVariableDefinitions(frag.VariableDefinition),
		TypeCondition:      frag.TypeCondition,
		Directives:         CopyDirectiveList(frag.Directives),
		SelectionSet:       CopySelectionSet(frag.SelectionSet),
		Definition:         frag.Definition,
		Position:           frag.Position,
	}
}

func CopySelectionSet(set SelectionSet) SelectionSet {
	if set == nil {
		return nil
	}
	out := make(SelectionSet, 0, len(set))
	for _, sel := range set {
		switch s := sel.(type) {
		case *Field:
			out = append(out, CopyField(s))
		case *InlineFragment:
			out = append(out, &InlineFragment{
				TypeCondition:    s.TypeCondition,
				Directives:       CopyDirectiveList(s.Directives),
				SelectionSet:     CopySelectionSet(s.SelectionSet),
				ObjectDefinition: s.ObjectDefinition,
				Position:         s.Position,
			})
		case *FragmentSpread:
			out = append(out, &FragmentSpread{
				Name:             s.Name,
				Directives:       CopyDirectiveList(s.Directives),
				ObjectDefinition: s.ObjectDefinition,
				Definition:       s.Definition,
				Position:         s.Position,
			})
		}
	}
	return out
}

func CopyField(f *Field) *Field {
	if f == nil {
		return nil
	}
	return &Field{
		Alias:            f.Alias,
		Name:             f.Name,
		Arguments:        CopyArgumentList(f.Arguments),
		Directives:       CopyDirectiveList(f.Directives),
		SelectionSet:     CopySelectionSet(f.SelectionSet),
		Definition:       f.Definition,
		ObjectDefinition: f.ObjectDefinition,
		Position:         f.Position,
	}
}

func CopyDirectiveList(list DirectiveList) DirectiveList {
	if list == nil {
		return nil
	}
	out := make(DirectiveList, 0, len(list))
	for _, d := range list {
		out = append(out, &Directive{
			Name:             d.Name,
			Arguments:        CopyArgumentList(d.Arguments),
			ParentDefinition: d.ParentDefinition,
			Definition:       d.Definition,
			Location:         d.Location,
			Position:         d.Position,
		})
	}
	return out
}

func CopyArgumentList(list ArgumentList) ArgumentList {
	if list == nil {
		return nil
	}
	out := make(ArgumentList, 0, len(list))
	for _, a := range list {
		out = append(out, &Argument{
			Name:     a.Name,
			Value:    CopyValue(a.Value),
			Position: a.Position,
		})
	}
	return out
}

func CopyValue(v *Value) *Value {
	if v == nil {
		return nil
	}
	out := &Value{
		Raw:                v.Raw,
		Kind:               v.Kind,
		Definition:         v.Definition,
		VariableDefinition: v.VariableDefinition,
		ExpectedType:       v.ExpectedType,
		Position:           v.Position,
	}
	for _, c := range v.Children {
		out.Children = append(out.Children, &ChildValue{
			Name:     c.Name,
			Value:    CopyValue(c.Value),
			Position: c.Position,
		})
	}
	return out
}

func copyVariableDefinitions(list VariableDefinitionList) VariableDefinitionList {
	if list == nil {
		return nil
	}
	out := make(VariableDefinitionList, 0, len(list))
	for _, vd := range list {
		out = append(out, &VariableDefinition{
			Variable:     vd.Variable,
			Type:         vd.Type,
			DefaultValue: CopyValue(vd.DefaultValue),
			Definition:   vd.Definition,
			Position:     vd.Position,
		})
	}
	return out
}
