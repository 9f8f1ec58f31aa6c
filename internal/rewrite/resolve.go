package rewrite

import (
	"fmt"

	language "github.com/hanpama/queryweave/internal/language"
)

// resolve returns the dependency fragment for an annotated field with all
// nested computed directives already rewritten in the current mode. The
// returned fragment is a copy; the registry's stored dependency is never
// touched. Lookup uses the field's declared name, not its alias.
func (rw *rewriter) resolve(field *language.Field) (*language.FragmentDefinition, error) {
	directive := field.Directives.ForName(DirectiveName)
	typeName, err := annotationType(directive)
	if err != nil {
		return nil, err
	}

	descriptor, err := rw.reg.LookupField(typeName, field.Name)
	if err != nil {
		return nil, err
	}
	if descriptor.Dependency == nil {
		return nil, fmt.Errorf("%w: %s.%s", ErrMissingDependency, typeName, field.Name)
	}
	if len(descriptor.Dependency.Fragments) == 0 {
		return nil, fmt.Errorf("%w: %s.%s declares no fragment definition", ErrMalformedDependency, typeName, field.Name)
	}
	frag := language.CopyFragmentDefinition(descriptor.Dependency.Fragments[0])
	if len(frag.SelectionSet) == 0 {
		return nil, fmt.Errorf("%w: fragment %s of %s.%s has an empty selection set", ErrMalformedDependency, frag.Name, typeName, field.Name)
	}

	key := typeName + "." + field.Name
	if rw.resolving[key] {
		return nil, fmt.Errorf("%w: %s depends on itself", ErrCyclicDependency, key)
	}
	rw.resolving[key] = true
	defer delete(rw.resolving, key)

	if err := rw.rewriteFragment(frag); err != nil {
		return nil, err
	}
	return frag, nil
}
