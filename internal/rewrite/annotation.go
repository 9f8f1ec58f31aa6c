package rewrite

import (
	"fmt"

	language "github.com/hanpama/queryweave/internal/language"
)

// DirectiveName is the reserved annotation marking a field as computed.
const DirectiveName = "computed"

// hasComputed reports whether the directive list carries the annotation.
func hasComputed(directives language.DirectiveList) bool {
	return directives.ForName(DirectiveName) != nil
}

// annotationType reads the entity type name from the annotation's first
// argument. Only the first argument is validated; any further arguments
// are ignored.
func annotationType(d *language.Directive) (string, error) {
	if len(d.Arguments) == 0 || d.Arguments[0].Value == nil {
		return "", fmt.Errorf("%w: @%s requires a type argument", ErrInvalidAnnotation, DirectiveName)
	}
	return d.Arguments[0].Value.Raw, nil
}
