package rewrite

import (
	"errors"
	"strings"
	"testing"

	language "github.com/hanpama/queryweave/internal/language"
	registry "github.com/hanpama/queryweave/internal/registry"
)

func TestAugmentEndToEnd(t *testing.T) {
	reg := testRegistry(t, map[string]string{
		"User.fullName": `fragment UserFullName on User { firstName lastName }`,
	})
	doc := mustParseQuery(t, `{ id fullName @computed(type: "User") }`)

	out, err := Augment(doc, reg)
	if err != nil {
		t.Fatal(err)
	}
	assertDocEqual(t, `{ id fullName @computed(type: "User") firstName lastName }`, out)
}

func TestAugmentKeepsAnnotationOnNestedDependencies(t *testing.T) {
	reg := testRegistry(t, map[string]string{
		"Account.summary": `fragment AccountSummary on Account { owner { fullName @computed(type: "User") } }`,
		"User.fullName":   `fragment UserFullName on User { firstName lastName }`,
	})
	doc := mustParseQuery(t, `{ summary @computed(type: "Account") }`)

	out, err := Augment(doc, reg)
	if err != nil {
		t.Fatal(err)
	}
	assertDocEqual(t, `{
		summary @computed(type: "Account")
		owner {
			fullName @computed(type: "User")
			firstName
			lastName
		}
	}`, out)
}

func TestAugmentDoesNotMergeDuplicates(t *testing.T) {
	reg := testRegistry(t, map[string]string{
		"User.fullName": `fragment UserFullName on User { firstName lastName }`,
	})
	doc := mustParseQuery(t, `{ firstName fullName @computed(type: "User") }`)

	out, err := Augment(doc, reg)
	if err != nil {
		t.Fatal(err)
	}
	// duplicate firstName is deliberate: augment mode performs no merging
	assertDocEqual(t, `{ firstName fullName @computed(type: "User") firstName lastName }`, out)
}

func TestAugmentDoesNotMutateInput(t *testing.T) {
	reg := testRegistry(t, map[string]string{
		"User.fullName": `fragment UserFullName on User { firstName }`,
	})
	doc := mustParseQuery(t, `{ fullName @computed(type: "User") }`)
	before := language.FormatQuery(doc)

	if _, err := Augment(doc, reg); err != nil {
		t.Fatal(err)
	}
	if after := language.FormatQuery(doc); after != before {
		t.Fatalf("input document mutated:\nbefore: %s\nafter: %s", before, after)
	}
}

func TestAugmentAnnotationCountGrowsWithDepth(t *testing.T) {
	reg := testRegistry(t, map[string]string{
		"Account.summary": `fragment AccountSummary on Account { owner { fullName @computed(type: "User") } }`,
		"User.fullName":   `fragment UserFullName on User { firstName }`,
	})
	doc := mustParseQuery(t, `{ summary @computed(type: "Account") }`)

	out, err := Augment(doc, reg)
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Count(language.FormatQuery(out), "@"+DirectiveName); got != 2 {
		t.Fatalf("expected 2 annotations in augmented output, got %d", got)
	}
}

func TestAugmentNilDocument(t *testing.T) {
	out, err := Augment(nil, registry.Registry{})
	if err != nil {
		t.Fatal(err)
	}
	if out != nil {
		t.Fatalf("expected nil document, got %v", out)
	}
}

func TestAugmentPropagatesResolutionErrors(t *testing.T) {
	doc := mustParseQuery(t, `{ fullName @computed(type: "Ghost") }`)
	out, err := Augment(doc, registry.Registry{})
	if !errors.Is(err, registry.ErrUnknownEntityType) {
		t.Fatalf("expected ErrUnknownEntityType, got %v", err)
	}
	if out != nil {
		t.Fatal("no output expected on error")
	}
}

func TestAugmentCycleGuard(t *testing.T) {
	reg := testRegistry(t, map[string]string{
		"User.fullName": `fragment F on User { fullName @computed(type: "User") }`,
	})
	doc := mustParseQuery(t, `{ fullName @computed(type: "User") }`)
	_, err := Augment(doc, reg)
	if !errors.Is(err, ErrCyclicDependency) {
		t.Fatalf("expected ErrCyclicDependency, got %v", err)
	}
}
