package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"

	"tableflip.dev/grid/pkg/aspect"
)

// NotFoundError carries close names for an aspect reference that matched
// nothing.
type NotFoundError struct {
	Ref         string
	Suggestions []string
}

func (e *NotFoundError) Error() string {
	if len(e.Suggestions) == 0 {
		return fmt.Sprintf("app: aspect %q not found", e.Ref)
	}
	return fmt.Sprintf("app: aspect %q not found, did you mean %s?", e.Ref, strings.Join(e.Suggestions, " or "))
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// Resolve finds an aspect by id or by name, ignoring case and formatting.
func (s *Service) Resolve(ctx context.Context, ref string) (aspect.Aspect, error) {
	list, err := s.Aspects(ctx)
	if err != nil {
		return aspect.Aspect{}, err
	}
	if i := aspect.Index(list, ref); i >= 0 {
		return list[i], nil
	}
	key := aspect.NameKey(ref)
	for _, a := range list {
		if key != "" && aspect.NameKey(a.Name) == key {
			return a, nil
		}
	}
	return aspect.Aspect{}, &NotFoundError{Ref: ref, Suggestions: Suggest(list, ref, 2)}
}

type names []aspect.Aspect

func (n names) String(i int) string { return n[i].Name }
func (n names) Len() int            { return len(n) }

// Suggest returns up to max aspect names fuzzily matching ref, best first.
func Suggest(list []aspect.Aspect, ref string, max int) []string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil
	}
	matches := fuzzy.FindFrom(ref, names(list))
	var out []string
	for _, m := range matches {
		if len(out) == max {
			break
		}
		out = append(out, m.Str)
	}
	return out
}
