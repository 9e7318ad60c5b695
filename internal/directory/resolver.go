// Package directory resolves the target list for a run, either from a static
// configuration list or from a directory-service (LDAP) lookup.
package directory

import (
	"context"
	"strings"
)

// Resolver produces the ordered list of targets to scan. A resolver may
// legitimately return an empty list; deciding what that means is up to the
// caller.
type Resolver interface {
	Resolve(ctx context.Context) ([]string, error)
}

// StaticResolver returns a fixed target list from configuration, in the
// configured order, with blank entries dropped.
type StaticResolver struct {
	targets []string
}

// NewStaticResolver creates a StaticResolver over the given list.
func NewStaticResolver(targets []string) *StaticResolver {
	cleaned := make([]string, 0, len(targets))
	for _, target := range targets {
		target = strings.TrimSpace(target)
		if target == "" {
			continue
		}
		cleaned = append(cleaned, target)
	}
	return &StaticResolver{targets: cleaned}
}

// Resolve returns a copy of the configured target list.
func (r *StaticResolver) Resolve(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	targets := make([]string, len(r.targets))
	copy(targets, r.targets)
	return targets, nil
}
