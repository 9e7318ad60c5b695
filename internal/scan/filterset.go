// Package scan implements the core inventory pipeline: the path filter set,
// the per-target scan task, the bounded fan-out executor, and the result
// aggregator.
package scan

import (
	"strings"

	"github.com/elliotchance/orderedmap/v2"
)

// PathFilterSet maps a filesystem root path to the set of file-extension
// suffixes searched under it. Roots iterate in insertion order, which fixes
// the processing order for tasks and the row order for existence reporting.
type PathFilterSet struct {
	roots *orderedmap.OrderedMap[string, []string]
}

// NewPathFilterSet creates an empty PathFilterSet.
func NewPathFilterSet() *PathFilterSet {
	return &PathFilterSet{
		roots: orderedmap.NewOrderedMap[string, []string](),
	}
}

// Add registers a root path with its extension suffixes. Adding a root that
// is already present replaces its extensions, keeping roots unique.
func (s *PathFilterSet) Add(root string, extensions ...string) {
	exts := make([]string, len(extensions))
	copy(exts, extensions)
	s.roots.Set(root, exts)
}

// Roots returns the root paths in insertion order.
func (s *PathFilterSet) Roots() []string {
	return s.roots.Keys()
}

// Extensions returns the extension suffixes declared for root, in declared
// order. The second return is false if the root is not in the set.
func (s *PathFilterSet) Extensions(root string) ([]string, bool) {
	exts, ok := s.roots.Get(root)
	return exts, ok
}

// Len returns the number of root paths in the set.
func (s *PathFilterSet) Len() int {
	return s.roots.Len()
}

// FilterCount returns the total number of (root, extension) pairs. Used for
// run summaries.
func (s *PathFilterSet) FilterCount() int {
	count := 0
	for el := s.roots.Front(); el != nil; el = el.Next() {
		count += len(el.Value)
	}
	return count
}

// MatchesExtension reports whether the file name ends with the extension
// suffix, compared case-insensitively.
func MatchesExtension(name, extension string) bool {
	if len(name) < len(extension) {
		return false
	}
	return strings.EqualFold(name[len(name)-len(extension):], extension)
}
