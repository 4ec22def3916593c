package sink

import (
	"cmp"
	"slices"

	"github.com/matzehuels/chartlayout/pkg/surface"
)

// sortedPaths returns the non-empty paths of l in paint order.
func sortedPaths(l *surface.Layer) []*surface.Path {
	paths := l.Paths()
	slices.SortStableFunc(paths, func(a, b *surface.Path) int {
		return cmp.Compare(a.ZIndex, b.ZIndex)
	})
	return paths
}
