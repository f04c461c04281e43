// Package hierarchy maintains the region/port closure used to resolve
// location identifiers into the port codes they cover.
//
// Regions form a forest keyed by slug. A Snapshot is built once from the full
// region and port lists and is immutable afterwards; the Cache swaps whole
// snapshots when the underlying data changes.
package hierarchy

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"rates-api-go/pkg/model"
)

// CycleError is returned when regions reference each other in a loop.
// Slugs lists every region that cannot be reached from a root.
type CycleError struct {
	Slugs []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("region hierarchy contains a cycle involving: %s", strings.Join(e.Slugs, ", "))
}

// Snapshot is one immutable build of the hierarchy closure
type Snapshot struct {
	version int64
	builtAt time.Time

	// port code -> immediate region slug
	ports map[string]string
	// region slug -> sorted port codes in the region and all its descendants
	closure map[string][]string
	// region slug -> sorted descendant region slugs, including itself
	descendants map[string][]string
}

// Build computes the closure for every region. Regions whose parent slug is
// unknown are treated as roots. Ports pointing at unknown regions resolve by
// code only.
func Build(regions []model.Region, ports []model.Port, version int64) (*Snapshot, error) {
	known := make(map[string]struct{}, len(regions))
	for _, r := range regions {
		known[r.Slug] = struct{}{}
	}

	children := make(map[string][]string, len(regions))
	var roots []string
	for _, r := range regions {
		parent, ok := r.Parent()
		if _, exists := known[parent]; ok && exists {
			children[parent] = append(children[parent], r.Slug)
			continue
		}
		roots = append(roots, r.Slug)
	}

	portIndex := make(map[string]string, len(ports))
	ownPorts := make(map[string][]string, len(regions))
	for _, p := range ports {
		portIndex[p.Code] = p.ParentSlug
		if _, exists := known[p.ParentSlug]; exists {
			ownPorts[p.ParentSlug] = append(ownPorts[p.ParentSlug], p.Code)
		}
	}

	s := &Snapshot{
		version:     version,
		builtAt:     time.Now(),
		ports:       portIndex,
		closure:     make(map[string][]string, len(regions)),
		descendants: make(map[string][]string, len(regions)),
	}

	// Iterative post-order walk so deep hierarchies cannot blow the stack.
	type frame struct {
		slug     string
		expanded bool
	}
	for _, root := range roots {
		stack := []frame{{slug: root}}
		for len(stack) > 0 {
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			if !top.expanded {
				stack = append(stack, frame{slug: top.slug, expanded: true})
				for _, child := range children[top.slug] {
					stack = append(stack, frame{slug: child})
				}
				continue
			}

			codes := append(make([]string, 0, len(ownPorts[top.slug])), ownPorts[top.slug]...)
			slugs := []string{top.slug}
			for _, child := range children[top.slug] {
				codes = append(codes, s.closure[child]...)
				slugs = append(slugs, s.descendants[child]...)
			}
			sort.Strings(codes)
			sort.Strings(slugs)
			s.closure[top.slug] = codes
			s.descendants[top.slug] = slugs
		}
	}

	if len(s.closure) != len(known) {
		var orphaned []string
		for slug := range known {
			if _, ok := s.closure[slug]; !ok {
				orphaned = append(orphaned, slug)
			}
		}
		sort.Strings(orphaned)
		return nil, &CycleError{Slugs: orphaned}
	}

	return s, nil
}

// Version is the monotonically increasing build number of the snapshot
func (s *Snapshot) Version() int64 { return s.version }

// BuiltAt is when the snapshot was computed
func (s *Snapshot) BuiltAt() time.Time { return s.builtAt }

// Stats summarises the snapshot
func (s *Snapshot) Stats() model.HierarchyStats {
	return model.HierarchyStats{
		Version: s.version,
		Regions: len(s.closure),
		Ports:   len(s.ports),
	}
}
