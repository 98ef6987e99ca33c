package event

import (
	"fmt"

	"github.com/S-Corkum/canopy/pkg/semantic/model"
)

// MalformedArcError describes the first malformed dependency arc found
// during validation (spec.md §4.6 "Malformed dependency arcs (cycle,
// missing head) cause the whole sentence to fail"). It is fatal for the
// sentence; no partial events are emitted.
type MalformedArcError struct {
	Arc    model.DependencyArc
	Reason string
}

func (e *MalformedArcError) Error() string {
	return fmt.Sprintf("event: malformed arc child=%d head=%d relation=%s: %s",
		e.Arc.Child, e.Arc.Head, e.Arc.Relation, e.Reason)
}

// validateArcs checks that arcs form a tree rooted at model.Root: every
// non-root token has exactly one head, every head index is either Root or
// an in-range token, and following head pointers from any token terminates
// at Root without revisiting a token (no cycles).
func validateArcs(tokenCount int, arcs []model.DependencyArc) error {
	headOf := make(map[int]int, len(arcs))
	relOf := make(map[int]model.DependencyArc, len(arcs))

	for _, arc := range arcs {
		if arc.Child < 0 || arc.Child >= tokenCount {
			return &MalformedArcError{Arc: arc, Reason: "child index out of range"}
		}
		if arc.Head != model.Root && (arc.Head < 0 || arc.Head >= tokenCount) {
			return &MalformedArcError{Arc: arc, Reason: "head index out of range"}
		}
		if _, dup := headOf[arc.Child]; dup {
			return &MalformedArcError{Arc: arc, Reason: "child has more than one head"}
		}
		headOf[arc.Child] = arc.Head
		relOf[arc.Child] = arc
	}

	for child := range headOf {
		visited := map[int]bool{child: true}
		cur := child
		for {
			head, ok := headOf[cur]
			if !ok {
				// cur has no declared arc (it is itself a root or a token
				// the caller omitted an arc for); treat as terminating.
				break
			}
			if head == model.Root {
				break
			}
			if visited[head] {
				return &MalformedArcError{Arc: relOf[child], Reason: "cycle in dependency arcs"}
			}
			visited[head] = true
			cur = head
		}
	}

	return nil
}
