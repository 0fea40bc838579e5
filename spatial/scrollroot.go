// SPDX-License-Identifier: Unlicense OR MIT

package spatial

const (
	scrollEpsilon      = 0.5
	minScrollRootSize  = 8.0
)

// FindScrollRoot walks from node toward the root and returns the
// spatial node that should serve as the reference for a picture-cache
// slice rooted at node (spec §4.2 "Scroll-root selection", GLOSSARY
// "Scroll root").
//
// The outermost explicit scroll frame with scrollable content and a
// large-enough viewport wins. A Reference frame that is not a pure 2D
// scale+translation (including any Perspective frame) resets the
// search: any candidate found between the starting node and that
// reference frame is discarded, because content below such a boundary
// cannot share a picture-cache slice with content above it. A sticky
// frame with AllowAsScrollRoot set is itself returned immediately,
// short-circuiting ancestor search. A pipeline-root scroll frame with
// IsRootPipeline set terminates the walk once reached.
func (t *Tree) FindScrollRoot(node NodeIndex) NodeIndex {
	var scrollable, fallback NodeIndex = NoParent, NoParent

	cur := node
	for cur != NoParent {
		n := &t.Nodes[cur]
		switch n.Kind {
		case KindReferenceFrame:
			if rf := n.RefFrame; rf != nil {
				if rf.Kind.IsPerspective || !rf.Kind.Is2DScaleTranslation {
					scrollable, fallback = NoParent, NoParent
				}
			}
		case KindStickyFrame:
			if n.Sticky != nil && n.Sticky.AllowAsScrollRoot {
				return cur
			}
		case KindScrollFrame:
			sf := n.Scroll
			fallback = cur
			amount := sf.ScrollableAmount()
			viewportOK := sf.ViewportRect.Dx() >= minScrollRootSize && sf.ViewportRect.Dy() >= minScrollRootSize
			if (amount.X >= scrollEpsilon || amount.Y >= scrollEpsilon) && viewportOK {
				scrollable = cur
			}
			if sf.Kind.IsPipelineRoot && sf.Kind.IsRootPipeline {
				cur = NoParent
				continue
			}
		}
		if cur == NoParent {
			break
		}
		cur = n.Parent
	}
	if scrollable != NoParent {
		return scrollable
	}
	if fallback != NoParent {
		return fallback
	}
	return t.Root
}
