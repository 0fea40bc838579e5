// SPDX-License-Identifier: Unlicense OR MIT

// Package cliptree implements the clip DAG, per-primitive clip-chain
// instance building, and the mask-need decision (spec §4.3).
package cliptree

import (
	"github.com/tiledframe/core/f32"
	"github.com/tiledframe/core/intern"
	"github.com/tiledframe/core/spatial"
)

// NodeID identifies a node of the clip tree (the trie of handle
// sequences built during scene construction).
type NodeID int32

// NoClip is the root of every clip tree: the "no clips at all" node.
const NoClip NodeID = -1

// Mode discriminates a clip that keeps content inside its shape from
// one that keeps content outside it.
type Mode uint8

const (
	Clip Mode = iota
	ClipOut
)

// Kind discriminates the clip source shapes spec §4.3 names.
type Kind uint8

const (
	KindRectangle Kind = iota
	KindRoundedRectangle
	KindImage
	KindBoxShadow
)

// RoundedRect carries per-corner radii alongside the outer rect.
type RoundedRect struct {
	Rect    f32.Rectangle
	Radii   [4]f32.Point // top-left, top-right, bottom-right, bottom-left
}

// BoxShadowClip is the clip source for a box-shadow's inner/outer
// nine-patch mask (spec §4.3 "Box-shadow clip").
type BoxShadowClip struct {
	OriginalAllocSize f32.Point
	ShadowRadius      f32.Point
	PrimShadowRect    f32.Rectangle
	BlurRadius        float32
	Mode              Mode
	StretchModeX      StretchMode
	StretchModeY      StretchMode
	CacheKey          uint64
}

// StretchMode controls how a nine-patch mask repeats across an axis.
type StretchMode uint8

const (
	StretchSimple StretchMode = iota
	StretchFixed
)

const (
	blurSampleScale  = 3.0
	maxMaskAllocAxis = 2048.0
)

// NinePatchMaskSize returns the minimum nine-patch mask size for b,
// expanded by the blur sample scale and clamped to maxMaskAllocAxis,
// plus the uniform downscale factor applied (1 if no downscale was
// needed) so the shader can recover the original allocation size.
func (b BoxShadowClip) NinePatchMaskSize() (size f32.Point, scale float32) {
	corner := b.ShadowRadius
	blur := b.BlurRadius * blurSampleScale
	w := corner.X*2 + blur*2
	h := corner.Y*2 + blur*2
	scale = 1
	if w > maxMaskAllocAxis || h > maxMaskAllocAxis {
		s := maxMaskAllocAxis / maxf(w, h)
		w *= s
		h *= s
		scale = s
	}
	return f32.Point{X: w, Y: h}, scale
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

// Item is one interned clip descriptor (spec §3 "Clip node").
type Item struct {
	Kind    Kind
	Mode    Mode
	Rect    RoundedRect
	ImageID uint64
	Tiled   bool
	Shadow  BoxShadowClip
	Spatial spatial.NodeIndex
}

// Store interns clip items and holds the clip tree (trie of handle
// sequences) built during scene construction.
type Store struct {
	Items    *intern.Interner[Item]
	Parents  []NodeID
	Handles  []intern.Handle // the clip handle introduced at this node, or Invalid for a pure grouping node
	children map[nodeChildKey]NodeID
}

type nodeChildKey struct {
	parent NodeID
	handle intern.Handle
}

// NewStore creates an empty clip store with the given interner capacity.
func NewStore(capacity int) *Store {
	return &Store{
		Items:    intern.NewInterner[Item](capacity),
		children: make(map[nodeChildKey]NodeID),
	}
}

// Add returns the clip-tree node that extends parent with handles, in
// order, structurally sharing any prefix already present (spec §4.3
// "the trie lookup makes this structurally sharing").
func (s *Store) Add(parent NodeID, handles []intern.Handle) NodeID {
	cur := parent
	for _, h := range handles {
		key := nodeChildKey{parent: cur, handle: h}
		if next, ok := s.children[key]; ok {
			cur = next
			continue
		}
		next := NodeID(len(s.Parents))
		s.Parents = append(s.Parents, cur)
		s.Handles = append(s.Handles, h)
		s.children[key] = next
		cur = next
	}
	return cur
}

// handleChain returns the clip handles from node up to (excluding) the
// root, in leaf-to-root order.
func (s *Store) handleChain(node NodeID) []intern.Handle {
	var out []intern.Handle
	for n := node; n != NoClip; n = s.Parents[n] {
		if s.Handles[n].Valid() {
			out = append(out, s.Handles[n])
		}
	}
	return out
}

// LCA returns the lowest common ancestor of a and b in the clip tree.
func (s *Store) LCA(a, b NodeID) NodeID {
	depth := func(n NodeID) int {
		d := 0
		for ; n != NoClip; n = s.Parents[n] {
			d++
		}
		return d
	}
	da, db := depth(a), depth(b)
	for da > db {
		a = s.Parents[a]
		da--
	}
	for db > da {
		b = s.Parents[b]
		db--
	}
	for a != b {
		a = s.Parents[a]
		b = s.Parents[b]
	}
	return a
}
