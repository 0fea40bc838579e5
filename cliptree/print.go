// SPDX-License-Identifier: Unlicense OR MIT

package cliptree

import (
	"fmt"
	"io"
)

// DumpTree writes a human-readable listing of every clip-tree node and
// its parent, for debugging (spec §4.3 "Tree printing").
func (s *Store) DumpTree(w io.Writer) {
	for i := range s.Parents {
		n := NodeID(i)
		h := s.Handles[n]
		fmt.Fprintf(w, "#%d parent=%d handle=%s\n", n, s.Parents[n], h)
	}
}
