// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package sparserun

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// dumpRuns is a wrapper for fprintRuns, just like [SparseArray.String] wraps
// [SparseArray.Fprint]. If fprintRuns returns an error, dumpRuns panics —
// writing to a strings.Builder never fails.
func dumpRuns[I any](e *engine[I], describe func(I) string) string {
	w := new(strings.Builder)
	if err := fprintRuns(w, e, describe); err != nil {
		panic(err)
	}
	return w.String()
}

// fprintRuns writes one line per node of e's run list to w, in order:
//
//	[0,5) present "hello"
//	[5,7) deleted
//	[7,12) present "world"
//
// This is a debugging aid only; it has no relation to the §6 serialized
// form and its layout may change between versions.
func fprintRuns[I any](w io.Writer, e *engine[I], describe func(I) string) error {
	if w == nil {
		return errors.New("sparserun: nil writer")
	}

	var err error
	e.walk(func(start int, n *node[I]) bool {
		end := start + n.length(e.ops)
		if n.kind == kindPresent {
			_, err = fmt.Fprintf(w, "[%d,%d) present %s\n", start, end, describe(n.item))
		} else {
			_, err = fmt.Fprintf(w, "[%d,%d) deleted\n", start, end)
		}
		return err == nil
	})
	return err
}
