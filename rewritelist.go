package querex

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"fmt"
	"reflect"
)

// RewriteList applies a per-element rewrite to an ordered sequence with
// minimal copying: as long as every rewritten element is identical (by
// handle) to its original, no allocation happens and the original slice is
// returned as-is. On the first difference a copy of the already-scanned
// prefix is materialized and the scan continues into the copy. Order and
// length are always preserved.
//
// Every rewritten element must be present; an absent result fails with
// ErrKindMismatchInList, naming the element category and the index. Errors
// from the rewrite function abort the scan unchanged.
func RewriteList[T any](xs []T, rewrite func(T) (T, error)) ([]T, error) {
	if rewrite == nil {
		return nil, fmt.Errorf("%w: RewriteList rewrite function", ErrArgumentAbsent)
	}
	var out []T
	for i, x := range xs {
		nx, err := rewrite(x)
		if err != nil {
			return nil, err
		}
		if isAbsent(nx) {
			return nil, fmt.Errorf("%w: expected %s at index %d, got none",
				ErrKindMismatchInList, categoryName[T](), i)
		}
		if out == nil && any(nx) != any(x) {
			out = make([]T, len(xs))
			copy(out, xs[:i])
		}
		if out != nil {
			out[i] = nx
		}
	}
	if out == nil {
		return xs, nil // zero-copy: nothing changed
	}
	return out, nil
}

// sliceIdentical reports whether two slices are the same sequence handle.
// RewriteList hands back the original slice iff nothing changed, so
// comparing the backing arrays suffices.
func sliceIdentical[T any](a, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	return len(a) == 0 || &a[0] == &b[0]
}

// categoryName names the element category T for diagnostics.
func categoryName[T any]() string {
	return reflect.TypeOf((*T)(nil)).Elem().String()
}

// isAbsent reports whether a value is missing, including typed-nil handles
// hiding inside a non-nil interface.
func isAbsent(v interface{}) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Slice, reflect.Map, reflect.Func:
		return rv.IsNil()
	}
	return false
}
