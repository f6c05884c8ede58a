// Package ptr provides generic utility functions for operating on/creating pointers.
package ptr

// To returns a pointer to a copy of the provided object.
func To[V any](v V) *V {
	return &v
}

// From dereferences the given pointer or returns the zero value if <nil>; the
// Azure SDK hands most response attributes back as pointers.
func From[V any](v *V) V {
	if v != nil {
		return *v
	}

	return *new(V)
}
