package service

import "fmt"

// ResourceError reports a boundary resource that is missing or unreadable.
type ResourceError struct {
	Path string
	Err  error
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("boundary resource %s: %v", e.Path, e.Err)
}

func (e *ResourceError) Unwrap() error { return e.Err }

// MalformedGeometryError reports a boundary payload that is not a usable
// feature collection of polygons.
type MalformedGeometryError struct {
	Path   string
	Reason string
	Err    error
}

func (e *MalformedGeometryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed geometry in %s: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("malformed geometry in %s: %s", e.Path, e.Reason)
}

func (e *MalformedGeometryError) Unwrap() error { return e.Err }

// IndexOutOfRangeError reports a region index outside the feature collection.
type IndexOutOfRangeError struct {
	Index int
	Count int
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("region index %d out of range (features: %d)", e.Index, e.Count)
}
