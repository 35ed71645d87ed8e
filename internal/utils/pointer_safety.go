package utils

// Value dereferences v, returning the zero value for nil.
func Value[T any](v *T) T {
	return ValueOr(v, *new(T))
}

// ValueOr dereferences v, returning fallback for nil.
func ValueOr[T any](v *T, fallback T) T {
	if v == nil {
		return fallback
	}
	return *v
}

func Ptr[T any](v T) *T {
	return &v
}
