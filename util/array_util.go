package util

// TransformSlice returns the results of calling mapper on each element of s.
func TransformSlice[S ~[]E, E any, V any](s S, mapper func(E) V) []V {
	r := make([]V, len(s))
	for i, v := range s {
		r[i] = mapper(v)
	}
	return r
}

// FirstDuplicate returns the index of the first element which already
// appeared earlier in s, -1 when all elements are unique.
func FirstDuplicate[S ~[]E, E comparable](s S) int {
	seen := make(map[E]struct{}, len(s))
	for i, v := range s {
		if _, ok := seen[v]; ok {
			return i
		}
		seen[v] = struct{}{}
	}
	return -1
}
