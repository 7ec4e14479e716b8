package entity

// DedupeVertices removes vertices with equal identity. The first occurrence
// keeps its position and takes the value of the last occurrence.
func DedupeVertices[ID comparable](vs []*Vertex[ID]) []*Vertex[ID] {
	return dedupe(vs, (*Vertex[ID]).Key)
}

// DedupeEdges removes edges with equal identity. The first occurrence keeps
// its position and takes the value of the last occurrence.
func DedupeEdges[S, D comparable](es []*Edge[S, D]) []*Edge[S, D] {
	return dedupe(es, (*Edge[S, D]).Key)
}

func dedupe[T any, K comparable](items []T, key func(T) K) []T {
	index := make(map[K]int, len(items))
	out := make([]T, 0, len(items))
	for _, it := range items {
		k := key(it)
		if i, ok := index[k]; ok {
			out[i] = it
			continue
		}
		index[k] = len(out)
		out = append(out, it)
	}
	return out
}
