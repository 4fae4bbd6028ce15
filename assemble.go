package pagelingo

// merge writes a batch's results into the result vector at the
// unique-set positions the batch covers. out must have one entry per
// batch text; the dispatcher guarantees this even on fallback.
func merge(resolved []string, b Batch, out []string) {
	for i, idx := range b.Indices {
		resolved[idx] = out[i]
	}
}

// Expand maps a fully populated result vector back to the original
// request order through the index map produced by Dedup. The output has
// exactly len(indexMap) entries; repeated inputs share one resolved
// translation.
func Expand(resolved []string, indexMap []int) []string {
	out := make([]string, len(indexMap))
	for i, idx := range indexMap {
		out[i] = resolved[idx]
	}
	return out
}
