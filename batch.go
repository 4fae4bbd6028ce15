package pagelingo

// Batch is a bounded group of not-yet-cached unique strings sent together
// in one remote request. Indices holds the unique-set position of each
// text, so results can be merged back regardless of completion order.
type Batch struct {
	Texts   []string
	Indices []int
}

// MakeBatches partitions texts into contiguous groups of at most size
// entries. indices must be parallel to texts; each batch carries the
// slice of indices it covers. The partition is deterministic and
// order-preserving: concatenating all batches reproduces the input.
func MakeBatches(texts []string, indices []int, size int) []Batch {
	if len(texts) == 0 {
		return nil
	}
	if size <= 0 {
		size = DefaultPipelineConfig().MaxBatchSize
	}

	batches := make([]Batch, 0, (len(texts)+size-1)/size)
	for start := 0; start < len(texts); start += size {
		end := start + size
		if end > len(texts) {
			end = len(texts)
		}
		batches = append(batches, Batch{
			Texts:   texts[start:end],
			Indices: indices[start:end],
		})
	}

	return batches
}
