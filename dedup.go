package pagelingo

// Dedup collapses texts into the distinct strings in first-occurrence
// order plus an index map: indexMap[i] is the position in unique that
// texts[i] refers to. len(indexMap) always equals len(texts).
func Dedup(texts []string) (unique []string, indexMap []int) {
	indexMap = make([]int, len(texts))
	seen := make(map[string]int, len(texts))

	for i, text := range texts {
		idx, ok := seen[text]
		if !ok {
			idx = len(unique)
			unique = append(unique, text)
			seen[text] = idx
		}
		indexMap[i] = idx
	}

	return unique, indexMap
}
