package pagelingo

import (
	"fmt"
	"testing"
)

func TestDedup_Basic(t *testing.T) {
	unique, indexMap := Dedup([]string{"a", "b", "a", "c", "b"})

	if len(unique) != 3 {
		t.Fatalf("expected 3 unique strings, got %d", len(unique))
	}
	if unique[0] != "a" || unique[1] != "b" || unique[2] != "c" {
		t.Errorf("expected first-occurrence order [a b c], got %v", unique)
	}

	want := []int{0, 1, 0, 2, 1}
	if len(indexMap) != len(want) {
		t.Fatalf("expected index map length %d, got %d", len(want), len(indexMap))
	}
	for i, idx := range want {
		if indexMap[i] != idx {
			t.Errorf("indexMap[%d] = %d, want %d", i, indexMap[i], idx)
		}
	}
}

func TestDedup_Empty(t *testing.T) {
	unique, indexMap := Dedup(nil)
	if len(unique) != 0 {
		t.Errorf("expected no unique strings, got %v", unique)
	}
	if len(indexMap) != 0 {
		t.Errorf("expected empty index map, got %v", indexMap)
	}
}

func TestDedup_NoRepeats(t *testing.T) {
	in := []string{"x", "y", "z"}
	unique, indexMap := Dedup(in)

	if len(unique) != 3 {
		t.Fatalf("expected 3 unique strings, got %d", len(unique))
	}
	for i := range in {
		if unique[i] != in[i] {
			t.Errorf("unique[%d] = %q, want %q", i, unique[i], in[i])
		}
		if indexMap[i] != i {
			t.Errorf("indexMap[%d] = %d, want %d", i, indexMap[i], i)
		}
	}
}

func TestDedup_IndexMapInvariant(t *testing.T) {
	var texts []string
	for i := 0; i < 100; i++ {
		texts = append(texts, fmt.Sprintf("s%d", i%7))
	}

	unique, indexMap := Dedup(texts)

	if len(indexMap) != len(texts) {
		t.Fatalf("index map length %d != input length %d", len(indexMap), len(texts))
	}
	for i, idx := range indexMap {
		if idx < 0 || idx >= len(unique) {
			t.Fatalf("indexMap[%d] = %d out of range [0,%d)", i, idx, len(unique))
		}
		if unique[idx] != texts[i] {
			t.Errorf("unique[indexMap[%d]] = %q, want %q", i, unique[idx], texts[i])
		}
	}
}

func TestExpand_RestoresOrder(t *testing.T) {
	unique, indexMap := Dedup([]string{"a", "b", "a"})
	resolved := make([]string, len(unique))
	for i, text := range unique {
		resolved[i] = "t:" + text
	}

	out := Expand(resolved, indexMap)

	want := []string{"t:a", "t:b", "t:a"}
	if len(out) != len(want) {
		t.Fatalf("expected %d results, got %d", len(want), len(out))
	}
	for i := range want {
		if out[i] != want[i] {
			t.Errorf("out[%d] = %q, want %q", i, out[i], want[i])
		}
	}
}
