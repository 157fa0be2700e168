package idgen

import (
	"strings"
	"testing"
)

func TestGenerate_Format(t *testing.T) {
	id, err := Generate(TodoPrefix)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.HasPrefix(id, TodoPrefix+"-") {
		t.Errorf("expected prefix %q, got %q", TodoPrefix, id)
	}

	suffix := strings.TrimPrefix(id, TodoPrefix+"-")
	if len(suffix) != IDLength {
		t.Errorf("expected %d hex characters, got %d (%q)", IDLength, len(suffix), suffix)
	}
	for _, c := range suffix {
		if !strings.ContainsRune("0123456789abcdef", c) {
			t.Errorf("expected hex suffix, got %q", suffix)
			break
		}
	}
}

func TestGenerate_Unique(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		id := MustGenerate(SubtaskPrefix)
		if _, ok := seen[id]; ok {
			t.Fatalf("duplicate id generated: %s", id)
		}
		seen[id] = struct{}{}
	}
}
