package idgen

import (
	"strings"
	"sync"
	"testing"
)

func TestNewDocumentID(t *testing.T) {
	id := NewDocumentID()
	if !strings.HasPrefix(id, "doc_") {
		t.Fatalf("id %q missing prefix", id)
	}
	if !IsValid(DocumentPrefix, id) {
		t.Errorf("IsValid(%q) = false", id)
	}
}

func TestIsValid(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"doc_not-a-ulid", false},
		{"jan_01j5k8m3n2p4q6r8s0t2v4w6x8", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsValid(DocumentPrefix, tt.value); got != tt.want {
			t.Errorf("IsValid(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestNew_ConcurrentUnique(t *testing.T) {
	const n = 200
	seen := make(map[string]struct{}, n)
	var mu sync.Mutex
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := New("doc")
			mu.Lock()
			seen[id] = struct{}{}
			mu.Unlock()
		}()
	}
	wg.Wait()
	if len(seen) != n {
		t.Errorf("generated %d unique ids, want %d", len(seen), n)
	}
}
