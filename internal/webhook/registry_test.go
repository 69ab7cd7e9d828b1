package webhook

import (
	"fmt"
	"testing"
	"time"

	"callbridge/internal/rest"
)

func newTestClient(t *testing.T) *rest.Client {
	t.Helper()
	c, err := rest.NewClient("AC1", "token")
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	return c
}

func TestRegistryPutGet(t *testing.T) {
	r := NewRegistry(0, 0)
	client := newTestClient(t)

	if !r.Put("CA1", client) {
		t.Fatalf("put failed")
	}
	got, ok := r.Get("CA1")
	if !ok || got != client {
		t.Fatalf("get returned %v, %v", got, ok)
	}
	if _, ok := r.Get("CA2"); ok {
		t.Fatalf("unexpected hit for unknown sid")
	}
}

func TestRegistryRejectsEmptyKeys(t *testing.T) {
	r := NewRegistry(0, 0)
	if r.Put("", newTestClient(t)) {
		t.Fatalf("empty sid accepted")
	}
	if r.Put("CA1", nil) {
		t.Fatalf("nil client accepted")
	}
	if r.Len() != 0 {
		t.Fatalf("registry not empty: %d", r.Len())
	}
}

func TestRegistryCapacity(t *testing.T) {
	r := NewRegistry(time.Minute, 3)
	client := newTestClient(t)

	for i := 0; i < 3; i++ {
		if !r.Put(fmt.Sprintf("CA%d", i), client) {
			t.Fatalf("put %d failed below capacity", i)
		}
	}
	if r.Put("CA3", client) {
		t.Fatalf("put accepted past capacity")
	}
	// Refreshing an existing entry is always allowed.
	if !r.Put("CA0", client) {
		t.Fatalf("refresh of existing entry failed at capacity")
	}
	if r.Len() != 3 {
		t.Fatalf("len = %d, want 3", r.Len())
	}
}

func TestRegistryExpiry(t *testing.T) {
	r := NewRegistry(10*time.Millisecond, 0)
	r.Put("CA1", newTestClient(t))

	time.Sleep(25 * time.Millisecond)
	if _, ok := r.Get("CA1"); ok {
		t.Fatalf("entry survived past TTL")
	}
}

func TestRegistryDelete(t *testing.T) {
	r := NewRegistry(0, 0)
	r.Put("CA1", newTestClient(t))
	r.Delete("CA1")
	if _, ok := r.Get("CA1"); ok {
		t.Fatalf("entry survived delete")
	}
}
