package api

import (
	"fmt"
	"testing"
)

func TestResultStoreEvictsOldest(t *testing.T) {
	t.Parallel()

	s := NewResultStore(2)
	for i := range 3 {
		s.Put(&EvalResponse{ID: fmt.Sprintf("eval_%d", i)})
	}
	if _, ok := s.Get("eval_0"); ok {
		t.Fatal("oldest result should have been evicted")
	}
	for _, id := range []string{"eval_1", "eval_2"} {
		if _, ok := s.Get(id); !ok {
			t.Fatalf("%s missing", id)
		}
	}
	if s.Len() != 2 {
		t.Fatalf("len = %d", s.Len())
	}
}

func TestResultStoreReplaceAndDelete(t *testing.T) {
	t.Parallel()

	s := NewResultStore(2)
	s.Put(&EvalResponse{ID: "a", NP: 1})
	s.Put(&EvalResponse{ID: "a", NP: 2})
	if r, _ := s.Get("a"); r.NP != 2 {
		t.Fatalf("replacement not stored: %+v", r)
	}
	if !s.Delete("a") || s.Delete("a") {
		t.Fatal("delete should succeed once")
	}
	s.Put(&EvalResponse{ID: "b"})
	s.Put(&EvalResponse{ID: "c"})
	if _, ok := s.Get("b"); !ok {
		t.Fatal("deleted id's slot evicted a live result too early")
	}
}

func TestResultStoreDisabled(t *testing.T) {
	t.Parallel()

	s := NewResultStore(0)
	s.Put(&EvalResponse{ID: "a"})
	if s.Len() != 0 {
		t.Fatal("zero capacity store kept a result")
	}
}
