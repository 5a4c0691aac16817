package cryptorand

import "testing"

func TestSource(t *testing.T) {
	r := New()
	seen := map[int]bool{}
	for i := 0; i < 1000; i++ {
		n := r.Intn(6)
		if n < 0 || n >= 6 {
			t.Fatalf("Intn(6) = %d", n)
		}
		seen[n] = true
	}
	if len(seen) != 6 {
		t.Errorf("only saw %d distinct values in 1000 draws", len(seen))
	}
	if v := (Source{}).Int63(); v < 0 {
		t.Errorf("Int63 = %d", v)
	}
}
