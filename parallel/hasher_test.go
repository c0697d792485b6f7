package parallel

import "testing"

// hasher test
func TestHasher(t *testing.T) {
	h := NewHasher(100)
	for n := 0; n < 100; n++ {
		h.MustPutHash(n, [32]byte{byte(n)})
	}
	want := h.Sum()

	// out-of-order puts must fold to the same digest
	h2 := NewHasher(100)
	for n := 99; n >= 0; n-- {
		h2.MustPutHash(n, [32]byte{byte(n)})
	}
	if h2.Sum() != want {
		t.Errorf("hasher digest depends on put order: %x != %x", h2.Sum(), want)
	}
}

func TestHasherDuplicate(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("duplicate put did not panic")
		}
	}()
	h := NewHasher(2)
	h.MustPutHash(1, [32]byte{1})
	h.MustPutHash(1, [32]byte{2})
}
