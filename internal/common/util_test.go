package common

import "testing"

// ---------- GenerateRandByteArray ----------

func TestGenerateRandByteArray_Basic(t *testing.T) {
	const n = 24
	buf := GenerateRandByteArray(n)
	if len(buf) != n {
		t.Fatalf("expected length %d, got %d", n, len(buf))
	}
}

// ---------- RandIntRange ----------

func TestRandIntRange_StaysInBounds(t *testing.T) {
	for i := 0; i < 500; i++ {
		v, err := RandIntRange(100000, 999999)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if v < 100000 || v > 999999 {
			t.Fatalf("value out of range: %d", v)
		}
	}
}

func TestRandIntRange_SingleValue(t *testing.T) {
	v, err := RandIntRange(7, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 7 {
		t.Fatalf("expected 7, got %d", v)
	}
}

// ---------- WipeByteArray ----------

func TestWipeByteArray_ZerosBuffer(t *testing.T) {
	buf := []byte{1, 2, 3, 4, 5}
	WipeByteArray(buf)
	for i, v := range buf {
		if v != 0 {
			t.Fatalf("expected buf[%d]==0, got %d", i, v)
		}
	}
}

func TestWipeByteArray_NilSafe(t *testing.T) {
	WipeByteArray(nil)
}
