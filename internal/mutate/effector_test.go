package mutate

import "testing"

func TestEffectorMapForcedEdges(t *testing.T) {
	e := newEffectorMap(1024)

	if !e.isSet(0) {
		t.Fatal("entry 0 must be forced to 1")
	}

	if !e.isSet(1023) {
		t.Fatal("entry covering the last byte must be forced to 1")
	}
}

// TestEffectorPruning reproduces scenario S3: a target that ignores the
// second half of a 1024-byte input should leave those entries at 0 after
// FLIP8 populates the map (except the last entry, which is always forced to
// 1), and FLIP16 should then skip that region.
func TestEffectorPruning(t *testing.T) {
	e := newEffectorMap(1024)

	// Simulate FLIP8 marking only the first half as effector.
	for i := 0; i < 512; i++ {
		e.mark(i)
	}

	last := len(e.entries) - 1

	for k := effPos(512); k < len(e.entries); k++ {
		want := byte(0)
		if k == last {
			want = 1 // covers the input's last byte
		}

		if e.entries[k] != want {
			t.Fatalf("entry %d = %d, want %d", k, e.entries[k], want)
		}
	}

	if e.consult(512, 2) {
		t.Fatal("FLIP16 at offset 512 should be skippable: no effector entry set there")
	}
}

func TestEffectorMonotonic(t *testing.T) {
	e := newEffectorMap(256)
	e.mark(100)

	if !e.isSet(100) {
		t.Fatal("mark must set the entry")
	}

	// Marking again, or consulting, must never clear it.
	e.mark(100)
	if !e.isSet(100) {
		t.Fatal("entry must remain set")
	}
}

func TestEffectorSaturation(t *testing.T) {
	e := newEffectorMap(800) // 100 entries at scale 3
	for i := range e.entries {
		if i < 91 {
			e.entries[i] = 1
		}
	}

	e.saturateIfDense()

	if !e.dense {
		t.Fatal("92% density (entries 0-90 plus the forced last entry) should trigger saturation at EffMaxPerc=90")
	}

	for i, v := range e.entries {
		if v != 1 {
			t.Fatalf("entry %d not saturated to 1", i)
		}
	}
}

func TestEffectorShortInputIsDense(t *testing.T) {
	e := newEffectorMap(EffMinLen - 1)
	if !e.dense {
		t.Fatal("inputs shorter than EffMinLen must start fully effector")
	}
}
