package docgen

import (
	"math/rand"
	"regexp"
	"testing"
	"time"
)

func TestGenerateReferenceFormat(t *testing.T) {
	pattern := regexp.MustCompile(`^REG-\d{8}-\d{5}$`)
	rnd := rand.New(rand.NewSource(1))
	now := time.Date(2025, 3, 14, 10, 30, 0, 0, time.UTC)

	for i := 0; i < 1000; i++ {
		ref := GenerateReference(now, rnd)
		if !pattern.MatchString(ref) {
			t.Fatalf("reference %q does not match expected pattern", ref)
		}
		if ref[:12] != "REG-20250314" {
			t.Fatalf("reference %q does not carry the generation date", ref)
		}
	}
}

func TestGenerateReferenceZeroPadsSuffix(t *testing.T) {
	// Source(42) yields small first values on some Go versions; force the
	// point with a handful of seeds and check length stays fixed.
	now := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	for seed := int64(0); seed < 50; seed++ {
		ref := GenerateReference(now, rand.New(rand.NewSource(seed)))
		if len(ref) != len("REG-20250102-00000") {
			t.Fatalf("seed %d: reference %q has wrong length", seed, ref)
		}
	}
}

func TestGenerateReferenceDeterministicForSeed(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	a := GenerateReference(now, rand.New(rand.NewSource(7)))
	b := GenerateReference(now, rand.New(rand.NewSource(7)))
	if a != b {
		t.Fatalf("same clock and seed should mint the same reference: %q vs %q", a, b)
	}
}
