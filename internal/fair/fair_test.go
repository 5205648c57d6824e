package fair_test

import (
	"testing"

	"casino-engine-backend/internal/fair"
)

func TestDeriveFloatsDeterministic(t *testing.T) {
	serverSeed := "f3c9e2b1a0d87654f3c9e2b1a0d87654f3c9e2b1a0d87654f3c9e2b1a0d87654"
	clientSeed := "player-seed"

	a := fair.DeriveFloats(serverSeed, clientSeed, 7, 0, 20)
	b := fair.DeriveFloats(serverSeed, clientSeed, 7, 0, 20)

	if len(a) != 20 {
		t.Fatalf("expected 20 floats, got %d", len(a))
	}

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("derivation not deterministic at index %d: %v != %v", i, a[i], b[i])
		}
		if a[i] < 0 || a[i] >= 1 {
			t.Errorf("float %d out of [0,1): %v", i, a[i])
		}
	}
}

func TestDeriveFloatsCursorWindow(t *testing.T) {
	serverSeed := "a1b2c3d4"
	clientSeed := "seed"

	full := fair.DeriveFloats(serverSeed, clientSeed, 1, 0, 24)
	window := fair.DeriveFloats(serverSeed, clientSeed, 1, 10, 6)

	for i := 0; i < 6; i++ {
		if window[i] != full[10+i] {
			t.Errorf("cursor window mismatch at %d: %v != %v", i, window[i], full[10+i])
		}
	}
}

func TestDeriveFloatsDistinctInputs(t *testing.T) {
	a := fair.DeriveFloats("server", "client", 1, 0, 1)[0]

	if b := fair.DeriveFloats("server", "client", 2, 0, 1)[0]; a == b {
		t.Error("different nonces produced identical floats")
	}
	if b := fair.DeriveFloats("server", "other", 1, 0, 1)[0]; a == b {
		t.Error("different client seeds produced identical floats")
	}
	if b := fair.DeriveFloats("other", "client", 1, 0, 1)[0]; a == b {
		t.Error("different server seeds produced identical floats")
	}
}

func TestDeriveFloatsRoughlyUniform(t *testing.T) {
	serverSeed := "uniformity-check-seed"
	buckets := make([]int, 10)

	const draws = 100000
	for nonce := int64(0); nonce < draws/10; nonce++ {
		for _, f := range fair.DeriveFloats(serverSeed, "client", nonce, 0, 10) {
			buckets[int(f*10)]++
		}
	}

	expected := draws / 10
	for i, n := range buckets {
		ratio := float64(n) / float64(expected)
		if ratio < 0.95 || ratio > 1.05 {
			t.Errorf("bucket %d far from uniform: %d of expected %d", i, n, expected)
		}
	}
}

func TestSeedCommitment(t *testing.T) {
	seed, err := fair.GenerateSeed()
	if err != nil {
		t.Fatalf("failed to generate seed: %v", err)
	}

	if len(seed) != 64 {
		t.Errorf("expected 64 hex chars, got %d", len(seed))
	}

	if fair.HashSeed(seed) != fair.HashSeed(seed) {
		t.Error("commitment is not deterministic")
	}

	other, _ := fair.GenerateSeed()
	if seed == other {
		t.Error("two generated seeds are identical")
	}
	if fair.HashSeed(seed) == fair.HashSeed(other) {
		t.Error("distinct seeds share a commitment")
	}
}

func TestProofMatchesFirstBlock(t *testing.T) {
	proof := fair.Proof("server", "client", 42)
	if len(proof) != 64 {
		t.Fatalf("expected 32-byte hex digest, got %d chars", len(proof))
	}
	if proof != fair.Proof("server", "client", 42) {
		t.Error("proof is not deterministic")
	}
	if proof == fair.Proof("server", "client", 43) {
		t.Error("proof does not depend on nonce")
	}
}
