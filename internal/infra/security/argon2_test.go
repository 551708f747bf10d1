package security

import (
	"strings"
	"testing"
)

func testHasher(t *testing.T) *Hasher {
	t.Helper()

	// Minimal parameters keep the test suite fast.
	hasher, err := NewHasher(Argon2Params{
		Memory:      8 * 1024,
		Iterations:  1,
		Parallelism: 1,
		SaltLength:  8,
		KeyLength:   16,
	})
	if err != nil {
		t.Fatalf("failed to create hasher: %v", err)
	}
	return hasher
}

func TestHashAndVerify(t *testing.T) {
	hasher := testHasher(t)

	encoded, err := hasher.Hash("correct horse battery staple")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}

	if !strings.HasPrefix(encoded, "argon2id$v=19$") {
		t.Fatalf("unexpected hash format: %s", encoded)
	}

	ok, err := hasher.Verify("correct horse battery staple", encoded)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if !ok {
		t.Fatal("expected matching password to verify")
	}

	ok, err = hasher.Verify("wrong password", encoded)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if ok {
		t.Fatal("expected mismatched password to fail verification")
	}
}

func TestHashProducesUniqueSalts(t *testing.T) {
	hasher := testHasher(t)

	first, err := hasher.Hash("same password")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	second, err := hasher.Hash("same password")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}

	if first == second {
		t.Fatal("expected distinct hashes for the same password")
	}
}

func TestVerifyEmptyInputs(t *testing.T) {
	hasher := testHasher(t)

	encoded, err := hasher.Hash("some password")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}

	ok, err := hasher.Verify("", encoded)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if ok {
		t.Fatal("empty password must not verify")
	}

	ok, err = hasher.Verify("some password", "")
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if ok {
		t.Fatal("empty hash must not verify")
	}
}

func TestVerifyRejectsMalformedHash(t *testing.T) {
	hasher := testHasher(t)

	cases := []string{
		"not-a-hash",
		"bcrypt$v=19$m=8192,t=1,p=1$c2FsdHNhbHQ$aGFzaGhhc2hoYXNoaGFzaA",
		"argon2id$v=18$m=8192,t=1,p=1$c2FsdHNhbHQ$aGFzaGhhc2hoYXNoaGFzaA",
		"argon2id$v=19$m=8192,t=1$c2FsdHNhbHQ$aGFzaGhhc2hoYXNoaGFzaA",
	}

	for _, encoded := range cases {
		if _, err := hasher.Verify("password", encoded); err == nil {
			t.Errorf("expected error for malformed hash %q", encoded)
		}
	}
}

func TestVerifyUsesEmbeddedParams(t *testing.T) {
	writer := testHasher(t)

	reader, err := NewHasher(Argon2Params{
		Memory:      16 * 1024,
		Iterations:  2,
		Parallelism: 2,
		SaltLength:  16,
		KeyLength:   32,
	})
	if err != nil {
		t.Fatalf("failed to create hasher: %v", err)
	}

	encoded, err := writer.Hash("migrating password")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}

	// Hashes written under old parameters keep verifying after a config bump.
	ok, err := reader.Verify("migrating password", encoded)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if !ok {
		t.Fatal("expected hash written with different params to verify")
	}
}

func TestNewHasherRejectsWeakParams(t *testing.T) {
	cases := []Argon2Params{
		{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 8, KeyLength: 16},
		{Memory: 8192, Iterations: 0, Parallelism: 1, SaltLength: 8, KeyLength: 16},
		{Memory: 8192, Iterations: 1, Parallelism: 0, SaltLength: 8, KeyLength: 16},
		{Memory: 8192, Iterations: 1, Parallelism: 1, SaltLength: 4, KeyLength: 16},
		{Memory: 8192, Iterations: 1, Parallelism: 1, SaltLength: 8, KeyLength: 8},
	}

	for i, params := range cases {
		if _, err := NewHasher(params); err == nil {
			t.Errorf("case %d: expected weak params to be rejected", i)
		}
	}
}
