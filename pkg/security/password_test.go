package security

import (
	"strings"
	"testing"

	"github.com/Stanislavcck/SmartMerchant-New-Repo/pkg/config"
)

var testCfg = config.PasswordConfig{
	ArgonMemoryKB:    1024,
	ArgonTime:        1,
	ArgonParallelism: 1,
	ArgonSaltLen:     16,
	ArgonKeyLen:      32,
	MinLength:        12,
}

func TestHashAndVerifyRoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery", testCfg)
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$v=19$") {
		t.Fatalf("unexpected hash format %q", hash)
	}

	match, err := VerifyPassword("correct horse battery", hash)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if !match {
		t.Fatal("expected password to verify")
	}

	match, err = VerifyPassword("wrong password", hash)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if match {
		t.Fatal("wrong password must not verify")
	}
}

func TestHashRotatesSalt(t *testing.T) {
	first, err := HashPassword("same password twice", testCfg)
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	second, err := HashPassword("same password twice", testCfg)
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if first == second {
		t.Fatal("hashes of the same password must differ via fresh salts")
	}
}

func TestHashRejectsEmptyPassword(t *testing.T) {
	if _, err := HashPassword("", testCfg); err == nil {
		t.Fatal("expected error for empty password")
	}
}

func TestVerifyRejectsMalformedHash(t *testing.T) {
	if _, err := VerifyPassword("anything", "not-a-hash"); err != ErrInvalidHash {
		t.Fatalf("expected ErrInvalidHash, got %v", err)
	}
}

func TestGenerateSessionTokenEnforcesMinimumEntropy(t *testing.T) {
	token, err := GenerateSessionToken(4)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	// 32 bytes raw-url encoded is 43 characters.
	if len(token) < 43 {
		t.Fatalf("token too short: %d chars", len(token))
	}

	other, err := GenerateSessionToken(32)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if token == other {
		t.Fatal("tokens must be unique")
	}
}
