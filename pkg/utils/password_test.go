package utils

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	t.Run("round trips a password", func(t *testing.T) {
		hash, err := HashPassword("correct horse battery staple")
		if err != nil {
			t.Fatalf("expected hashing to succeed, got error: %v", err)
		}
		if hash == "correct horse battery staple" {
			t.Fatal("expected hash to differ from the plaintext password")
		}
		if !CheckPassword("correct horse battery staple", hash) {
			t.Fatal("expected the original password to verify against its hash")
		}
	})

	t.Run("rejects a wrong password", func(t *testing.T) {
		hash, err := HashPassword("password123")
		if err != nil {
			t.Fatalf("expected hashing to succeed, got error: %v", err)
		}
		if CheckPassword("password124", hash) {
			t.Fatal("expected a wrong password to fail verification")
		}
	})

	t.Run("produces distinct hashes for the same input", func(t *testing.T) {
		first, err := HashPassword("password123")
		if err != nil {
			t.Fatalf("expected hashing to succeed, got error: %v", err)
		}
		second, err := HashPassword("password123")
		if err != nil {
			t.Fatalf("expected hashing to succeed, got error: %v", err)
		}
		if first == second {
			t.Fatal("expected salted hashes to differ between calls")
		}
	})
}
