package auth_test

import (
	"testing"

	"inkq/internal/auth/adapter/security"

	"golang.org/x/crypto/bcrypt"
)

func BenchmarkPasswordHashing(b *testing.B) {
	svc, err := security.NewPasswordService(security.DefaultBcryptCost)
	if err != nil {
		b.Fatalf("password service: %v", err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := svc.Hash("SuperSecurePassword123!"); err != nil {
			b.Fatalf("hash error: %v", err)
		}
	}
}

func BenchmarkPasswordVerify(b *testing.B) {
	svc, err := security.NewPasswordService(bcrypt.MinCost)
	if err != nil {
		b.Fatalf("password service: %v", err)
	}
	hash, err := svc.Hash("SuperSecurePassword123!")
	if err != nil {
		b.Fatalf("hash error: %v", err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if !svc.Verify("SuperSecurePassword123!", hash) {
			b.Fatal("verify failed")
		}
	}
}

func BenchmarkTokenGeneration(b *testing.B) {
	src := security.NewSessionTokenSource()
	for i := 0; i < b.N; i++ {
		if _, err := src.NewToken(); err != nil {
			b.Fatalf("token error: %v", err)
		}
	}
}
