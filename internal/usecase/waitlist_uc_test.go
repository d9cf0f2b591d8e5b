// File: internal/usecase/waitlist_uc_test.go
package usecase

import (
	"context"
	"errors"
	"testing"

	"fedup-chat/internal/domain"
)

func TestWaitlistJoin(t *testing.T) {
	ctx := context.Background()
	uc := NewWaitlistUseCase(newMemWaitlistRepo())

	e, err := uc.Join(ctx, "Ada", "Ada@Example.COM")
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	if e.Email != "ada@example.com" {
		t.Fatalf("email = %q, want lowercased", e.Email)
	}
	if e.ID == "" {
		t.Fatal("entry missing id")
	}
	if n, _ := uc.Count(ctx); n != 1 {
		t.Fatalf("count = %d, want 1", n)
	}
}

func TestWaitlistDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	uc := NewWaitlistUseCase(newMemWaitlistRepo())

	if _, err := uc.Join(ctx, "Ada", "ada@example.com"); err != nil {
		t.Fatalf("Join: %v", err)
	}
	_, err := uc.Join(ctx, "Someone Else", "ADA@example.com")
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("err = %v, want ErrAlreadyExists", err)
	}
}

func TestWaitlistRejectsBadInput(t *testing.T) {
	ctx := context.Background()
	uc := NewWaitlistUseCase(newMemWaitlistRepo())

	for _, tc := range []struct{ name, email string }{
		{"", "ada@example.com"},
		{"Ada", ""},
		{"Ada", "not-an-email"},
	} {
		if _, err := uc.Join(ctx, tc.name, tc.email); !errors.Is(err, domain.ErrInvalidArgument) {
			t.Fatalf("Join(%q, %q): err = %v, want ErrInvalidArgument", tc.name, tc.email, err)
		}
	}
}
