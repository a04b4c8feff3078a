package mongo

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gamblers/ledger-api/internal/core/domain"
)

func TestTransactionDocument_AmountKeepsPrecision(t *testing.T) {
	limits := []string{
		strings.Repeat("9", domain.MaxAmountDigits),
		"0." + strings.Repeat("0", domain.MaxAmountDigits-1) + "1",
		"0." + strings.Repeat("7", domain.MaxAmountDigits),
	}
	for _, amount := range append([]string{"100.50", "0.01", "12345678901234567890.123456789"}, limits...) {
		tx := &domain.Transaction{
			ID:        "tx-1",
			UserID:    "u-alice",
			Amount:    decimal.RequireFromString(amount),
			Type:      domain.TransactionDeposit,
			CreatedAt: time.Date(2026, 1, 1, 12, 0, 0, 0, time.FixedZone("CET", 3600)),
		}

		doc, err := toTransactionDocument(tx)
		if err != nil {
			t.Fatalf("%s: encode: %v", amount, err)
		}
		back, err := doc.toDomain()
		if err != nil {
			t.Fatalf("%s: decode: %v", amount, err)
		}
		if !back.Amount.Equal(tx.Amount) {
			t.Fatalf("%s: amount changed to %s", amount, back.Amount)
		}
		if back.CreatedAt.Location() != time.UTC || !back.CreatedAt.Equal(tx.CreatedAt) {
			t.Fatalf("created_at should be the same instant in UTC, got %v", back.CreatedAt)
		}
	}
}

func TestUserDocument_StoresLowercaseEmail(t *testing.T) {
	at := time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC)
	u := &domain.User{ID: "u-1", Email: "Alice@Example.COM", Role: domain.RoleAdmin, ConsentGiven: true, ConsentAt: &at}

	doc := toUserDocument(u)
	if doc.EmailLower != "alice@example.com" || doc.Email != "Alice@Example.COM" {
		t.Fatalf("unexpected emails: %q / %q", doc.Email, doc.EmailLower)
	}

	back := doc.toDomain()
	if back.Role != domain.RoleAdmin || back.ConsentAt == nil || !back.ConsentAt.Equal(at) {
		t.Fatalf("unexpected round trip: %+v", back)
	}
	if back.ConsentAt == u.ConsentAt {
		t.Fatalf("consent timestamp must not alias the caller's pointer")
	}
}
