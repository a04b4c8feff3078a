package service

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/gamblers/ledger-api/internal/pkg/metrics"
	"github.com/gamblers/ledger-api/internal/core/domain"
	"github.com/gamblers/ledger-api/internal/core/ports"
)

// TransactionService enforces the transaction invariants. It reads users only
// to check ownership at creation time.
type TransactionService struct {
	repo   ports.TransactionRepository
	users  ports.UserRepository
	logger zerolog.Logger
	now    func() time.Time
}

func NewTransactionService(repo ports.TransactionRepository, users ports.UserRepository, logger zerolog.Logger) *TransactionService {
	return &TransactionService{repo: repo, users: users, logger: logger, now: time.Now}
}

// Create validates the input, checks that the owner exists, and persists the
// transaction. Nothing is written when any check fails.
func (s *TransactionService) Create(ctx context.Context, in ports.CreateTransactionInput) (*domain.Transaction, error) {
	if err := ValidateMovement(in.Amount, in.Description, in.Type); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.UserID) == "" {
		return nil, domain.InvalidArgument("user_id is required")
	}

	exists, err := s.users.ExistsByID(ctx, in.UserID)
	if err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}
	if !exists {
		return nil, domain.ErrUserNotFound
	}

	tx := &domain.Transaction{
		ID:          uuid.NewString(),
		UserID:      in.UserID,
		Amount:      in.Amount,
		Description: in.Description,
		Type:        in.Type,
		CreatedAt:   s.now().UTC(),
	}

	saved, err := s.repo.Save(ctx, tx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create transaction")
		return nil, err
	}

	metrics.TransactionsCreatedTotal.WithLabelValues(string(saved.Type)).Inc()
	s.logger.Info().
		Str("transaction_id", saved.ID).
		Str("user_id", saved.UserID).
		Str("type", string(saved.Type)).
		Msg("transaction created")

	return saved, nil
}

func (s *TransactionService) FindByID(ctx context.Context, id string) (*domain.Transaction, error) {
	return s.repo.FindByID(ctx, id)
}

// FindByUser lists the user's transactions; a user without any yields an
// empty slice.
func (s *TransactionService) FindByUser(ctx context.Context, userID string) ([]domain.Transaction, error) {
	txs, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list user transactions: %w", err)
	}
	return flatten(txs), nil
}

// FindAll applies the description substring filter and the exact type
// filter independently.
func (s *TransactionService) FindAll(ctx context.Context, filter ports.TransactionFilter) ([]domain.Transaction, error) {
	txs, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	out := make([]domain.Transaction, 0, len(txs))
	for _, tx := range txs {
		if filter.Description != nil && !strings.Contains(tx.Description, *filter.Description) {
			continue
		}
		if filter.Type != nil && tx.Type != *filter.Type {
			continue
		}
		out = append(out, *tx)
	}
	return out, nil
}

// Update overwrites amount, description and type. Owner and creation time
// stay as they were.
func (s *TransactionService) Update(ctx context.Context, id string, in ports.UpdateTransactionInput) (*domain.Transaction, error) {
	if err := ValidateMovement(in.Amount, in.Description, in.Type); err != nil {
		return nil, err
	}

	tx, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	tx.Amount = in.Amount
	tx.Description = in.Description
	tx.Type = in.Type

	saved, err := s.repo.Save(ctx, tx)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("transaction_id", saved.ID).Msg("transaction updated")
	return saved, nil
}

func (s *TransactionService) Delete(ctx context.Context, id string) error {
	exists, err := s.repo.ExistsByID(ctx, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if !exists {
		return domain.ErrTransactionNotFound
	}
	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Str("transaction_id", id).Msg("transaction deleted")
	return nil
}

// ValidateMovement checks the fields shared by create and update.
func ValidateMovement(amount decimal.Decimal, description string, t domain.TransactionType) error {
	if !amount.IsPositive() {
		return domain.InvalidArgument("amount must be greater than zero")
	}
	if digits, scale := amountPrecision(amount); digits > domain.MaxAmountDigits || scale > domain.MaxAmountDigits {
		return domain.InvalidArgument("amount must have at most %d digits", domain.MaxAmountDigits)
	}
	if err := validateDescription(description); err != nil {
		return err
	}
	return validateTransactionType(t)
}

// amountPrecision returns the number of digits needed to write amount without
// an exponent and how many of them follow the decimal point. Trailing zeros
// after the point are not counted.
func amountPrecision(amount decimal.Decimal) (digits, scale int) {
	coef := new(big.Int).Abs(amount.Coefficient())
	exp := int(amount.Exponent())
	ten := big.NewInt(10)
	for exp < 0 && coef.Sign() != 0 {
		q, r := new(big.Int).QuoRem(coef, ten, new(big.Int))
		if r.Sign() != 0 {
			break
		}
		coef = q
		exp++
	}
	digits = len(coef.String())
	if exp > 0 {
		digits += exp
	} else {
		scale = -exp
	}
	return digits, scale
}

func flatten(txs []*domain.Transaction) []domain.Transaction {
	out := make([]domain.Transaction, 0, len(txs))
	for _, tx := range txs {
		out = append(out, *tx)
	}
	return out
}
