package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/gamblers/ledger-api/internal/core/domain"
	"github.com/gamblers/ledger-api/internal/infrastructure/db/memory"
)

var (
	nopLog     = zerolog.Nop()
	errStore   = errors.New("store unavailable")
	fixedNow   = time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	testHasher = NewBcryptHasher(bcrypt.MinCost)
	testSecret = "0123456789abcdef0123456789abcdef"
)

// countingUserRepo wraps the in-memory repository and counts writes so tests
// can assert that rejected operations persisted nothing.
type countingUserRepo struct {
	*memory.UserRepository
	saves   int
	deletes int
	failAll bool
}

func newUserRepo() *countingUserRepo {
	return &countingUserRepo{UserRepository: memory.NewUserRepository()}
}

func (r *countingUserRepo) Save(ctx context.Context, u *domain.User) (*domain.User, error) {
	r.saves++
	return r.UserRepository.Save(ctx, u)
}

func (r *countingUserRepo) DeleteByID(ctx context.Context, id string) error {
	r.deletes++
	return r.UserRepository.DeleteByID(ctx, id)
}

func (r *countingUserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	if r.failAll {
		return nil, errStore
	}
	return r.UserRepository.FindByEmail(ctx, email)
}

func (r *countingUserRepo) EmailTaken(ctx context.Context, email, excludeID string) (bool, error) {
	if r.failAll {
		return false, errStore
	}
	return r.UserRepository.EmailTaken(ctx, email, excludeID)
}

// seed stores u directly, hashing password when given.
func (r *countingUserRepo) seed(u domain.User, password string) *domain.User {
	if password != "" {
		digest, err := testHasher.Hash(password)
		if err != nil {
			panic(err)
		}
		u.PasswordHash = digest
	}
	if u.Role == "" {
		u.Role = domain.RoleUser
	}
	saved, err := r.UserRepository.Save(context.Background(), &u)
	if err != nil {
		panic(err)
	}
	return saved
}

type countingTxRepo struct {
	*memory.TransactionRepository
	saves int
}

func newTxRepo() *countingTxRepo {
	return &countingTxRepo{TransactionRepository: memory.NewTransactionRepository()}
}

func (r *countingTxRepo) Save(ctx context.Context, tx *domain.Transaction) (*domain.Transaction, error) {
	r.saves++
	return r.TransactionRepository.Save(ctx, tx)
}

type recordingAudit struct {
	mu     sync.Mutex
	events []domain.AuditEvent
}

func (a *recordingAudit) Record(_ context.Context, e domain.AuditEvent) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, e)
}

func (a *recordingAudit) last() (domain.AuditEvent, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.events) == 0 {
		return domain.AuditEvent{}, false
	}
	return a.events[len(a.events)-1], true
}

type failingRevoker struct{}

func (failingRevoker) Revoke(context.Context, string, time.Time) error { return errStore }
func (failingRevoker) IsRevoked(context.Context, string) (bool, error) { return false, errStore }

func newTokenService(t testing.TB) *TokenService {
	t.Helper()
	key, err := LoadSigningKey(testSecret, false)
	if err != nil {
		t.Fatalf("load key: %v", err)
	}
	return NewTokenService(key, time.Hour)
}
