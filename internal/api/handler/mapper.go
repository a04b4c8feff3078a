package handler

import (
	"github.com/gamblers/ledger-api/internal/core/domain"
	"github.com/gamblers/ledger-api/internal/core/ports"
)

// --- Request → Service input ---

func toCreateUserInput(r createUserRequest) ports.CreateUserInput {
	return ports.CreateUserInput{
		Name:     r.Name,
		Email:    r.Email,
		Password: r.Password,
		Role:     domain.Role(r.Role),
		Consent:  r.Consent,
	}
}

func toUpdateUserInput(r updateUserRequest) ports.UpdateUserInput {
	in := ports.UpdateUserInput{Name: r.Name, Email: r.Email}
	if r.Role != nil {
		role := domain.Role(*r.Role)
		in.Role = &role
	}
	return in
}

func toCreateTransactionInput(r createTransactionRequest) ports.CreateTransactionInput {
	return ports.CreateTransactionInput{
		UserID:      r.UserID,
		Amount:      r.Amount,
		Description: r.Description,
		Type:        domain.TransactionType(r.Type),
	}
}

func toUpdateTransactionInput(r transactionRequest) ports.UpdateTransactionInput {
	return ports.UpdateTransactionInput{
		Amount:      r.Amount,
		Description: r.Description,
		Type:        domain.TransactionType(r.Type),
	}
}

// --- Service result → HTTP response ---

func toUserResponse(v domain.UserView) userResponse {
	return userResponse{
		ID:           v.ID,
		Name:         v.Name,
		Email:        v.Email,
		Role:         string(v.Role),
		ConsentGiven: v.ConsentGiven,
		ConsentAt:    v.ConsentAt,
		CreatedAt:    v.CreatedAt.UTC(),
		UpdatedAt:    v.UpdatedAt.UTC(),
	}
}

func toUserListResponse(views []domain.UserView) []userResponse {
	out := make([]userResponse, len(views))
	for i, v := range views {
		out[i] = toUserResponse(v)
	}
	return out
}

func toTransactionResponse(tx domain.Transaction) transactionResponse {
	return transactionResponse{
		ID:          tx.ID,
		UserID:      tx.UserID,
		Amount:      tx.Amount,
		Description: tx.Description,
		Type:        string(tx.Type),
		CreatedAt:   tx.CreatedAt.UTC(),
	}
}

func toTransactionListResponse(txs []domain.Transaction) []transactionResponse {
	out := make([]transactionResponse, len(txs))
	for i, tx := range txs {
		out[i] = toTransactionResponse(tx)
	}
	return out
}
