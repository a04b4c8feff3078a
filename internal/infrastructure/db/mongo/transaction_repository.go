package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/gamblers/ledger-api/internal/core/domain"
)

const collectionTransactions = "transactions"

// TransactionRepository implements ports.TransactionRepository using MongoDB.
// Amounts are stored as Decimal128 so no precision is lost.
type TransactionRepository struct {
	col *mongo.Collection
}

func NewTransactionRepository(db *mongo.Database) *TransactionRepository {
	return &TransactionRepository{col: db.Collection(collectionTransactions)}
}

type transactionDocument struct {
	ID          string               `bson:"_id"`
	UserID      string               `bson:"user_id"`
	Amount      primitive.Decimal128 `bson:"amount"`
	Description string               `bson:"description,omitempty"`
	Type        string               `bson:"type"`
	CreatedAt   time.Time            `bson:"created_at"`
}

func toTransactionDocument(tx *domain.Transaction) (transactionDocument, error) {
	amount, err := primitive.ParseDecimal128(tx.Amount.String())
	if err != nil {
		return transactionDocument{}, fmt.Errorf("encode amount %s: %w", tx.Amount, err)
	}
	return transactionDocument{
		ID:          tx.ID,
		UserID:      tx.UserID,
		Amount:      amount,
		Description: tx.Description,
		Type:        string(tx.Type),
		CreatedAt:   tx.CreatedAt.UTC(),
	}, nil
}

func (d transactionDocument) toDomain() (*domain.Transaction, error) {
	amount, err := decimal.NewFromString(d.Amount.String())
	if err != nil {
		return nil, fmt.Errorf("decode amount of transaction %s: %w", d.ID, err)
	}
	return &domain.Transaction{
		ID:          d.ID,
		UserID:      d.UserID,
		Amount:      amount,
		Description: d.Description,
		Type:        domain.TransactionType(d.Type),
		CreatedAt:   d.CreatedAt.UTC(),
	}, nil
}

// Save upserts the transaction by id.
func (r *TransactionRepository) Save(ctx context.Context, tx *domain.Transaction) (*domain.Transaction, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc, err := toTransactionDocument(tx)
	if err != nil {
		return nil, err
	}
	if _, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true)); err != nil {
		return nil, fmt.Errorf("save transaction: %w", err)
	}
	return doc.toDomain()
}

func (r *TransactionRepository) FindByID(ctx context.Context, id string) (*domain.Transaction, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc transactionDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("find transaction: %w", err)
	}
	return doc.toDomain()
}

func (r *TransactionRepository) FindAll(ctx context.Context) ([]*domain.Transaction, error) {
	return r.find(ctx, bson.M{})
}

func (r *TransactionRepository) FindByUserID(ctx context.Context, userID string) ([]*domain.Transaction, error) {
	return r.find(ctx, bson.M{"user_id": userID})
}

func (r *TransactionRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{"_id": id}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count transactions: %w", err)
	}
	return n > 0, nil
}

func (r *TransactionRepository) DeleteByID(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}

// EnsureIndexes creates necessary indexes on the transactions collection.
func (r *TransactionRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: 1}}},
		{Keys: bson.D{{Key: "type", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func (r *TransactionRepository) find(ctx context.Context, filter bson.M) ([]*domain.Transaction, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find transactions: %w", err)
	}
	defer cur.Close(ctx)

	var docs []transactionDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode transactions: %w", err)
	}

	out := make([]*domain.Transaction, 0, len(docs))
	for _, d := range docs {
		tx, err := d.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, tx)
	}
	return out, nil
}
