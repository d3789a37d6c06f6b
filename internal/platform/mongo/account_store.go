package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/accounts-api/internal/domain"
	"github.com/phrazzld/accounts-api/internal/pagination"
	"github.com/phrazzld/accounts-api/internal/platform/logger"
	"github.com/phrazzld/accounts-api/internal/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CollectionName is the collection accounts are stored in.
const CollectionName = "accounts"

var sortFields = map[string]string{
	store.SortCreatedAt: "created_at",
	store.SortEmail:     "email",
	store.SortFirstName: "first_name",
	store.SortLastName:  "last_name",
}

type accountDocument struct {
	ID           string    `bson:"_id"`
	Email        string    `bson:"email"`
	Phone        string    `bson:"phone"`
	PasswordHash string    `bson:"password_hash"`
	FirstName    string    `bson:"first_name"`
	LastName     string    `bson:"last_name"`
	CreatedAt    time.Time `bson:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at"`
}

func toDocument(a *domain.Account) accountDocument {
	return accountDocument{
		ID:           a.ID.String(),
		Email:        a.Email,
		Phone:        a.Phone,
		PasswordHash: a.PasswordHash,
		FirstName:    a.FirstName,
		LastName:     a.LastName,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

func (d accountDocument) toAccount() (domain.Account, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return domain.Account{}, fmt.Errorf("invalid account id %q: %w", d.ID, err)
	}
	return domain.Account{
		ID:           id,
		Email:        d.Email,
		Phone:        d.Phone,
		PasswordHash: d.PasswordHash,
		FirstName:    d.FirstName,
		LastName:     d.LastName,
		CreatedAt:    d.CreatedAt.UTC(),
		UpdatedAt:    d.UpdatedAt.UTC(),
	}, nil
}

// AccountStore implements store.AccountStore on a MongoDB collection.
type AccountStore struct {
	coll   *mongo.Collection
	logger *slog.Logger
}

// NewAccountStore creates an AccountStore over the accounts collection of db.
// If logger is nil, a default logger will be used.
func NewAccountStore(db *mongo.Database, logger *slog.Logger) *AccountStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &AccountStore{
		coll:   db.Collection(CollectionName),
		logger: logger.With(slog.String("component", "mongo_account_store")),
	}
}

var _ store.AccountStore = (*AccountStore)(nil)

// EnsureIndexes creates the unique and text indexes the store relies on.
// It is idempotent.
func (s *AccountStore) EnsureIndexes(ctx context.Context) error {
	models := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName(emailIndex).SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "phone", Value: 1}},
			Options: options.Index().SetName(phoneIndex).SetUnique(true),
		},
		{
			Keys: bson.D{
				{Key: "email", Value: "text"},
				{Key: "phone", Value: "text"},
				{Key: "first_name", Value: "text"},
				{Key: "last_name", Value: "text"},
			},
			Options: options.Index().SetName(textIndex).SetDefaultLanguage("none"),
		},
		{
			Keys: bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}},
		},
	}

	if _, err := s.coll.Indexes().CreateMany(ctx, models); err != nil {
		return fmt.Errorf("failed to create account indexes: %w", err)
	}
	return nil
}

// Create implements store.AccountStore.Create
func (s *AccountStore) Create(ctx context.Context, account *domain.Account) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := store.ValidateAccount(account); err != nil {
		return err
	}

	if _, err := s.coll.InsertOne(ctx, toDocument(account)); err != nil {
		mapped := mapWriteError(err, account)
		if mapped == err {
			log.Error("failed to insert account",
				slog.String("error", err.Error()),
				slog.String("account_id", account.ID.String()))
			return fmt.Errorf("failed to insert account: %w", err)
		}
		return mapped
	}

	log.Debug("account created", slog.String("account_id", account.ID.String()))
	return nil
}

// GetByID implements store.AccountStore.GetByID
func (s *AccountStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	return s.findOne(ctx, bson.M{"_id": id.String()})
}

// GetByEmailOrPhone implements store.AccountStore.GetByEmailOrPhone
func (s *AccountStore) GetByEmailOrPhone(ctx context.Context, credential string) (*domain.Account, error) {
	if credential == "" {
		return nil, store.ErrAccountNotFound
	}
	return s.findOne(ctx, bson.M{"$or": []bson.M{
		{"email": credential},
		{"phone": credential},
	}})
}

func (s *AccountStore) findOne(ctx context.Context, filter bson.M) (*domain.Account, error) {
	var doc accountDocument
	if err := s.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, store.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to find account: %w", err)
	}

	account, err := doc.toAccount()
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// Count implements store.AccountStore.Count
func (s *AccountStore) Count(ctx context.Context, filter store.AccountFilter) (int64, error) {
	total, err := s.coll.CountDocuments(ctx, buildFilter(filter))
	if err != nil {
		return 0, fmt.Errorf("failed to count accounts: %w", err)
	}
	return total, nil
}

// List implements store.AccountStore.List
func (s *AccountStore) List(
	ctx context.Context,
	filter store.AccountFilter,
	window pagination.Window,
) ([]domain.Account, error) {
	sort, err := buildSort(window)
	if err != nil {
		return nil, err
	}

	opts := options.Find().
		SetSort(sort).
		SetSkip(int64(window.Offset)).
		SetLimit(int64(window.Limit))

	cursor, err := s.coll.Find(ctx, buildFilter(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("mongo find error: %w", err)
	}
	defer func() { _ = cursor.Close(ctx) }()

	var docs []accountDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode error: %w", err)
	}

	accounts := make([]domain.Account, 0, len(docs))
	for _, doc := range docs {
		account, err := doc.toAccount()
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	return accounts, nil
}

// buildFilter hands the search string to $text unchanged, so MongoDB's own
// syntax applies: any term matches, "quoted phrases" are required and -term excludes.
func buildFilter(filter store.AccountFilter) bson.M {
	if strings.TrimSpace(filter.Search) == "" {
		return bson.M{}
	}
	return bson.M{"$text": bson.M{"$search": filter.Search}}
}

func buildSort(window pagination.Window) (bson.D, error) {
	field := sortFields[store.SortCreatedAt]
	if window.Sort != "" {
		var ok bool
		field, ok = sortFields[window.Sort]
		if !ok {
			return nil, fmt.Errorf("%w: %q", pagination.ErrInvalidSort, window.Sort)
		}
	}

	direction := 1
	if window.Desc {
		direction = -1
	}
	return bson.D{{Key: field, Value: direction}, {Key: "_id", Value: direction}}, nil
}
