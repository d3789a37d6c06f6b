//go:build integration

package mongo_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/accounts-api/internal/domain"
	"github.com/phrazzld/accounts-api/internal/pagination"
	accountsmongo "github.com/phrazzld/accounts-api/internal/platform/mongo"
	"github.com/phrazzld/accounts-api/internal/store"
	"github.com/phrazzld/accounts-api/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMongoAccountStore(t *testing.T) {
	uri := testdb.GetMongoURL()
	if uri == "" {
		t.Skip("MONGO_URL not set - skipping integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := accountsmongo.Connect(ctx, uri)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	db := client.Database("accounts_test_" + uuid.NewString()[:8])
	t.Cleanup(func() { _ = db.Drop(context.Background()) })

	accounts := accountsmongo.NewAccountStore(db, nil)
	require.NoError(t, accounts.EnsureIndexes(ctx))

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ada := domain.NewAccount(domain.RegistrationData{
		Email: "ada@example.com", Phone: "+15550000001", FirstName: "Ada", LastName: "Lovelace",
	}, "$2a$10$hash")
	ada.CreatedAt, ada.UpdatedAt = base, base
	grace := domain.NewAccount(domain.RegistrationData{
		Email: "grace@example.com", Phone: "+15550000002", FirstName: "Grace", LastName: "Hopper",
	}, "$2a$10$hash")
	grace.CreatedAt, grace.UpdatedAt = base.Add(time.Hour), base.Add(time.Hour)

	require.NoError(t, accounts.Create(ctx, ada))
	require.NoError(t, accounts.Create(ctx, grace))

	t.Run("duplicate email", func(t *testing.T) {
		dup := domain.NewAccount(domain.RegistrationData{
			Email: "ada@example.com", Phone: "+15550000003", FirstName: "Ada", LastName: "Again",
		}, "$2a$10$hash")
		var conflict *store.ConflictError
		require.ErrorAs(t, accounts.Create(ctx, dup), &conflict)
		assert.Contains(t, conflict.Fields, "email")
	})

	t.Run("lookups", func(t *testing.T) {
		got, err := accounts.GetByID(ctx, ada.ID)
		require.NoError(t, err)
		assert.Equal(t, ada.Email, got.Email)

		got, err = accounts.GetByEmailOrPhone(ctx, "+15550000002")
		require.NoError(t, err)
		assert.Equal(t, grace.ID, got.ID)

		_, err = accounts.GetByID(ctx, uuid.New())
		assert.ErrorIs(t, err, store.ErrAccountNotFound)
	})

	t.Run("list and search", func(t *testing.T) {
		listed, err := accounts.List(ctx, store.AccountFilter{}, pagination.Window{
			Limit: 10, Sort: store.SortCreatedAt, Desc: true,
		})
		require.NoError(t, err)
		require.Len(t, listed, 2)
		assert.Equal(t, grace.ID, listed[0].ID)

		count, err := accounts.Count(ctx, store.AccountFilter{Search: "hopper"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})
}
