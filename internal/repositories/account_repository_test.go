package repository_test

import (
	"database/sql"
	"encoding/json"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/models"
	repository "github.com/aaravmahajanofficial/storefront-checkout/internal/repositories"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAccountRepoTest(t *testing.T) (repository.AccountRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err, "Failed to create sqlmock")

	t.Cleanup(func() {
		db.Close()
	})

	return repository.NewAccountRepository(db), mock
}

var accountRowColumns = []string{"id", "name", "email", "phone", "role", "shipping_address", "payment_method", "created_at", "updated_at"}

func TestGetAccountByID(t *testing.T) {
	ctx := t.Context()
	id := uuid.New()
	now := time.Now()
	query := regexp.QuoteMeta(`FROM accounts WHERE id = $1`)

	t.Run("Success - With Saved Address", func(t *testing.T) {
		// Arrange
		repo, mock := setupAccountRepoTest(t)
		address := models.ShippingAddress{FullName: "Grace Hopper", Address: "1 Navy Way", City: "Arlington", PostalCode: "22202", Country: "US"}
		addressJSON, err := json.Marshal(address)
		require.NoError(t, err)

		mock.ExpectQuery(query).WithArgs(id).WillReturnRows(
			sqlmock.NewRows(accountRowColumns).AddRow(id.String(), "Grace", "grace@example.com", "555", "customer", addressJSON, "PayPal", now, now))

		// Act
		account, err := repo.GetAccountByID(ctx, id)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, id, account.ID)
		assert.Equal(t, models.RoleCustomer, account.Role)
		require.NotNil(t, account.ShippingAddress)
		assert.Equal(t, address, *account.ShippingAddress)
		assert.Equal(t, "PayPal", account.PaymentMethod)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success - No Saved Address", func(t *testing.T) {
		// Arrange
		repo, mock := setupAccountRepoTest(t)

		mock.ExpectQuery(query).WithArgs(id).WillReturnRows(
			sqlmock.NewRows(accountRowColumns).AddRow(id.String(), "Grace", "grace@example.com", "", "staff", nil, "", now, now))

		// Act
		account, err := repo.GetAccountByID(ctx, id)

		// Assert
		require.NoError(t, err)
		assert.Nil(t, account.ShippingAddress)
		assert.Equal(t, models.RoleStaff, account.Role)
	})

	t.Run("Failure - Not Found", func(t *testing.T) {
		// Arrange
		repo, mock := setupAccountRepoTest(t)

		mock.ExpectQuery(query).WithArgs(id).WillReturnError(sql.ErrNoRows)

		// Act
		account, err := repo.GetAccountByID(ctx, id)

		// Assert
		assert.Nil(t, account)
		assert.ErrorIs(t, err, repository.ErrAccountNotFound)
	})
}

func TestUpdateAccountPreferences(t *testing.T) {
	ctx := t.Context()
	id := uuid.New()
	now := time.Now()

	t.Run("Shipping Address", func(t *testing.T) {
		// Arrange
		repo, mock := setupAccountRepoTest(t)
		address := models.ShippingAddress{FullName: "A", Address: "B", City: "C", PostalCode: "D", Country: "E"}
		addressJSON, err := json.Marshal(address)
		require.NoError(t, err)

		mock.ExpectQuery(regexp.QuoteMeta(`UPDATE accounts SET shipping_address = $2, updated_at = NOW()`)).
			WithArgs(id, addressJSON).
			WillReturnRows(sqlmock.NewRows(accountRowColumns).AddRow(id.String(), "A", "a@example.com", "", "customer", addressJSON, "", now, now))

		// Act
		account, err := repo.UpdateShippingAddress(ctx, id, address)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, address, *account.ShippingAddress)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Payment Method", func(t *testing.T) {
		// Arrange
		repo, mock := setupAccountRepoTest(t)

		mock.ExpectQuery(regexp.QuoteMeta(`UPDATE accounts SET payment_method = $2, updated_at = NOW()`)).
			WithArgs(id, "Cash on Delivery").
			WillReturnRows(sqlmock.NewRows(accountRowColumns).AddRow(id.String(), "A", "a@example.com", "", "customer", nil, "Cash on Delivery", now, now))

		// Act
		account, err := repo.UpdatePaymentMethod(ctx, id, "Cash on Delivery")

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "Cash on Delivery", account.PaymentMethod)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Payment Method - Unknown Account", func(t *testing.T) {
		// Arrange
		repo, mock := setupAccountRepoTest(t)

		mock.ExpectQuery(regexp.QuoteMeta(`UPDATE accounts SET payment_method = $2`)).
			WithArgs(id, "PayPal").
			WillReturnError(sql.ErrNoRows)

		// Act
		_, err := repo.UpdatePaymentMethod(ctx, id, "PayPal")

		// Assert
		assert.ErrorIs(t, err, repository.ErrAccountNotFound)
	})
}
