package persistence

import (
	"fmt"
	"testing"
	"time"

	"github.com/cecagem/backoffice/internal/domain/finance"
	"github.com/cecagem/backoffice/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var (
	testNow   = time.Date(2026, time.March, 15, 10, 0, 0, 0, time.UTC)
	testAdmin = finance.Actor{ID: uuid.MustParse("0f1e2d3c-4b5a-4968-8776-a5b4c3d2e1f0"), Name: "Admin"}
)

// newTestDatabase opens a private in-memory sqlite database with the full
// schema. A single connection keeps the database alive and serializes
// concurrent writers the way row locks would.
func newTestDatabase(t *testing.T) *Database {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Discard,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate())
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func pen(amount string) valueobject.Money {
	return valueobject.MustMoney(amount, valueobject.PEN)
}

// seedContract stores an INSTALLMENTS contract of three 1000 PEN
// installments, due 30 days ago, 5 days ago and in 30 days.
func seedContract(t *testing.T, repo *GormContractRepository, title string, start time.Time) *finance.Contract {
	t.Helper()
	c, err := finance.NewContract(title, finance.PaymentTypeInstallments, pen("3000"),
		uuid.New(), []uuid.UUID{uuid.New()}, start, start.AddDate(1, 0, 0))
	require.NoError(t, err)
	for _, offset := range []int{-30, -5, 30} {
		_, err := c.AddInstallment(pen("1000"), testNow.AddDate(0, 0, offset))
		require.NoError(t, err)
	}
	require.NoError(t, repo.Save(t.Context(), c))
	return c
}

func newPendingPayment(t *testing.T, installmentID uuid.UUID, amount string, at time.Time) *finance.Payment {
	t.Helper()
	p, err := finance.NewPayment(installmentID, pen(amount), finance.PaymentMethodYape, "op-001", at)
	require.NoError(t, err)
	return p
}
