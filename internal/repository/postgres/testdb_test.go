package postgres

import (
	"os"
	"sync"
	"testing"

	"tutorMarket/pkg/database"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	testDBOnce sync.Once
	testDB     *gorm.DB
	testDBErr  error
)

// openTestDB connects to TEST_POSTGRES_DSN once per test binary.
func openTestDB(tb testing.TB) *gorm.DB {
	tb.Helper()

	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		tb.Skip("set TEST_POSTGRES_DSN to run repo integration tests")
	}

	testDBOnce.Do(func() {
		testDB, testDBErr = gorm.Open(postgres.Open(dsn), &gorm.Config{
			DisableForeignKeyConstraintWhenMigrating: true,
			Logger:                                   logger.Default.LogMode(logger.Silent),
		})
		if testDBErr != nil {
			return
		}
		testDBErr = database.Migrate(testDB)
	})
	if testDBErr != nil {
		tb.Fatalf("test db: %v", testDBErr)
	}
	return testDB
}

// testTx opens a transaction that is rolled back when the test ends.
func testTx(tb testing.TB) *gorm.DB {
	tb.Helper()

	tx := openTestDB(tb).Begin()
	if tx.Error != nil {
		tb.Fatalf("begin tx: %v", tx.Error)
	}
	tb.Cleanup(func() { tx.Rollback() })
	return tx
}
