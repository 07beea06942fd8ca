package repository

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
)

var testPool *pgxpool.Pool

func TestMain(m *testing.M) {
	os.Exit(run(m))
}

func run(m *testing.M) int {
	ctx := context.Background()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		started, stop, err := startPostgres(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to start test database: %v\n", err)
			return 1
		}
		if started == "" {
			fmt.Println("TEST_DATABASE_URL not set, skipping integration tests")
			return 0
		}
		defer stop()
		dsn = started
	}

	if err := Migrate(dsn); err != nil {
		fmt.Fprintf(os.Stderr, "failed to migrate test database: %v\n", err)
		return 1
	}

	var err error
	testPool, err = pgxpool.New(ctx, dsn)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect to test database: %v\n", err)
		return 1
	}
	defer testPool.Close()

	return m.Run()
}

func cleanupTables(t *testing.T) {
	t.Helper()
	tables := []string{
		"wishlist_items", "reviews", "order_items", "orders", "cart_items", "carts",
		"addresses", "products", "categories", "users",
	}
	for _, table := range tables {
		_, err := testPool.Exec(context.Background(), fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			t.Fatalf("failed to cleanup table %s: %v", table, err)
		}
	}
}
