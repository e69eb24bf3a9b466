package repo

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
)

// OpenDB connects to Postgres and verifies the connection.
func OpenDB(ctx context.Context, connStr string) (*sql.DB, error) {
	db, err := sql.Open("postgres", withSSLMode(connStr))
	if err != nil {
		return nil, fmt.Errorf("database config: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err = db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("database not responding: %w", err)
	}
	return db, nil
}

// withSSLMode requires TLS unless the connection string says otherwise.
func withSSLMode(connStr string) string {
	if strings.Contains(connStr, "sslmode=") {
		return connStr
	}
	if strings.HasPrefix(connStr, "postgres://") || strings.HasPrefix(connStr, "postgresql://") {
		if strings.Contains(connStr, "?") {
			return connStr + "&sslmode=require"
		}
		return connStr + "?sslmode=require"
	}
	return connStr + " sslmode=require"
}
