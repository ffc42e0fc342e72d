// Package database owns the Postgres connection pool used by the API and tools.
package database

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const pingTimeout = 2 * time.Second

// Open creates a pool for dsn and verifies it with a ping.
func Open(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	normalized := NormalizeURL(dsn)

	pool, err := pgxpool.New(ctx, normalized)
	if err != nil {
		return nil, fmt.Errorf("create db pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database (%s): %w", RedactDSN(normalized), err)
	}

	log.Printf("database connection OK dsn=%s", RedactDSN(normalized))
	return pool, nil
}

// NormalizeURL requires TLS for postgres:// URLs that point at a remote host
// and do not choose an sslmode themselves. Managed hosts hand out such URLs
// and refuse plaintext connections. Key/value DSNs are returned unchanged.
func NormalizeURL(dsn string) string {
	dsn = strings.TrimSpace(dsn)
	lower := strings.ToLower(dsn)
	if !strings.HasPrefix(lower, "postgres://") && !strings.HasPrefix(lower, "postgresql://") {
		return dsn
	}

	u, err := url.Parse(dsn)
	if err != nil {
		return dsn
	}

	q := u.Query()
	if q.Get("sslmode") != "" || isLocalHost(u.Hostname()) {
		return dsn
	}
	q.Set("sslmode", "require")
	u.RawQuery = q.Encode()
	return u.String()
}

func isLocalHost(host string) bool {
	switch host {
	case "", "localhost", "db", "postgres":
		return true
	}
	if ip := net.ParseIP(host); ip != nil {
		return ip.IsLoopback() || ip.IsPrivate()
	}
	return false
}

// RedactDSN hides the credentials of a URL style DSN.
func RedactDSN(dsn string) string {
	const marker = "://"
	start := strings.Index(dsn, marker)
	if start < 0 {
		return dsn
	}
	start += len(marker)
	end := strings.Index(dsn[start:], "@")
	if end < 0 {
		return dsn
	}
	return dsn[:start] + "***" + dsn[start+end:]
}
