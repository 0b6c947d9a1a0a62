package repository

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"time"

	"statistics-aggregator/internal/config"
	"statistics-aggregator/internal/logging"
)

const (
	dialAttempts = 5
	dialTimeout  = 3 * time.Second
)

var dialBackoff = 2 * time.Second

// WaitForDatabase polls the TCP endpoint of the configured database until it
// accepts connections. It is a no-op when no host can be derived.
func WaitForDatabase(ctx context.Context, cfg config.Database, defaultPort string, logger *logging.Logger) error {
	host, port := cfg.Host, cfg.Port

	if (host == "" || port == "") && cfg.DSN != "" {
		parsed, err := url.Parse(cfg.DSN)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", config.EnvDbDsn, err)
		}
		if host == "" {
			host = parsed.Hostname()
		}
		if port == "" {
			port = parsed.Port()
		}
	}

	if host == "" {
		return nil
	}
	if port == "" {
		port = defaultPort
	}

	address := net.JoinHostPort(host, port)
	dialer := &net.Dialer{Timeout: dialTimeout}

	for attempt := 1; attempt <= dialAttempts; attempt++ {
		conn, err := dialer.DialContext(ctx, "tcp", address)
		if err == nil {
			_ = conn.Close()
			return nil
		}

		logger.Warn("database not reachable yet", logging.AttachError(err, "attempt", attempt, "address", address)...)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(dialBackoff):
		}
	}

	return fmt.Errorf("database not reachable at %s", address)
}

// PostgresDSN returns the configured DSN or assembles one from discrete fields.
func PostgresDSN(cfg config.Database) (string, error) {
	if cfg.DSN != "" {
		return cfg.DSN, nil
	}

	if cfg.Host == "" {
		return "", errors.New("database host is required when DSN is not provided")
	}
	if cfg.User == "" {
		return "", errors.New("database user is required when DSN is not provided")
	}
	if cfg.Name == "" {
		return "", errors.New("database name is required when DSN is not provided")
	}

	port := cfg.Port
	if port == "" {
		port = config.DefaultPostgresPort
	}

	connectionURL := &url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(cfg.Host, port),
		Path:   "/" + cfg.Name,
		User:   url.UserPassword(cfg.User, cfg.Password),
	}

	query := connectionURL.Query()
	query.Set("sslmode", "disable")
	connectionURL.RawQuery = query.Encode()

	return connectionURL.String(), nil
}
