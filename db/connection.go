// Package db manages the Trino connection.
//
// Design decisions:
//   - Uses database/sql with the trino-go-client driver; the driver
//     speaks Trino's HTTP protocol and handles paging of results.
//   - All queries are executed through the Engine interface, keeping the
//     rest of the application unaware of connection details.
//   - SSH tunnel integration is handled transparently: if SSH is enabled,
//     we first establish the tunnel, then point the driver at the local
//     endpoint.
package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/trinodb/trino-go-client/trino"

	"github.com/DachengChen/trinoai/apperr"
	"github.com/DachengChen/trinoai/applog"
	"github.com/DachengChen/trinoai/config"
	"github.com/DachengChen/trinoai/ssh"
)

// Source is reported to Trino as the client application name.
const Source = "trinoai"

// DockerHint is attached to connectivity failures.
const DockerHint = "Make sure your docker-compose stack is running. Run: docker-compose ps"

// DB wraps a database/sql handle for Trino and an optional SSH tunnel.
type DB struct {
	conn   *sql.DB
	Tunnel *ssh.Tunnel
}

var _ Engine = (*DB)(nil)

// New wraps an existing handle. Tests pass a sqlmock connection here.
func New(conn *sql.DB) *DB {
	return &DB{conn: conn}
}

// DSN builds the trino driver DSN for cfg.
func DSN(cfg config.TrinoConfig) (string, error) {
	tc := &trino.Config{
		ServerURI: cfg.ServerURI(),
		Source:    Source,
		Catalog:   cfg.Catalog,
		Schema:    cfg.Schema,
	}
	return tc.FormatDSN()
}

// Connect opens a Trino connection, optionally through an SSH tunnel,
// and verifies it with Ping.
func Connect(ctx context.Context, cfg config.TrinoConfig) (*DB, error) {
	d := &DB{}
	target := cfg.Address()

	// If SSH tunnel is requested, set it up first.
	if cfg.SSH.Enabled {
		tunnel, err := ssh.NewTunnel(cfg.SSH, cfg.Host, cfg.Port)
		if err != nil {
			return nil, apperr.Wrap(err, apperr.KindConfig, fmt.Sprintf("ssh tunnel: %v", err))
		}
		localAddr, err := tunnel.Start(ctx)
		if err != nil {
			return nil, apperr.Wrap(err, apperr.KindConnection, fmt.Sprintf("ssh tunnel start: %v", err))
		}
		d.Tunnel = tunnel

		// Override connection target with local tunnel endpoint
		cfg.Host = localAddr.Host
		cfg.Port = localAddr.Port
	}

	dsn, err := DSN(cfg)
	if err != nil {
		d.Close()
		return nil, apperr.Wrap(err, apperr.KindConfig, fmt.Sprintf("build trino dsn: %v", err))
	}

	conn, err := sql.Open("trino", dsn)
	if err != nil {
		d.Close()
		return nil, connectionError(target, err)
	}
	d.conn = conn

	if err := d.Ping(ctx); err != nil {
		d.Close()
		return nil, connectionError(target, err)
	}

	applog.Event("trino", "connected", "address", target, "catalog", cfg.Catalog, "schema", cfg.Schema, "ssh", cfg.SSH.Enabled)
	return d, nil
}

func connectionError(target string, err error) error {
	return apperr.Wrap(err, apperr.KindConnection,
		fmt.Sprintf("Failed to connect to Trino at %s. %s\nError: %v", target, DockerHint, err)).
		WithSuggestion(DockerHint)
}

// Ping verifies the engine answers a trivial query.
func (d *DB) Ping(ctx context.Context) error {
	var one int
	if err := d.conn.QueryRowContext(ctx, "SELECT 1").Scan(&one); err != nil {
		return fmt.Errorf("trino ping: %w", err)
	}
	return nil
}

// Close shuts down the connection and SSH tunnel.
func (d *DB) Close() {
	if d.conn != nil {
		d.conn.Close()
	}
	if d.Tunnel != nil {
		d.Tunnel.Stop()
	}
}
