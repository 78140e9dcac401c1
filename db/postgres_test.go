package db

import (
	"bytes"
	"context"
	"encoding/binary"
	"io"
	"io/fs"
	"net"
	"testing"
	"time"

	"github.com/project/quickstart/config"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestEmbeddedMigrations(t *testing.T) {
	t.Parallel()

	entries, err := fs.ReadDir(embedMigrations, migrationsDir)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	for _, e := range entries {
		data, err := fs.ReadFile(embedMigrations, migrationsDir+"/"+e.Name())
		require.NoError(t, err)
		require.Contains(t, string(data), "-- +goose Up")
		require.Contains(t, string(data), "-- +goose Down")
	}

	schema, err := fs.ReadFile(embedMigrations, migrationsDir+"/00001_authors_books.sql")
	require.NoError(t, err)
	require.Contains(t, string(schema), "REFERENCES authors (id) ON DELETE CASCADE")
}

// readStartupParams returns the key/value pairs of a postgres startup message.
func readStartupParams(conn net.Conn) (map[string]string, error) {
	if err := conn.SetDeadline(time.Now().Add(5 * time.Second)); err != nil {
		return nil, err
	}

	var length int32
	if err := binary.Read(conn, binary.BigEndian, &length); err != nil {
		return nil, err
	}

	body := make([]byte, length-4)
	if _, err := io.ReadFull(conn, body); err != nil {
		return nil, err
	}

	// protocol version, then NUL separated pairs ended by an empty key
	fields := bytes.Split(body[4:], []byte{0})
	params := make(map[string]string)

	for i := 0; i+1 < len(fields) && len(fields[i]) > 0; i += 2 {
		params[string(fields[i])] = string(fields[i+1])
	}

	return params, nil
}

// fakePostgres records the startup parameters of the first connection and
// hangs up on every client.
func fakePostgres(lis net.Listener) <-chan map[string]string {
	first := make(chan map[string]string, 1)

	go func() {
		captured := false
		for {
			conn, err := lis.Accept()
			if err != nil {
				return
			}

			if !captured {
				if params, err := readStartupParams(conn); err == nil {
					first <- params
					captured = true
				}
			}

			_ = conn.Close()
		}
	}()

	return first
}

func TestSetupPostgresSendsNoPoolOptions(t *testing.T) {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	defer lis.Close()

	host, port, err := net.SplitHostPort(lis.Addr().String())
	require.NoError(t, err)

	t.Setenv("OUTBOX_ENABLED", "false")
	t.Setenv("POSTGRES_HOST", host)
	t.Setenv("POSTGRES_PORT", port)

	cfg, err := config.NewConfig()
	require.NoError(t, err)

	startup := fakePostgres(lis)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.Error(t, SetupPostgres(ctx, cfg.PG.MigrationURL, zap.NewNop()))

	var params map[string]string
	select {
	case params = <-startup:
	case <-ctx.Done():
		t.Fatal("no startup message received")
	}

	require.Equal(t, "quickstart", params["database"])
	require.Equal(t, "postgres", params["user"])
	require.NotContains(t, params, "pool_max_conns")
}
