package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vvka-141/datahub/internal/logging"
	"github.com/vvka-141/datahub/pkg/datahub"
)

type mockConnector struct {
	pool  *pgxpool.Pool
	err   error
	calls int
}

func (m *mockConnector) Connect(_ context.Context) (*pgxpool.Pool, error) {
	m.calls++
	return m.pool, m.err
}

func factoryFor(c *mockConnector) ConnectorFactory {
	return func(*datahub.ConnectionConfig, datahub.Logger) (datahub.Connector, error) {
		return c, nil
	}
}

func testConnection() *datahub.ConnectionConfig {
	return &datahub.ConnectionConfig{Host: "localhost", Port: 5432, Database: "catalog", Username: "u", Password: "p"}
}

func TestLoadService_RequiresSource(t *testing.T) {
	conn := &mockConnector{}
	svc := NewLoadService(factoryFor(conn), logging.NewNullLogger(), strings.NewReader(""))

	_, err := svc.Load(context.Background(), datahub.LoadConfig{Connection: testConnection()})
	require.Error(t, err)
	assert.ErrorIs(t, err, datahub.ErrInvalidConfig)
	assert.Contains(t, err.Error(), "provide --file PATH or use --stdin")
	assert.Zero(t, conn.calls)
}

func TestLoadService_InputErrorsBeforeConnecting(t *testing.T) {
	tests := []struct {
		name    string
		stdin   string
		wantMsg string
	}{
		{"empty", "", "STDIN is empty"},
		{"invalid", "[{", "invalid JSON in STDIN"},
		{"not an array", `{"id":"a"}`, "must be an array of products"},
		{"empty array", "[]", "no products found in STDIN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn := &mockConnector{}
			svc := NewLoadService(factoryFor(conn), logging.NewNullLogger(), strings.NewReader(tt.stdin))

			_, err := svc.Load(context.Background(), datahub.LoadConfig{UseStdin: true, Connection: testConnection()})
			require.Error(t, err)
			assert.ErrorIs(t, err, datahub.ErrInvalidInput)
			assert.Contains(t, err.Error(), tt.wantMsg)
			assert.Zero(t, conn.calls, "no connection attempt on bad input")
		})
	}
}

func TestLoadService_StdinWinsOverFile(t *testing.T) {
	conn := &mockConnector{err: datahub.ErrConnectionFailed}
	svc := NewLoadService(factoryFor(conn), logging.NewNullLogger(), strings.NewReader(""))

	cfg := datahub.LoadConfig{
		UseStdin:   true,
		FilePath:   filepath.Join(t.TempDir(), "products.json"),
		Connection: testConnection(),
	}
	require.NoError(t, os.WriteFile(cfg.FilePath, []byte(`[{"id":"a"}]`), 0644))

	_, err := svc.Load(context.Background(), cfg)
	assert.Contains(t, err.Error(), "STDIN is empty")
}

func TestLoadService_MissingFile(t *testing.T) {
	svc := NewLoadService(factoryFor(&mockConnector{}), logging.NewNullLogger(), strings.NewReader(""))

	_, err := svc.Load(context.Background(), datahub.LoadConfig{
		FilePath:   filepath.Join(t.TempDir(), "missing.json"),
		Connection: testConnection(),
	})
	assert.ErrorIs(t, err, datahub.ErrInvalidInput)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadService_ConnectionFailure(t *testing.T) {
	conn := &mockConnector{err: fmt.Errorf("connection refused to localhost:5432: %w", datahub.ErrConnectionFailed)}
	svc := NewLoadService(factoryFor(conn), logging.NewNullLogger(), strings.NewReader(`[{"id":"a","productInformations":[{"name":"A"}]}]`))

	_, err := svc.Load(context.Background(), datahub.LoadConfig{UseStdin: true, Connection: testConnection()})
	assert.ErrorIs(t, err, datahub.ErrConnectionFailed)
	assert.Equal(t, 1, conn.calls)
}

func TestLoadService_FactoryError(t *testing.T) {
	factory := func(*datahub.ConnectionConfig, datahub.Logger) (datahub.Connector, error) {
		return nil, datahub.ErrInvalidConfig
	}
	svc := NewLoadService(factory, logging.NewNullLogger(), strings.NewReader(`[{"id":"a"}]`))

	_, err := svc.Load(context.Background(), datahub.LoadConfig{UseStdin: true, Connection: testConnection()})
	assert.ErrorIs(t, err, datahub.ErrInvalidConfig)
}

func TestNewLoadService_PanicsOnNilDeps(t *testing.T) {
	factory := factoryFor(&mockConnector{})
	assert.Panics(t, func() { NewLoadService(nil, logging.NewNullLogger(), strings.NewReader("")) })
	assert.Panics(t, func() { NewLoadService(factory, nil, strings.NewReader("")) })
	assert.Panics(t, func() { NewLoadService(factory, logging.NewNullLogger(), nil) })
}
