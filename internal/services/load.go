package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/vvka-141/datahub/internal/db"
	"github.com/vvka-141/datahub/internal/product"
	"github.com/vvka-141/datahub/internal/store"
	"github.com/vvka-141/datahub/pkg/datahub"
)

// ConnectorFactory builds a Connector for resolved connection parameters.
type ConnectorFactory func(*datahub.ConnectionConfig, datahub.Logger) (datahub.Connector, error)

// LoadService upserts a JSON array of products into public.products.
// Thread-Safety: NOT safe for concurrent Load calls when reading stdin.
type LoadService struct {
	connectorFactory ConnectorFactory
	logger           datahub.Logger
	stdin            io.Reader
}

// NewLoadService creates a LoadService. stdin is read when the config selects
// standard input. It panics on nil dependencies.
func NewLoadService(connectorFactory ConnectorFactory, logger datahub.Logger, stdin io.Reader) *LoadService {
	if connectorFactory == nil {
		panic("connectorFactory cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	if stdin == nil {
		panic("stdin cannot be nil")
	}
	return &LoadService{
		connectorFactory: connectorFactory,
		logger:           logger,
		stdin:            stdin,
	}
}

// Load reads the product array, connects, optionally bootstraps the schema
// and upserts every object element. It returns the number of rows upserted.
//
// Elements that are not JSON objects are skipped. A product without id or
// name aborts the run; batches committed before the failure are kept.
func (s *LoadService) Load(ctx context.Context, cfg datahub.LoadConfig) (int, error) {
	if err := cfg.Validate(); err != nil {
		return 0, err
	}

	products, err := s.readInput(cfg)
	if err != nil {
		return 0, err
	}
	s.logger.Verbose("read %d array elements", len(products))

	languages := cfg.Languages
	if len(languages) == 0 {
		languages = datahub.DefaultLanguages
	}

	connector, err := s.connectorFactory(cfg.Connection, s.logger)
	if err != nil {
		return 0, err
	}

	s.logger.Verbose("connecting to %s", db.RedactedConnectionString(cfg.Connection))
	pool, err := connector.Connect(ctx)
	if err != nil {
		return 0, err
	}
	defer pool.Close()

	if cfg.EnsureSchema {
		if err := store.EnsureSchema(ctx, pool); err != nil {
			return 0, err
		}
		s.logger.Verbose("schema ensured")
	}

	writer := store.NewWriter(pool, cfg.CommitEvery, s.logger)
	skipped := 0
	for i, raw := range products {
		if !product.IsObject(raw) {
			skipped++
			continue
		}

		row, err := product.Normalize(raw, languages)
		if err == nil {
			err = writer.Upsert(ctx, row)
		}
		if err != nil {
			if rbErr := writer.Rollback(ctx); rbErr != nil {
				s.logger.Error("rollback failed: %v", rbErr)
			}
			s.logger.Verbose("%d rows committed before failure", writer.Committed())
			return 0, fmt.Errorf("product at index %d: %w", i, err)
		}
	}

	if err := writer.Close(ctx); err != nil {
		return 0, err
	}
	if skipped > 0 {
		s.logger.Verbose("skipped %d non-object elements", skipped)
	}

	return writer.Count(), nil
}

func (s *LoadService) readInput(cfg datahub.LoadConfig) ([]json.RawMessage, error) {
	if cfg.UseStdin {
		return product.ReadArray(s.stdin, "STDIN")
	}

	f, err := os.Open(cfg.FilePath)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w: %w", cfg.FilePath, datahub.ErrInvalidInput, err)
	}
	defer f.Close()

	return product.ReadArray(f, cfg.FilePath)
}
