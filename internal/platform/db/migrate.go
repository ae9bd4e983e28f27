package db

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/pressly/goose/v3"
	"gorm.io/gorm"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// Migrator は埋め込みSQLマイグレーションを適用します。
type Migrator struct {
	provider *goose.Provider
}

// NewMigrator はgorm接続のドライバーに合わせたgooseプロバイダーを生成します。
func NewMigrator(gdb *gorm.DB) (*Migrator, error) {
	dialect, err := gooseDialect(gdb.Dialector.Name())
	if err != nil {
		return nil, err
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	fsys, err := fs.Sub(embedMigrations, "migrations")
	if err != nil {
		return nil, err
	}
	p, err := goose.NewProvider(dialect, sqlDB, fsys)
	if err != nil {
		return nil, fmt.Errorf("failed to create migration provider: %w", err)
	}
	return &Migrator{provider: p}, nil
}

func gooseDialect(driver string) (goose.Dialect, error) {
	switch driver {
	case "postgres":
		return goose.DialectPostgres, nil
	case "sqlite":
		return goose.DialectSQLite3, nil
	default:
		return "", fmt.Errorf("unsupported migration dialect %q", driver)
	}
}

// Up は未適用のマイグレーションをすべて適用します。
func (m *Migrator) Up(ctx context.Context) error {
	results, err := m.provider.Up(ctx)
	for _, r := range results {
		slog.Info("migration applied", "version", r.Source.Version, "path", r.Source.Path, "duration", r.Duration)
	}
	return err
}

// Down は直近のマイグレーションを1つ戻します。
func (m *Migrator) Down(ctx context.Context) error {
	r, err := m.provider.Down(ctx)
	if r != nil {
		slog.Info("migration rolled back", "version", r.Source.Version, "path", r.Source.Path)
	}
	return err
}

// Status は各マイグレーションの適用状態を返します。
func (m *Migrator) Status(ctx context.Context) ([]*goose.MigrationStatus, error) {
	return m.provider.Status(ctx)
}
