package store

import (
	"context"
	"embed"
	errs "errors"
	"net/url"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/pkg/errors"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// Migrator handles DB schema migrations using golang-migrate.
// Without a directory it applies the migrations compiled into the binary.
type Migrator struct {
	dsn string
	dir string
}

func NewMigrator(dsn string) (*Migrator, error) {
	if dsn == "" {
		return nil, ErrNoDSN
	}
	return &Migrator{dsn: dsn}, nil
}

// WithDir reads migrations from dir on disk instead.
func (m *Migrator) WithDir(dir string) *Migrator {
	m.dir = dir
	return m
}

func (m *Migrator) sourceURL() (string, error) {
	p, err := filepath.Abs(m.dir)
	if err != nil {
		return "", err
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(p)}
	return u.String(), nil
}

func (m *Migrator) Up(ctx context.Context) error {
	return m.run(ctx, func(mig *migrate.Migrate) error { return mig.Up() })
}

func (m *Migrator) Down(ctx context.Context) error {
	return stepDownResult(m.run(ctx, func(mig *migrate.Migrate) error { return mig.Steps(-1) }))
}

// stepDownResult reports an empty schema as ErrNoChange. Stepping down from no version
// fails with a missing-file error instead of migrate.ErrNoChange.
func stepDownResult(err error) error {
	if errs.Is(err, os.ErrNotExist) {
		return ErrNoChange
	}
	return err
}

func (m *Migrator) run(ctx context.Context, step func(*migrate.Migrate) error) error {
	mig, err := m.instance()
	if err != nil {
		return err
	}
	defer mig.Close()

	done := make(chan error, 1)
	go func() { done <- step(mig) }()
	select {
	case <-ctx.Done():
		mig.GracefulStop <- true
		<-done
		return ctx.Err()
	case err := <-done:
		if errs.Is(err, migrate.ErrNoChange) {
			return ErrNoChange
		}
		return err
	}
}

func (m *Migrator) instance() (*migrate.Migrate, error) {
	if m.dir != "" {
		src, err := m.sourceURL()
		if err != nil {
			return nil, err
		}
		mig, err := migrate.New(src, m.dsn)
		return mig, errors.Wrap(err, "migrations from "+m.dir)
	}
	src, err := iofs.New(migrationFS, "migrations")
	if err != nil {
		return nil, errors.Wrap(err, "embedded migrations")
	}
	mig, err := migrate.NewWithSourceInstance("iofs", src, m.dsn)
	return mig, errors.Wrap(err, "embedded migrations")
}
