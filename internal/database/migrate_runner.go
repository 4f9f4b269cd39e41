package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"yatube/internal/middleware"

	"gorm.io/gorm"
)

// MigrationLog is one row of the migration_logs bookkeeping table.
type MigrationLog struct {
	Version   int       `gorm:"primaryKey;autoIncrement:false"`
	Name      string    `gorm:"size:255"`
	AppliedAt time.Time `gorm:"autoCreateTime"`
}

func (MigrationLog) TableName() string {
	return "migration_logs"
}

const createMigrationLogsSQL = `
CREATE TABLE IF NOT EXISTS migration_logs (
	version BIGINT PRIMARY KEY,
	name VARCHAR(255) NOT NULL,
	applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_migration_logs_applied_at ON migration_logs (applied_at);`

// MigrationStore applies and reverts versioned SQL scripts, keeping
// migration_logs in step with the schema.
type MigrationStore interface {
	Applied(ctx context.Context) ([]int, error)
	Apply(ctx context.Context, m Migration) error
	Revert(ctx context.Context, m Migration) error
}

type gormMigrationStore struct {
	db *gorm.DB
}

func NewMigrationStore(db *gorm.DB) MigrationStore {
	return &gormMigrationStore{db: db}
}

// Applied lists recorded versions in ascending order. A database that has
// never been migrated reports none.
func (s *gormMigrationStore) Applied(ctx context.Context) ([]int, error) {
	var versions []int
	err := s.db.WithContext(ctx).Model(&MigrationLog{}).Order("version").Pluck("version", &versions).Error
	switch {
	case err == nil:
		return versions, nil
	case errors.Is(err, gorm.ErrRecordNotFound), tableMissing(err):
		return nil, nil
	default:
		return nil, fmt.Errorf("read migration_logs: %w", err)
	}
}

// Apply runs the up script and records the version in one transaction.
func (s *gormMigrationStore) Apply(ctx context.Context, m Migration) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(m.UpScript).Error; err != nil {
			return err
		}
		return tx.Create(&MigrationLog{Version: m.Version, Name: m.Name}).Error
	})
	if err != nil {
		return fmt.Errorf("apply migration %s: %w", m.String(), err)
	}
	middleware.Logger.InfoContext(ctx, "Migration applied", slog.String("migration", m.String()))
	return nil
}

// Revert runs the down script and forgets the version in one transaction.
func (s *gormMigrationStore) Revert(ctx context.Context, m Migration) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(m.DownScript).Error; err != nil {
			return err
		}
		return tx.Where("version = ?", m.Version).Delete(&MigrationLog{}).Error
	})
	if err != nil {
		return fmt.Errorf("revert migration %s: %w", m.String(), err)
	}
	middleware.Logger.InfoContext(ctx, "Migration rolled back", slog.String("migration", m.String()))
	return nil
}

func tableMissing(err error) bool {
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "no such table") {
		return true
	}
	return strings.Contains(msg, "relation") && strings.Contains(msg, "does not exist")
}

// planMigrations splits registered migrations into those still pending and
// reports applied versions the code no longer knows about.
func planMigrations(applied []int, registered []Migration) (pending []Migration, unknown []int) {
	for _, m := range registered {
		if !slices.Contains(applied, m.Version) {
			pending = append(pending, m)
		}
	}
	for _, v := range applied {
		known := slices.ContainsFunc(registered, func(m Migration) bool { return m.Version == v })
		if !known {
			unknown = append(unknown, v)
		}
	}
	slices.Sort(unknown)
	return pending, unknown
}

func unknownVersionsError(unknown []int) error {
	labels := make([]string, len(unknown))
	for i, v := range unknown {
		labels[i] = fmt.Sprintf("%06d", v)
	}
	return fmt.Errorf("migration_logs has versions with no matching script: %s", strings.Join(labels, ", "))
}

// RunMigrations brings the schema up to the newest registered version for
// the connection's dialect. Already applied versions are skipped.
func RunMigrations(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).Exec(createMigrationLogsSQL).Error; err != nil {
		return fmt.Errorf("create migration_logs: %w", err)
	}

	store := NewMigrationStore(db)
	applied, err := store.Applied(ctx)
	if err != nil {
		return err
	}
	pending, unknown := planMigrations(applied, GetMigrations(db.Dialector.Name()))
	if len(unknown) > 0 {
		return unknownVersionsError(unknown)
	}
	if len(pending) == 0 {
		middleware.Logger.DebugContext(ctx, "Schema is up to date", slog.Int("applied", len(applied)))
		return nil
	}

	for _, m := range pending {
		middleware.Logger.InfoContext(ctx, "Applying migration", slog.String("migration", m.String()))
		if err := store.Apply(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

// RollbackMigration reverts one applied version.
func RollbackMigration(ctx context.Context, db *gorm.DB, version int) error {
	m := GetMigrationByVersion(db.Dialector.Name(), version)
	if m == nil {
		return fmt.Errorf("migration version %d not found", version)
	}

	store := NewMigrationStore(db)
	applied, err := store.Applied(ctx)
	if err != nil {
		return err
	}
	if !slices.Contains(applied, version) {
		return fmt.Errorf("migration %s has not been applied", m.String())
	}
	return store.Revert(ctx, *m)
}

// RollbackLatest reverts the highest applied version and returns it.
func RollbackLatest(ctx context.Context, db *gorm.DB) (int, error) {
	applied, err := NewMigrationStore(db).Applied(ctx)
	if err != nil {
		return 0, err
	}
	if len(applied) == 0 {
		return 0, errors.New("no migrations have been applied")
	}
	latest := slices.Max(applied)
	return latest, RollbackMigration(ctx, db, latest)
}
