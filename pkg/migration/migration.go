// Package migration runs and tracks schema migrations.
//
// Each migration registers itself from an init() in database/migrations:
//
//	func init() {
//	    migration.Register("20241204000000_create_users_table", &CreateUsersTable{})
//	}
//
// Run from the CLI:
//
//	devburger migrate             // run all pending
//	devburger migrate:rollback    // roll back the last batch
//	devburger migrate:status      // list migrations
package migration

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/devburger/pkg/logger"
)

// Migration is the interface every migration must implement.
type Migration interface {
	Up(db *gorm.DB) error
	Down(db *gorm.DB) error
}

// record is one applied migration in the tracking table.
type record struct {
	ID    uint      `gorm:"primaryKey;autoIncrement"`
	Name  string    `gorm:"uniqueIndex;size:255;not null"`
	Batch int       `gorm:"not null"`
	RunAt time.Time `gorm:"autoCreateTime"`
}

func (record) TableName() string { return "schema_migrations" }

// ─── Registry ─────────────────────────────────────────────────────────────────

type registered struct {
	name string
	m    Migration
}

var registry []registered

// Register adds a migration. name must start with a sortable timestamp.
func Register(name string, m Migration) {
	registry = append(registry, registered{name: name, m: m})
}

func sorted() []registered {
	out := append([]registered(nil), registry...)
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// ─── Runner ───────────────────────────────────────────────────────────────────

// Runner executes and tracks migrations.
type Runner struct {
	db  *gorm.DB
	out io.Writer
}

// New creates a Runner that reports progress to out.
func New(db *gorm.DB, out io.Writer) *Runner {
	if out == nil {
		out = io.Discard
	}
	return &Runner{db: db, out: out}
}

func (r *Runner) ensureTable() error {
	if err := r.db.AutoMigrate(&record{}); err != nil {
		return fmt.Errorf("migration: ensure table: %w", err)
	}
	return nil
}

// Pending returns the names of migrations not yet applied, in order.
func (r *Runner) Pending() ([]string, error) {
	if err := r.ensureTable(); err != nil {
		return nil, err
	}
	ran, err := r.applied()
	if err != nil {
		return nil, err
	}

	var names []string
	for _, reg := range sorted() {
		if _, ok := ran[reg.name]; !ok {
			names = append(names, reg.name)
		}
	}
	return names, nil
}

// Run applies every pending migration as one batch.
func (r *Runner) Run() error {
	if err := r.ensureTable(); err != nil {
		return err
	}
	ran, err := r.applied()
	if err != nil {
		return err
	}

	batch := r.lastBatch() + 1
	count := 0
	for _, reg := range sorted() {
		if _, ok := ran[reg.name]; ok {
			continue
		}

		logger.Info("migration: running", "name", reg.name)
		if err := reg.m.Up(r.db); err != nil {
			return fmt.Errorf("migration: %s up: %w", reg.name, err)
		}
		if err := r.db.Create(&record{Name: reg.name, Batch: batch}).Error; err != nil {
			return fmt.Errorf("migration: record %s: %w", reg.name, err)
		}
		fmt.Fprintf(r.out, "Migrated: %s\n", reg.name)
		count++
	}

	if count == 0 {
		fmt.Fprintln(r.out, "Nothing to migrate.")
		return nil
	}
	logger.Info("migration: done", "ran", count, "batch", batch)
	return nil
}

// Rollback reverses every migration of the most recent batch.
func (r *Runner) Rollback() error {
	if err := r.ensureTable(); err != nil {
		return err
	}

	batch := r.lastBatch()
	if batch == 0 {
		fmt.Fprintln(r.out, "Nothing to roll back.")
		return nil
	}

	var records []record
	if err := r.db.Where("batch = ?", batch).Order("id desc").Find(&records).Error; err != nil {
		return err
	}

	byName := make(map[string]Migration, len(registry))
	for _, reg := range registry {
		byName[reg.name] = reg.m
	}

	for _, rec := range records {
		m, ok := byName[rec.Name]
		if !ok {
			return fmt.Errorf("migration: cannot roll back %s: not registered", rec.Name)
		}

		logger.Info("migration: rolling back", "name", rec.Name)
		if err := m.Down(r.db); err != nil {
			return fmt.Errorf("migration: %s down: %w", rec.Name, err)
		}
		if err := r.db.Delete(&rec).Error; err != nil {
			return err
		}
		fmt.Fprintf(r.out, "Rolled back: %s\n", rec.Name)
	}
	return nil
}

// Status prints every registered migration and whether it ran.
func (r *Runner) Status() error {
	if err := r.ensureTable(); err != nil {
		return err
	}
	ran, err := r.applied()
	if err != nil {
		return err
	}

	fmt.Fprintf(r.out, "%-50s  %-8s  %s\n", "Migration", "Status", "Batch")
	fmt.Fprintln(r.out, strings.Repeat("-", 70))
	for _, reg := range sorted() {
		if rec, ok := ran[reg.name]; ok {
			fmt.Fprintf(r.out, "%-50s  %-8s  %d\n", reg.name, "Ran", rec.Batch)
		} else {
			fmt.Fprintf(r.out, "%-50s  %-8s  -\n", reg.name, "Pending")
		}
	}
	return nil
}

func (r *Runner) applied() (map[string]record, error) {
	var ran []record
	if err := r.db.Find(&ran).Error; err != nil {
		return nil, err
	}
	out := make(map[string]record, len(ran))
	for _, rec := range ran {
		out[rec.Name] = rec
	}
	return out, nil
}

func (r *Runner) lastBatch() int {
	var max struct{ Max int }
	r.db.Model(&record{}).Select("COALESCE(MAX(batch), 0) as max").Scan(&max)
	return max.Max
}
