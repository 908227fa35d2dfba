// Package orm implements storage.Storage by mapping types.Student with gorm.
//
// gorm runs on the same pure-Go SQLite driver as the rest of the module,
// so the ORM and the hand-written SQL path always see the same database.
package orm

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/aanand-mishra/roster-api/internal/storage"
	"github.com/aanand-mishra/roster-api/internal/types"
)

// Options configures a Repository.
type Options struct {
	StoragePath string
	Logger      zerolog.Logger
}

// Repository is the gorm implementation of storage.Storage.
type Repository struct {
	db *gorm.DB
}

var _ storage.Storage = (*Repository)(nil)

// New opens the database and creates the Students table when it is
// missing. An existing table is used as it is and never altered.
func New(ctx context.Context, opts Options) (*Repository, error) {
	db, err := gorm.Open(sqlite.New(sqlite.Config{
		DriverName: storage.DriverName,
		DSN:        storage.DSN(opts.StoragePath),
	}), &gorm.Config{
		Logger: NewLogger(opts.Logger),
	})
	if err != nil {
		return nil, fmt.Errorf("orm.New: open: %w", err)
	}

	r := &Repository{db: db}
	if err := r.ensureTable(ctx); err != nil {
		r.Close()
		return nil, err
	}
	return r, nil
}

func (r *Repository) ensureTable(ctx context.Context) error {
	m := r.db.WithContext(ctx).Migrator()
	if m.HasTable(&types.Student{}) {
		return nil
	}
	if err := m.CreateTable(&types.Student{}); err != nil {
		return fmt.Errorf("orm.New: create table: %w", err)
	}
	return nil
}

// AddStudents validates the batch and inserts it in one transaction.
func (r *Repository) AddStudents(ctx context.Context, students []types.NewStudent) error {
	if err := types.ValidateStudents(students); err != nil {
		return err
	}
	if len(students) == 0 {
		return nil
	}

	rows := make([]types.Student, 0, len(students))
	for _, st := range students {
		rows = append(rows, types.Student{Name: st.Name, Major: st.Major, GPA: st.GPA})
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&rows).Error
	})
	if err != nil {
		return fmt.Errorf("AddStudents: %w", err)
	}
	return nil
}

// StudentsWithMinGPA returns students with gpa >= gpaMin, highest first.
func (r *Repository) StudentsWithMinGPA(ctx context.Context, gpaMin float64) ([]types.Student, error) {
	students := make([]types.Student, 0)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.
			Where("gpa >= ?", gpaMin).
			Order("gpa DESC").
			Order("id").
			Find(&students).Error
	})
	if err != nil {
		return nil, fmt.Errorf("StudentsWithMinGPA: %w", err)
	}

	if students == nil {
		students = make([]types.Student, 0)
	}
	return students, nil
}

// Close closes the underlying connection pool.
func (r *Repository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
