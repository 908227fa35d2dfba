// Package storage defines the Storage interface, the contract both data
// access implementations satisfy:
//
//   - storage/orm     maps types.Student with gorm
//   - storage/sqlite  builds parameterized SQL by hand with sqlb
//
// Handlers depend only on this interface, so the backend is chosen once in
// the serve command. Both implementations run the same test suite
// (storage/storagetest) and must return identical results.
package storage

import (
	"context"

	"github.com/aanand-mishra/roster-api/internal/types"
)

// Storage is the roster data access contract. Each call acquires its own
// session and releases it before returning, on success and on failure.
type Storage interface {
	// AddStudents persists one row per record in a single transaction:
	// either every record is stored or none is. Records are validated
	// first; an invalid record yields *types.ValidationError. An empty
	// batch is a no-op.
	AddStudents(ctx context.Context, students []types.NewStudent) error

	// StudentsWithMinGPA returns every student with gpa >= gpaMin, highest
	// gpa first, ties broken by id. Students without a gpa never match.
	// Returns an empty slice (not nil) when nothing matches.
	StudentsWithMinGPA(ctx context.Context, gpaMin float64) ([]types.Student, error)

	// Close releases resources held across calls, if any.
	Close() error
}
