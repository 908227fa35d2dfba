// Package types holds all shared data structures (models) used across
// the application. Keeping them in one place prevents import cycles:
// handlers, storage, and utils can all import types without depending
// on each other.
package types

// StudentsTable is the relation every roster operation reads or writes.
const StudentsTable = "Students"

// Student is a persisted roster entry.
//
// Struct tags serve three readers:
//
//  1. json:"..."  controls the HTTP representation. Major and GPA are
//     pointers so an absent value is encoded as null rather than "" or 0.
//  2. db:"..."    column names used by the hand-written SQL path.
//  3. gorm:"..."  column mapping for the ORM path.
type Student struct {
	ID    int64    `json:"id"    db:"id"    gorm:"column:id;primaryKey;autoIncrement"`
	Name  string   `json:"name"  db:"name"  gorm:"column:name;type:varchar(100);not null"`
	Major *string  `json:"major" db:"major" gorm:"column:major;type:varchar(100)"`
	GPA   *float64 `json:"gpa"   db:"gpa"   gorm:"column:gpa"`
}

// TableName keeps gorm from pluralising and lower-casing the table name.
func (Student) TableName() string { return StudentsTable }

// NewStudent is a candidate record for a bulk insert. It has no id: ids are
// assigned by the store.
type NewStudent struct {
	Name  string   `json:"name"  db:"name"  validate:"required"`
	Major *string  `json:"major" db:"major"`
	GPA   *float64 `json:"gpa"   db:"gpa"`
}

// Row is one raw result row keyed by result column name. Every selected
// column is present; SQL NULL is stored as nil.
type Row map[string]any
