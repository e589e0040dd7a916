package database

import (
	"errors"
	"fmt"
	"testing"

	"nexus-pos/internal/model"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestOpenSQLiteAndMigrate(t *testing.T) {
	db, err := Open(Config{Driver: DriverSQLite, LogLevel: logger.Silent})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer Close(db)

	if err := Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	for _, m := range model.All() {
		if !db.Migrator().HasTable(m) {
			t.Fatalf("expected table for %T", m)
		}
	}
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	if _, err := Open(Config{Driver: "oracle"}); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}

func TestUniqueViolationIsNormalized(t *testing.T) {
	db, err := Open(Config{Driver: DriverSQLite, LogLevel: logger.Silent})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer Close(db)
	if err := Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	if err := db.Create(&model.Category{Name: "Drinks", IsActive: true}).Error; err != nil {
		t.Fatalf("first insert: %v", err)
	}
	err = db.Create(&model.Category{Name: "Drinks", IsActive: true}).Error
	if !IsDuplicate(err) {
		t.Fatalf("expected duplicate, got %v", err)
	}
	if Normalize(err) != ErrDuplicate {
		t.Fatalf("expected ErrDuplicate after normalize")
	}
}

func TestIsDuplicate(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"gorm", gorm.ErrDuplicatedKey, true},
		{"pg unique", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}), true},
		{"pg other", &pgconn.PgError{Code: "23503"}, false},
		{"plain", errors.New("boom"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsDuplicate(tc.err); got != tc.want {
				t.Fatalf("IsDuplicate(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}
