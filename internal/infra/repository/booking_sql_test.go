package repository

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/medisched/hospital-scheduler/internal/models"
)

// dryRunDB builds statements against the postgres dialector without a
// live server.
func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=localhost user=test dbname=test",
	}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
	})
	if err != nil {
		t.Fatalf("dry-run db: %v", err)
	}
	return db
}

func TestBookedTupleQuery_LocksRowsNotAggregate(t *testing.T) {
	db := dryRunDB(t)

	ap := &models.Appointment{
		DoctorID:  1,
		PatientID: 2,
		Date:      time.Date(2025, time.November, 27, 0, 0, 0, 0, time.UTC),
		Time:      "10:00",
	}

	var ids []uint
	stmt := bookedTupleQuery(db, ap).Find(&ids).Statement
	sql := stmt.SQL.String()

	if !strings.Contains(sql, "FOR UPDATE") {
		t.Errorf("duplicate check must lock the matched row: %s", sql)
	}
	// Postgres rejects FOR UPDATE combined with aggregates, so the
	// check must select the row itself, never count it.
	if strings.Contains(strings.ToLower(sql), "count(") {
		t.Errorf("duplicate check must not aggregate under FOR UPDATE: %s", sql)
	}
	for _, col := range []string{"doctor_id", "patient_id", "date", "time", "status"} {
		if !strings.Contains(sql, col) {
			t.Errorf("check missing %s predicate: %s", col, sql)
		}
	}
}

func TestIsUniqueViolation(t *testing.T) {
	if !isUniqueViolation(gorm.ErrDuplicatedKey) {
		t.Errorf("translated gorm sentinel not recognized")
	}

	raw := &pgconn.PgError{Code: "23505"}
	if !isUniqueViolation(raw) {
		t.Errorf("raw unique-violation driver error not recognized")
	}
	if !isUniqueViolation(fmt.Errorf("create: %w", raw)) {
		t.Errorf("wrapped driver error not recognized")
	}

	if isUniqueViolation(&pgconn.PgError{Code: "23503"}) {
		t.Errorf("foreign-key violation must not map to a conflict")
	}
	if isUniqueViolation(errors.New("boom")) {
		t.Errorf("arbitrary error must not map to a conflict")
	}
}
