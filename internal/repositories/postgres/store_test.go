package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/braiinybear/backoffice-service/internal/cache"
	"github.com/braiinybear/backoffice-service/internal/models"
	"github.com/braiinybear/backoffice-service/internal/repositories"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("gorm.Open: %v", err)
	}
	return db, mock
}

func TestRegistrationUpdateMany_ReportsAffectedRows(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRegistrationPostgreSQL(db, cache.NewManager(nil))

	// one of the three ids no longer exists
	mock.ExpectExec(`UPDATE "registrations" SET .*"payment_status"`).WillReturnResult(sqlmock.NewResult(0, 2))

	n, err := repo.UpdateMany(context.Background(), []string{"a", "b", "c"}, map[string]interface{}{"payment_status": models.PaymentPaid})
	if err != nil {
		t.Fatalf("UpdateMany: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 rows, got %d", n)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestCourseDeleteMany(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCoursePostgreSQL(db, cache.NewManager(nil))

	mock.ExpectExec(`DELETE FROM "courses" WHERE id IN`).WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := repo.DeleteMany(context.Background(), []string{"1", "2", "3"})
	if err != nil {
		t.Fatalf("DeleteMany: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3 rows, got %d", n)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestBulkOperations_EmptyIDsSkipStore(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCoursePostgreSQL(db, cache.NewManager(nil))

	n, err := repo.DeleteMany(context.Background(), nil)
	if err != nil || n != 0 {
		t.Fatalf("DeleteMany(nil) = %d, %v", n, err)
	}
	n, err = repo.UpdateMany(context.Background(), []string{"1"}, map[string]interface{}{})
	if err != nil || n != 0 {
		t.Fatalf("UpdateMany with no columns = %d, %v", n, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestStaffDelete_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewStaffPostgreSQL(db, cache.NewManager(nil))

	mock.ExpectExec(`DELETE FROM "management"`).WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "missing")
	if !repositories.IsNotFoundError(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCourseGetByID_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCoursePostgreSQL(db, cache.NewManager(nil))

	mock.ExpectQuery(`SELECT \* FROM "courses"`).WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByID(context.Background(), "nope")
	if !repositories.IsNotFoundError(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestHandleDBError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantField string
		dup       bool
		notFound  bool
	}{
		{
			name:     "record not found",
			err:      gorm.ErrRecordNotFound,
			notFound: true,
		},
		{
			name:      "aadhaar constraint",
			err:       &pgconn.PgError{Code: "23505", ConstraintName: "idx_registrations_aadhar_card_no"},
			wantField: "aadharCardNo",
			dup:       true,
		},
		{
			name:      "constraint from detail",
			err:       &pgconn.PgError{Code: "23505", ConstraintName: "registrations_phone_no_key", Detail: "Key (phone_no)=(9999999999) already exists."},
			wantField: "phoneNo",
			dup:       true,
		},
		{
			name: "other error",
			err:  errors.New("connection reset"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := handleDBError(tt.err, "op")
			if repositories.IsNotFoundError(got) != tt.notFound {
				t.Fatalf("not found = %v, want %v", repositories.IsNotFoundError(got), tt.notFound)
			}
			if repositories.IsDuplicateError(got) != tt.dup {
				t.Fatalf("duplicate = %v, want %v", repositories.IsDuplicateError(got), tt.dup)
			}
			if tt.dup {
				var dupErr *repositories.DuplicateError
				if !errors.As(got, &dupErr) || dupErr.Field != tt.wantField {
					t.Fatalf("expected field %q, got %+v", tt.wantField, dupErr)
				}
			}
			if !tt.dup && !tt.notFound && !errors.Is(got, tt.err) {
				t.Fatalf("expected wrapped error, got %v", got)
			}
		})
	}
}

func TestLikePatternEscapes(t *testing.T) {
	if got := likePattern(" 50%_off "); got != `%50\%\_off%` {
		t.Fatalf("likePattern = %q", got)
	}
}

func TestStoreWithTransaction(t *testing.T) {
	db, mock := newMockDB(t)
	store := newStore(db, cache.NewManager(nil))

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "management"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT \* FROM "management"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "role"}).AddRow("s1", "asha", "HR"))
	mock.ExpectCommit()

	var got *models.Staff
	err := store.WithTransaction(context.Background(), func(tx repositories.Repository) error {
		var err error
		got, err = tx.Staff().UpdateRole(context.Background(), "s1", models.RoleHR)
		return err
	})
	if err != nil {
		t.Fatalf("WithTransaction: %v", err)
	}
	if got.Role != models.RoleHR {
		t.Fatalf("role = %q", got.Role)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestStoreWithTransaction_RollsBack(t *testing.T) {
	db, mock := newMockDB(t)
	store := newStore(db, cache.NewManager(nil))
	boom := errors.New("boom")

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := store.WithTransaction(context.Background(), func(repositories.Repository) error {
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestStoreWithTransaction_EvictsStaffAfterCommit(t *testing.T) {
	db, mock := newMockDB(t)
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	cm := cache.NewManager(client)
	store := newStore(db, cm)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "management"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT \* FROM "management"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "role"}).AddRow("s1", "asha", "EMPLOYEE"))
	mock.ExpectCommit()

	err := store.WithTransaction(ctx, func(tx repositories.Repository) error {
		if _, err := tx.Staff().UpdateRole(ctx, "s1", models.RoleEmployee); err != nil {
			return err
		}
		// A concurrent reader still sees the committed ADMIN row and caches it.
		return cm.Staff.Put(ctx, "id:s1", models.Staff{ID: "s1", Role: models.RoleAdmin})
	})
	if err != nil {
		t.Fatalf("WithTransaction: %v", err)
	}
	if mr.Exists("staff:id:s1") {
		t.Fatal("pre-commit ADMIN entry survived the commit")
	}

	mock.ExpectQuery(`SELECT .* FROM "management"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "role"}).AddRow("s1", "asha", "EMPLOYEE"))
	got, err := store.Staff().GetByID(ctx, "s1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Role != models.RoleEmployee {
		t.Fatalf("role after demotion = %q, want EMPLOYEE", got.Role)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}
