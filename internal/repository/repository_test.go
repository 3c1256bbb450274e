package repository

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/rpattn/bidash/internal/domain"
)

func TestNumericToDecimal(t *testing.T) {
	got := numericToDecimal(pgtype.Numeric{Int: big.NewInt(123456), Exp: -2, Valid: true})
	if !got.Valid || !got.Decimal.Equal(decimal.RequireFromString("1234.56")) {
		t.Fatalf("expected 1234.56, got %v", got)
	}

	if numericToDecimal(pgtype.Numeric{}).Valid {
		t.Fatalf("expected null numeric to stay null")
	}
	if numericToDecimal(pgtype.Numeric{NaN: true, Valid: true}).Valid {
		t.Fatalf("expected NaN numeric to be treated as null")
	}
}

func TestNullableScalars(t *testing.T) {
	if intPtr(pgtype.Int4{}) != nil {
		t.Fatalf("expected nil for null int")
	}
	if v := intPtr(pgtype.Int4{Int32: 2012, Valid: true}); v == nil || *v != 2012 {
		t.Fatalf("expected 2012, got %v", v)
	}
	if floatPtr(pgtype.Float8{}) != nil {
		t.Fatalf("expected nil for null float")
	}
	if v := floatPtr(pgtype.Float8{Float64: 18.52, Valid: true}); v == nil || *v != 18.52 {
		t.Fatalf("expected 18.52, got %v", v)
	}
}

func TestMapWriteErrorDetectsUniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "idx_saved_filters_name"}

	err := mapWriteError("create saved filter", fmt.Errorf("wrapped: %w", pgErr))
	if !errors.Is(err, domain.ErrSavedFilterNameConflict) {
		t.Fatalf("expected name conflict, got %v", err)
	}

	other := mapWriteError("create saved filter", errors.New("connection reset"))
	if errors.Is(other, domain.ErrSavedFilterNameConflict) {
		t.Fatalf("unexpected conflict for generic error")
	}
	if !errors.Is(other, domain.ErrUnavailable) {
		t.Fatalf("expected connection failure to be unavailable, got %v", other)
	}
}

func TestQueryErrorClassification(t *testing.T) {
	if err := queryError("list saved filters", errors.New("dial tcp: connection refused")); !errors.Is(err, domain.ErrUnavailable) {
		t.Fatalf("expected unavailable, got %v", err)
	}
	if err := queryError("list saved filters", context.DeadlineExceeded); errors.Is(err, domain.ErrUnavailable) || !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline to be kept as is, got %v", err)
	}
	corrupt := fmt.Errorf("%w: unexpected end of JSON input", domain.ErrInvalidFilters)
	if err := queryError("scan saved filters", corrupt); errors.Is(err, domain.ErrUnavailable) {
		t.Fatalf("corrupt blob should not look like an outage, got %v", err)
	}
}
