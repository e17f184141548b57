package session

import (
	"errors"
	"testing"

	"igpilot/pkg/errs"
)

func TestLedgerScalarCounters(t *testing.T) {
	ledger := NewLedger()

	if err := ledger.Record(CategoryLikes, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ledger.Record(CategoryLikes, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := ledger.Total(CategoryLikes); got != 3 {
		t.Errorf("expected likes total 3, got %d", got)
	}

	// Negative deltas never decrement.
	if err := ledger.Record(CategoryLikes, -5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := ledger.Total(CategoryLikes); got != 3 {
		t.Errorf("expected likes total unchanged at 3, got %d", got)
	}
}

func TestLedgerSourceCounters(t *testing.T) {
	ledger := NewLedger()

	for i := 0; i < 3; i++ {
		if err := ledger.RecordSource(CategoryInteractions, "alice", 1); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if err := ledger.RecordSource(CategoryInteractions, "bob", 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := ledger.Total(CategoryInteractions); got != 4 {
		t.Errorf("expected total 4, got %d", got)
	}

	breakdown := ledger.SourceBreakdown(CategoryInteractions)
	if breakdown["alice"] != 3 || breakdown["bob"] != 1 {
		t.Errorf("unexpected breakdown: %v", breakdown)
	}
}

func TestLedgerRejectsWrongCategoryKind(t *testing.T) {
	ledger := NewLedger()

	// Scalar API with a source-keyed category and vice versa.
	err := ledger.Record(CategoryInteractions, 1)
	var typed *errs.Error
	if !errors.As(err, &typed) || typed.Type != errs.ErrorTypeInvalidCategory {
		t.Errorf("expected invalid category error, got %v", err)
	}

	err = ledger.RecordSource(CategoryLikes, "alice", 1)
	if !errors.As(err, &typed) || typed.Type != errs.ErrorTypeInvalidCategory {
		t.Errorf("expected invalid category error, got %v", err)
	}

	err = ledger.Record(Category("bogus"), 1)
	if !errors.As(err, &typed) || typed.Type != errs.ErrorTypeInvalidCategory {
		t.Errorf("expected invalid category error, got %v", err)
	}
}
