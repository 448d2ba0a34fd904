package main

import (
	"errors"
	"testing"

	"github.com/Veraticus/xpentrik/internal/engine"
	"github.com/Veraticus/xpentrik/internal/model"
)

func TestMergeResults(t *testing.T) {
	a := &engine.BatchResult{
		Scanned:          10,
		AlreadyProcessed: 4,
		Created:          []model.Expense{{ID: "1"}, {ID: "2"}},
	}
	b := &engine.BatchResult{
		Scanned:          5,
		AlreadyProcessed: 1,
		Created:          []model.Expense{{ID: "3"}},
		Failures:         []engine.MessageFailure{{Err: errors.New("disk full")}},
	}

	total := mergeResults(a, nil, b)

	if total.Scanned != 15 {
		t.Errorf("Expected 15 scanned, got %d", total.Scanned)
	}
	if total.AlreadyProcessed != 5 {
		t.Errorf("Expected 5 already processed, got %d", total.AlreadyProcessed)
	}
	if len(total.Created) != 3 {
		t.Errorf("Expected 3 created, got %d", len(total.Created))
	}
	if len(total.Failures) != 1 {
		t.Errorf("Expected 1 failure, got %d", len(total.Failures))
	}
}

func TestMergeResults_Empty(t *testing.T) {
	total := mergeResults(nil, nil)
	if total.Scanned != 0 || len(total.Created) != 0 {
		t.Errorf("Expected empty result, got %+v", total)
	}
}
