package entities

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestProductionOrder_Validation(t *testing.T) {
	dueDate := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	validOrder, err := NewProductionOrder("OP1", "S1", decimal.NewFromInt(10), dueDate)
	if err != nil {
		t.Fatalf("Expected valid order creation to succeed: %v", err)
	}
	if validOrder.DisplayLabel() != "OP1" {
		t.Errorf("Expected label to fall back to id, got %s", validOrder.DisplayLabel())
	}
	validOrder.Label = "Batch 7"
	if validOrder.DisplayLabel() != "Batch 7" {
		t.Errorf("Expected label 'Batch 7', got %s", validOrder.DisplayLabel())
	}

	testCases := []struct {
		name        string
		id          string
		root        string
		quantity    Quantity
		dueDate     time.Time
		expectError string
	}{
		{"empty id", "", "S1", decimal.NewFromInt(1), dueDate, "order id cannot be empty"},
		{"empty root", "OP1", "", decimal.NewFromInt(1), dueDate, "order OP1 must reference a technical list"},
		{"missing due date", "OP1", "S1", decimal.NewFromInt(1), time.Time{}, "order OP1 must have a due date"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewProductionOrder(tc.id, tc.root, tc.quantity, tc.dueDate)
			if err == nil {
				t.Fatalf("Expected error for %s, but got none", tc.name)
			}
			if err.Error() != tc.expectError {
				t.Errorf("Expected error '%s', got '%s'", tc.expectError, err.Error())
			}
		})
	}

	_, err = NewProductionOrder("OP2", "S1", decimal.Zero, dueDate)
	if !errors.Is(err, ErrNegativeOrZeroQuantity) {
		t.Errorf("Expected ErrNegativeOrZeroQuantity for zero quantity, got %v", err)
	}
}

func TestStructureError_Unwrap(t *testing.T) {
	err := &StructureError{Err: ErrCyclicBOM, NodeID: "A1", Edge: -1, Detail: "S1 -> A1 -> A1"}

	if !errors.Is(err, ErrCyclicBOM) {
		t.Error("Expected StructureError to unwrap to ErrCyclicBOM")
	}
	want := "cyclic BOM at node A1: S1 -> A1 -> A1"
	if err.Error() != want {
		t.Errorf("Expected '%s', got '%s'", want, err.Error())
	}

	orderErr := &OrderError{OrderID: "OP9", Err: ErrDanglingOrderReference}
	var target *OrderError
	if !errors.As(orderErr, &target) || target.OrderID != "OP9" {
		t.Error("Expected errors.As to find OrderError")
	}
}
