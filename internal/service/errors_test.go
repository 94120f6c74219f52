package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestInsufficientInventoryError_Message(t *testing.T) {
	err := &InsufficientInventoryError{
		Item:      "Tomatoes",
		Required:  decimal.RequireFromString("1"),
		Available: decimal.RequireFromString("0.5"),
		Unit:      "lbs",
	}

	assert.Equal(t, "insufficient inventory for Tomatoes: 1 lbs required, 0.5 lbs available", err.Error())
	assert.True(t, errors.Is(err, ErrInsufficientInventory))
}

func TestStorageErr_KeepsDomainErrors(t *testing.T) {
	domain := &TransitionError{From: "completed", To: "approved"}
	assert.Same(t, error(domain), storageErr("op", domain))

	wrapped := storageErr("save order", errors.New("connection refused"))
	assert.True(t, errors.Is(wrapped, ErrStorage))
	assert.Contains(t, wrapped.Error(), "save order")
}

func TestNotFoundOr(t *testing.T) {
	err := notFoundOr("find order", "order", gorm.ErrRecordNotFound)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, "order record not found", err.Error())

	err = notFoundOr("find order", "order", fmt.Errorf("boom"))
	assert.True(t, errors.Is(err, ErrStorage))
}

func TestValidateInput_ReportsFirstField(t *testing.T) {
	req := CreateOrderRequest{CustomerName: "Ann"}

	err := validateInput(req)

	var inputErr *InputError
	assert.True(t, errors.As(err, &inputErr))
	assert.Equal(t, "PhoneNumber", inputErr.Field)
	assert.Equal(t, "is required", inputErr.Reason)
}

func TestItemError_Unwrap(t *testing.T) {
	id := uuid.New()
	err := &ItemError{Kind: ErrItemUnavailable, MenuItemID: id}

	assert.True(t, errors.Is(err, ErrItemUnavailable))
	assert.False(t, errors.Is(err, ErrItemNotFound))
	assert.Contains(t, err.Error(), id.String())
}
