package service

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Sentinel errors. Callers match them with errors.Is; the typed errors below carry details.
var (
	ErrItemNotFound          = errors.New("menu item not found")
	ErrItemUnavailable       = errors.New("menu item unavailable")
	ErrInsufficientInventory = errors.New("insufficient inventory")
	ErrInvalidTransition     = errors.New("invalid status transition")
	ErrValidationInput       = errors.New("invalid input")
	ErrNotFound              = errors.New("record not found")
	ErrStorage               = errors.New("storage error")
)

// ItemError reports a menu item that cannot be ordered.
type ItemError struct {
	Kind       error
	MenuItemID uuid.UUID
	Name       string
}

func (e *ItemError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Name)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.MenuItemID)
}

func (e *ItemError) Unwrap() error { return e.Kind }

// InsufficientInventoryError names the ingredient that cannot cover an order line.
type InsufficientInventoryError struct {
	MenuItem        string
	Item            string
	InventoryItemID string
	Required        decimal.Decimal
	Available       decimal.Decimal
	Unit            string
}

func (e *InsufficientInventoryError) Error() string {
	return fmt.Sprintf("insufficient inventory for %s: %s %s required, %s %s available",
		e.Item, e.Required.String(), e.Unit, e.Available.String(), e.Unit)
}

func (e *InsufficientInventoryError) Unwrap() error { return ErrInsufficientInventory }

// TransitionError reports an order status change the state machine does not allow.
type TransitionError struct {
	From string
	To   string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot move order from %s to %s", e.From, e.To)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

// InputError reports a missing or malformed request field.
type InputError struct {
	Field  string
	Reason string
}

func (e *InputError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *InputError) Unwrap() error { return ErrValidationInput }

// StorageError wraps a failure of the persistent store.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func (e *StorageError) Is(target error) bool { return target == ErrStorage }

// storageErr wraps err unless it already belongs to the domain taxonomy.
func storageErr(op string, err error) error {
	if err == nil || isDomainError(err) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}

// notFoundOr maps gorm.ErrRecordNotFound to ErrNotFound and wraps everything else as a storage error.
func notFoundOr(op string, what string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %w", what, ErrNotFound)
	}
	return storageErr(op, err)
}

func isDomainError(err error) bool {
	for _, target := range []error{
		ErrItemNotFound, ErrItemUnavailable, ErrInsufficientInventory,
		ErrInvalidTransition, ErrValidationInput, ErrNotFound, ErrStorage,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// Fractional digits stored by the quantity and money columns.
const (
	quantityPlaces int32 = 3
	moneyPlaces    int32 = 2
)

// checkScale rejects values the database column would silently round.
func checkScale(field string, d decimal.Decimal, places int32) error {
	if !d.Equal(d.Truncate(places)) {
		return &InputError{Field: field, Reason: fmt.Sprintf("must have at most %d decimal places", places)}
	}
	return nil
}

// validate reads the same `binding` tags gin checks, so non-HTTP callers get identical rules.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.SetTagName("binding")
	return v
}

// validateInput runs struct validation and converts the first failure into an InputError.
func validateInput(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &InputError{Field: fe.Field(), Reason: describeTag(fe)}
	}
	return &InputError{Reason: err.Error()}
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must have at least " + fe.Param() + " entries"
	case "gt":
		return "must be greater than " + fe.Param()
	case "oneof":
		return "must be one of " + fe.Param()
	case "uuid":
		return "must be a valid id"
	default:
		return "failed " + fe.Tag() + " validation"
	}
}

func parseID(field, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, &InputError{Field: field, Reason: "must be a valid id"}
	}
	return id, nil
}
