package core

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSelection means the chosen product or price variant does
	// not exist in the catalog snapshot loaded for this dialog.
	ErrInvalidSelection = errors.New("invalid product or price selection")

	// ErrStockExhausted means every unit of the chosen price variant is
	// already reserved by lines in the working list.
	ErrStockExhausted = errors.New("no units available for this product")

	// ErrEmptySale rejects submitting a sale with no lines.
	ErrEmptySale = errors.New("sale has no lines")
)

// StockInsufficientError reports how many units the variant can still cover
// when a line requests more than that.
type StockInsufficientError struct {
	Remaining int
}

func (e *StockInsufficientError) Error() string {
	return fmt.Sprintf("only %d unit(s) available", e.Remaining)
}
