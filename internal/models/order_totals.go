package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// RecalculateTotals derives every line subtotal and the order subtotal, tax and
// total from quantities and snapshot prices. Client supplied totals are
// overwritten. It must run before Validate and before every write.
func (o *Order) RecalculateTotals() {
	itemsSubtotal := decimal.Zero
	totalItems := 0
	for i := range o.Items {
		line := &o.Items[i]
		line.Subtotal = line.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		itemsSubtotal = itemsSubtotal.Add(line.Subtotal)
		totalItems += line.Quantity
	}

	staffSubtotal := decimal.Zero
	for i := range o.Staff {
		line := &o.Staff[i]
		line.Subtotal = line.Bonus.Mul(decimal.NewFromInt(int64(line.Quantity)))
		staffSubtotal = staffSubtotal.Add(line.Subtotal)
	}

	o.Subtotal = itemsSubtotal.Add(staffSubtotal)
	o.Tax = o.Subtotal.Mul(o.TaxRate)
	o.Total = o.Subtotal.Add(o.Tax)
	o.TotalItems = totalItems
}

// CountItems returns the sum of item quantities.
func (o *Order) CountItems() int {
	n := 0
	for _, it := range o.Items {
		n += it.Quantity
	}
	return n
}

var one = decimal.NewFromInt(1)

// Validate checks the structural invariants of an order. Messages are joined so
// a client sees every problem at once.
func (o *Order) Validate() error {
	var problems []string

	if len(o.Items) == 0 {
		problems = append(problems, "order must contain at least one item")
	}
	if len(o.Staff) == 0 {
		problems = append(problems, "order must have at least one staff member assigned")
	}
	for i, it := range o.Items {
		if it.Quantity < 1 {
			problems = append(problems, fmt.Sprintf("items[%d]: quantity must be at least 1", i))
		} else if it.Quantity > MaxLineQuantity {
			problems = append(problems, fmt.Sprintf("items[%d]: quantity cannot exceed %d", i, MaxLineQuantity))
		}
		if it.Price.IsNegative() {
			problems = append(problems, fmt.Sprintf("items[%d]: price cannot be negative", i))
		}
		if strings.TrimSpace(it.Name) == "" {
			problems = append(problems, fmt.Sprintf("items[%d]: item name is required", i))
		}
		if len([]rune(it.Notes)) > MaxItemNotesLength {
			problems = append(problems, fmt.Sprintf("items[%d]: notes cannot exceed %d characters", i, MaxItemNotesLength))
		}
	}
	for i, st := range o.Staff {
		if st.Quantity < 1 {
			problems = append(problems, fmt.Sprintf("staff[%d]: quantity must be at least 1", i))
		} else if st.Quantity > MaxLineQuantity {
			problems = append(problems, fmt.Sprintf("staff[%d]: quantity cannot exceed %d", i, MaxLineQuantity))
		}
		if st.Bonus.IsNegative() {
			problems = append(problems, fmt.Sprintf("staff[%d]: bonus cannot be negative", i))
		}
	}
	if o.TaxRate.IsNegative() || o.TaxRate.GreaterThan(one) {
		problems = append(problems, "tax rate must be between 0 and 1")
	}
	if o.CustomerCount < 1 {
		problems = append(problems, "customer count must be at least 1")
	} else if o.CustomerCount > MaxCustomerCount {
		problems = append(problems, fmt.Sprintf("customer count cannot exceed %d", MaxCustomerCount))
	}
	if len([]rune(o.Notes)) > MaxOrderNotesLength {
		problems = append(problems, fmt.Sprintf("notes cannot exceed %d characters", MaxOrderNotesLength))
	}
	if !IsValidOrderStatus(string(o.Status)) {
		problems = append(problems, fmt.Sprintf("invalid order status %q", o.Status))
	}
	if !IsValidPaymentStatus(string(o.PaymentStatus)) {
		problems = append(problems, fmt.Sprintf("invalid payment status %q", o.PaymentStatus))
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}
