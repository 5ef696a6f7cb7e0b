package coupon

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/noah-isme/toko-cart/internal/catalog"
	"github.com/noah-isme/toko-cart/internal/customer"
	"github.com/noah-isme/toko-cart/internal/money"
)

// Facts is the cart, time and customer context a coupon is evaluated against.
// Now must already be expressed in the store's location.
type Facts struct {
	Now                    time.Time
	Codes                  []string
	GrandTotal             money.Money
	TotalProducts          int
	TotalProductQuantities int
	Existence              customer.Existence
}

// Violation explains why a rule rejected a coupon.
type Violation struct {
	Rule   string
	Reason string
}

func (v *Violation) Error() string {
	return v.Rule + ": " + v.Reason
}

// Rule is a single activation requirement.
type Rule interface {
	Name() string
	Check(f Facts) error
}

func violation(r Rule, format string, args ...any) error {
	return &Violation{Rule: r.Name(), Reason: fmt.Sprintf(format, args...)}
}

type activeRule struct{}

func (activeRule) Name() string { return "active" }

func (r activeRule) Check(Facts) error {
	return violation(r, "This coupon is not active")
}

type codeRule struct{ code string }

func (codeRule) Name() string { return "code" }

func (r codeRule) Check(f Facts) error {
	want := strings.TrimSpace(r.code)
	for _, c := range f.Codes {
		if want != "" && strings.EqualFold(strings.TrimSpace(c), want) {
			return nil
		}
	}
	return violation(r, "This coupon requires a valid coupon code")
}

type minimumGrandTotalRule struct{ min money.Money }

func (minimumGrandTotalRule) Name() string { return "minimum_grand_total" }

func (r minimumGrandTotalRule) Check(f Facts) error {
	if f.GrandTotal.LessThan(r.min) {
		return violation(r, "This coupon requires a minimum grand total of %s", r.min)
	}
	return nil
}

type minimumTotalProductsRule struct{ min int }

func (minimumTotalProductsRule) Name() string { return "minimum_total_products" }

func (r minimumTotalProductsRule) Check(f Facts) error {
	if f.TotalProducts >= r.min {
		return nil
	}
	if r.min == 1 {
		return violation(r, "This coupon requires at least 1 product in the cart")
	}
	return violation(r, "This coupon requires at least %d different products in the cart", r.min)
}

type minimumTotalQuantitiesRule struct{ min int }

func (minimumTotalQuantitiesRule) Name() string { return "minimum_total_product_quantities" }

func (r minimumTotalQuantitiesRule) Check(f Facts) error {
	if f.TotalProductQuantities >= r.min {
		return nil
	}
	return violation(r, "This coupon requires a total quantity of at least %d %s", r.min, plural(r.min, "item", "items"))
}

type startRule struct{ at time.Time }

func (startRule) Name() string { return "start_datetime" }

func (r startRule) Check(f Facts) error {
	if f.Now.Before(r.at) {
		return violation(r, "This coupon can only be used from %s", r.at.In(f.Now.Location()).Format(dateLayout))
	}
	return nil
}

type endRule struct{ at time.Time }

func (endRule) Name() string { return "end_datetime" }

func (r endRule) Check(f Facts) error {
	if f.Now.After(r.at) {
		return violation(r, "This coupon expired on %s", r.at.In(f.Now.Location()).Format(dateLayout))
	}
	return nil
}

type hoursOfDayRule struct{ hours []int }

func (hoursOfDayRule) Name() string { return "hours_of_day" }

func (r hoursOfDayRule) Check(f Facts) error {
	if slices.Contains(r.hours, f.Now.Hour()) {
		return nil
	}
	labels := make([]string, 0, len(r.hours))
	for _, h := range sortedCopy(r.hours) {
		labels = append(labels, fmt.Sprintf("%02d:00 - %02d:59", h, h))
	}
	return violation(r, "This coupon can only be used between %s", joinList(labels))
}

type daysOfWeekRule struct{ days []time.Weekday }

func (daysOfWeekRule) Name() string { return "days_of_the_week" }

func (r daysOfWeekRule) Check(f Facts) error {
	if slices.Contains(r.days, f.Now.Weekday()) {
		return nil
	}
	days := slices.Clone(r.days)
	slices.Sort(days)
	labels := make([]string, 0, len(days))
	for _, d := range days {
		labels = append(labels, d.String())
	}
	return violation(r, "This coupon can only be used on %s", joinList(labels))
}

type daysOfMonthRule struct{ days []int }

func (daysOfMonthRule) Name() string { return "days_of_the_month" }

func (r daysOfMonthRule) Check(f Facts) error {
	if slices.Contains(r.days, f.Now.Day()) {
		return nil
	}
	labels := make([]string, 0, len(r.days))
	for _, d := range sortedCopy(r.days) {
		labels = append(labels, ordinal(d))
	}
	return violation(r, "This coupon can only be used on the %s of the month", joinList(labels))
}

type monthsOfYearRule struct{ months []time.Month }

func (monthsOfYearRule) Name() string { return "months_of_the_year" }

func (r monthsOfYearRule) Check(f Facts) error {
	if slices.Contains(r.months, f.Now.Month()) {
		return nil
	}
	months := slices.Clone(r.months)
	slices.Sort(months)
	labels := make([]string, 0, len(months))
	for _, m := range months {
		labels = append(labels, m.String())
	}
	return violation(r, "This coupon can only be used in %s", joinList(labels))
}

type newCustomerRule struct{}

func (newCustomerRule) Name() string { return "new_customer" }

func (r newCustomerRule) Check(f Facts) error {
	if f.Existence == customer.New {
		return nil
	}
	return violation(r, "This coupon is only for new customers")
}

type existingCustomerRule struct{}

func (existingCustomerRule) Name() string { return "existing_customer" }

func (r existingCustomerRule) Check(f Facts) error {
	if f.Existence == customer.Existing {
		return nil
	}
	return violation(r, "This coupon is only for existing customers")
}

type usageLimitRule struct{ remaining int }

func (usageLimitRule) Name() string { return "usage_limit" }

func (r usageLimitRule) Check(Facts) error {
	if r.remaining > 0 {
		return nil
	}
	return violation(r, "This coupon has been fully used")
}

// Rules returns the requirements configured on the coupon, in evaluation order.
func Rules(c catalog.Coupon) []Rule {
	var rules []Rule
	if !c.Active {
		rules = append(rules, activeRule{})
	}
	if c.ActivateUsingCode {
		rules = append(rules, codeRule{code: c.Code})
	}
	if c.MinimumGrandTotal != nil {
		rules = append(rules, minimumGrandTotalRule{min: *c.MinimumGrandTotal})
	}
	if c.MinimumTotalProducts != nil {
		rules = append(rules, minimumTotalProductsRule{min: *c.MinimumTotalProducts})
	}
	if c.MinimumTotalProductQuantities != nil {
		rules = append(rules, minimumTotalQuantitiesRule{min: *c.MinimumTotalProductQuantities})
	}
	if c.StartAt != nil {
		rules = append(rules, startRule{at: *c.StartAt})
	}
	if c.EndAt != nil {
		rules = append(rules, endRule{at: *c.EndAt})
	}
	if len(c.HoursOfDay) > 0 {
		rules = append(rules, hoursOfDayRule{hours: c.HoursOfDay})
	}
	if len(c.DaysOfWeek) > 0 {
		rules = append(rules, daysOfWeekRule{days: c.DaysOfWeek})
	}
	if len(c.DaysOfMonth) > 0 {
		rules = append(rules, daysOfMonthRule{days: c.DaysOfMonth})
	}
	if len(c.MonthsOfYear) > 0 {
		rules = append(rules, monthsOfYearRule{months: c.MonthsOfYear})
	}
	if c.ForNewCustomer {
		rules = append(rules, newCustomerRule{})
	}
	if c.ForExistingCustomer {
		rules = append(rules, existingCustomerRule{})
	}
	if c.RemainingUses != nil {
		rules = append(rules, usageLimitRule{remaining: *c.RemainingUses})
	}
	return rules
}
