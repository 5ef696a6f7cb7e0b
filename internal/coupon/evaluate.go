package coupon

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/noah-isme/toko-cart/internal/catalog"
)

const dateLayout = "Mon 02 Jan 2006 15:04"

// Result is the outcome of evaluating every rule of a coupon.
type Result struct {
	Valid      bool
	Violations []*Violation
}

// Reasons lists the human readable reasons in rule order.
func (r Result) Reasons() []string {
	out := make([]string, 0, len(r.Violations))
	for _, v := range r.Violations {
		out = append(out, v.Reason)
	}
	return out
}

// Evaluate checks every rule; a failing rule never short-circuits the others.
func Evaluate(c catalog.Coupon, f Facts) Result {
	res := Result{Valid: true}
	for _, rule := range Rules(c) {
		err := rule.Check(f)
		if err == nil {
			continue
		}
		res.Valid = false
		var v *Violation
		if !errors.As(err, &v) {
			v = &Violation{Rule: rule.Name(), Reason: err.Error()}
		}
		res.Violations = append(res.Violations, v)
	}
	return res
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func ordinal(n int) string {
	suffix := "th"
	switch n % 100 {
	case 11, 12, 13:
	default:
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return fmt.Sprintf("%d%s", n, suffix)
}

func joinList(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	}
	return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
}

func sortedCopy(values []int) []int {
	out := slices.Clone(values)
	slices.Sort(out)
	return out
}
