package split

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var cent = decimal.New(1, -2)

// Reconcile lists the places where a split does not add up, allowing one cent
// of rounding per share. The result is never modified.
func Reconcile(result *BillSplitResult) []string {
	var problems []string

	sum := decimal.Zero
	for _, amount := range result.IndividualTotals {
		sum = sum.Add(decimal.NewFromFloat(amount))
	}
	total := decimal.NewFromFloat(result.TotalAmount)
	tolerance := cent.Mul(decimal.NewFromInt(int64(max(len(result.IndividualTotals), 1))))
	if sum.Sub(total).Abs().GreaterThan(tolerance) {
		problems = append(problems, fmt.Sprintf("individual totals add up to %s but the bill total is %s",
			sum.StringFixed(2), total.StringFixed(2)))
	}

	for _, item := range result.Items {
		if len(item.AssignedTo) == 0 {
			problems = append(problems, fmt.Sprintf("item %q is not assigned to anyone", item.ItemName))
			continue
		}
		shares := decimal.NewFromInt(int64(len(item.AssignedTo)))
		shared := decimal.NewFromFloat(item.CostPerPerson).Mul(shares)
		cost := decimal.NewFromFloat(item.TotalCost)
		if shared.Sub(cost).Abs().GreaterThan(cent.Mul(shares)) {
			problems = append(problems, fmt.Sprintf("item %q: %s per person across %d people is %s, not %s",
				item.ItemName, decimal.NewFromFloat(item.CostPerPerson).StringFixed(2), len(item.AssignedTo),
				shared.StringFixed(2), cost.StringFixed(2)))
		}
	}

	return problems
}
