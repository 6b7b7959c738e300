package split

// UnknownRestaurant is the restaurant name reported by the fallback result
const UnknownRestaurant = "Unknown Restaurant"

// SplitItem is one receipt line and how it is shared
type SplitItem struct {
	ItemName      string   `json:"item_name"`
	TotalCost     float64  `json:"total_cost"`
	CostPerPerson float64  `json:"cost_per_person"`
	AssignedTo    []string `json:"assigned_to"`
}

// BillSplitResult is the split of one receipt across a group
type BillSplitResult struct {
	RestaurantName   *string            `json:"restaurant_name"`
	TotalAmount      float64            `json:"total_amount"`
	Tax              float64            `json:"tax"`
	Tip              float64            `json:"tip"`
	Items            []SplitItem        `json:"items"`
	IndividualTotals map[string]float64 `json:"individual_totals"`
	GroupMembers     []string           `json:"group_members"`
}

// fallbackResult is the all-zero split returned when the model output cannot
// be validated. Every roster member owes nothing.
func fallbackResult(roster []string) *BillSplitResult {
	name := UnknownRestaurant
	totals := make(map[string]float64, len(roster))
	for _, member := range roster {
		totals[member] = 0
	}

	return &BillSplitResult{
		RestaurantName:   &name,
		TotalAmount:      0,
		Tax:              0,
		Tip:              0,
		Items:            []SplitItem{},
		IndividualTotals: totals,
		GroupMembers:     copyRoster(roster),
	}
}

func copyRoster(roster []string) []string {
	out := make([]string, len(roster))
	copy(out, roster)
	return out
}
