package split

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Reconcile", func() {
	var (
		result   *BillSplitResult
		problems []string
	)

	BeforeEach(func() {
		result = &BillSplitResult{
			TotalAmount: 13,
			Tax:         1,
			Tip:         2,
			Items: []SplitItem{
				{ItemName: "Pizza", TotalCost: 10, CostPerPerson: 5, AssignedTo: []string{"Alice", "Bob"}},
				{ItemName: "Tax and tip", TotalCost: 3, CostPerPerson: 1.5, AssignedTo: []string{"Alice", "Bob"}},
			},
			IndividualTotals: map[string]float64{"Alice": 6.5, "Bob": 6.5},
			GroupMembers:     []string{"Alice", "Bob"},
		}
	})

	JustBeforeEach(func() {
		problems = Reconcile(result)
	})

	When("everything adds up", func() {
		It("should report nothing", func() {
			Expect(problems).To(BeEmpty())
		})
	})

	When("the totals are off by a rounding cent", func() {
		BeforeEach(func() {
			result.TotalAmount = 10
			result.Items = []SplitItem{
				{ItemName: "Pizza", TotalCost: 10, CostPerPerson: 3.33, AssignedTo: []string{"Alice", "Bob", "Carol"}},
			}
			result.IndividualTotals = map[string]float64{"Alice": 3.33, "Bob": 3.33, "Carol": 3.33}
		})

		It("should report nothing", func() {
			Expect(problems).To(BeEmpty())
		})
	})

	When("the individual totals do not add up to the bill", func() {
		BeforeEach(func() {
			result.IndividualTotals = map[string]float64{"Alice": 6.5, "Bob": 5}
		})

		It("should report the difference", func() {
			Expect(problems).To(ConsistOf("individual totals add up to 11.50 but the bill total is 13.00"))
		})
	})

	When("an item is not assigned to anyone", func() {
		BeforeEach(func() {
			result.Items[1].AssignedTo = []string{}
		})

		It("should report the item", func() {
			Expect(problems).To(ConsistOf(`item "Tax and tip" is not assigned to anyone`))
		})
	})

	When("an item's shares do not cover its cost", func() {
		BeforeEach(func() {
			result.Items[0].CostPerPerson = 4
		})

		It("should report the item", func() {
			Expect(problems).To(ConsistOf(`item "Pizza": 4.00 per person across 2 people is 8.00, not 10.00`))
		})
	})

	It("should not modify the result", func() {
		Expect(result.TotalAmount).To(Equal(13.0))
		Expect(result.IndividualTotals).To(Equal(map[string]float64{"Alice": 6.5, "Bob": 6.5}))
	})
})
