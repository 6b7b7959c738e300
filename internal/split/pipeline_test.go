package split

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/zombor/bill-splitter/internal/scanning"
)

var _ = Describe("Pipeline", func() {
	var (
		scanner   *mockScanner
		completer *mockCompleter
		pipeline  *Pipeline
		roster    []string
		result    *BillSplitResult
		err       error
	)

	BeforeEach(func() {
		scanner = &mockScanner{
			summary: pizzaSummary,
			text:    "PIZZA 10.00\nTAX 1.00\nTIP 2.00",
		}
		completer = &mockCompleter{answer: pizzaSplit}
		pipeline = NewPipeline(scanner, completer)
		roster = []string{"Alice", "Bob"}
	})

	JustBeforeEach(func() {
		result, err = pipeline.SplitReceipt(context.Background(), []byte("image"), "image/png", roster)
	})

	When("the model returns a conforming split", func() {
		It("should not return an error", func() {
			Expect(err).NotTo(HaveOccurred())
		})

		It("should return the totals from the model", func() {
			Expect(result.TotalAmount).To(Equal(13.0))
			Expect(result.Tax).To(Equal(1.0))
			Expect(result.Tip).To(Equal(2.0))
			Expect(result.IndividualTotals).To(Equal(map[string]float64{"Alice": 6.5, "Bob": 6.5}))
		})

		It("should return the items", func() {
			Expect(result.Items).To(HaveLen(2))
			Expect(result.Items[0]).To(Equal(SplitItem{
				ItemName:      "Pizza",
				TotalCost:     10,
				CostPerPerson: 5,
				AssignedTo:    []string{"Alice", "Bob"},
			}))
		})

		It("should return the restaurant name", func() {
			Expect(result.RestaurantName).NotTo(BeNil())
			Expect(*result.RestaurantName).To(Equal("Tony's Pizzeria"))
		})

		It("should replace the group echoed by the model with the roster", func() {
			Expect(result.GroupMembers).To(Equal([]string{"Alice", "Bob"}))
		})

		It("should not share the roster slice with the result", func() {
			roster[0] = "Changed"
			Expect(result.GroupMembers).To(Equal([]string{"Alice", "Bob"}))
		})

		It("should build the prompt from the summary and the roster", func() {
			Expect(completer.prompts).To(HaveLen(1))
			Expect(completer.prompts[0]).To(ContainSubstring(pizzaSummary))
			Expect(completer.prompts[0]).To(ContainSubstring("The group members are: Alice, Bob"))
		})

		It("should not run the plain text extraction", func() {
			Expect(scanner.summaryCalls).To(Equal(1))
			Expect(scanner.textCalls).To(BeZero())
		})

		It("should produce the same result when run again", func() {
			again, againErr := pipeline.SplitReceipt(context.Background(), []byte("image"), "image/png", roster)
			Expect(againErr).NotTo(HaveOccurred())
			Expect(again).To(Equal(result))
		})
	})

	When("the roster has one member", func() {
		BeforeEach(func() {
			roster = []string{"Alice"}
			completer.answer = `{
				"restaurant_name": null,
				"total_amount": 13,
				"tax": 1,
				"tip": 2,
				"items": [{"item_name": "Pizza", "total_cost": 10, "cost_per_person": 10, "assigned_to": ["Alice"]}],
				"individual_totals": {"Alice": 13},
				"group_members": ["Alice"]
			}`
		})

		It("should give that member the whole bill", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(result.IndividualTotals).To(Equal(map[string]float64{"Alice": 13}))
		})

		It("should allow a missing restaurant name", func() {
			Expect(result.RestaurantName).To(BeNil())
		})
	})

	When("the model returns malformed JSON", func() {
		BeforeEach(func() {
			completer.answer = `{"restaurant_name": "Tony's", "total_amount": 13, "items": [`
		})

		It("should not return an error", func() {
			Expect(err).NotTo(HaveOccurred())
		})

		It("should return the fallback split", func() {
			Expect(*result.RestaurantName).To(Equal(UnknownRestaurant))
			Expect(result.TotalAmount).To(BeZero())
			Expect(result.Tax).To(BeZero())
			Expect(result.Tip).To(BeZero())
			Expect(result.Items).To(BeEmpty())
			Expect(result.Items).NotTo(BeNil())
			Expect(result.IndividualTotals).To(Equal(map[string]float64{"Alice": 0, "Bob": 0}))
			Expect(result.GroupMembers).To(Equal([]string{"Alice", "Bob"}))
		})

		It("should run the plain text extraction once", func() {
			Expect(scanner.textCalls).To(Equal(1))
		})
	})

	When("the model returns no text", func() {
		BeforeEach(func() {
			completer.answer = ""
		})

		It("should return the fallback split", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(*result.RestaurantName).To(Equal(UnknownRestaurant))
		})
	})

	When("the model totals name somebody outside the roster", func() {
		BeforeEach(func() {
			completer.answer = `{"total_amount": 13, "items": [], "individual_totals": {"Alice": 6.5, "Bob": 6.5, "Mallory": 0}, "group_members": []}`
		})

		It("should return the fallback split", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(result.IndividualTotals).To(Equal(map[string]float64{"Alice": 0, "Bob": 0}))
		})
	})

	When("the model totals leave out a roster member", func() {
		BeforeEach(func() {
			completer.answer = `{"total_amount": 13, "items": [], "individual_totals": {"Alice": 13}, "group_members": []}`
		})

		It("should return the fallback split", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(result.IndividualTotals).To(Equal(map[string]float64{"Alice": 0, "Bob": 0}))
		})
	})

	When("the fallback text extraction fails", func() {
		BeforeEach(func() {
			completer.answer = "I could not read this receipt."
			scanner.textErr = errors.New("model unavailable")
		})

		It("should still return the fallback split", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(*result.RestaurantName).To(Equal(UnknownRestaurant))
		})
	})

	When("the structured summary is empty", func() {
		BeforeEach(func() {
			scanner.summary = "  \n"
		})

		It("returns ErrEmptyExtraction", func() {
			Expect(err).To(MatchError(ErrEmptyExtraction))
			Expect(result).To(BeNil())
		})

		It("should not call the completer or the fallback", func() {
			Expect(completer.prompts).To(BeEmpty())
			Expect(scanner.textCalls).To(BeZero())
		})
	})

	When("the structured summary extraction fails", func() {
		BeforeEach(func() {
			scanner.summaryErr = errors.New("connection refused")
		})

		It("returns the wrapped error", func() {
			Expect(err).To(MatchError(ContainSubstring("splitting receipt")))
			Expect(err).To(MatchError(ContainSubstring("connection refused")))
		})

		It("should not use the fallback", func() {
			Expect(scanner.textCalls).To(BeZero())
		})
	})

	When("the image cannot be decoded", func() {
		BeforeEach(func() {
			scanner.summaryErr = scanning.ErrUndecodableImage
		})

		It("returns an error matching ErrUndecodableImage", func() {
			Expect(err).To(MatchError(scanning.ErrUndecodableImage))
		})
	})

	When("the completion call fails", func() {
		BeforeEach(func() {
			completer.err = errors.New("quota exceeded")
		})

		It("returns the wrapped error", func() {
			Expect(err).To(MatchError(ContainSubstring("structuring receipt")))
			Expect(err).To(MatchError(ContainSubstring("quota exceeded")))
		})

		It("should not use the fallback", func() {
			Expect(scanner.textCalls).To(BeZero())
		})
	})

	When("the roster is empty", func() {
		BeforeEach(func() {
			roster = nil
		})

		It("returns ErrEmptyRoster", func() {
			Expect(err).To(MatchError(ErrEmptyRoster))
		})

		It("should not call the scanner", func() {
			Expect(scanner.summaryCalls).To(BeZero())
		})
	})
})
