package split

import (
	"fmt"
	"strings"
	"text/template"
)

var promptTemplate = template.Must(template.New("split").Parse(`You are a helpful assistant that analyzes receipts and splits bills among group members.

This is a bill receipt:
{{.ReceiptText}}

The group members are: {{.Group}}

Extract the itemized bill data and split each item, the tax, and the tip equally among the group members.

Instructions:
1. Identify all individual items with their prices
2. Work out the tax and tip amounts
3. Split each item cost equally among all group members
4. Calculate the individual total for each person
5. Make sure all costs add up to the bill total

{{.FormatInstructions}}

Return only the JSON object matching the output schema, with no other text.
`))

// BuildPrompt renders the structuring prompt for an extracted receipt and a roster
func BuildPrompt(receiptText string, roster []string) (string, error) {
	instructions, err := formatInstructions(roster)
	if err != nil {
		return "", err
	}

	var prompt strings.Builder
	err = promptTemplate.Execute(&prompt, struct {
		ReceiptText        string
		Group              string
		FormatInstructions string
	}{
		ReceiptText:        receiptText,
		Group:              strings.Join(roster, ", "),
		FormatInstructions: instructions,
	})
	if err != nil {
		return "", fmt.Errorf("rendering prompt: %w", err)
	}
	return prompt.String(), nil
}
