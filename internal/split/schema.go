package split

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// resultSchema returns the JSON Schema a model answer must satisfy for the
// given roster. individual_totals must name every roster member and nobody else.
func resultSchema(roster []string) map[string]interface{} {
	money := func(description string) map[string]interface{} {
		return map[string]interface{}{
			"type":        "number",
			"minimum":     0,
			"description": description,
		}
	}

	members := uniqueMembers(roster)
	memberTotals := make(map[string]interface{}, len(members))
	for _, member := range members {
		memberTotals[member] = money("Total amount owed by " + member)
	}
	individualTotals := map[string]interface{}{
		"type":                 "object",
		"description":          "Total amount owed by each person",
		"properties":           memberTotals,
		"additionalProperties": false,
	}
	if len(members) > 0 {
		individualTotals["required"] = members
	}

	return map[string]interface{}{
		"title": "BillSplitResponse",
		"type":  "object",
		"properties": map[string]interface{}{
			"restaurant_name": map[string]interface{}{
				"type":        []string{"string", "null"},
				"description": "Name of the restaurant",
			},
			"total_amount": money("Total bill amount"),
			"tax":          money("Tax amount, 0 if none"),
			"tip":          money("Tip amount, 0 if none"),
			"items": map[string]interface{}{
				"type":        "array",
				"description": "List of itemized splits",
				"items": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"item_name":       map[string]interface{}{"type": "string", "description": "Name of the item"},
						"total_cost":      money("Total cost of the item"),
						"cost_per_person": money("Cost per person for this item"),
						"assigned_to": map[string]interface{}{
							"type":        "array",
							"description": "People sharing this item",
							"items":       map[string]interface{}{"type": "string"},
						},
					},
					"required": []string{"item_name", "total_cost", "cost_per_person", "assigned_to"},
				},
			},
			"individual_totals": individualTotals,
			"group_members": map[string]interface{}{
				"type":        "array",
				"description": "List of group members",
				"items":       map[string]interface{}{"type": "string"},
			},
		},
		"required": []string{"total_amount", "items", "individual_totals", "group_members"},
	}
}

// formatInstructions tells the model how to shape its answer
func formatInstructions(roster []string) (string, error) {
	schema, err := json.MarshalIndent(resultSchema(roster), "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling result schema: %w", err)
	}

	return "The output must be formatted as a JSON instance that conforms to the JSON schema below.\n\n" +
		"For example, for the schema {\"properties\": {\"foo\": {\"type\": \"array\", \"items\": {\"type\": \"string\"}}}, \"required\": [\"foo\"]}\n" +
		"the object {\"foo\": [\"bar\", \"baz\"]} is a well-formatted instance of the schema, " +
		"while the object {\"properties\": {\"foo\": [\"bar\", \"baz\"]}} is not.\n\n" +
		"Here is the output schema:\n```\n" + string(schema) + "\n```", nil
}

// Decoded is the outcome of reading a model answer against the result schema.
// Either Result is set, or Violations explains why a fallback is needed.
type Decoded struct {
	Result     *BillSplitResult
	Violations []string
}

// Structured reports whether the answer produced a usable result
func (d Decoded) Structured() bool {
	return d.Result != nil
}

// Decode validates a model answer for the given roster. A malformed or
// non-conforming answer is not an error: it comes back as Violations. The
// error return is reserved for failures of the validator itself.
func Decode(text string, roster []string) (Decoded, error) {
	raw, err := extractJSONObject(text)
	if err != nil {
		return Decoded{Violations: []string{err.Error()}}, nil
	}

	var document interface{}
	if err := json.Unmarshal([]byte(raw), &document); err != nil {
		return Decoded{Violations: []string{fmt.Sprintf("unmarshaling json: %v", err)}}, nil
	}

	schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(resultSchema(roster)))
	if err != nil {
		return Decoded{}, fmt.Errorf("compiling result schema: %w", err)
	}

	validation, err := schema.Validate(gojsonschema.NewGoLoader(document))
	if err != nil {
		return Decoded{}, fmt.Errorf("validating model output: %w", err)
	}
	if !validation.Valid() {
		violations := make([]string, len(validation.Errors()))
		for i, desc := range validation.Errors() {
			violations[i] = desc.String()
		}
		return Decoded{Violations: violations}, nil
	}

	var result BillSplitResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return Decoded{Violations: []string{fmt.Sprintf("unmarshaling result: %v", err)}}, nil
	}
	if result.Items == nil {
		result.Items = []SplitItem{}
	}
	for i := range result.Items {
		if result.Items[i].AssignedTo == nil {
			result.Items[i].AssignedTo = []string{}
		}
	}

	return Decoded{Result: &result}, nil
}

// extractJSONObject pulls the JSON object out of a model answer that may be
// wrapped in markdown code fences or surrounded by prose
func extractJSONObject(text string) (string, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSpace(text)

	startIdx := strings.Index(text, "{")
	if startIdx == -1 {
		return "", fmt.Errorf("no JSON object found in response")
	}

	endIdx := strings.LastIndex(text, "}")
	if endIdx < startIdx {
		return "", fmt.Errorf("invalid JSON object in response")
	}

	return text[startIdx : endIdx+1], nil
}

func uniqueMembers(roster []string) []string {
	seen := make(map[string]bool, len(roster))
	members := make([]string, 0, len(roster))
	for _, member := range roster {
		if seen[member] {
			continue
		}
		seen[member] = true
		members = append(members, member)
	}
	return members
}
