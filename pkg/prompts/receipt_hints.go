// Package prompts builds the LLM prompts used for receipt line hints.
package prompts

import (
	"fmt"
	"strings"
)

// HintLine is a receipt line the model is asked about. Index is the line's
// position on the receipt and is echoed back in the answer.
type HintLine struct {
	Index   int
	RawName string
}

// BuildReceiptHintSystemMessage returns the system message for hint requests.
func BuildReceiptHintSystemMessage() string {
	return `You match grocery receipt line items to a household's catalog.
Receipt text is abbreviated and upper-cased. Only answer with names copied
exactly from the catalog list. Respond with JSON only.`
}

// BuildReceiptHintPrompt lists the catalog names and the pending receipt
// lines, and asks for a JSON array of {line, match} answers.
func BuildReceiptHintPrompt(catalog []string, lines []HintLine) string {
	var prompt strings.Builder

	prompt.WriteString("Catalog:\n")
	for _, name := range catalog {
		prompt.WriteString("- ")
		prompt.WriteString(name)
		prompt.WriteByte('\n')
	}

	prompt.WriteString("\nReceipt lines:\n")
	for _, line := range lines {
		fmt.Fprintf(&prompt, "%d: %s\n", line.Index, strings.TrimSpace(line.RawName))
	}

	prompt.WriteString(`
For each receipt line, return the catalog name it refers to, or null if none fits.
Answer as a JSON array: [{"line": <number>, "match": "<catalog name>" | null}]`)
	return prompt.String()
}
