package providers

import "strings"

// FormatInstructions renders the verdict-format instructions as a bulleted
// block appended to the prompt. Every provider adapter sends the same block
// so the JSON contract holds regardless of which model answers.
func FormatInstructions(instr []string) string {
	if len(instr) == 0 {
		return "[Instructions]\n"
	}

	var b strings.Builder
	b.WriteString("[Instructions]\n")
	for _, line := range instr {
		if strings.TrimSpace(line) == "" {
			continue
		}
		b.WriteString("- ")
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}
