package compose

import (
	"fmt"
	"strings"
)

// FormatInstruction is sent after the email request to keep replies plain text.
const FormatInstruction = "Please format the email as plain text, not JSON. Start with the greeting and end with the signature. The email should be well-structured with proper paragraphs and formatting."

// Style maps a tone to the style name used in prompts.
func Style(tone string) string {
	switch strings.ToLower(tone) {
	case "formal":
		return "Formal"
	case "casual":
		return "Casual"
	case "friendly":
		return "Friendly"
	default:
		return "Business Professional"
	}
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// Prompt builds the generation prompt for req.
func Prompt(req Request) string {
	length := req.Length
	switch length {
	case "short", "medium", "long":
	default:
		length = "medium"
	}

	var b strings.Builder
	b.WriteString("Generate an Email for me\n")
	fmt.Fprintf(&b, "Style : %s\n", Style(req.Tone))
	fmt.Fprintf(&b, "Sender : %s\n", req.Sender)
	fmt.Fprintf(&b, "Title : %s\n", orNA(req.SenderTitle))
	fmt.Fprintf(&b, "Receiver : %s\n", req.Receiver)
	fmt.Fprintf(&b, "Title : %s\n", orNA(req.ReceiverTitle))
	fmt.Fprintf(&b, "Subject : %s\n", req.Subject)
	if req.AdditionalContext != "" {
		fmt.Fprintf(&b, "Additional Context: %s\n", req.AdditionalContext)
	}
	fmt.Fprintf(&b, "Length: %s\n\n", length)
	b.WriteString(FormatInstruction)

	return b.String()
}
