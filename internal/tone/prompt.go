package tone

import "fmt"

const promptTemplate = `Analyze the tone of the following email text. Provide a structured analysis with the following elements:
1. Overall tone (e.g., formal, casual, friendly, urgent, etc.)
2. Formality level (formal, neutral, or casual)
3. Sentiment (positive, neutral, or negative)
4. Clarity (clear, somewhat clear, or unclear)
5. 2-3 specific suggestions for improving the tone if needed

Respond in JSON format with the following structure:
{
  "tone": "string",
  "formality": "formal|neutral|casual",
  "sentiment": "positive|neutral|negative",
  "clarity": "clear|somewhat clear|unclear",
  "confidence": number between 0 and 1,
  "suggestions": [array of strings]
}

Email text to analyze:
%s
`

// Prompt builds the instruction sent to a remote tone model.
// ParseRemote accepts exactly the structure it asks for.
func Prompt(text string) string {
	return fmt.Sprintf(promptTemplate, text)
}
