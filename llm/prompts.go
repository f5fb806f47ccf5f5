package llm

import (
	"bytes"
	"fmt"
	"text/template"
)

const systemRules = "You are a concise, friendly assistant.\n" +
	"Rules: Do not mention being an AI or language model; speak naturally like a person.\n" +
	"Respond in one or two short sentences; no emojis; no hashtags; " +
	"do NOT write 'User:' lines; do NOT continue any dialogue template.\n\n"

// WarmupPrompt is sent once at startup to load the model.
const WarmupPrompt = "System: warmup\nUser: hi\nAssistant:"

const promptTemplate = `{{.Rules}}{{range .History}}User: {{.User}}
Assistant: {{.Assistant}}
{{end}}User: {{.Text}}
Assistant:`

var promptTmpl = template.Must(template.New("prompt").Parse(promptTemplate))

// Exchange is one user line and the assistant line that answered it.
type Exchange struct {
	User      string
	Assistant string
}

type promptData struct {
	Rules   string
	History []Exchange
	Text    string
}

// BuildPrompt renders the completion prompt for text with an optional
// history block.
func BuildPrompt(history []Exchange, text string) (string, error) {
	var buf bytes.Buffer
	err := promptTmpl.Execute(&buf, promptData{Rules: systemRules, History: history, Text: text})
	if err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}
	return buf.String(), nil
}
