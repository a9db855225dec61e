// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package entail

import (
	"bytes"
	"fmt"
	"text/template"
)

// judgePromptTmpl asks for a probability per label as a JSON object.
var judgePromptTmpl = template.Must(template.New("judge").Parse(`You are a scientific natural language inference system.
Decide whether the ARGUMENT is supported or contradicted by the TEXT.

Default to SUPPORTS or CONTRADICTS.
Use UNKNOWN only if the TEXT is completely unrelated to the ARGUMENT or contains no information relevant to evaluating it.

Rules:
- Indirect, partial, or probabilistic evidence still counts.
- Statistical evidence (means, ranges, percentiles) consistent with the ARGUMENT counts as SUPPORTS.
- If reported values fall mostly within the ARGUMENT's claimed range, this is SUPPORTS.
- Minor deviations outside a stated range do not count as contradiction.

Respond with a JSON object giving your probability for each label, for example:
{"SUPPORTS": 0.7, "CONTRADICTS": 0.2, "UNKNOWN": 0.1}
Do not include any text outside the JSON object.

ARGUMENT:
{{printf "%q" .Argument}}

TEXT:
{{printf "%q" .Snippet}}
`))

// renderPrompt fills the judge prompt for one argument and snippet.
func renderPrompt(argument, snippet string) (string, error) {
	var buf bytes.Buffer
	data := struct{ Argument, Snippet string }{argument, snippet}
	if err := judgePromptTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering prompt: %w", err)
	}
	return buf.String(), nil
}
