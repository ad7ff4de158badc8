package llm

import "strings"

// ConstructPrompt combines the system instructions, optional context and the
// user's request, and pins the reply to a single JSON object.
func ConstructPrompt(userInput string, systemPrompt string, context string) string {
	var b strings.Builder

	b.WriteString(systemPrompt)
	b.WriteString("\n\n")

	if context != "" {
		b.WriteString("Relevant Context:\n")
		b.WriteString(context)
		b.WriteString("\n\n")
	}

	b.WriteString("User Request:\n")
	b.WriteString(userInput)
	b.WriteString("\n\n")

	b.WriteString("Based on the user request and context, generate a response in the following JSON format ONLY:\n")
	b.WriteString("{\n")
	b.WriteString("  \"summary\": \"<A concise one-line Jira issue summary>\",\n")
	b.WriteString("  \"description\": \"<A detailed description with acceptance criteria>\",\n")
	b.WriteString("  \"project_name_suggestion\": \"<The project the issue belongs to>\",\n")
	b.WriteString("  \"issue_type\": \"<Task, Bug or Story>\"\n")
	b.WriteString("}\n")
	b.WriteString("Ensure the output is a single, valid JSON object and nothing else.")

	return b.String()
}
