package generator

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/Madhu3782/Crop-Recommendation/pkg/entity"
)

// SystemPrompt is the instruction turn sent with every generation.
const SystemPrompt = `You are an advanced Agriculture Expert AI assisting farmers. Your goal is to provide accurate, practical, and farmer-friendly advice.
Rules:
1. Use the provided Context and ML Insights to answer.
2. If the context has the answer, paraphrase it clearly.
3. If ML Insights (Price/Pest/Crop) are provided, interpret them for the farmer.
4. If uncertainty exists, ask clarifying questions. DO NOT Hallucinate.
5. Format output with clear sections (Diagnosis, Action, Dosage, Warning) if applicable.
6. Keep tone helpful and encouraging.`

const noContext = "No knowledge base context found."

// Input is everything the generator grounds an answer on.
type Input struct {
	Query    string
	Intent   string
	Entities entity.Entities
	Context  []string
	Insights map[string]string
}

// UserPrompt renders the user turn. Entities and insights are rendered in
// key order so equal inputs give equal prompts.
func UserPrompt(in Input) string {
	var b strings.Builder
	fmt.Fprintf(&b, "User Query: %s\n\n", in.Query)
	fmt.Fprintf(&b, "Detected Intent: %s\n", in.Intent)
	fmt.Fprintf(&b, "Entities: %s\n\n", formatEntities(in.Entities))

	b.WriteString("--- Knowledge Base Context ---\n")
	if len(in.Context) == 0 {
		b.WriteString(noContext)
	} else {
		b.WriteString(strings.Join(in.Context, "\n"))
	}
	b.WriteString("\n\n--- Real-time Data ---\n")
	if len(in.Insights) > 0 {
		b.WriteString("ML Model Predictions:\n")
		for _, k := range slices.Sorted(maps.Keys(in.Insights)) {
			fmt.Fprintf(&b, "- %s: %s\n", k, in.Insights[k])
		}
	}
	b.WriteString("\nPlease provide a detailed response:")
	return b.String()
}

func formatEntities(e entity.Entities) string {
	if len(e) == 0 {
		return "{}"
	}
	parts := make([]string, 0, len(e))
	for _, k := range slices.Sorted(maps.Keys(e)) {
		parts = append(parts, fmt.Sprintf("%q: %q", k, e[k]))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
