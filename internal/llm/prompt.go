package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// SentencePlaceholder is replaced by the sentence in user prompt templates
const SentencePlaceholder = "{sentence}"

// DefaultSystemPrompt asks for exact Wikipedia titles of Dutch named entities
const DefaultSystemPrompt = "Je bent een expert in het herkennen van named entities in Nederlandse tekst. " +
	"Geef voor elke named entity (persoon, plaats, organisatie) de exacte Wikipedia pagina titel terug."

// DefaultUserPrompt requests a comma-separated answer, or "Geen" when empty
const DefaultUserPrompt = "Geef de Wikipedia pagina titels voor alle named entities in deze Nederlandse zin: '" +
	SentencePlaceholder + "'\n\n" +
	"Geef alleen de Wikipedia titels terug, gescheiden door komma's. Als er geen entities zijn, antwoord met 'Geen'."

// emptyAnswers are answers meaning "no entities"
var emptyAnswers = map[string]bool{
	"":     true,
	"geen": true,
	"none": true,
}

// BuildPrompt fills the sentence into a user prompt template.
// Templates without the placeholder get the sentence appended.
func BuildPrompt(template, sentence string) string {
	if template == "" {
		template = DefaultUserPrompt
	}
	if !strings.Contains(template, SentencePlaceholder) {
		return fmt.Sprintf("%s\n\n%s", template, sentence)
	}
	return strings.ReplaceAll(template, SentencePlaceholder, sentence)
}

// ParseTitles turns a model answer into a list of titles.
// "Geen"/"None"/empty mean no titles. JSON arrays (even slightly broken
// ones) are accepted; anything else is split on commas.
func ParseTitles(answer string) []string {
	answer = stripCodeFence(strings.TrimSpace(answer))
	if emptyAnswers[strings.ToLower(answer)] {
		return []string{}
	}

	if strings.HasPrefix(answer, "[") {
		if titles, ok := parseJSONTitles(answer); ok {
			return titles
		}
	}

	parts := strings.Split(answer, ",")
	titles := make([]string, 0, len(parts))
	for _, part := range parts {
		if title := strings.TrimSpace(part); title != "" {
			titles = append(titles, title)
		}
	}
	return titles
}

func parseJSONTitles(answer string) ([]string, bool) {
	var items []any
	if err := json.Unmarshal([]byte(answer), &items); err != nil {
		repaired, rerr := jsonrepair.JSONRepair(answer)
		if rerr != nil {
			return nil, false
		}
		if err := json.Unmarshal([]byte(repaired), &items); err != nil {
			return nil, false
		}
	}

	titles := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			continue
		}
		if s = strings.TrimSpace(s); s != "" {
			titles = append(titles, s)
		}
	}
	return titles, true
}

// stripCodeFence removes a surrounding markdown code fence
func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.Index(s, "\n"); nl >= 0 {
		s = s[nl+1:] // drop the language tag line
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "```"))
}
