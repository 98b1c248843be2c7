package model

// Sentence is one corpus sentence with the gold Wikipedia titles linked in it
type Sentence struct {
	Text     string   `json:"sentence"`
	Entities []string `json:"entities"` // Distinct labels, first-seen order
}

// HasEntities reports whether the sentence carries at least one gold label
func (s Sentence) HasEntities() bool {
	return len(s.Entities) > 0
}
