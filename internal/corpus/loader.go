package corpus

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ppiankov/linkeval/internal/model"
)

// Column layout of a token row
const (
	colToken  = 1
	colTag    = 2
	colLink   = 6
	minFields = 3 // Rows narrower than this are sentence boundaries
)

const maxLineBytes = 1024 * 1024

// Loader turns a tab-separated, tagged token stream into sentences
type Loader struct {
	filter       *EntityFilter
	maxSentences int
	policy       model.BoundaryPolicy
}

// NewLoader creates a loader from the corpus configuration
func NewLoader(cfg model.CorpusConfig) *Loader {
	policy := cfg.BoundaryPolicy
	if policy == "" {
		policy = model.BoundaryExclusive
	}

	return &Loader{
		filter:       NewEntityFilter(cfg.ExcludedClasses),
		maxSentences: cfg.MaxSentences,
		policy:       policy,
	}
}

// LoadFile reads sentences from the corpus at path
func (l *Loader) LoadFile(path string) ([]model.Sentence, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open corpus: %w", err)
	}
	defer func() { _ = f.Close() }()

	sentences, err := l.Load(f)
	if err != nil {
		return nil, fmt.Errorf("read corpus %s: %w", path, err)
	}
	return sentences, nil
}

// Load reads sentences from r.
// Only sentences with at least one accepted entity label are kept. A final
// sentence that is not followed by a boundary row is dropped.
func (l *Loader) Load(r io.Reader) ([]model.Sentence, error) {
	var (
		sentences []model.Sentence
		tokens    []string
		entities  []string
		count     int
	)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	for scanner.Scan() {
		row := splitRow(scanner.Text())

		if len(row) >= minFields {
			tokens = append(tokens, row[colToken])
			if len(row) > colLink && row[colLink] != "" && l.filter.Accept(row[colTag]) {
				entities = append(entities, row[colLink])
			}
			continue
		}

		if len(entities) > 0 && l.policy.Allows(count, l.maxSentences) {
			sentences = append(sentences, model.Sentence{
				Text:     Detokenize(tokens),
				Entities: dedupe(entities),
			})
			count++
		}

		tokens = nil
		entities = nil
	}

	if err := scanner.Err(); err != nil {
		return sentences, fmt.Errorf("scan rows: %w", err)
	}

	return sentences, nil
}

// splitRow splits a line on tabs without any quoting rules.
// An empty line has no fields.
func splitRow(line string) []string {
	line = strings.TrimSuffix(line, "\r")
	if line == "" {
		return nil
	}
	return strings.Split(line, "\t")
}

func dedupe(labels []string) []string {
	seen := make(map[string]bool, len(labels))
	unique := make([]string, 0, len(labels))
	for _, label := range labels {
		if !seen[label] {
			seen[label] = true
			unique = append(unique, label)
		}
	}
	return unique
}
