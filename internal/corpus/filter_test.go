package corpus

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEntityClass(t *testing.T) {
	tests := map[string]string{
		"B-PER":  "PER",
		"I-LOC":  "LOC",
		"B-ANIM": "ANIM",
		"O":      MissingClass,
		"":       MissingClass,
		"B-X-Y":  "X",
		"B-":     "",
	}

	for tag, want := range tests {
		assert.Equal(t, want, EntityClass(tag), "tag %q", tag)
	}
}

func TestEntityFilter_DefaultExclusions(t *testing.T) {
	f := NewEntityFilter(nil)

	for _, tag := range []string{"B-ANIM", "I-FOOD", "B-DIS", "B-PLANT", "I-TIME"} {
		assert.False(t, f.Accept(tag), "expected %s to be rejected", tag)
	}
	for _, tag := range []string{"B-PER", "I-LOC", "B-ORG", "O", "B-EVE"} {
		assert.True(t, f.Accept(tag), "expected %s to be accepted", tag)
	}
}

func TestEntityFilter_CustomExclusions(t *testing.T) {
	f := NewEntityFilter([]string{"PER", MissingClass})

	assert.False(t, f.Accept("B-PER"))
	assert.False(t, f.Accept("O"))
	assert.True(t, f.Accept("B-TIME"))
}

func TestEntityFilter_EmptyExclusionsAcceptAll(t *testing.T) {
	f := NewEntityFilter([]string{})
	assert.True(t, f.Accept("B-ANIM"))
}

func TestDetokenize(t *testing.T) {
	tests := []struct {
		tokens []string
		want   string
	}{
		{[]string{"Amsterdam", "is", "groot"}, "Amsterdam is groot"},
		{[]string{"de", "Engels", "-", "Nederlandse", "oorlog"}, "de Engels-Nederlandse oorlog"},
		{[]string{"in", "de", "19", "e", "eeuw"}, "in de 19e eeuw"},
		{[]string{"e", "mail"}, "e mail"},
		{nil, ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Detokenize(tt.tokens))
	}
}
