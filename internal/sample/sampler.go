// Package sample draws reproducible evaluation subsets from loaded sentences.
package sample

import (
	"math/rand/v2"

	"github.com/ppiankov/linkeval/internal/model"
)

// Sampler draws a fixed-size, seeded sample of sentences
type Sampler struct {
	size int
	seed uint64
}

// NewSampler creates a sampler returning at most size sentences
func NewSampler(size int, seed uint64) *Sampler {
	return &Sampler{size: size, seed: seed}
}

// Sample returns min(size, population) sentences that carry gold entities.
// When the population fits, it is returned in its original order without
// touching the generator. Otherwise a uniform sample without replacement is
// drawn and returned in draw order; identical seed and input always give
// the identical sequence.
func (s *Sampler) Sample(sentences []model.Sentence) []model.Sentence {
	population := make([]model.Sentence, 0, len(sentences))
	for _, sentence := range sentences {
		if sentence.HasEntities() {
			population = append(population, sentence)
		}
	}

	if s.size <= 0 {
		return []model.Sentence{}
	}
	if len(population) <= s.size {
		return population
	}

	rng := rand.New(rand.NewPCG(s.seed, s.seed))

	// Partial Fisher-Yates over an index permutation
	idx := make([]int, len(population))
	for i := range idx {
		idx[i] = i
	}

	out := make([]model.Sentence, s.size)
	for i := 0; i < s.size; i++ {
		j := i + rng.IntN(len(idx)-i)
		idx[i], idx[j] = idx[j], idx[i]
		out[i] = population[idx[i]]
	}

	return out
}
