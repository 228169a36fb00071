package codebook

import (
	"fmt"
	"math"
	"math/rand"
)

// Assignment selects how vocabulary words receive their codes.
type Assignment string

const (
	// AssignmentPermutation shuffles a copy of the vocabulary and pairs
	// words by position, so every code is itself a vocabulary word. This is
	// the default and matches the historical behavior of the format.
	AssignmentPermutation Assignment = "permutation"
	// AssignmentGenerated draws fixed-length lowercase codes from the
	// generator instead, regenerating on collision so the mapping stays
	// bijective.
	AssignmentGenerated Assignment = "generated"
)

const (
	// DefaultSeed feeds the assignment generator unless overridden.
	DefaultSeed int64 = 42
	// DefaultCodeLength sizes codes produced by AssignmentGenerated.
	DefaultCodeLength = 8
	// DefaultMaxVocab caps the vocabulary unless overridden.
	DefaultMaxVocab = 1000
)

const codeAlphabet = "abcdefghijklmnopqrstuvwxyz"

func (a Assignment) valid() bool {
	switch a {
	case AssignmentPermutation, AssignmentGenerated:
		return true
	}
	return false
}

// assignCodes produces one code per word from the provided generator. The
// result pairs words[i] with codes[i] and never repeats a code.
func assignCodes(words []string, strategy Assignment, rng *rand.Rand, codeLength int) ([]string, error) {
	switch strategy {
	case AssignmentPermutation:
		return permutationCodes(words, rng), nil
	case AssignmentGenerated:
		return generatedCodes(words, rng, codeLength)
	default:
		return nil, fmt.Errorf("%w: unknown assignment %q", ErrInvalidConfiguration, strategy)
	}
}

func permutationCodes(words []string, rng *rand.Rand) []string {
	codes := make([]string, len(words))
	copy(codes, words)
	rng.Shuffle(len(codes), func(i, j int) {
		codes[i], codes[j] = codes[j], codes[i]
	})
	return codes
}

func generatedCodes(words []string, rng *rand.Rand, length int) ([]string, error) {
	if length <= 0 {
		return nil, fmt.Errorf("%w: code length must be positive", ErrInvalidConfiguration)
	}
	if space := codeSpace(length); space < len(words) {
		return nil, fmt.Errorf("%w: %d-letter codes cover only %d words, vocabulary has %d",
			ErrInvalidConfiguration, length, space, len(words))
	}

	codes := make([]string, len(words))
	seen := make(map[string]struct{}, len(words))
	buf := make([]byte, length)
	for i := range words {
		for {
			for j := range buf {
				buf[j] = codeAlphabet[rng.Intn(len(codeAlphabet))]
			}
			code := string(buf)
			if _, dup := seen[code]; dup {
				continue
			}
			seen[code] = struct{}{}
			codes[i] = code
			break
		}
	}
	return codes, nil
}

// codeSpace reports how many distinct codes a length allows, saturating
// instead of overflowing for lengths beyond any realistic vocabulary.
func codeSpace(length int) int {
	space := 1
	for i := 0; i < length; i++ {
		if space > math.MaxInt/len(codeAlphabet) {
			return math.MaxInt
		}
		space *= len(codeAlphabet)
	}
	return space
}
