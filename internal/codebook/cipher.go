package codebook

// Cipher transforms whitespace-tokenized text over a frozen word mapping.
// Implementations must be safe for concurrent readers once constructed.
type Cipher interface {
	// Encode replaces every in-vocabulary token with its code and joins the
	// results with single spaces. Tokens outside the vocabulary are dropped
	// silently, so encoding can lose words.
	Encode(text string) (string, error)
	// Decode replaces every code token with its vocabulary word. Decoding
	// is strict: a token without a mapping fails with ErrUnknownCode.
	Decode(text string) (string, error)
}
