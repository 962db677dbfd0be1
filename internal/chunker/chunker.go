// Package chunker splits document text into bounded, order-preserving
// segments used as retrieval units.
package chunker

import "strings"

// DefaultChunkSize is the maximum number of words per chunk.
const DefaultChunkSize = 500

// Chunker splits whitespace-tokenized text into consecutive word groups.
type Chunker struct {
	size int
}

// New creates a Chunker with the given maximum words per chunk.
// A size of 0 or less selects DefaultChunkSize.
func New(size int) *Chunker {
	if size <= 0 {
		size = DefaultChunkSize
	}
	return &Chunker{size: size}
}

// Size returns the configured maximum words per chunk.
func (c *Chunker) Size() int {
	return c.size
}

// Split breaks text into consecutive, non-overlapping groups of at most
// Size words each, rejoined with single spaces in original word order.
// The last chunk may be shorter. Text with no words yields no chunks.
//
// Joining the output with single spaces and re-splitting on whitespace
// reproduces the input's word sequence exactly, so chunks for a document
// reassemble into its full text word-for-word.
func (c *Chunker) Split(text string) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	chunks := make([]string, 0, (len(words)+c.size-1)/c.size)
	for i := 0; i < len(words); i += c.size {
		end := min(i+c.size, len(words))
		chunks = append(chunks, strings.Join(words[i:end], " "))
	}
	return chunks
}
