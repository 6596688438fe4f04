// Package textsplit turns long manifesto documents into bounded, overlapping
// chunks suitable for embedding and similarity search.
package textsplit

import (
	"strings"
)

const (
	// DefaultChunkSize is the window size in characters.
	DefaultChunkSize = 1000
	// DefaultOverlap is how many characters consecutive chunks share.
	DefaultOverlap = 200

	// MaxChunks bounds the number of chunks emitted per document.
	MaxChunks = 50
	// MaxInputLength bounds the input size; longer inputs are truncated.
	MaxInputLength = 100000
	// MinChunkLength is the minimum trimmed chunk length; shorter chunks are dropped.
	MinChunkLength = 10

	// TruncationMarker is appended when the input exceeds MaxInputLength.
	TruncationMarker = " [truncated]"
)

// Chunk is a single emitted piece of the source document.
type Chunk struct {
	Text  string
	Index int
	Total int
}

// Options configures Split. Zero values fall back to the defaults.
type Options struct {
	ChunkSize int
	Overlap   int
}

// Split cuts text into overlapping chunks, preferring word boundaries.
// Every returned chunk has trimmed length greater than MinChunkLength and
// carries its index plus the shared total count. Split always terminates:
// the window is force-advanced when a boundary search makes no progress and
// the loop is hard-capped as a final safeguard.
func Split(text string, opts Options) []Chunk {
	chunkSize := opts.ChunkSize
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	overlap := opts.Overlap
	if overlap < 0 {
		overlap = DefaultOverlap
	}

	chunks := split(text, chunkSize, overlap)

	for i := range chunks {
		chunks[i].Index = i
		chunks[i].Total = len(chunks)
	}
	return chunks
}

func split(text string, chunkSize, overlap int) (chunks []Chunk) {
	// The boundary walk below is index arithmetic over a rune slice; if it
	// ever slips out of bounds, fall back to naive fixed-size slicing rather
	// than losing the document.
	defer func() {
		if r := recover(); r != nil {
			chunks = naiveSplit(text, chunkSize)
		}
	}()

	runes := []rune(text)
	if len(runes) > MaxInputLength {
		runes = append(runes[:MaxInputLength], []rune(TruncationMarker)...)
	}

	step := chunkSize - overlap
	if step < 1 {
		step = 1
	}
	maxIterations := (len(runes)+step-1)/step + 10

	start := 0
	for iter := 0; start < len(runes) && len(chunks) < MaxChunks && iter < maxIterations; iter++ {
		end := start + chunkSize
		if end > len(runes) {
			end = len(runes)
		} else {
			// Not at the document end: search backward for the last space or
			// newline and cut there, but only if the boundary sits past the
			// midpoint of the window. Earlier boundaries would produce runty
			// chunks and stall the walk.
			if b := lastBoundary(runes, start, end); b > start+chunkSize/2 {
				end = b
			}
		}

		piece := strings.TrimSpace(string(runes[start:end]))
		if len([]rune(piece)) > MinChunkLength {
			chunks = append(chunks, Chunk{Text: piece})
		}

		if end >= len(runes) {
			break
		}

		next := end - overlap
		if next <= start {
			// Degenerate inputs (overlap >= chunkSize, no usable boundary)
			// must still make progress.
			next = start + chunkSize/2
			if next <= start {
				next = start + 1
			}
		}
		start = next
	}

	return chunks
}

// lastBoundary returns the index of the last space or newline within
// runes[start:end], or -1 if none exists. Cutting at that index keeps the
// final word intact and drops the separator.
func lastBoundary(runes []rune, start, end int) int {
	for i := end - 1; i > start; i-- {
		if runes[i] == ' ' || runes[i] == '\n' {
			return i
		}
	}
	return -1
}

// naiveSplit is the fixed-size fallback used when the boundary walk fails.
func naiveSplit(text string, chunkSize int) []Chunk {
	runes := []rune(text)
	if len(runes) > MaxInputLength {
		runes = append(runes[:MaxInputLength], []rune(TruncationMarker)...)
	}

	var chunks []Chunk
	for start := 0; start < len(runes) && len(chunks) < MaxChunks; start += chunkSize {
		end := start + chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		piece := strings.TrimSpace(string(runes[start:end]))
		if len([]rune(piece)) > MinChunkLength {
			chunks = append(chunks, Chunk{Text: piece})
		}
	}
	return chunks
}
