package textsplit

import (
	"strings"
	"testing"
)

func TestSplitShortText(t *testing.T) {
	chunks := Split("a manifesto about transparent budgeting", Options{})
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Index != 0 || chunks[0].Total != 1 {
		t.Errorf("expected index 0 / total 1, got %d / %d", chunks[0].Index, chunks[0].Total)
	}
}

func TestSplitDropsTinyChunks(t *testing.T) {
	for _, text := range []string{"", "   ", "short", "ten chars!"} {
		if chunks := Split(text, Options{}); len(chunks) != 0 {
			t.Errorf("Split(%q) = %d chunks, want 0", text, len(chunks))
		}
	}
}

func TestSplitPrefersWordBoundaries(t *testing.T) {
	// 60-char window over words: no chunk should end mid-word.
	text := strings.Repeat("campaign promises need honest funding plans laid out ", 20)
	chunks := Split(text, Options{ChunkSize: 60, Overlap: 10})
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for _, c := range chunks {
		if strings.HasSuffix(c.Text, "fundin") || strings.HasSuffix(c.Text, "promis") {
			t.Errorf("chunk ends mid-word: %q", c.Text)
		}
		if len([]rune(strings.TrimSpace(c.Text))) <= MinChunkLength {
			t.Errorf("chunk shorter than minimum after trim: %q", c.Text)
		}
	}
}

func TestSplitMetadataMonotonic(t *testing.T) {
	text := strings.Repeat("every student deserves a voice in association spending decisions ", 50)
	chunks := Split(text, Options{})
	for i, c := range chunks {
		if c.Index != i {
			t.Errorf("chunk %d has index %d", i, c.Index)
		}
		if c.Total != len(chunks) {
			t.Errorf("chunk %d has total %d, want %d", i, c.Total, len(chunks))
		}
	}
}

func TestSplitCoversSourceInOrder(t *testing.T) {
	text := strings.Repeat("word", 300) + " " + strings.Repeat("tail", 300)
	chunks := Split(text, Options{ChunkSize: 100, Overlap: 20})

	// Each chunk must appear in the source at or after the position of the
	// previous one (overlap duplication aside).
	pos := 0
	for i, c := range chunks {
		idx := strings.Index(text[pos:], c.Text[:10])
		if idx < 0 {
			t.Fatalf("chunk %d start not found in source after offset %d", i, pos)
		}
		pos += idx
	}
}

func TestSplitTerminatesOnDegenerateOptions(t *testing.T) {
	text := strings.Repeat("x", 5000) // no boundary anywhere

	cases := []Options{
		{ChunkSize: 100, Overlap: 100}, // overlap == chunkSize
		{ChunkSize: 100, Overlap: 150}, // overlap > chunkSize
		{ChunkSize: 1, Overlap: 0},
	}
	for _, opts := range cases {
		chunks := Split(text, opts) // must not hang
		if len(chunks) > MaxChunks {
			t.Errorf("options %+v produced %d chunks, cap is %d", opts, len(chunks), MaxChunks)
		}
	}
}

func TestSplitTruncatesOversizedInput(t *testing.T) {
	text := strings.Repeat("a long manifesto line about campus facilities and funding\n", 5000)
	if len(text) <= MaxInputLength {
		t.Fatal("test input not oversized")
	}

	chunks := Split(text, Options{})
	if len(chunks) == 0 {
		t.Fatal("expected chunks from oversized input")
	}
	if len(chunks) > MaxChunks {
		t.Errorf("got %d chunks, cap is %d", len(chunks), MaxChunks)
	}
}

func TestSplitChunkCap(t *testing.T) {
	text := strings.Repeat("policy point on association governance and student welfare ", 2000)
	chunks := Split(text, Options{ChunkSize: 50, Overlap: 10})
	if len(chunks) != MaxChunks {
		t.Errorf("expected chunk count capped at %d, got %d", MaxChunks, len(chunks))
	}
}
