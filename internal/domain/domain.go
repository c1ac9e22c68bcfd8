package domain

import "strings"

// Mode selects the summarization backend.
type Mode string

const (
	ModeExtractive  Mode = "extractive"
	ModeAbstractive Mode = "abstractive"
)

// Valid reports whether m is a known summarization mode.
func (m Mode) Valid() bool {
	return m == ModeExtractive || m == ModeAbstractive
}

// Sentence is a single sentence of a document with its position and byte
// offsets into the (cleaned) source text.
type Sentence struct {
	Index int
	Text  string
	Start int
	End   int
}

// Document is a cleaned input text together with its sentence segmentation.
// Immutable once built.
type Document struct {
	Text      string
	Sentences []Sentence
}

// Chunk is a contiguous run of a document's sentences whose combined token
// count fits a configured budget (except for single oversized sentences).
type Chunk struct {
	Sentences  []Sentence
	TokenCount int
}

// Text joins the chunk's sentences into a single string.
func (c Chunk) Text() string {
	parts := make([]string, len(c.Sentences))
	for i, s := range c.Sentences {
		parts[i] = s.Text
	}
	return strings.Join(parts, " ")
}

// Summary is the result of a summarization run. SourceSentenceIndices is
// populated only for extractive summaries and refers to Sentence.Index in the
// original document.
type Summary struct {
	Text                  string
	Mode                  Mode
	SourceSentenceIndices []int
	Warnings              []Warning
}

// Score holds overlap metrics for one ROUGE variant, each in [0,1].
type Score struct {
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
}

// ScoreSet maps a metric name ("rouge-1", "rouge-l", ...) to its score.
type ScoreSet map[string]Score
