package segment

import (
	"errors"
	"strings"
	"testing"

	"textsum/internal/domain"
)

func TestCleanNormalizesWhitespaceAndControlChars(t *testing.T) {
	in := "Hello\tworld.\n\nThis\x00has  control\rchars."
	got := Clean(in)
	want := "Hello world. This has control chars."
	if got != want {
		t.Fatalf("Clean() = %q, want %q", got, want)
	}
}

func TestSegmentBasic(t *testing.T) {
	sentences, warn, err := Segment("First sentence here. Second one follows! Is this the third?")
	if err != nil {
		t.Fatalf("Segment() error: %v", err)
	}
	if warn != nil {
		t.Fatalf("unexpected warning: %v", warn)
	}
	if len(sentences) != 3 {
		t.Fatalf("got %d sentences, want 3: %+v", len(sentences), sentences)
	}
	wants := []string{"First sentence here.", "Second one follows!", "Is this the third?"}
	for i, s := range sentences {
		if s.Text != wants[i] {
			t.Errorf("sentence %d = %q, want %q", i, s.Text, wants[i])
		}
		if s.Index != i {
			t.Errorf("sentence %d has index %d", i, s.Index)
		}
	}
}

func TestSegmentOffsetsAndReconstruction(t *testing.T) {
	text := Clean("The cat sat. The dog ran! A bird flew overhead. Then it rained.")
	sentences, _, err := Segment(text)
	if err != nil {
		t.Fatalf("Segment() error: %v", err)
	}
	prevEnd := 0
	var parts []string
	for _, s := range sentences {
		if s.Start < prevEnd {
			t.Errorf("sentence %d start %d before previous end %d", s.Index, s.Start, prevEnd)
		}
		if got := text[s.Start:s.End]; got != s.Text {
			t.Errorf("offsets of sentence %d yield %q, want %q", s.Index, got, s.Text)
		}
		prevEnd = s.End
		parts = append(parts, s.Text)
	}
	if joined := strings.Join(parts, " "); joined != text {
		t.Errorf("reconstruction = %q, want %q", joined, text)
	}
}

func TestSegmentAbbreviationsAndDecimals(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"title abbreviation", "Dr. Smith paid 3.14 dollars for it. He left quickly.", 2},
		{"initials", "J. K. Rowling wrote the book. Fans rejoiced everywhere.", 2},
		{"latin abbreviation", "Bring fruit, e.g. apples and pears. Nothing else is needed.", 2},
		{"quoted speech", "\"Stop right there!\" he shouted. Then came silence.", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sentences, _, err := Segment(tt.text)
			if err != nil {
				t.Fatalf("Segment() error: %v", err)
			}
			if len(sentences) != tt.want {
				t.Fatalf("got %d sentences, want %d: %+v", len(sentences), tt.want, sentences)
			}
		})
	}
}

func TestSegmentEmptyInput(t *testing.T) {
	for _, text := range []string{"", "   "} {
		if _, _, err := Segment(text); !errors.Is(err, domain.ErrEmptyInput) {
			t.Errorf("Segment(%q) error = %v, want ErrEmptyInput", text, err)
		}
	}
}

func TestSegmentDegradedFallback(t *testing.T) {
	text := "just a fragment with no terminal punctuation at all"
	sentences, warn, err := Segment(text)
	if err != nil {
		t.Fatalf("Segment() error: %v", err)
	}
	if len(sentences) != 1 || sentences[0].Text != text {
		t.Fatalf("expected whole text as one sentence, got %+v", sentences)
	}
	if warn == nil || warn.Code != domain.WarnSegmentationDegraded {
		t.Fatalf("expected segmentation degraded warning, got %v", warn)
	}
}

func TestBuild(t *testing.T) {
	doc, warn, err := Build("One sentence.\n\nAnother\tsentence.")
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if warn != nil {
		t.Fatalf("unexpected warning: %v", warn)
	}
	if doc.Text != "One sentence. Another sentence." {
		t.Errorf("doc text = %q", doc.Text)
	}
	if len(doc.Sentences) != 2 {
		t.Errorf("got %d sentences, want 2", len(doc.Sentences))
	}
}
