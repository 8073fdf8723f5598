package synth

import (
	"math/rand/v2"
	"strings"
	"testing"
)

func newText(seed uint64) *Text {
	return NewText(rand.New(rand.NewPCG(seed, seed)))
}

func TestSentenceShape(t *testing.T) {
	tx := newText(1)
	for i := 0; i < 50; i++ {
		s := tx.Sentence(8)
		if !strings.HasSuffix(s, ".") {
			t.Fatalf("sentence %q should end with a period", s)
		}
		n := len(strings.Fields(s))
		if n < 5 || n > 11 {
			t.Errorf("sentence %q has %d words, want about 8", s, n)
		}
	}
}

func TestParagraphSentenceCount(t *testing.T) {
	p := newText(2).Paragraph(5)
	if got := strings.Count(p, "."); got != 5 {
		t.Errorf("expected 5 sentences, got %d in %q", got, p)
	}
}

func TestDeterministic(t *testing.T) {
	a, b := newText(42), newText(42)
	for i := 0; i < 10; i++ {
		if x, y := a.Name(), b.Name(); x != y {
			t.Fatalf("same seed diverged: %q vs %q", x, y)
		}
		if x, y := a.Paragraph(3), b.Paragraph(3); x != y {
			t.Fatalf("same seed diverged on paragraph")
		}
	}
}

func TestSlug(t *testing.T) {
	s := newText(3).Slug()
	if strings.Count(s, "-") != 2 {
		t.Errorf("expected three hyphen-joined words, got %q", s)
	}
}

func TestCapitalize(t *testing.T) {
	if got := capitalize("étude récente"); got != "Étude récente" {
		t.Errorf("got %q", got)
	}
	if got := capitalize(""); got != "" {
		t.Errorf("got %q", got)
	}
}

func TestDefaultVocabulary(t *testing.T) {
	v := DefaultVocabulary()
	if len(v.Domains) < 3 {
		t.Error("need at least 3 domains to sample expertise")
	}
	if len(v.Journals) != 5 || len(v.ArticleTypes) != 7 || len(v.Tags) != 15 {
		t.Errorf("unexpected vocabulary sizes: %d journals, %d types, %d tags",
			len(v.Journals), len(v.ArticleTypes), len(v.Tags))
	}
}
