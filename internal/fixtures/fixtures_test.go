package fixtures

import (
	"strings"
	"testing"
	"time"
)

func loadTestSet(t *testing.T) *Set {
	t.Helper()
	set, err := Load("testdata/authors.json", "testdata/articles.json")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return set
}

func TestLoad(t *testing.T) {
	set := loadTestSet(t)
	if len(set.Authors) != 2 || len(set.Articles) != 2 {
		t.Fatalf("loaded %d authors, %d articles", len(set.Authors), len(set.Articles))
	}
	if set.Articles[0].Category.Slug != "neurosciences" || set.Articles[0].Author.Slug != "sophie-martin" {
		t.Errorf("article refs = %+v %+v", set.Articles[0].Category, set.Articles[0].Author)
	}
}

func TestLoadBareArray(t *testing.T) {
	set, err := Load("testdata/authors_array.json", "testdata/articles.json")
	if err != nil {
		t.Fatal(err)
	}
	if len(set.Authors) != 1 || set.Authors[0].Education[0].Year != "2021" {
		t.Errorf("authors = %+v", set.Authors)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load("testdata/missing.json", "testdata/articles.json"); err == nil {
		t.Error("expected error for missing file")
	}
	_, err := Load("testdata/authors.json", "testdata/articles_bad.json")
	if err == nil || !strings.Contains(err.Error(), `missing "articles"`) {
		t.Errorf("err = %v", err)
	}
}

func TestAuthorDraftNestedPreferred(t *testing.T) {
	d := loadTestSet(t).Authors[0].Draft()

	if d.Email == nil || *d.Email != "sophie.martin@cnrs.fr" {
		t.Errorf("email = %v, nested contact should win", d.Email)
	}
	if d.ORCID == nil || *d.ORCID != "0000-0002-1825-0097" {
		t.Errorf("orcid = %v", d.ORCID)
	}
	if d.Twitter != nil {
		t.Errorf("twitter = %v, want nil", *d.Twitter)
	}
	if d.Citations != 2300 || d.HIndex != 21 {
		t.Errorf("stats = %d/%d, want nested 2300/21", d.Citations, d.HIndex)
	}
	if len(d.Education) != 2 || d.Education[1].Year != "2005" {
		t.Errorf("education = %+v", d.Education)
	}
}

func TestAuthorDraftFlat(t *testing.T) {
	d := loadTestSet(t).Authors[1].Draft()

	if d.Email == nil || *d.Email != "thomas.girard@unistra.fr" {
		t.Errorf("email = %v", d.Email)
	}
	if d.Twitter == nil || *d.Twitter != "@tgirard" {
		t.Errorf("twitter = %v", d.Twitter)
	}
	if d.Citations != 310 || d.HIndex != 9 {
		t.Errorf("stats = %d/%d", d.Citations, d.HIndex)
	}
}

func TestArticleDraftRendersMarkdown(t *testing.T) {
	set := loadTestSet(t)
	md := NewMarkdown()

	d, err := set.Articles[0].Draft(md)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(d.Content, "<h2>Introduction</h2>") {
		t.Errorf("heading not rendered: %s", d.Content)
	}
	if !strings.Contains(d.Content, "<strong>gamma</strong>") {
		t.Errorf("emphasis not rendered: %s", d.Content)
	}
	if !strings.Contains(d.Content, `<img src="/figures/gamma.png"`) {
		t.Errorf("raw html dropped: %s", d.Content)
	}
	if !d.PublishedAt.Equal(time.Date(2024, 11, 3, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("publishedAt = %v", d.PublishedAt)
	}

	d2, err := set.Articles[1].Draft(md)
	if err != nil {
		t.Fatal(err)
	}
	if !d2.PublishedAt.Equal(time.Date(2025, 2, 10, 9, 30, 0, 0, time.UTC)) {
		t.Errorf("publishedAt = %v", d2.PublishedAt)
	}
}

func TestArticleDraftBadDate(t *testing.T) {
	a := Article{Slug: "x", PublishedAt: "juin 2025"}
	if _, err := a.Draft(NewMarkdown()); err == nil {
		t.Error("expected date error")
	}
}

func TestMergeDedupesBySlug(t *testing.T) {
	base := Set{
		Authors:  []Author{{Slug: "marc-lambert", Name: "Marc Lambert (loaded)"}},
		Articles: []Article{{Slug: "brain-plasticity", Title: "loaded"}},
	}
	merged := Merge(base, Supplementary())

	if len(merged.Authors) != 2 || len(merged.Articles) != 2 {
		t.Fatalf("merged %d authors, %d articles", len(merged.Authors), len(merged.Articles))
	}
	if merged.Authors[0].Name != "Marc Lambert (loaded)" {
		t.Errorf("loaded author should win, got %q", merged.Authors[0].Name)
	}
	if merged.Authors[1].Slug != "emilie-bernard" {
		t.Errorf("second author = %q", merged.Authors[1].Slug)
	}
	if merged.Articles[0].Title != "loaded" || merged.Articles[1].Slug != "robot-collaboration" {
		t.Errorf("articles = %+v", merged.Articles)
	}
}

func TestMergeUsesDerivedSlugs(t *testing.T) {
	base := Set{
		Authors:  []Author{{Name: "Alice Martin"}, {Name: "Bruno Petit"}, {Name: "Émilie Bernard"}},
		Articles: []Article{{Title: "Premier article"}, {Title: "Second article"}},
	}
	extra := Set{
		Authors:  []Author{{Name: "Alice  Martin"}, {Slug: "emilie-bernard", Name: "other"}},
		Articles: []Article{{Slug: "premier-article", Title: "other"}, {Title: "—"}, {Title: "…"}},
	}
	merged := Merge(base, extra)

	if len(merged.Authors) != 3 {
		t.Errorf("authors = %+v, want the three loaded ones", merged.Authors)
	}
	// Entries without any slug characters are kept for the generator to reject.
	if len(merged.Articles) != 4 {
		t.Errorf("articles = %+v", merged.Articles)
	}
	if merged.Articles[1].Title != "Second article" {
		t.Errorf("second article = %q", merged.Articles[1].Title)
	}
}

func TestSupplementary(t *testing.T) {
	s := Supplementary()
	authors := map[string]bool{}
	for _, a := range s.Authors {
		authors[a.Slug] = true
		d := a.Draft()
		if d.Email == nil || d.Citations == 0 {
			t.Errorf("%s: incomplete draft %+v", a.Slug, d)
		}
	}
	for _, a := range s.Articles {
		if !authors[a.Author.Slug] {
			t.Errorf("%s references unknown author %s", a.Slug, a.Author.Slug)
		}
		if _, err := a.Draft(NewMarkdown()); err != nil {
			t.Errorf("%s: %v", a.Slug, err)
		}
	}
}
