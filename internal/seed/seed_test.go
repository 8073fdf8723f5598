package seed

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/M-U-C-K-A/blog/internal/database"
	"github.com/M-U-C-K-A/blog/internal/generate"
	"github.com/M-U-C-K-A/blog/internal/logger"
	"github.com/M-U-C-K-A/blog/internal/media"
	"github.com/M-U-C-K-A/blog/internal/synth"
)

var now = time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)

func openTestDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"), logger.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

type fakeMedia struct {
	mu      sync.Mutex
	cleared int
}

func (f *fakeMedia) FetchAuthorMedia(_ context.Context, seed string) media.Media {
	return media.Media{Avatar: "/avatars/" + seed + ".svg", Banner: "/banners/" + seed + ".svg"}
}

func (f *fakeMedia) FetchAll(ctx context.Context, seeds []string) map[string]media.Media {
	out := make(map[string]media.Media, len(seeds))
	for _, s := range seeds {
		out[s] = f.FetchAuthorMedia(ctx, s)
	}
	return out
}

func (f *fakeMedia) Clear(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cleared++
	return nil
}

type staticSource struct {
	plan *Plan
	err  error
}

func (s staticSource) Name() string { return "static" }

func (s staticSource) Plan(context.Context) (*Plan, error) { return s.plan, s.err }

func synthetic(seed uint64, vocab synth.Vocabulary, authors, articles int) *Synthetic {
	return NewSynthetic(generate.NewDrafter(newRand(seed), vocab, now), vocab, authors, articles)
}

func assertConsistent(t *testing.T, db *database.DB) {
	t.Helper()
	issues, err := db.CheckConsistency(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	for _, is := range issues {
		t.Errorf("inconsistency %s: %s %s", is.Kind, is.Entity, is.Detail)
	}
}

func TestEndToEndSingleArticle(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	vocab := synth.DefaultVocabulary()
	vocab.ArticleTypes = []string{"Neurosciences"}
	vocab.Tags = []string{"plasticité cérébrale"}

	s := New(db, &fakeMedia{}, synthetic(1, vocab, 1, 1), newRand(2),
		Options{Reset: true, Components: true}, logger.Nop())
	report, err := s.Run(ctx)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.AuthorsCreated != 1 || report.ArticlesCreated != 1 || report.ComponentsCreated != 1 {
		t.Fatalf("report = %+v", report)
	}

	stats, err := db.GetStats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	want := database.Stats{Categories: 1, Tags: 1, Authors: 1, Articles: 1, ArticleTag: 1, Components: 1}
	stats.Education = 0
	if *stats != want {
		t.Errorf("stats = %+v, want %+v", *stats, want)
	}

	authors, err := db.GetAllAuthors(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if authors[0].ArticlesCount != 1 {
		t.Errorf("articlesCount = %d, want 1", authors[0].ArticlesCount)
	}

	list, err := db.ListArticles(ctx, database.ArticleFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 {
		t.Fatalf("articles = %d", len(list))
	}
	sum := list[0]
	if sum.AuthorSlug != authors[0].Slug || sum.CategorySlug != "neurosciences" {
		t.Errorf("links = %s / %s", sum.AuthorSlug, sum.CategorySlug)
	}
	if len(sum.Tags) != 1 || sum.Tags[0] != "plasticité cérébrale" {
		t.Errorf("tags = %v", sum.Tags)
	}

	comps, err := db.GetComponentsForArticle(ctx, sum.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(comps) != 1 || comps[0].Type != "image" {
		t.Fatalf("components = %+v", comps)
	}
	var img headerImage
	if err := json.Unmarshal([]byte(comps[0].Data), &img); err != nil {
		t.Fatal(err)
	}
	if img.URL != "/articles/"+sum.Slug+"/header.jpg" || img.Alt != sum.Title {
		t.Errorf("component data = %+v", img)
	}
	assertConsistent(t, db)
}

func TestDuplicateSlugsKeepCountsConsistent(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	draft := func(title, slug string) generate.ArticleDraft {
		return generate.ArticleDraft{Title: title, Slug: slug, PublishedAt: now, ReadTime: "10 min"}
	}
	plan := &Plan{
		Categories: []CategoryRef{{Name: "Neurosciences", Slug: "neurosciences"}},
		Tags:       []string{"mémoire"},
		Authors: []generate.AuthorDraft{
			{Name: "Léa Dubois"},
			{Name: "Lea Dubois"},
		},
		Articles: []ArticlePlan{
			{Draft: draft("Premier", "premier"), AuthorSlug: "lea-dubois", CategorySlug: "neurosciences", Tags: []string{"mémoire"}},
			{Draft: draft("Premier bis", "premier"), AuthorSlug: "lea-dubois", CategorySlug: "neurosciences", Tags: []string{"mémoire"}},
			{Draft: draft("Second", "second"), AuthorSlug: "lea-dubois", CategorySlug: "neurosciences"},
		},
	}

	report, err := New(db, &fakeMedia{}, staticSource{plan: plan}, newRand(1), Options{}, logger.Nop()).Run(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if report.AuthorsCreated != 1 || report.AuthorsSkipped != 1 {
		t.Errorf("authors created/skipped = %d/%d", report.AuthorsCreated, report.AuthorsSkipped)
	}
	if report.ArticlesCreated != 2 || report.ArticlesSkipped != 1 {
		t.Errorf("articles created/skipped = %d/%d", report.ArticlesCreated, report.ArticlesSkipped)
	}

	a, err := db.GetAuthorBySlug(ctx, "lea-dubois")
	if err != nil {
		t.Fatal(err)
	}
	if a.ArticlesCount != 2 {
		t.Errorf("articlesCount = %d, want 2", a.ArticlesCount)
	}
	assertConsistent(t, db)
}

func TestResetThenRun(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	fm := &fakeMedia{}
	vocab := synth.DefaultVocabulary()

	// Reset on an empty store is a no-op.
	if _, err := Reset(ctx, db, fm, logger.Nop()); err != nil {
		t.Fatalf("Reset on empty store: %v", err)
	}

	first := New(db, fm, synthetic(4, vocab, 4, 6), newRand(4), Options{Reset: true, Components: true}, logger.Nop())
	if _, err := first.Run(ctx); err != nil {
		t.Fatal(err)
	}

	second := New(db, fm, synthetic(5, vocab, 3, 5), newRand(5), Options{Reset: true, Components: true}, logger.Nop())
	report, err := second.Run(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if report.AuthorsCreated+report.AuthorsSkipped != 3 || report.ArticlesCreated+report.ArticlesSkipped != 5 {
		t.Errorf("report = %+v", report)
	}

	stats, err := db.GetStats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Authors != report.AuthorsCreated || stats.Articles != report.ArticlesCreated {
		t.Errorf("stats %+v do not match report %+v", stats, report)
	}
	if stats.Components != report.ArticlesCreated {
		t.Errorf("components = %d, want one per article", stats.Components)
	}
	if stats.Categories != len(vocab.ArticleTypes) || stats.Tags != len(vocab.Tags) {
		t.Errorf("reference data = %d categories, %d tags", stats.Categories, stats.Tags)
	}
	if fm.cleared != 3 {
		t.Errorf("media cleared %d times, want 3", fm.cleared)
	}
	assertConsistent(t, db)
}

func TestMediaNotFoundUsesPlaceholder(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	root := t.TempDir()
	store := media.NewLocalStore(root, media.Dirs{Avatars: "avatars", Banners: "banners"})
	fetcher := media.NewFetcher(media.Options{
		BaseURL: srv.URL, AvatarStyle: "initials", BannerStyle: "glass",
		Timeout: time.Second, Concurrency: 2,
	}, store, logger.Nop())

	db := openTestDB(t)
	ctx := context.Background()
	s := New(db, fetcher, synthetic(6, synth.DefaultVocabulary(), 2, 0), newRand(6), Options{}, logger.Nop())
	if _, err := s.Run(ctx); err != nil {
		t.Fatal(err)
	}

	authors, err := db.GetAllAuthors(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(authors) == 0 {
		t.Fatal("no authors created")
	}
	for _, a := range authors {
		if a.Avatar != media.Placeholder || a.Banner != media.Placeholder {
			t.Errorf("%s media = %q %q", a.Slug, a.Avatar, a.Banner)
		}
	}
	for _, dir := range []string{"avatars", "banners"} {
		entries, err := os.ReadDir(filepath.Join(root, dir))
		if err == nil && len(entries) > 0 {
			t.Errorf("%s has %d files, want none", dir, len(entries))
		}
	}
}

func TestFixtureRun(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	src := NewFixture("../fixtures/testdata/authors.json", "../fixtures/testdata/articles.json", true)

	report, err := New(db, &fakeMedia{}, src, newRand(7), Options{Reset: true, Components: true}, logger.Nop()).Run(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if report.AuthorsCreated != 4 || report.ArticlesCreated != 4 {
		t.Fatalf("report = %+v", report)
	}
	if report.Categories != 3 || report.Tags != 10 {
		t.Errorf("reference data = %d categories, %d tags", report.Categories, report.Tags)
	}

	sophie, err := db.GetAuthorBySlug(ctx, "sophie-martin")
	if err != nil {
		t.Fatal(err)
	}
	if sophie.ArticlesCount != 1 {
		t.Errorf("articlesCount = %d, fixture stats must not be copied", sophie.ArticlesCount)
	}
	if sophie.Citations != 2300 || len(sophie.Education) != 2 {
		t.Errorf("sophie = %+v", sophie)
	}

	emilie, err := db.GetAuthorBySlug(ctx, "emilie-bernard")
	if err != nil {
		t.Fatal(err)
	}
	if emilie.Twitter == nil || *emilie.Twitter != "@EmilieNeuro" {
		t.Errorf("flat contact lost: %v", emilie.Twitter)
	}

	art, err := db.GetArticleBySlug(ctx, "brain-plasticity")
	if err != nil {
		t.Fatal(err)
	}
	if art.AuthorID != emilie.ID || len(art.TagIDs) != 4 {
		t.Errorf("brain-plasticity links = %s, %d tags", art.AuthorID, len(art.TagIDs))
	}
	if !art.PublishedAt.Equal(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("publishedAt = %v", art.PublishedAt)
	}
	assertConsistent(t, db)
}

func TestArticlesSkippedWithoutAuthors(t *testing.T) {
	db := openTestDB(t)
	plan := &Plan{
		Categories: []CategoryRef{{Name: "Chimie", Slug: "chimie"}},
		Tags:       []string{"catalyse"},
		Articles: []ArticlePlan{
			{Draft: generate.ArticleDraft{Title: "A", Slug: "a", PublishedAt: now}},
			{Draft: generate.ArticleDraft{Title: "B", Slug: "b", PublishedAt: now}},
		},
	}
	report, err := New(db, &fakeMedia{}, staticSource{plan: plan}, newRand(8), Options{}, logger.Nop()).Run(context.Background())
	if err != nil {
		t.Fatalf("empty pools must not fail the run: %v", err)
	}
	if report.ArticlesSkipped != 2 || report.ArticlesCreated != 0 {
		t.Errorf("report = %+v", report)
	}
	var articles *StepResult
	for i := range report.Steps {
		if report.Steps[i].Name == "Articles" {
			articles = &report.Steps[i]
		}
	}
	if articles == nil || !errors.Is(articles.Err, ErrMissingDependency) {
		t.Errorf("articles step = %+v", articles)
	}
}

func TestUnknownReferenceSkipsArticle(t *testing.T) {
	db := openTestDB(t)
	plan := &Plan{
		Categories: []CategoryRef{{Name: "Chimie", Slug: "chimie"}},
		Tags:       []string{"catalyse"},
		Authors:    []generate.AuthorDraft{{Name: "Hugo Roy"}},
		Articles: []ArticlePlan{
			{Draft: generate.ArticleDraft{Title: "A", Slug: "a", PublishedAt: now}, AuthorSlug: "nobody", CategorySlug: "chimie", Tags: []string{}},
			{Draft: generate.ArticleDraft{Title: "B", Slug: "b", PublishedAt: now}, AuthorSlug: "hugo-roy", CategorySlug: "physique", Tags: []string{}},
			{Draft: generate.ArticleDraft{Title: "C", Slug: "c", PublishedAt: now}, AuthorSlug: "hugo-roy", CategorySlug: "chimie", Tags: []string{"inconnu"}},
			{Draft: generate.ArticleDraft{Title: "D", Slug: "d", PublishedAt: now}, AuthorSlug: "hugo-roy", CategorySlug: "chimie", Tags: []string{"catalyse"}},
		},
	}
	report, err := New(db, &fakeMedia{}, staticSource{plan: plan}, newRand(9), Options{}, logger.Nop()).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if report.ArticlesCreated != 1 || report.ArticlesSkipped != 3 {
		t.Errorf("report = %+v", report)
	}
	assertConsistent(t, db)
}

func TestSourceErrorAborts(t *testing.T) {
	db := openTestDB(t)
	boom := errors.New("unreadable fixtures")
	_, err := New(db, &fakeMedia{}, staticSource{err: boom}, newRand(1), Options{Reset: true}, logger.Nop()).Run(context.Background())
	if !errors.Is(err, boom) {
		t.Errorf("err = %v", err)
	}
}

func TestDryRunWritesNothing(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	report, err := New(db, &fakeMedia{}, synthetic(10, synth.DefaultVocabulary(), 2, 3), newRand(10), Options{Reset: true}, logger.Nop()).DryRun(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(report.Steps) != 4 {
		t.Errorf("steps = %+v", report.Steps)
	}
	stats, _ := db.GetStats(ctx)
	if *stats != (database.Stats{}) {
		t.Errorf("dry run wrote rows: %+v", stats)
	}
}

func TestSyntheticPlanDeterministic(t *testing.T) {
	vocab := synth.DefaultVocabulary()
	a, _ := synthetic(11, vocab, 2, 2).Plan(context.Background())
	b, _ := synthetic(11, vocab, 2, 2).Plan(context.Background())
	if a.Authors[1].Name != b.Authors[1].Name || a.Articles[1].Draft.Title != b.Articles[1].Draft.Title {
		t.Error("same seed produced different plans")
	}
	if len(a.Categories) != len(vocab.ArticleTypes) || a.Categories[0].Slug != "article-de-recherche" {
		t.Errorf("categories = %+v", a.Categories)
	}
}

// cancelAfterArticle cancels the run as soon as the first article commits.
type cancelAfterArticle struct {
	*database.DB
	cancel context.CancelFunc
}

func (s cancelAfterArticle) CreateArticle(ctx context.Context, in database.NewArticle) (*database.Article, error) {
	a, err := s.DB.CreateArticle(ctx, in)
	s.cancel()
	return a, err
}

func TestInterruptAfterArticleKeepsCountsConsistent(t *testing.T) {
	db := openTestDB(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := cancelAfterArticle{DB: db, cancel: cancel}
	s := New(store, &fakeMedia{}, synthetic(1, synth.DefaultVocabulary(), 1, 3), newRand(1),
		Options{Components: true}, logger.Nop())
	report, err := s.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if report.ArticlesCreated != 1 {
		t.Errorf("articles created = %d, want 1", report.ArticlesCreated)
	}
	assertConsistent(t, db)
}

func TestDryRunNeedsNoStore(t *testing.T) {
	report, err := New(nil, nil, synthetic(12, synth.DefaultVocabulary(), 1, 2), newRand(12), Options{}, logger.Nop()).DryRun(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(report.Steps) != 3 || report.Steps[2].Summary != "[dry-run] 2 articles planned" {
		t.Errorf("steps = %+v", report.Steps)
	}
}
