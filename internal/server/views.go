package server

import (
	"encoding/json"
	"time"

	"github.com/M-U-C-K-A/blog/internal/database"
)

type summaryView struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	PublishedAt time.Time `json:"publishedAt"`
	ReadTime    string    `json:"readTime"`
	Featured    bool      `json:"featured"`
	Views       int       `json:"views"`
	Citations   int       `json:"citations"`
	Author      refView   `json:"author"`
	Category    refView   `json:"category"`
	Tags        []string  `json:"tags"`
}

type refView struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type articleDetailView struct {
	summaryView
	Content    string          `json:"content"`
	Components []componentView `json:"components"`
	Related    []summaryView   `json:"related"`
	Previous   *summaryView    `json:"previous"`
	Next       *summaryView    `json:"next"`
}

type componentView struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type authorView struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Slug        string          `json:"slug"`
	Title       string          `json:"title"`
	Affiliation string          `json:"affiliation"`
	Bio         string          `json:"bio"`
	Expertise   []string        `json:"expertise"`
	Avatar      string          `json:"avatar"`
	Banner      string          `json:"banner"`
	Contact     contactView     `json:"contact"`
	Stats       statsView       `json:"stats"`
	Education   []educationView `json:"education,omitempty"`
}

type contactView struct {
	Email        *string `json:"email,omitempty"`
	Twitter      *string `json:"twitter,omitempty"`
	LinkedIn     *string `json:"linkedin,omitempty"`
	ORCID        *string `json:"orcid,omitempty"`
	ResearchGate *string `json:"researchgate,omitempty"`
}

type statsView struct {
	Articles  int `json:"articles"`
	Citations int `json:"citations"`
	HIndex    int `json:"hIndex"`
}

type educationView struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Year        string `json:"year"`
}

type authorDetailView struct {
	authorView
	Articles []summaryView `json:"articles"`
}

type categoryView struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Count int    `json:"count"`
}

type tagView struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type statusView struct {
	Counts     map[string]int `json:"counts"`
	Consistent bool           `json:"consistent"`
	Issues     []issueView    `json:"issues"`
}

type issueView struct {
	Kind   string `json:"kind"`
	Entity string `json:"entity"`
	Detail string `json:"detail"`
}

func newSummaryView(s database.ArticleSummary) summaryView {
	tags := s.Tags
	if tags == nil {
		tags = []string{}
	}
	return summaryView{
		ID:          s.ID,
		Title:       s.Title,
		Slug:        s.Slug,
		Description: s.Description,
		PublishedAt: s.PublishedAt,
		ReadTime:    s.ReadTime,
		Featured:    s.Featured,
		Views:       s.Views,
		Citations:   s.Citations,
		Author:      refView{Name: s.AuthorName, Slug: s.AuthorSlug},
		Category:    refView{Name: s.CategoryName, Slug: s.CategorySlug},
		Tags:        tags,
	}
}

func summaryViews(list []database.ArticleSummary) []summaryView {
	out := make([]summaryView, 0, len(list))
	for _, s := range list {
		out = append(out, newSummaryView(s))
	}
	return out
}

func componentViews(list []database.Component) []componentView {
	out := make([]componentView, 0, len(list))
	for _, c := range list {
		data := json.RawMessage(c.Data)
		if !json.Valid(data) {
			data = json.RawMessage("null")
		}
		out = append(out, componentView{Type: c.Type, Data: data})
	}
	return out
}

func newAuthorView(a database.Author) authorView {
	v := authorView{
		ID:          a.ID,
		Name:        a.Name,
		Slug:        a.Slug,
		Title:       a.Title,
		Affiliation: a.Affiliation,
		Bio:         a.Bio,
		Expertise:   a.Expertise,
		Avatar:      a.Avatar,
		Banner:      a.Banner,
		Contact: contactView{
			Email:        a.Email,
			Twitter:      a.Twitter,
			LinkedIn:     a.LinkedIn,
			ORCID:        a.ORCID,
			ResearchGate: a.ResearchGate,
		},
		Stats: statsView{Articles: a.ArticlesCount, Citations: a.Citations, HIndex: a.HIndex},
	}
	for _, e := range a.Education {
		v.Education = append(v.Education, educationView{Degree: e.Degree, Institution: e.Institution, Year: e.Year})
	}
	return v
}

func newStatusView(s *database.Stats, issues []database.Issue) statusView {
	v := statusView{
		Counts: map[string]int{
			"categories":   s.Categories,
			"tags":         s.Tags,
			"authors":      s.Authors,
			"education":    s.Education,
			"articles":     s.Articles,
			"article_tags": s.ArticleTag,
			"components":   s.Components,
		},
		Consistent: len(issues) == 0,
		Issues:     []issueView{},
	}
	for _, is := range issues {
		v.Issues = append(v.Issues, issueView{Kind: is.Kind, Entity: is.Entity, Detail: is.Detail})
	}
	return v
}
