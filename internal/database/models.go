package database

import "time"

// Category groups articles; slug is unique.
type Category struct {
	ID   string
	Name string
	Slug string
}

// CategoryCount is a category with the number of articles filed under it.
type CategoryCount struct {
	Category
	Count int
}

// Tag is a free-form label; name is unique.
type Tag struct {
	ID   string
	Name string
}

// Author is a contributor profile with bibliometric stats.
type Author struct {
	ID            string
	Name          string
	Slug          string
	Title         string
	Affiliation   string
	Bio           string
	Expertise     []string
	Email         *string
	Twitter       *string
	LinkedIn      *string
	ORCID         *string
	ResearchGate  *string
	ArticlesCount int
	Citations     int
	HIndex        int
	Avatar        string
	Banner        string
	Education     []Education
}

// Education is one degree held by an author.
type Education struct {
	ID          string
	AuthorID    string
	Degree      string
	Institution string
	Year        string
}

// Article is a published piece linked to one author and one category.
type Article struct {
	ID          string
	Title       string
	Slug        string
	Description string
	Content     string
	PublishedAt time.Time
	ReadTime    string
	Featured    bool
	Views       int
	Citations   int
	AuthorID    string
	CategoryID  string
	TagIDs      []string
}

// ArticleSummary is an article row joined with its author, category and tags,
// without the content body.
type ArticleSummary struct {
	ID           string
	Title        string
	Slug         string
	Description  string
	PublishedAt  time.Time
	ReadTime     string
	Featured     bool
	Views        int
	Citations    int
	AuthorName   string
	AuthorSlug   string
	CategoryName string
	CategorySlug string
	Tags         []string
}

// Component is a typed content block attached to an article. Data is JSON.
type Component struct {
	ID        string
	ArticleID string
	Type      string
	Data      string
}

// NewAuthor is the input for CreateAuthor. ArticlesCount always starts at zero.
type NewAuthor struct {
	Name         string
	Slug         string
	Title        string
	Affiliation  string
	Bio          string
	Expertise    []string
	Email        *string
	Twitter      *string
	LinkedIn     *string
	ORCID        *string
	ResearchGate *string
	Citations    int
	HIndex       int
	Avatar       string
	Banner       string
	Education    []NewEducation
}

// NewEducation is one education row created alongside its author.
type NewEducation struct {
	Degree      string
	Institution string
	Year        string
}

// NewArticle is the input for CreateArticle.
type NewArticle struct {
	Title       string
	Slug        string
	Description string
	Content     string
	PublishedAt time.Time
	ReadTime    string
	Featured    bool
	Views       int
	Citations   int
	AuthorID    string
	CategoryID  string
	TagIDs      []string
}

// Stats contains per-collection row counts.
type Stats struct {
	Categories int
	Tags       int
	Authors    int
	Education  int
	Articles   int
	ArticleTag int
	Components int
}

// ResetResult holds the number of rows removed per collection.
type ResetResult struct {
	Components int64
	ArticleTag int64
	Articles   int64
	Education  int64
	Authors    int64
	Tags       int64
	Categories int64
}

// Issue describes one consistency violation found by CheckConsistency.
type Issue struct {
	Kind   string
	Entity string
	Detail string
}
