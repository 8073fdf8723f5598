package server

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/M-U-C-K-A/blog/internal/database"
	"github.com/M-U-C-K-A/blog/internal/logger"
)

//go:embed templates/*.html
var templateFS embed.FS

// relatedLimit caps the related-articles list on article detail.
const relatedLimit = 2

// Server exposes the seeded content as a read-only JSON API plus an HTML
// preview of each article.
type Server struct {
	db     *database.DB
	log    *logger.Logger
	router *mux.Router
	page   *template.Template
}

// New creates a new Server.
func New(db *database.DB, log *logger.Logger) (*Server, error) {
	funcMap := template.FuncMap{
		"safeHTML": func(s string) template.HTML { return template.HTML(s) },
		"date":     func(t time.Time) string { return t.Format("2 Jan 2006") },
	}
	page, err := template.New("article.html").Funcs(funcMap).ParseFS(templateFS, "templates/article.html")
	if err != nil {
		return nil, fmt.Errorf("parsing article template: %w", err)
	}

	s := &Server{db: db, log: log, router: mux.NewRouter(), page: page}
	s.routes()
	return s, nil
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() {
	api := s.router.PathPrefix("/api").Methods(http.MethodGet).Subrouter()
	api.HandleFunc("/articles", s.handleArticles)
	api.HandleFunc("/articles/{slug}", s.handleArticle)
	api.HandleFunc("/authors", s.handleAuthors)
	api.HandleFunc("/authors/{slug}", s.handleAuthor)
	api.HandleFunc("/categories", s.handleCategories)
	api.HandleFunc("/tags", s.handleTags)
	api.HandleFunc("/status", s.handleStatus)

	s.router.HandleFunc("/articles/{slug}", s.handlePreview).Methods(http.MethodGet)
	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, http.StatusNotFound, "not found")
	})
}

func (s *Server) handleArticles(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := database.ArticleFilter{
		FeaturedOnly: q.Get("featured") == "true",
		CategorySlug: q.Get("category"),
		AuthorSlug:   q.Get("author"),
	}
	if l := q.Get("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n < 0 {
			s.writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		f.Limit = n
	}

	list, err := s.db.ListArticles(r.Context(), f)
	if err != nil {
		s.internalError(w, "listing articles", err)
		return
	}
	s.writeJSON(w, summaryViews(list))
}

func (s *Server) handleArticle(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]
	detail, err := s.articleDetail(r, slug)
	if errors.Is(err, database.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, "article not found")
		return
	}
	if err != nil {
		s.internalError(w, "loading article", err)
		return
	}
	s.writeJSON(w, detail)
}

func (s *Server) articleDetail(r *http.Request, slug string) (*articleDetailView, error) {
	ctx := r.Context()
	article, err := s.db.GetArticleBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	sums, err := s.db.ListArticles(ctx, database.ArticleFilter{Slug: slug})
	if err != nil {
		return nil, err
	}
	if len(sums) == 0 {
		return nil, database.ErrNotFound
	}
	components, err := s.db.GetComponentsForArticle(ctx, article.ID)
	if err != nil {
		return nil, err
	}
	related, err := s.db.GetRelatedArticles(ctx, slug, relatedLimit)
	if err != nil {
		return nil, err
	}
	prev, next, err := s.db.GetAdjacentArticles(ctx, slug)
	if err != nil {
		return nil, err
	}

	d := &articleDetailView{
		summaryView: newSummaryView(sums[0]),
		Content:     article.Content,
		Components:  componentViews(components),
		Related:     summaryViews(related),
	}
	if prev != nil {
		v := newSummaryView(*prev)
		d.Previous = &v
	}
	if next != nil {
		v := newSummaryView(*next)
		d.Next = &v
	}
	return d, nil
}

func (s *Server) handleAuthors(w http.ResponseWriter, r *http.Request) {
	authors, err := s.db.GetAllAuthors(r.Context())
	if err != nil {
		s.internalError(w, "listing authors", err)
		return
	}
	views := make([]authorView, 0, len(authors))
	for _, a := range authors {
		views = append(views, newAuthorView(a))
	}
	s.writeJSON(w, views)
}

func (s *Server) handleAuthor(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]
	author, err := s.db.GetAuthorBySlug(r.Context(), slug)
	if errors.Is(err, database.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, "author not found")
		return
	}
	if err != nil {
		s.internalError(w, "loading author", err)
		return
	}
	articles, err := s.db.ListArticles(r.Context(), database.ArticleFilter{AuthorSlug: slug})
	if err != nil {
		s.internalError(w, "listing author articles", err)
		return
	}
	s.writeJSON(w, authorDetailView{
		authorView: newAuthorView(*author),
		Articles:   summaryViews(articles),
	})
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.db.GetCategoriesWithCounts(r.Context())
	if err != nil {
		s.internalError(w, "listing categories", err)
		return
	}
	views := make([]categoryView, 0, len(cats))
	for _, c := range cats {
		views = append(views, categoryView{ID: c.ID, Name: c.Name, Slug: c.Slug, Count: c.Count})
	}
	s.writeJSON(w, views)
}

func (s *Server) handleTags(w http.ResponseWriter, r *http.Request) {
	tags, err := s.db.GetAllTags(r.Context())
	if err != nil {
		s.internalError(w, "listing tags", err)
		return
	}
	views := make([]tagView, 0, len(tags))
	for _, t := range tags {
		views = append(views, tagView{ID: t.ID, Name: t.Name})
	}
	s.writeJSON(w, views)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	stats, err := s.db.GetStats(r.Context())
	if err != nil {
		s.internalError(w, "counting rows", err)
		return
	}
	issues, err := s.db.CheckConsistency(r.Context())
	if err != nil {
		s.internalError(w, "checking consistency", err)
		return
	}
	s.writeJSON(w, newStatusView(stats, issues))
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	detail, err := s.articleDetail(r, mux.Vars(r)["slug"])
	if errors.Is(err, database.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		s.log.Error("loading article preview", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.page.Execute(w, detail); err != nil {
		s.log.Error("rendering article preview", "slug", detail.Slug, "error", err)
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("encoding response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func (s *Server) internalError(w http.ResponseWriter, what string, err error) {
	s.log.Error(what, "error", err)
	s.writeError(w, http.StatusInternalServerError, "internal server error")
}

// Serve starts the HTTP server on localhost at the given port.
func Serve(db *database.DB, port int, log *logger.Logger) error {
	srv, err := New(db, log)
	if err != nil {
		return err
	}

	addr := fmt.Sprintf("127.0.0.1:%d", port)
	log.Info("server listening", "addr", "http://"+addr)
	return http.ListenAndServe(addr, srv.Handler())
}
