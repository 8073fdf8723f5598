package media

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/M-U-C-K-A/blog/internal/logger"
)

// Placeholder is the reference used whenever an asset could not be fetched.
const Placeholder = "/placeholder.svg"

// Media holds the asset references for one author.
type Media struct {
	Avatar string
	Banner string
}

// Options configures the avatar service and download behaviour.
type Options struct {
	BaseURL     string
	AvatarStyle string
	BannerStyle string
	Timeout     time.Duration
	Concurrency int
}

// Fetcher downloads generated avatar and banner images. Every failure
// degrades to Placeholder; nothing is retried.
type Fetcher struct {
	opts   Options
	store  Store
	client *http.Client
	log    *logger.Logger
}

// NewFetcher creates a fetcher writing into store.
func NewFetcher(opts Options, store Store, log *logger.Logger) *Fetcher {
	if opts.Timeout == 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	return &Fetcher{
		opts:  opts,
		store: store,
		log:   log,
		client: &http.Client{
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return http.ErrUseLastResponse
				}
				return nil
			},
		},
	}
}

// URL returns the service URL for one asset of the given seed.
func (f *Fetcher) URL(kind Kind, seed string) string {
	style := f.opts.AvatarStyle
	if kind == Banner {
		style = f.opts.BannerStyle
	}
	return fmt.Sprintf("%s/%s/svg?seed=%s", strings.TrimRight(f.opts.BaseURL, "/"), style, url.QueryEscape(seed))
}

// FetchAuthorMedia downloads the avatar and banner for seed concurrently and
// returns their references. It never fails.
func (f *Fetcher) FetchAuthorMedia(ctx context.Context, seed string) Media {
	var m Media
	var g errgroup.Group
	g.Go(func() error {
		m.Avatar = f.fetch(ctx, Avatar, seed)
		return nil
	})
	g.Go(func() error {
		m.Banner = f.fetch(ctx, Banner, seed)
		return nil
	})
	_ = g.Wait()
	return m
}

// FetchAll fetches media for many seeds with bounded concurrency.
func (f *Fetcher) FetchAll(ctx context.Context, seeds []string) map[string]Media {
	results := make([]Media, len(seeds))
	var g errgroup.Group
	g.SetLimit(f.opts.Concurrency)
	for i, seed := range seeds {
		g.Go(func() error {
			results[i] = f.FetchAuthorMedia(ctx, seed)
			return nil
		})
	}
	_ = g.Wait()

	out := make(map[string]Media, len(seeds))
	for i, seed := range seeds {
		out[seed] = results[i]
	}
	return out
}

// Clear removes all previously downloaded assets.
func (f *Fetcher) Clear(ctx context.Context) error {
	return f.store.Clear(ctx)
}

func (f *Fetcher) fetch(ctx context.Context, kind Kind, seed string) string {
	name := seed + ".svg"
	data, err := f.download(ctx, f.URL(kind, seed))
	if err != nil {
		f.log.Warn("media fetch failed, using placeholder", "kind", kind.String(), "seed", seed, "error", err)
		return Placeholder
	}
	if err := f.store.Write(ctx, kind, name, data); err != nil {
		f.log.Warn("media write failed, using placeholder", "kind", kind.String(), "seed", seed, "error", err)
		return Placeholder
	}
	return f.store.Ref(kind, name)
}

func (f *Fetcher) download(ctx context.Context, assetURL string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, f.opts.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, assetURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "blog-seeder/1.0")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &httpError{code: resp.StatusCode}
	}
	return io.ReadAll(resp.Body)
}

type httpError struct {
	code int
}

func (e *httpError) Error() string {
	return fmt.Sprintf("%d %s", e.code, http.StatusText(e.code))
}
