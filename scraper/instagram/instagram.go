// Package instagram fetches public Instagram posts with a headless
// browser so captions and image URLs can feed listing generation.
package instagram

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/chromedp"

	"autolist/config"
	"autolist/export"
	"autolist/models"
	"autolist/utils"
)

const platform = "instagram"

// Fetcher retrieves public post pages and extracts their content.
type Fetcher struct {
	cfg     *config.Config
	logger  *utils.Logger
	pool    *utils.WorkerPool
	visited *utils.StringSet
	retry   *utils.RetryConfig
}

// New creates a ready-to-use Fetcher.
func New(cfg *config.Config, logger *utils.Logger) *Fetcher {
	return &Fetcher{
		cfg:     cfg,
		logger:  logger,
		pool:    utils.NewWorkerPool(cfg.MaxConcurrency, cfg.RateLimitMs),
		visited: utils.NewStringSet(),
		retry: &utils.RetryConfig{
			MaxAttempts: cfg.MaxRetries,
			BaseDelay:   2 * time.Second,
			Logger:      logger,
		},
	}
}

// Fetch loads one public post and extracts caption, author and image
// URLs.
func (f *Fetcher) Fetch(ctx context.Context, postURL string) (*models.RawPost, error) {
	if err := validatePostURL(postURL); err != nil {
		return nil, err
	}

	chromeBin := f.cfg.ChromeBin
	if chromeBin == "" {
		chromeBin = export.FindChromeBinary()
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.UserAgent("Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 "+
			"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
	)
	if chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	silentCtx, cancelSilent := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelSilent()

	post := &models.RawPost{URL: postURL, Platform: platform}

	err := f.retry.Do(ctx, "fetch-post", func(ctx context.Context) error {
		tabCtx, cancel := chromedp.NewContext(silentCtx)
		defer cancel()

		tabCtx, cancelTimeout := context.WithTimeout(tabCtx, 60*time.Second)
		defer cancelTimeout()

		type postData struct {
			Caption string   `json:"caption"`
			Author  string   `json:"author"`
			OGDesc  string   `json:"ogDesc"`
			Images  []string `json:"images"`
		}

		var data postData

		err := chromedp.Run(tabCtx,
			chromedp.Navigate(postURL),
			chromedp.Sleep(4*time.Second),

			chromedp.Evaluate(`
				(function() {
					var result = { caption: '', author: '', ogDesc: '', images: [] };

					var meta = function(prop) {
						var el = document.querySelector('meta[property="' + prop + '"]');
						return el ? (el.getAttribute('content') || '') : '';
					};

					result.ogDesc = meta('og:description');

					// Author from og:title ("Name on Instagram: ...") or header link
					var ogTitle = meta('og:title');
					var authorMatch = ogTitle.match(/^(.+?) on Instagram/i);
					if (authorMatch) {
						result.author = authorMatch[1].trim();
					} else {
						var headerLink = document.querySelector('header a[href^="/"]');
						if (headerLink) result.author = headerLink.textContent.trim();
					}

					// Caption: rendered post text beats the og fallback
					var captionEl = document.querySelector('article h1') ||
					                document.querySelector('div[data-testid="post-comment-root"] span') ||
					                document.querySelector('article ul li span[dir="auto"]');
					if (captionEl && captionEl.innerText.trim().length > 0) {
						result.caption = captionEl.innerText.trim();
					}

					// Images: og:image plus any rendered post images
					var og = meta('og:image');
					if (og) result.images.push(og);
					var imgs = document.querySelectorAll('article img[srcset], article img[src*="cdninstagram"]');
					for (var i = 0; i < imgs.length && result.images.length < 6; i++) {
						var src = imgs[i].currentSrc || imgs[i].src;
						if (src && result.images.indexOf(src) === -1) result.images.push(src);
					}

					return result;
				})()
			`, &data),
		)
		if err != nil {
			return fmt.Errorf("chromedp post extract: %w", err)
		}

		caption := data.Caption
		if caption == "" {
			caption = captionFromOGDescription(data.OGDesc)
		}
		if caption == "" {
			return fmt.Errorf("no caption found on %s (private or removed post?)", postURL)
		}

		post.Caption = caption
		post.Author = data.Author
		post.ImageURLs = data.Images
		post.FetchedAt = time.Now()
		return nil
	})
	if err != nil {
		return nil, err
	}

	f.logger.Info("[instagram] Fetched post by %q: caption %d chars, %d image(s)",
		post.Author, len(post.Caption), len(post.ImageURLs))
	return post, nil
}

// FetchResult pairs one URL of a batch with its outcome.
type FetchResult struct {
	URL  string
	Post *models.RawPost
	Err  error
}

// FetchMany fetches a set of post URLs through the worker pool,
// skipping duplicates. Results keep the order of the input URLs.
func (f *Fetcher) FetchMany(ctx context.Context, urls []string) []FetchResult {
	results := make([]FetchResult, len(urls))
	var mu sync.Mutex

	for i, u := range urls {
		i, u := i, u
		if !f.visited.Add(u) {
			results[i] = FetchResult{URL: u, Err: fmt.Errorf("duplicate post URL %s", u)}
			f.logger.Debug("[instagram] Skipping duplicate: %s", u)
			continue
		}

		f.pool.Submit(func() {
			post, err := f.Fetch(ctx, u)
			mu.Lock()
			results[i] = FetchResult{URL: u, Post: post, Err: err}
			mu.Unlock()
		})
	}
	f.pool.Wait()
	return results
}

// validatePostURL accepts only public instagram post/reel URLs.
func validatePostURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid post URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid post URL scheme %q", u.Scheme)
	}
	host := strings.TrimPrefix(u.Hostname(), "www.")
	if host != "instagram.com" {
		return fmt.Errorf("not an instagram URL: %s", raw)
	}
	if !strings.HasPrefix(u.Path, "/p/") && !strings.HasPrefix(u.Path, "/reel/") {
		return fmt.Errorf("not a post or reel URL: %s", raw)
	}
	return nil
}

// captionFromOGDescription recovers the caption from the og:description
// fallback, which looks like:
//
//	`12 likes, 3 comments - author on June 1, 2026: "the caption"`
func captionFromOGDescription(desc string) string {
	desc = strings.TrimSpace(desc)
	if desc == "" {
		return ""
	}
	if _, after, ok := strings.Cut(desc, `: "`); ok {
		return strings.TrimSuffix(after, `"`)
	}
	return desc
}
