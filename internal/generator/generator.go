package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/maltedev/amazon-ranking-post/internal/models"
	"github.com/maltedev/amazon-ranking-post/internal/post"
	"github.com/maltedev/amazon-ranking-post/internal/provider"
	"github.com/maltedev/amazon-ranking-post/internal/queue"
	"github.com/maltedev/amazon-ranking-post/internal/ratelimit"
)

// ErrNoRecords is the only hard failure of a run: every URL in the batch
// failed. Partial success still produces a post.
var ErrNoRecords = errors.New("no product records could be fetched")

type Options struct {
	Keywords   string
	ContentDir string
	MaxItems   int
}

// Generator drives one run: read the URL list, fetch each product strictly
// in sequence through the rate limiter, then render and write the post.
type Generator struct {
	provider provider.ProductProvider
	limiter  ratelimit.RateLimiter
	renderer *post.Renderer
	logger   *slog.Logger
	opts     Options
}

func New(p provider.ProductProvider, limiter ratelimit.RateLimiter, opts Options) *Generator {
	if opts.MaxItems == 0 {
		opts.MaxItems = 5
	}
	return &Generator{
		provider: p,
		limiter:  limiter,
		renderer: post.NewRenderer(),
		logger:   slog.Default().With("component", "generator"),
		opts:     opts,
	}
}

// Run generates one post from the URL list file and returns the path of the
// written document.
func (g *Generator) Run(ctx context.Context, urlFile string) (string, error) {
	urls, err := LoadURLs(urlFile, g.opts.MaxItems)
	if err != nil {
		return "", err
	}
	if len(urls) == 0 {
		return "", fmt.Errorf("no URLs found in %s", urlFile)
	}

	records, err := g.FetchAll(ctx, urls)
	if err != nil {
		return "", err
	}

	return g.WritePost(records)
}

// FetchAll fetches the given URLs one at a time, in order, pausing between
// requests. Failed URLs are logged and skipped; success order follows input
// order. A batch with zero successes returns ErrNoRecords.
func (g *Generator) FetchAll(ctx context.Context, urls []string) ([]*models.ProductRecord, error) {
	tasks := queue.NewInMemoryQueue()
	for i, url := range urls {
		if err := tasks.Push(queue.NewTask(url, i)); err != nil {
			return nil, err
		}
	}
	tasks.Close()

	var records []*models.ProductRecord
	for {
		task, err := tasks.Pop(ctx)
		if err != nil {
			if errors.Is(err, queue.ErrQueueClosed) || errors.Is(err, queue.ErrQueueEmpty) {
				break
			}
			return nil, err
		}

		if err := g.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		record, err := g.provider.Fetch(ctx, task.URL)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			g.logger.Warn("skipping URL", "url", task.URL, "position", task.Position, "error", err)
			continue
		}

		g.logger.Info("fetched product", "asin", record.ASIN, "title", record.Title)
		records = append(records, record)
	}

	if len(records) == 0 {
		return nil, ErrNoRecords
	}

	return records, nil
}

// WritePost renders the records and writes the dated Markdown file.
func (g *Generator) WritePost(records []*models.ProductRecord) (string, error) {
	content, err := g.renderer.Render(g.opts.Keywords, records)
	if err != nil {
		return "", err
	}

	path, err := post.WriteFile(g.opts.ContentDir, g.renderer.Filename(g.opts.Keywords), content)
	if err != nil {
		return "", err
	}

	g.logger.Info("generated post", "path", path, "records", len(records))
	return path, nil
}

// LoadURLs reads one URL per line, skipping blanks and # comments, bounded
// to the first max entries.
func LoadURLs(path string, max int) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read URL list: %w", err)
	}

	var urls []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
		if len(urls) >= max {
			break
		}
	}

	return urls, nil
}
