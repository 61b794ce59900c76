package post

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/maltedev/amazon-ranking-post/internal/models"
)

var postTemplate = template.Must(template.New("post").Funcs(template.FuncMap{
	"rank": func(i int) int { return i + 1 },
}).Parse(`---
title: "【{{.Date}}更新】{{.Keywords}} おすすめ人気ランキングTOP5"
date: {{.Timestamp}}
draft: false
tags: ["Ranking", "Gadget", "{{.Keywords}}"]
categories: ["Automated Ranking"]
---
AIエージェントのクローが、Amazonの最新データから「{{.Keywords}}」のおすすめ人気ランキングTOP5を自動生成しました。日々の価格変動をチェックして、賢い買い物をサポートします！
{{range $i, $r := .Records}}
## 第{{rank $i}}位：{{$r.Title}}
{{if $r.HasImage}}
![{{$r.Title}}]({{$r.ImageURL}})
{{end}}
**価格:** {{$r.Price}}

[Amazonで詳しく見る]({{$r.AffiliateURL}})
***
{{end}}`))

// Renderer formats fetched records into a dated ranking post. Clock is
// swappable so tests get stable dates.
type Renderer struct {
	Clock func() time.Time
}

func NewRenderer() *Renderer {
	return &Renderer{Clock: time.Now}
}

type templateData struct {
	Date      string
	Timestamp string
	Keywords  string
	Records   []*models.ProductRecord
}

// Render produces the full Markdown document: front matter, intro, then one
// ranked section per record in input order.
func (r *Renderer) Render(keywords string, records []*models.ProductRecord) (string, error) {
	now := r.Clock()

	var b strings.Builder
	err := postTemplate.Execute(&b, templateData{
		Date:      now.Format("2006-01-02"),
		Timestamp: now.Format(time.RFC3339),
		Keywords:  keywords,
		Records:   records,
	})
	if err != nil {
		return "", fmt.Errorf("failed to render post: %w", err)
	}

	return b.String(), nil
}

// Filename derives the output name from the current date and a slug of the
// keywords, e.g. "2025-01-15-pc-monitor-4k-ranking.md".
func (r *Renderer) Filename(keywords string) string {
	return fmt.Sprintf("%s-%s-ranking.md", r.Clock().Format("2006-01-02"), Slugify(keywords))
}

// Slugify lowercases the keywords and joins them with hyphens.
func Slugify(keywords string) string {
	return strings.ToLower(strings.Join(strings.Fields(keywords), "-"))
}

// WriteFile writes the rendered post under dir, creating it as needed, and
// returns the full path.
func WriteFile(dir, filename, content string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create content dir: %w", err)
	}

	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("failed to write post: %w", err)
	}

	return path, nil
}
