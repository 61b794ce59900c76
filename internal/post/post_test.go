package post

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maltedev/amazon-ranking-post/internal/models"
)

func fixedClock() time.Time {
	return time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)
}

func mustRecord(t *testing.T, title, price, image string) *models.ProductRecord {
	t.Helper()
	record, err := models.NewProductRecord("B0CTESTASN", title, price, image,
		"https://www.amazon.co.jp/dp/B0CTESTASN?tag=mytag-22")
	require.NoError(t, err)
	return record
}

func TestRenderFrontMatter(t *testing.T) {
	r := &Renderer{Clock: fixedClock}

	content, err := r.Render("PCモニター 4K", []*models.ProductRecord{
		mustRecord(t, "Monitor A", "￥34,800", ""),
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(content, "---\n"))
	assert.Contains(t, content, `title: "【2025-01-15更新】PCモニター 4K おすすめ人気ランキングTOP5"`)
	assert.Contains(t, content, "date: 2025-01-15T10:30:00Z")
	assert.Contains(t, content, "draft: false")
	assert.Contains(t, content, `tags: ["Ranking", "Gadget", "PCモニター 4K"]`)
	assert.Contains(t, content, `categories: ["Automated Ranking"]`)
	assert.Contains(t, content, "「PCモニター 4K」のおすすめ人気ランキングTOP5")
}

func TestRenderRanksRecordsInOrder(t *testing.T) {
	r := &Renderer{Clock: fixedClock}

	content, err := r.Render("PCモニター 4K", []*models.ProductRecord{
		mustRecord(t, "Monitor A", "￥10,000", "https://img.example/a.jpg"),
		mustRecord(t, "Monitor B", "￥20,000", "https://img.example/b.jpg"),
		mustRecord(t, "Monitor C", "￥30,000", ""),
	})
	require.NoError(t, err)

	assert.Equal(t, 3, strings.Count(content, "## 第"))
	first := strings.Index(content, "## 第1位：Monitor A")
	second := strings.Index(content, "## 第2位：Monitor B")
	third := strings.Index(content, "## 第3位：Monitor C")
	require.NotEqual(t, -1, first)
	require.NotEqual(t, -1, second)
	require.NotEqual(t, -1, third)
	assert.Less(t, first, second)
	assert.Less(t, second, third)

	assert.Contains(t, content, "![Monitor A](https://img.example/a.jpg)")
	assert.Contains(t, content, "**価格:** ￥20,000")
	assert.Contains(t, content, "[Amazonで詳しく見る](https://www.amazon.co.jp/dp/B0CTESTASN?tag=mytag-22)")
}

func TestRenderOmitsImageLineWhenAbsent(t *testing.T) {
	r := &Renderer{Clock: fixedClock}

	content, err := r.Render("PCモニター 4K", []*models.ProductRecord{
		mustRecord(t, "Imageless", "￥5,000", ""),
	})
	require.NoError(t, err)

	assert.NotContains(t, content, "![Imageless]")
}

func TestFilename(t *testing.T) {
	r := &Renderer{Clock: fixedClock}

	assert.Equal(t, "2025-01-15-pcモニター-4k-ranking.md", r.Filename("PCモニター 4K"))
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"PC Monitor 4K", "pc-monitor-4k"},
		{"  spaced   out  ", "spaced-out"},
		{"single", "single"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, Slugify(tt.in))
	}
}

func TestWriteFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "content", "posts")

	path, err := WriteFile(dir, "2025-01-15-test-ranking.md", "# hello\n")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "2025-01-15-test-ranking.md"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# hello\n", string(data))
}
