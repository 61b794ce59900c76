package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ASSOCIATE_TAG", "mytag-22")

	cfg, err := Load()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "mytag-22", cfg.Affiliate.TrackingTag)
	assert.Equal(t, ProviderScrape, cfg.Fetcher.Provider)
	assert.Equal(t, "https://www.amazon.co.jp", cfg.Fetcher.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Fetcher.Timeout)
	assert.Equal(t, 3, cfg.Fetcher.MaxRetries)
	assert.Equal(t, 2*time.Second, cfg.Fetcher.RetryDelay)
	assert.Equal(t, 5, cfg.Fetcher.MaxItems)
	assert.Equal(t, "PCモニター 4K", cfg.Post.Keywords)
	assert.Equal(t, "content/posts", cfg.Post.ContentDir)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ASSOCIATE_TAG", "mytag-22")
	t.Setenv("FETCH_TIMEOUT", "5s")
	t.Setenv("FETCH_MAX_RETRIES", "5")
	t.Setenv("FETCH_MAX_ITEMS", "3")
	t.Setenv("SEARCH_KEYWORDS", "ゲーミングキーボード")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5*time.Second, cfg.Fetcher.Timeout)
	assert.Equal(t, 5, cfg.Fetcher.MaxRetries)
	assert.Equal(t, 3, cfg.Fetcher.MaxItems)
	assert.Equal(t, "ゲーミングキーボード", cfg.Post.Keywords)
}

func TestValidateRequiresTrackingTag(t *testing.T) {
	t.Setenv("ASSOCIATE_TAG", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.ErrorContains(t, cfg.Validate(), "ASSOCIATE_TAG")
}

func TestValidateProviderSelection(t *testing.T) {
	t.Setenv("ASSOCIATE_TAG", "mytag-22")

	t.Run("unknown provider", func(t *testing.T) {
		t.Setenv("PRODUCT_PROVIDER", "browser")

		cfg, err := Load()
		require.NoError(t, err)
		assert.ErrorContains(t, cfg.Validate(), "unknown provider")
	})

	t.Run("paapi without credentials", func(t *testing.T) {
		t.Setenv("PRODUCT_PROVIDER", ProviderPAAPI)

		cfg, err := Load()
		require.NoError(t, err)
		assert.ErrorContains(t, cfg.Validate(), "PAAPI_ACCESS_KEY")
	})

	t.Run("paapi with credentials", func(t *testing.T) {
		t.Setenv("PRODUCT_PROVIDER", ProviderPAAPI)
		t.Setenv("PAAPI_ACCESS_KEY", "AKTEST")
		t.Setenv("PAAPI_SECRET_KEY", "secret")

		cfg, err := Load()
		require.NoError(t, err)
		assert.NoError(t, cfg.Validate())
	})
}

func TestValidateBounds(t *testing.T) {
	t.Setenv("ASSOCIATE_TAG", "mytag-22")

	t.Run("retries too low", func(t *testing.T) {
		t.Setenv("FETCH_MAX_RETRIES", "0")

		cfg, err := Load()
		require.NoError(t, err)
		assert.ErrorContains(t, cfg.Validate(), "FETCH_MAX_RETRIES")
	})

	t.Run("pause window inverted", func(t *testing.T) {
		t.Setenv("FETCH_PAUSE_MIN", "5s")
		t.Setenv("FETCH_PAUSE_MAX", "1s")

		cfg, err := Load()
		require.NoError(t, err)
		assert.ErrorContains(t, cfg.Validate(), "FETCH_PAUSE_MIN")
	})
}
