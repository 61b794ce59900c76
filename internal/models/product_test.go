package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProductRecordRequiresTitleAndPrice(t *testing.T) {
	tests := []struct {
		name        string
		title       string
		price       string
		expectedErr error
	}{
		{name: "both present", title: "Monitor", price: "￥34,800"},
		{name: "missing title", price: "￥34,800", expectedErr: ErrMissingTitle},
		{name: "missing price", title: "Monitor", expectedErr: ErrMissingPrice},
		{name: "both missing", expectedErr: ErrMissingTitle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record, err := NewProductRecord("B0CTESTASN", tt.title, tt.price, "", "https://example.com/dp/B0CTESTASN?tag=t")

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.Nil(t, record)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.title, record.Title)
			assert.Equal(t, tt.price, record.Price)
			assert.False(t, record.FetchedAt.IsZero())
		})
	}
}

func TestHasImage(t *testing.T) {
	withImage, err := NewProductRecord("B0CTESTASN", "Monitor", "￥34,800", "https://img.example/monitor.jpg", "")
	require.NoError(t, err)
	assert.True(t, withImage.HasImage())

	withoutImage, err := NewProductRecord("B0CTESTASN", "Monitor", "￥34,800", "", "")
	require.NoError(t, err)
	assert.False(t, withoutImage.HasImage())
}
