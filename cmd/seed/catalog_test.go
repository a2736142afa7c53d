package main

import (
	"testing"

	"github.com/raqtkosh/backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c, err := parseCatalog(defaultCatalog)
	require.NoError(t, err)
	assert.NotEmpty(t, c.Centers)
	assert.NotEmpty(t, c.Rewards)
	var types []model.BloodType
	for _, s := range c.Stock {
		types = append(types, s.BloodType)
	}
	assert.Contains(t, types, model.BloodTypeOPositive)
}

func TestParseCatalogRejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"broken yaml", "centers: ["},
		{"free reward", "rewards:\n  - name: Pin\n    pointsCost: 0\n"},
		{"unknown center", "stock:\n  - center: Nowhere\n    bloodType: O_POSITIVE\n    quantity: 1\n"},
		{"bad blood type", "centers:\n  - name: A\nstock:\n  - center: A\n    bloodType: Z\n    quantity: 1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseCatalog([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}
