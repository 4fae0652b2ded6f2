package handlers

import (
	"testing"

	"serene/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupByCategory(t *testing.T) {
	activities := []models.Activity{
		{Title: "Morning breathing", Category: "breathing"},
		{Title: "Evening journal", Category: "journaling"},
		{Title: "Box breathing", Category: "breathing"},
		{Title: "Walk"},
	}

	grouped := groupByCategory(activities)
	require.Len(t, grouped, 3)

	breathing, ok := grouped["breathing"].([]models.Activity)
	require.True(t, ok)
	require.Len(t, breathing, 2)
	assert.Equal(t, "Morning breathing", breathing[0].Title)
	assert.Equal(t, "Box breathing", breathing[1].Title)

	journaling, ok := grouped["journaling"].([]models.Activity)
	require.True(t, ok)
	assert.Len(t, journaling, 1)

	uncategorized, ok := grouped["uncategorized"].([]models.Activity)
	require.True(t, ok)
	assert.Equal(t, "Walk", uncategorized[0].Title)
}

func TestGroupByCategoryEmpty(t *testing.T) {
	assert.Empty(t, groupByCategory(nil))
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "Ada", capitalize("ada"))
	assert.Equal(t, "Ada", capitalize("  ADA "))
	assert.Equal(t, "", capitalize("   "))
	assert.Equal(t, "X", capitalize("x"))
}
