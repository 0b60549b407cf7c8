package entities_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/questforge/progression-api/internal/entities"
)

func TestRarityOrdering(t *testing.T) {
	assert.True(t, entities.RarityCommon < entities.RarityUncommon)
	assert.True(t, entities.RarityEpic < entities.RarityLegendary)
}

func TestRarityNext(t *testing.T) {
	assert.Equal(t, entities.RarityUncommon, entities.RarityCommon.Next())
	assert.Equal(t, entities.RarityLegendary, entities.RarityEpic.Next())
	assert.Equal(t, entities.RarityLegendary, entities.RarityLegendary.Next())
}

func TestParseRarity(t *testing.T) {
	r, err := entities.ParseRarity("epic")
	require.NoError(t, err)
	assert.Equal(t, entities.RarityEpic, r)

	_, err = entities.ParseRarity("mythical")
	assert.Error(t, err)
}

func TestRarityYAMLRoundTrip(t *testing.T) {
	var r entities.Rarity
	require.NoError(t, yaml.Unmarshal([]byte("legendary"), &r))
	assert.Equal(t, entities.RarityLegendary, r)

	out, err := yaml.Marshal(entities.RarityRare)
	require.NoError(t, err)
	assert.Equal(t, "rare\n", string(out))
}

func TestEffectivePrimaryBonus(t *testing.T) {
	item := &entities.EquipmentItem{PrimaryBonus: 8, EnhancementLevel: 4}
	assert.Equal(t, 12, item.EffectivePrimaryBonus())

	item.EnhancementLevel = 25 // over the forge cap
	assert.Equal(t, 8+entities.MaxEnhancementLevel, item.EffectivePrimaryBonus())
}
