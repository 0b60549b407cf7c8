package entities

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Rarity is the ordered drop-quality tier. The total order matters:
// pity minimums, soft-cap downgrades, and card upgrades all compare
// and step rarities.
type Rarity int

// Rarity tiers from lowest to highest
const (
	RarityCommon Rarity = iota
	RarityUncommon
	RarityRare
	RarityEpic
	RarityLegendary
)

var rarityNames = map[Rarity]string{
	RarityCommon:    "common",
	RarityUncommon:  "uncommon",
	RarityRare:      "rare",
	RarityEpic:      "epic",
	RarityLegendary: "legendary",
}

// String returns the lowercase rarity name
func (r Rarity) String() string {
	if name, ok := rarityNames[r]; ok {
		return name
	}
	return fmt.Sprintf("rarity(%d)", int(r))
}

// Valid reports whether r is a known rarity tier
func (r Rarity) Valid() bool {
	return r >= RarityCommon && r <= RarityLegendary
}

// Next returns the next rarity tier, capped at Legendary
func (r Rarity) Next() Rarity {
	if r >= RarityLegendary {
		return RarityLegendary
	}
	return r + 1
}

// ParseRarity converts a rarity name to its enum value
func ParseRarity(s string) (Rarity, error) {
	for r, name := range rarityNames {
		if name == s {
			return r, nil
		}
	}
	return RarityCommon, fmt.Errorf("unknown rarity %q", s)
}

// UnmarshalYAML decodes a rarity name from content files
func (r *Rarity) UnmarshalYAML(value *yaml.Node) error {
	var name string
	if err := value.Decode(&name); err != nil {
		return err
	}

	parsed, err := ParseRarity(name)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// MarshalYAML encodes the rarity as its name
func (r Rarity) MarshalYAML() (interface{}, error) {
	return r.String(), nil
}
