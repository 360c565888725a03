package tags

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShouldIgnore(t *testing.T) {
	tests := []struct {
		tag  string
		want bool
	}{
		{"conditional_dnp", true},
		{"2023", true},
		{"16:9", true},
		{"4:3", true},
		{"character", false},
		{"artist_name", false},
		{"red_background", false},
		{"Conditional_dnp", false},
		{"20234", false},
		{"year_2023", false},
		{"16:9_ratio", false},
	}
	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			assert.Equal(t, tt.want, ShouldIgnore(tt.tag))
		})
	}
}

func TestNormalize(t *testing.T) {
	byPrefix := Normalizer{ArtistPrefix: "by ", ReplaceUnderscores: true}
	tests := []struct {
		name     string
		n        Normalizer
		tag      string
		category string
		want     string
	}{
		{"artist default prefix", byPrefix, "artist1", "artist", "by artist1"},
		{"artist marker stripped", byPrefix, "artist2 (artist)", "artist", "by artist2"},
		{"artist underscores", byPrefix, "artist_with_underscores", "artist", "by artist with underscores"},
		{"artist underscore marker", byPrefix, "someone_(artist)", "artist", "by someone"},
		{"artist custom prefix", Normalizer{ArtistPrefix: "drawn by "}, "artist1", "artist", "drawn by artist1"},
		{"artist suffix only", Normalizer{ArtistSuffix: " (Artist)"}, "artist2 (artist)", "artist", "artist2 (Artist)"},
		{"artist prefix and suffix", Normalizer{ArtistPrefix: "art by ", ArtistSuffix: " (verified)"}, "artist1", "artist", "art by artist1 (verified)"},
		{"artist ignores underscore flag", Normalizer{}, "ulala_ko", "artist", "ulala ko"},
		{"general underscores replaced", byPrefix, "red_background", "general", "red background"},
		{"general underscores kept", Normalizer{ArtistPrefix: "by "}, "red_background", "general", "red_background"},
		{"default category", byPrefix, "blue_eyes", CategoryDefault, "blue eyes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.n.Normalize(tt.tag, tt.category))
		})
	}
}

func TestApply_FilterToggle(t *testing.T) {
	n := Normalizer{ReplaceUnderscores: true}
	raw := []string{"red_background", "2023", "conditional_dnp", "16:9"}

	assert.Equal(t, []string{"red background"}, n.Apply(raw, "general", true))
	assert.Equal(t,
		[]string{"red background", "2023", "conditional dnp", "16:9"},
		n.Apply(raw, "general", false))

	keep := Normalizer{}
	assert.Equal(t,
		[]string{"red_background", "2023", "conditional_dnp", "16:9"},
		keep.Apply(raw, "general", false))
}
