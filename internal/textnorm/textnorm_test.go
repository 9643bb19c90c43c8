package textnorm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"blank", "   \t ", ""},
		{"lowercase", "I AM VERY SAD", "i am very sad"},
		{"trailing punctuation run", "I am sad!!!", "i am sad"},
		{"mixed trailing punctuation", "Hello.!,;", "hello"},
		{"space before trailing punctuation", "hello .", "hello"},
		{"mark after trailing punctuation", "x!\u0301", "x"},
		{"inner punctuation kept", "well, i am. fine", "well, i am. fine"},
		{"question mark kept", "why?", "why?"},
		{"collapse whitespace", "  I   am \t happy  ", "i am happy"},
		{"accents", "Je suis fatigué", "je suis fatigue"},
		{"ligature", "Œuvre et cœur", "oeuvre et coeur"},
		{"ae ligature", "Æsop's cæsar", "aesop's caesar"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"Café!",
		"hi. !",
		"  a  .  ",
		"ÉLÈVE, ÇA VA ;",
		"a.́",
		"œuf   brouillé...",
		"You are STUPID!!",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestNormalizeAccentFolding(t *testing.T) {
	assert.Equal(t, Normalize("cafe"), Normalize("Café"))
	assert.True(t, strings.HasPrefix(Normalize("œuf"), "oeuf"))
}

func TestFoldPreservesCase(t *testing.T) {
	assert.Equal(t, "Ecole", Fold("École"))
	assert.Equal(t, "OEUVRE", Fold("ŒUVRE"))
	assert.Equal(t, "plain", Fold("plain"))
}
