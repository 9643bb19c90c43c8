package reflection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReflect(t *testing.T) {
	table := NewTable(map[string]string{"i": "you", "am": "are", "me": "you", "you": "I"})

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"swap", "I am", "you are"},
		{"unknown word keeps casing", "I am Bob", "you are Bob"},
		{"table casing wins", "you to help me", "I to help you"},
		{"extra spaces collapse", "i   am\ttired", "you are tired"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, table.Reflect(tt.in))
		})
	}
}

func TestNewTableFoldsKeys(t *testing.T) {
	table := NewTable(map[string]string{"été": "summer", "Moi": "toi"})

	v, ok := table.Lookup("ete")
	require.True(t, ok)
	assert.Equal(t, "summer", v)

	v, ok = table.Lookup("MOI")
	require.True(t, ok)
	assert.Equal(t, "toi", v)
}

func TestParse(t *testing.T) {
	table, err := Parse([]byte("reflections:\n  i: you\n  my: your\n  \"j'ai\": \"vous avez\"\n"))
	require.NoError(t, err)
	assert.Equal(t, 3, table.Len())
	assert.Equal(t, "your dog", table.Reflect("my dog"))
	assert.Equal(t, "vous avez faim", table.Reflect("j'ai faim"))
}

func TestParseErrors(t *testing.T) {
	_, err := Parse([]byte("reflections: [unterminated"))
	assert.Error(t, err)

	_, err = Parse([]byte("other: {}\n"))
	assert.Error(t, err)
}
