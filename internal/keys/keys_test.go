package keys

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalNamesRoundTrip(t *testing.T) {
	for _, k := range All() {
		got, err := Parse(k.String())
		require.NoError(t, err, "key %d", k)
		assert.Equal(t, k, got)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		want Key
	}{
		{"a", A},
		{"A", A},
		{"  Semicolon ", Semicolon},
		{"LShift", LShift},
		{"Key1", Num1},
		{"esc", Escape},
		{"Return", Enter},
		{" ", Space},
		{";", Semicolon},
		{"KP7", KP7},
		{"F12", F12},
		{"ctrl", LControl},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseUnknown(t *testing.T) {
	for _, name := range []string{"", "none", "hyper", "f13", "ctrl+a"} {
		k, err := Parse(name)
		assert.ErrorIs(t, err, ErrUnknownKey, "name %q", name)
		assert.Equal(t, None, k)
	}
}

func TestValid(t *testing.T) {
	assert.False(t, None.Valid())
	assert.True(t, A.Valid())
	assert.True(t, KPEnter.Valid())
	assert.False(t, keyCount.Valid())
	assert.Equal(t, "key(9999)", Key(9999).String())
}

func TestNamesIncludeAliases(t *testing.T) {
	names := Names()
	assert.Contains(t, names, "esc")
	assert.Contains(t, names, "escape")
	assert.NotContains(t, names, "none")
}
