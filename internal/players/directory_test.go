package players

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLookup(t *testing.T) {
	d := NewDirectory()

	alice, err := d.Register("  Alice ")
	require.NoError(t, err)
	assert.Equal(t, "Alice", alice.Name)
	assert.NotEmpty(t, alice.ID)
	assert.NotEmpty(t, alice.Avatar)

	anon, err := d.Register("")
	require.NoError(t, err)
	assert.Equal(t, "Player 2", anon.Name)

	got, err := d.Get(alice.ID)
	require.NoError(t, err)
	assert.Equal(t, alice, got)

	_, err = d.Get("nobody")
	assert.ErrorIs(t, err, ErrPlayerNotFound)

	assert.True(t, d.Exists(context.Background(), anon.ID))
	assert.False(t, d.Exists(context.Background(), "nobody"))

	many := d.GetMany([]string{anon.ID, "nobody", alice.ID})
	require.Len(t, many, 2)
	assert.Equal(t, anon.ID, many[0].ID)
	assert.Equal(t, alice.ID, many[1].ID)
}

func TestRegisterTruncatesLongNames(t *testing.T) {
	d := NewDirectory()
	p, err := d.Register("abcdefghijklmnopqrstuvwxyz0123")
	require.NoError(t, err)
	assert.Len(t, []rune(p.Name), maxNameLength)
}
