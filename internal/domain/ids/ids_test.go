package ids

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewULIDIsValid(t *testing.T) {
	id, err := NewULID()

	require.NoError(t, err)
	require.Len(t, id, 26)
	require.True(t, IsULID(id))
}

func TestValidateULID(t *testing.T) {
	require.NoError(t, ValidateULID("01HQZX3Y4K6F7G8H9J0K1M2N3P"))
	require.ErrorIs(t, ValidateULID("not-a-ulid"), ErrInvalidULID)
	require.ErrorIs(t, ValidateULID(""), ErrInvalidULID)
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Team Awesome":        "team-awesome",
		"  Rocket  Surgery  ": "rocket-surgery",
		"C# & Friends!":       "c-friends",
		"already-a-slug":      "already-a-slug",
	}
	for input, want := range cases {
		require.Equal(t, want, Slugify(input), "input %q", input)
	}
}
