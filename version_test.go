package opts

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseVersion(t *testing.T) {
	cases := []struct {
		raw    string
		semver string
		str    string
		dev    bool
	}{
		{raw: "tmux 3.3a", semver: "v3.3.1", str: "3.3.1"},
		{raw: "tmux 2.9", semver: "v2.9.0", str: "2.9"},
		{raw: "3.0", semver: "v3.0.0", str: "3.0"},
		{raw: "tmux next-3.4", semver: "v3.4.0", str: "3.4"},
		{raw: "tmux 3.1-rc", semver: "v3.1.0", str: "3.1"},
		{raw: "tmux 1.8.2", semver: "v1.8.2", str: "1.8.2"},
		{raw: "tmux master", semver: "v999999.0.0", str: "tmux master", dev: true},
		{raw: "tmux openbsd-7.4", semver: "v999999.0.0", str: "tmux openbsd-7.4", dev: true},
	}
	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			v, err := ParseVersion(tc.raw)
			require.NoError(t, err)
			require.Equal(t, tc.semver, v.Semver())
			require.Equal(t, tc.str, v.String())
			require.Equal(t, tc.dev, v.Dev)
		})
	}
}

func TestParseVersionRejectsGarbage(t *testing.T) {
	for _, raw := range []string{"", "tmux", "tmux 3", "tmux x.y", "tmux 1.2.3.4", "tmux -1.2"} {
		_, err := ParseVersion(raw)
		require.Truef(t, errors.Is(err, ErrInvalidVersion), "%q: got %v", raw, err)
	}
}

func TestVersionCapabilities(t *testing.T) {
	old := MustParseVersion("tmux 2.9")
	modern := MustParseVersion("tmux 3.0")
	dev := MustParseVersion("tmux master")

	for _, c := range []Capability{CapPaneScope, CapShowInherited, CapShowHooks, CapQuietShow} {
		require.Falsef(t, old.Supports(c), "2.9 must not support %s", c)
		require.Truef(t, modern.Supports(c), "3.0 must support %s", c)
		require.Truef(t, dev.Supports(c), "development builds must support %s", c)
	}
	require.True(t, old.Supports(CapQuietSet))
	require.True(t, old.Supports(CapUserOptions))
	require.False(t, MustParseVersion("tmux 2.2").Supports(CapUserOptions))
	require.False(t, modern.Supports(Capability("bogus")))
}

func TestVersionAtLeast(t *testing.T) {
	v := MustParseVersion("tmux 3.3a")
	require.True(t, v.AtLeast(""))
	require.True(t, v.AtLeast("3.3"))
	require.True(t, v.AtLeast("3.3.1"))
	require.False(t, v.AtLeast("3.3.2"))
	require.False(t, v.AtLeast("3.4"))
	require.False(t, v.AtLeast("not-a-version"))
}

func TestCapabilitiesIsACopy(t *testing.T) {
	caps := Capabilities()
	require.Equal(t, "3.0", caps[CapPaneScope])
	caps[CapPaneScope] = "1.0"
	require.Equal(t, "3.0", Capabilities()[CapPaneScope])
}
