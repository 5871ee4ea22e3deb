package opts

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/mod/semver"
)

// ErrInvalidVersion indicates the multiplexer reported an unparseable version.
var ErrInvalidVersion = errors.New("opts: invalid tmux version")

// Capability names a version-gated behaviour of the multiplexer.
type Capability string

const (
	// CapPaneScope allows pane options (-p).
	CapPaneScope Capability = "pane-scope"
	// CapShowInherited allows listing inherited values (show-options -A).
	CapShowInherited Capability = "show-inherited"
	// CapShowHooks allows listing hooks with options (show-options -H).
	CapShowHooks Capability = "show-hooks"
	// CapQuietShow allows show-options -q, so a failed lookup can be ignored.
	CapQuietShow Capability = "quiet-show"
	// CapQuietSet allows set-option -q.
	CapQuietSet Capability = "quiet-set"
	// CapUserOptions allows @-prefixed user options.
	CapUserOptions Capability = "user-options"
)

var capabilityTable = map[Capability]string{
	CapPaneScope:     "3.0",
	CapShowInherited: "3.0",
	CapShowHooks:     "3.0",
	CapQuietShow:     "3.0",
	CapQuietSet:      "1.7",
	CapUserOptions:   "2.3",
}

// Capabilities lists every capability with its minimum version.
func Capabilities() map[Capability]string {
	out := make(map[Capability]string, len(capabilityTable))
	for c, minimum := range capabilityTable {
		out[c] = minimum
	}
	return out
}

// Version is a normalized multiplexer version. Development builds compare
// newer than every release.
type Version struct {
	Major int
	Minor int
	Patch int
	Dev   bool
	Raw   string
}

// ParseVersion normalizes version strings as printed by `tmux -V`:
// "tmux 3.3a" is 3.3.1, "next-3.4" is 3.4.0, "master" and "openbsd-*" are
// development builds.
func ParseVersion(raw string) (Version, error) {
	v := Version{Raw: strings.TrimSpace(raw)}
	s := strings.TrimSpace(strings.TrimPrefix(v.Raw, "tmux "))
	switch {
	case s == "master", strings.HasPrefix(s, "openbsd-"):
		v.Dev = true
		return v, nil
	case strings.HasPrefix(s, "next-"):
		s = strings.TrimPrefix(s, "next-")
	}
	if idx := strings.IndexByte(s, '-'); idx > 0 {
		s = s[:idx]
	}
	if s == "" {
		return Version{}, fmt.Errorf("%w: %q", ErrInvalidVersion, raw)
	}

	if last := s[len(s)-1]; last >= 'a' && last <= 'z' {
		v.Patch = int(last-'a') + 1
		s = s[:len(s)-1]
	}
	parts := strings.Split(s, ".")
	if len(parts) < 2 || len(parts) > 3 {
		return Version{}, fmt.Errorf("%w: %q", ErrInvalidVersion, raw)
	}
	nums := make([]int, len(parts))
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return Version{}, fmt.Errorf("%w: %q", ErrInvalidVersion, raw)
		}
		nums[i] = n
	}
	v.Major, v.Minor = nums[0], nums[1]
	if len(nums) == 3 {
		v.Patch = nums[2]
	}
	return v, nil
}

// MustParseVersion is ParseVersion that panics on error.
func MustParseVersion(raw string) Version {
	v, err := ParseVersion(raw)
	if err != nil {
		panic(err)
	}
	return v
}

// Semver returns the version in golang.org/x/mod/semver form.
func (v Version) Semver() string {
	if v.Dev {
		return "v999999.0.0"
	}
	return fmt.Sprintf("v%d.%d.%d", v.Major, v.Minor, v.Patch)
}

func (v Version) String() string {
	if v.Dev {
		return v.Raw
	}
	if v.Patch > 0 {
		return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	}
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// AtLeast reports whether v is minimum or newer. An empty minimum always holds.
func (v Version) AtLeast(minimum string) bool {
	if minimum == "" {
		return true
	}
	want := "v" + minimum
	if !semver.IsValid(want) {
		return false
	}
	return semver.Compare(v.Semver(), want) >= 0
}

// Supports looks c up in the capability table.
func (v Version) Supports(c Capability) bool {
	minimum, ok := capabilityTable[c]
	if !ok {
		return false
	}
	return v.AtLeast(minimum)
}
