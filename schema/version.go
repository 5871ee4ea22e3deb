package schema

import "golang.org/x/mod/semver"

// compareVersions compares two declared minimum versions ("3.0", "2.9").
// Declared versions are plain MAJOR.MINOR[.PATCH] strings.
func compareVersions(a, b string) int {
	return semver.Compare("v"+a, "v"+b)
}
