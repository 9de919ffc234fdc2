//go:build !difftests_client

package testdesc

// Capability reports false in a release build: no hooks were compiled in to
// write self.json or raw profiles from inside a test binary. See
// capability_enabled.go.
func Capability() bool { return false }
