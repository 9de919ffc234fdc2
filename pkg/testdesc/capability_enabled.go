//go:build difftests_client

package testdesc

// Capability reports whether this binary was built with the difftests_client
// tag — the client-shim hook surface linked into a test binary to write
// self.json and the raw profile fragments. Spec section 9 ("build-flag
// gating") asks for this to be expressed as a capability flag on the
// descriptor module so the hook is trivially excisable from a release
// build; this file and its capability_disabled.go sibling are that
// excision point.
func Capability() bool { return true }
