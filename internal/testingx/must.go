// Package testingx provides helpers for use with the testing package: error
// shortcuts and an independent source map decoder to check generated maps
// against.
package testingx

import "testing"

// Must provides a concise way to handle a returned error in tests that
// "should never happen"©.
//
// This function can be used in test case setup that can be presumed to be
// correct, but technically may return an error. This function MUST NOT be used
// to check for test case conditions themselves because it provides a generic,
// nondescript test error message.
//
//	mustJoin := testingx.Must[string](t)
//	root := mustJoin(urlutil.Join("http://example.com/", "src"))
func Must[T any](t testing.TB) func(v T, err error) T {
	return func(v T, err error) T {
		t.Helper()
		if err != nil {
			t.Fatalf("Got: unexpected error: %s. Want: no error.", err)
		}
		return v
	}
}
