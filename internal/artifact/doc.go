// Package artifact enumerates the release artifacts in a working directory.
//
// Every enumeration works on an fs.FS so callers can inject a virtual directory
// listing (testing/fstest.MapFS) instead of a real checkout. Results are
// returned in lexical path order.
package artifact
