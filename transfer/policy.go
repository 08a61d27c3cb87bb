// Package transfer implements what happens to a commit-log segment once the
// reader has finished with it: archived on success, quarantined on error,
// and optionally recycled back into the working directory for another try.
package transfer

// Policy disposes of a fully-processed segment file.
type Policy interface {
	// OnSuccess is called after every mutation in seg has been durably
	// delivered and the offset advanced past it. The reader also calls it
	// after a permissible parse error, in which case the mutations after
	// the error point are not delivered.
	OnSuccess(segPath string) error
	// OnError is called when the segment could not be fully processed and
	// processing has moved on (a non-permissible parse error, for example).
	OnError(segPath string) error
}
