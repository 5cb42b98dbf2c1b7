package status

import "github.com/killallgit/backscroll/pkg/scrollback"

// ScrollStateMsg carries the scroll state shown in the status line
type ScrollStateMsg struct {
	Status  scrollback.Status
	Limit   string
	Loaded  int
	Unread  int
	Pending bool
}

// StartBackfillMsg indicates older history is being fetched
type StartBackfillMsg struct{}

// StopBackfillMsg indicates the fetch finished. Exhausted is set when the
// source had nothing older.
type StopBackfillMsg struct {
	Added     int
	Exhausted bool
}

// ErrorMsg shows an error in the status line. A nil Err clears it.
type ErrorMsg struct {
	Err error
}
