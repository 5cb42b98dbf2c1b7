package chat

import (
	"github.com/killallgit/backscroll/pkg/scrollback"
)

type (
	errMsg error

	// openedMsg follows a successful store load
	openedMsg struct{}

	// historyChangedMsg is sent whenever the store was written to
	historyChangedMsg struct{}

	heightsMeasuredMsg []scrollback.Measurement

	retryMsg struct {
		seq int
	}

	elementFoundMsg scrollback.ElementFound

	backfillDoneMsg struct {
		added int
		err   error
	}

	liveTickMsg struct{}
)
