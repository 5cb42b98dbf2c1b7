package scrollback

import (
	"time"

	"github.com/killallgit/backscroll/pkg/history"
)

// Event is an input to View.Update
type Event interface{ isEvent() }

// Opened asks the view to load its first window
type Opened struct{}

// Scrolled reports the viewport after the user scrolled
type Scrolled struct{ Viewport Viewport }

// Resized reports new content dimensions
type Resized struct{ Width, Height float64 }

// Measurement is the rendered height of one message
type Measurement struct {
	Hash   history.Hash
	Height float64
}

// HeightsMeasured delivers the answer to a MeasureHeights command
type HeightsMeasured struct{ Heights []Measurement }

// Element is the position of a rendered message, from the top of the content
type Element struct {
	Hash   history.Hash
	Top    float64
	Height float64
}

// Repainted is sent after every layout with the rendered message positions
type Repainted struct {
	Elements []Element
	Viewport Viewport
}

// HistoryLoaded says the store holds new data for the conversation
type HistoryLoaded struct{}

// ScrollToMessage navigates to a message by hash
type ScrollToMessage struct{ Hash history.Hash }

// ScrollToBacklog navigates to the read-marker divider
type ScrollToBacklog struct{}

// ScrollToBottom returns to the live tail
type ScrollToBottom struct{}

// RetryElapsed fires when a StartTimer command completes
type RetryElapsed struct{ Seq int }

// Bounds is the rendered position of a navigation target, from the top of the content
type Bounds struct{ Top, Height float64 }

// ElementFound delivers the answer to a FindElement command
type ElementFound struct {
	Target Target
	Seq    int
	Bounds Bounds
	Found  bool
}

func (Opened) isEvent()          {}
func (Scrolled) isEvent()        {}
func (Resized) isEvent()         {}
func (HeightsMeasured) isEvent() {}
func (Repainted) isEvent()       {}
func (HistoryLoaded) isEvent()   {}
func (ScrollToMessage) isEvent() {}
func (ScrollToBacklog) isEvent() {}
func (ScrollToBottom) isEvent()  {}
func (RetryElapsed) isEvent()    {}
func (ElementFound) isEvent()    {}

// Target is something navigation scrolls to: a message, or the divider
// rendered just above the message with Hash.
type Target struct {
	Hash    history.Hash
	Divider bool
}

// Command is an instruction for the host
type Command interface{ isCommand() }

// ScrollTo sets the scroll offset measured from Edge
type ScrollTo struct {
	Offset float64
	Edge   Edge
}

// ScrollBy moves the scroll offset by Delta in the current edge's coordinates
type ScrollBy struct{ Delta float64 }

// MeasureHeights asks for the rendered height of the listed messages
type MeasureHeights struct{ Hashes []history.Hash }

// FindElement asks for the rendered bounds of a target
type FindElement struct {
	Target Target
	Seq    int
}

// StartTimer asks for a RetryElapsed with the same Seq after the delay
type StartTimer struct {
	Seq   int
	After time.Duration
}

func (ScrollTo) isCommand()       {}
func (ScrollBy) isCommand()       {}
func (MeasureHeights) isCommand() {}
func (FindElement) isCommand()    {}
func (StartTimer) isCommand()     {}

// AppEvent is a notification for the rest of the application
type AppEvent interface{ isAppEvent() }

// RequestOlderHistory asks for history older than anything stored
type RequestOlderHistory struct{ Key history.Key }

// MarkAsRead moves the conversation's read marker
type MarkAsRead struct {
	Key   history.Key
	Until time.Time
}

func (RequestOlderHistory) isAppEvent() {}
func (MarkAsRead) isAppEvent()          {}
