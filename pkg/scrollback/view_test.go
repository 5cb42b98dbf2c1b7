package scrollback_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/killallgit/backscroll/pkg/history"
	"github.com/killallgit/backscroll/pkg/scrollback"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestScrollback(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Scrollback Suite")
}

var base = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

const (
	rowHeight  = 20.0
	pageHeight = 500.0
)

func generate(n, offset int) []*history.Message {
	out := make([]*history.Message, n)
	for i := range out {
		at := base.Add(time.Duration(offset+i) * time.Minute)
		out[i] = history.NewMessage(at, "alice", fmt.Sprintf("message %d", offset+i), history.KindPrivmsg)
	}
	return out
}

func testConfig(windowSize int) scrollback.Config {
	return scrollback.Config{
		WindowSize:       windowSize,
		RowHeight:        rowHeight,
		BufferPages:      3,
		MinGrowth:        10,
		RetryDelay:       50 * time.Millisecond,
		MarkReadOnBottom: true,
		InfiniteScroll:   true,
		BackfillPage:     100,
	}
}

// content returns the viewport of the current window with every message one row tall
func content(v *scrollback.View, offset float64, edge scrollback.Edge) scrollback.Viewport {
	return scrollback.Viewport{
		Offset:        offset,
		Edge:          edge,
		ContentHeight: float64(v.Window().Len()) * rowHeight,
		PageHeight:    pageHeight,
	}
}

// elements lays the window out top to bottom with the given heights
func elements(w *history.Window, heights map[history.Hash]float64) []scrollback.Element {
	var out []scrollback.Element
	top := 0.0
	for _, m := range w.Messages() {
		h := rowHeight
		if v, ok := heights[m.Hash]; ok {
			h = v
		}
		out = append(out, scrollback.Element{Hash: m.Hash, Top: top, Height: h})
		top += h
	}
	return out
}

func commandsOf[T scrollback.Command](cmds []scrollback.Command) []T {
	var out []T
	for _, c := range cmds {
		if t, ok := c.(T); ok {
			out = append(out, t)
		}
	}
	return out
}

var _ = Describe("View", func() {
	var (
		ctx   context.Context
		store *history.MemoryStore
		key   history.Key
		msgs  []*history.Message
		view  *scrollback.View
	)

	open := func(n, windowSize int) {
		msgs = generate(n, 0)
		Expect(store.Load(ctx, key)).To(Succeed())
		Expect(store.Append(ctx, key, msgs...)).To(Succeed())
		view = scrollback.NewView(key, store, testConfig(windowSize))
		view.Update(ctx, scrollback.Resized{Width: 80, Height: pageHeight})
		view.Update(ctx, scrollback.Opened{})
	}

	// unlock scrolls halfway up from the bottom, well away from both edges
	unlock := func() {
		half := content(view, float64(view.Window().Len())*rowHeight/2, scrollback.EdgeEnd)
		view.Update(ctx, scrollback.Scrolled{Viewport: half})
		Expect(view.Status()).To(Equal(scrollback.StatusUnlocked))
	}

	BeforeEach(func() {
		ctx = context.Background()
		store = history.NewMemoryStore()
		key = history.Key{Server: "libera", Target: "#go-nuts", Kind: history.KeyKindChannel}
	})

	Describe("opening", func() {
		It("starts at the bottom with the configured window", func() {
			open(1000, 200)

			Expect(view.Status()).To(Equal(scrollback.StatusBottom))
			Expect(view.Limit()).To(Equal(history.Bottom(200)))
			Expect(view.Window().Len()).To(Equal(200))
			Expect(view.Window().Newest().Hash).To(Equal(msgs[999].Hash))
		})

		It("stays empty until the history is loaded", func() {
			view = scrollback.NewView(key, store, testConfig(200))
			cmds, app := view.Update(ctx, scrollback.Opened{})

			Expect(cmds).To(BeEmpty())
			Expect(app).To(BeNil())
			Expect(view.Window()).To(BeNil())
			Expect(view.Layout()).To(Equal(scrollback.Layout{}))
		})

		It("ignores scrolling before the history is loaded", func() {
			view = scrollback.NewView(key, store, testConfig(200))
			cmds, app := view.Update(ctx, scrollback.Scrolled{Viewport: scrollback.Viewport{Offset: 40, PageHeight: pageHeight}})

			Expect(cmds).To(BeEmpty())
			Expect(app).To(BeNil())
			Expect(view.Status()).To(Equal(scrollback.StatusBottom))
		})
	})

	Describe("scrolling", func() {
		It("unlocks and grows when scrolling one page up from the bottom", func() {
			open(1000, 50) // 50 rows of 20 is one page taller than the viewport
			before := view.Limit()

			cmds, app := view.Update(ctx, scrollback.Scrolled{Viewport: content(view, pageHeight, scrollback.EdgeEnd)})

			Expect(app).To(BeNil())
			Expect(view.Status()).To(Equal(scrollback.StatusUnlocked))
			Expect(view.Limit().Count).To(Equal(before.Count + 25))
			Expect(view.Window().Len()).To(Equal(75))

			scrolls := commandsOf[scrollback.ScrollTo](cmds)
			Expect(scrolls).To(HaveLen(1))
			Expect(scrolls[0]).To(Equal(scrollback.ScrollTo{Offset: 0, Edge: scrollback.EdgeStart}))
		})

		It("pins the oldest message once the grown window is known", func() {
			open(1000, 50)
			view.Update(ctx, scrollback.Scrolled{Viewport: content(view, pageHeight, scrollback.EdgeEnd)})
			oldest := view.Window().Oldest()

			view.Update(ctx, scrollback.Repainted{Elements: elements(view.Window(), nil), Viewport: content(view, 0, scrollback.EdgeStart)})

			Expect(view.Limit()).To(Equal(history.Since(oldest.ServerTime)))
			Expect(view.Window().Len()).To(Equal(75))
		})

		It("re-expresses the offset from the top when leaving the tail", func() {
			open(1000, 200)

			cmds, _ := view.Update(ctx, scrollback.Scrolled{Viewport: content(view, 1000, scrollback.EdgeEnd)})

			Expect(view.Status()).To(Equal(scrollback.StatusUnlocked))
			Expect(view.Limit()).To(Equal(history.Since(msgs[800].ServerTime)))
			Expect(cmds).To(ContainElement(scrollback.ScrollTo{Offset: 200*rowHeight - pageHeight - 1000, Edge: scrollback.EdgeStart}))
		})

		It("marks as read exactly once when returning to the bottom", func() {
			open(1000, 200)
			unlock()

			// 3500 from the top is the last page of 200 rows
			cmds, app := view.Update(ctx, scrollback.Scrolled{Viewport: content(view, 3500, scrollback.EdgeStart)})

			Expect(view.Status()).To(Equal(scrollback.StatusBottom))
			Expect(view.Limit()).To(Equal(history.Bottom(200)))
			Expect(app).To(Equal(scrollback.MarkAsRead{Key: key, Until: msgs[999].ServerTime}))
			Expect(cmds).To(ContainElement(scrollback.ScrollTo{Offset: 0, Edge: scrollback.EdgeEnd}))

			for i := 0; i < 3; i++ {
				_, app = view.Update(ctx, scrollback.Scrolled{Viewport: content(view, 0, scrollback.EdgeEnd)})
				Expect(app).To(BeNil())
			}
		})

		It("does not mark as read when disabled", func() {
			cfg := testConfig(200)
			cfg.MarkReadOnBottom = false
			msgs = generate(1000, 0)
			Expect(store.Load(ctx, key)).To(Succeed())
			Expect(store.Append(ctx, key, msgs...)).To(Succeed())
			view = scrollback.NewView(key, store, cfg)
			view.Update(ctx, scrollback.Opened{})
			unlock()

			_, app := view.Update(ctx, scrollback.Scrolled{Viewport: content(view, 0, scrollback.EdgeEnd)})

			Expect(view.Status()).To(Equal(scrollback.StatusBottom))
			Expect(app).To(BeNil())
		})

		It("never moves the Since instant backwards away from the edges", func() {
			open(1000, 200)
			unlock()

			last := view.Limit().Since
			for i, offset := range []float64{1000, 1500, 1200, 2000, 1100} {
				if i == 2 {
					Expect(store.Append(ctx, key, generate(5, 1000)...)).To(Succeed())
					view.Update(ctx, scrollback.HistoryLoaded{})
				}
				view.Update(ctx, scrollback.Scrolled{Viewport: content(view, offset, scrollback.EdgeStart)})

				Expect(view.Status()).To(Equal(scrollback.StatusUnlocked))
				Expect(view.Limit().Is(history.LimitSince)).To(BeTrue())
				Expect(view.Limit().Since.Before(last)).To(BeFalse())
				last = view.Limit().Since
			}
			Expect(view.Window().Newest().Hash).To(Equal(history.HashOf(base.Add(1004*time.Minute), "alice", "message 1004")))
		})

		It("keeps the view at the bottom while growing a short window", func() {
			open(1000, 20) // 20 rows do not fill the page

			cmds, app := view.Update(ctx, scrollback.Scrolled{Viewport: content(view, 0, scrollback.EdgeEnd)})

			Expect(app).To(BeNil())
			Expect(commandsOf[scrollback.ScrollTo](cmds)).To(BeEmpty())
			Expect(view.Status()).To(Equal(scrollback.StatusBottom))
			Expect(view.Limit()).To(Equal(history.Bottom(45)))
		})
	})

	Describe("older history", func() {
		It("requests a backfill once at the historical edge", func() {
			open(30, 200)
			Expect(view.Window().HasMoreOlder).To(BeFalse())

			_, app := view.Update(ctx, scrollback.Scrolled{Viewport: content(view, 100, scrollback.EdgeEnd)})

			Expect(app).To(Equal(scrollback.RequestOlderHistory{Key: key}))
			Expect(view.Status()).To(Equal(scrollback.StatusUnlocked))
			Expect(view.Limit()).To(Equal(history.Top(130)))
			Expect(view.Backfilling()).To(BeTrue())

			for i := 0; i < 3; i++ {
				_, app = view.Update(ctx, scrollback.Scrolled{Viewport: content(view, 0, scrollback.EdgeStart)})
				Expect(app).To(BeNil())
			}

			Expect(store.Prepend(ctx, key, generate(20, -20)...)).To(Succeed())
			view.Update(ctx, scrollback.HistoryLoaded{})

			Expect(view.Backfilling()).To(BeFalse())
			Expect(view.Window().Len()).To(Equal(50))
		})

		It("never requests a backfill for a logs buffer", func() {
			key = history.Key{Server: "libera", Target: "*logs*", Kind: history.KeyKindLogs}
			open(30, 200)

			_, app := view.Update(ctx, scrollback.Scrolled{Viewport: content(view, 100, scrollback.EdgeEnd)})

			Expect(app).To(BeNil())
			Expect(view.Status()).To(Equal(scrollback.StatusUnlocked))
			Expect(view.Limit()).To(Equal(history.Since(msgs[0].ServerTime)))
		})

		It("never requests a backfill with infinite scroll disabled", func() {
			cfg := testConfig(200)
			cfg.InfiniteScroll = false
			msgs = generate(30, 0)
			Expect(store.Load(ctx, key)).To(Succeed())
			Expect(store.Append(ctx, key, msgs...)).To(Succeed())
			view = scrollback.NewView(key, store, cfg)
			view.Update(ctx, scrollback.Opened{})

			_, app := view.Update(ctx, scrollback.Scrolled{Viewport: content(view, 100, scrollback.EdgeEnd)})

			Expect(app).To(BeNil())
			Expect(view.Backfilling()).To(BeFalse())
		})
	})

	Describe("heights", func() {
		It("merges measurements only for loaded or known messages", func() {
			open(1000, 200)
			w := view.Window()

			view.Update(ctx, scrollback.HeightsMeasured{Heights: []scrollback.Measurement{
				{Hash: w.At(0).Hash, Height: 60},
				{Hash: msgs[0].Hash, Height: 60},
			}})

			Expect(view.Heights().Len()).To(Equal(1))
			h, ok := view.Heights().Get(w.At(0).Hash)
			Expect(ok).To(BeTrue())
			Expect(h).To(Equal(60.0))
		})

		It("empties the cache on reflow and falls back to the row height", func() {
			open(1000, 1000)
			w := view.Window()
			var ms []scrollback.Measurement
			for i := 0; i < 100; i++ {
				ms = append(ms, scrollback.Measurement{Hash: w.At(i).Hash, Height: 60})
			}
			view.Update(ctx, scrollback.HeightsMeasured{Heights: ms})
			view.Update(ctx, scrollback.Repainted{Viewport: content(view, 0, scrollback.EdgeEnd)})
			Expect(view.Layout().FillerAbove).To(BeNumerically(">", float64(view.Layout().Start)*rowHeight))

			view.Update(ctx, scrollback.Resized{Width: 120, Height: pageHeight})

			Expect(view.Heights().Len()).To(BeZero())
			l := view.Layout()
			Expect(l.FillerAbove).To(Equal(float64(l.Start) * rowHeight))
		})

		It("requests measurement of unmeasured rendered messages after a repaint", func() {
			open(1000, 200)

			cmds, _ := view.Update(ctx, scrollback.Repainted{Viewport: content(view, 0, scrollback.EdgeEnd)})

			measure := commandsOf[scrollback.MeasureHeights](cmds)
			Expect(measure).To(HaveLen(1))
			l := view.Layout()
			Expect(measure[0].Hashes).To(HaveLen(l.Len()))

			var ms []scrollback.Measurement
			for _, h := range measure[0].Hashes {
				ms = append(ms, scrollback.Measurement{Hash: h, Height: rowHeight})
			}
			view.Update(ctx, scrollback.HeightsMeasured{Heights: ms})

			cmds, _ = view.Update(ctx, scrollback.Repainted{Viewport: content(view, 0, scrollback.EdgeEnd)})
			Expect(commandsOf[scrollback.MeasureHeights](cmds)).To(BeEmpty())
		})

		It("refreshes a cached height when the divider leaves its message", func() {
			open(1000, 200)
			first := msgs[980]
			Expect(store.MarkRead(ctx, key, msgs[979].ServerTime)).To(Succeed())
			view.Update(ctx, scrollback.HistoryLoaded{})
			w := view.Window()
			Expect(w.At(w.DividerIndex()).Hash).To(Equal(first.Hash))

			view.Update(ctx, scrollback.HeightsMeasured{Heights: []scrollback.Measurement{
				{Hash: first.Hash, Height: 2 * rowHeight},
			}})

			Expect(store.MarkRead(ctx, key, msgs[999].ServerTime)).To(Succeed())
			view.Update(ctx, scrollback.HistoryLoaded{})
			Expect(view.Window().DividerIndex()).To(Equal(-1))

			cmds, _ := view.Update(ctx, scrollback.Repainted{
				Elements: elements(view.Window(), nil),
				Viewport: content(view, 0, scrollback.EdgeEnd),
			})

			h, ok := view.Heights().Get(first.Hash)
			Expect(ok).To(BeTrue())
			Expect(h).To(Equal(rowHeight))
			for _, m := range commandsOf[scrollback.MeasureHeights](cmds) {
				Expect(m.Hashes).NotTo(ContainElement(first.Hash))
			}
		})

		It("ignores rendered heights of messages outside the window", func() {
			open(1000, 200)
			stray := scrollback.Element{Hash: msgs[0].Hash, Top: 0, Height: 3 * rowHeight}

			view.Update(ctx, scrollback.Repainted{
				Elements: []scrollback.Element{stray},
				Viewport: content(view, 0, scrollback.EdgeEnd),
			})

			_, ok := view.Heights().Get(msgs[0].Hash)
			Expect(ok).To(BeFalse())
		})
	})

	Describe("correction", func() {
		It("keeps the top message still when content above grows", func() {
			open(1000, 200)
			unlock()
			w := view.Window()
			vp := content(view, 40, scrollback.EdgeStart)

			cmds, _ := view.Update(ctx, scrollback.Repainted{Elements: elements(w, nil), Viewport: vp})
			Expect(commandsOf[scrollback.ScrollBy](cmds)).To(BeEmpty())

			taller := map[history.Hash]float64{w.At(0).Hash: 60}
			cmds, _ = view.Update(ctx, scrollback.Repainted{Elements: elements(w, taller), Viewport: vp})

			Expect(commandsOf[scrollback.ScrollBy](cmds)).To(Equal([]scrollback.ScrollBy{{Delta: 40}}))
			Expect(view.Viewport().Offset).To(Equal(80.0))
		})

		It("skips correction when the anchor is no longer rendered", func() {
			open(1000, 200)
			unlock()
			w := view.Window()
			vp := content(view, 40, scrollback.EdgeStart)
			view.Update(ctx, scrollback.Repainted{Elements: elements(w, nil), Viewport: vp})

			cmds, _ := view.Update(ctx, scrollback.Repainted{Elements: elements(w, nil)[10:], Viewport: vp})

			Expect(commandsOf[scrollback.ScrollBy](cmds)).To(BeEmpty())
		})

		It("does not correct while following the tail", func() {
			open(1000, 200)
			w := view.Window()
			vp := content(view, 0, scrollback.EdgeEnd)
			view.Update(ctx, scrollback.Repainted{Elements: elements(w, nil), Viewport: vp})

			taller := map[history.Hash]float64{w.At(0).Hash: 60}
			cmds, _ := view.Update(ctx, scrollback.Repainted{Elements: elements(w, taller), Viewport: vp})

			Expect(commandsOf[scrollback.ScrollBy](cmds)).To(BeEmpty())
		})
	})

	Describe("navigation", func() {
		It("loads a window around the target and locates it after the retry", func() {
			open(1000, 200)
			target := msgs[100].Hash

			cmds, _ := view.Update(ctx, scrollback.ScrollToMessage{Hash: target})

			Expect(cmds).To(ContainElement(scrollback.StartTimer{Seq: 1, After: 50 * time.Millisecond}))
			Expect(view.Limit()).To(Equal(history.Around(200, target)))
			Expect(view.Window().Contains(target)).To(BeTrue())
			pending, ok := view.Pending()
			Expect(ok).To(BeTrue())
			Expect(pending).To(Equal(scrollback.Target{Hash: target}))
			Expect(view.Layout().Virtualized).To(BeFalse())

			cmds, _ = view.Update(ctx, scrollback.RetryElapsed{Seq: 1})
			Expect(cmds).To(Equal([]scrollback.Command{scrollback.FindElement{Target: pending, Seq: 1}}))

			view.Update(ctx, scrollback.Repainted{Elements: elements(view.Window(), nil), Viewport: content(view, 0, scrollback.EdgeEnd)})
			top := float64(view.Window().Index(target)) * rowHeight
			cmds, _ = view.Update(ctx, scrollback.ElementFound{Target: pending, Seq: 1, Bounds: scrollback.Bounds{Top: top, Height: rowHeight}, Found: true})

			Expect(cmds).To(ContainElement(scrollback.ScrollTo{Offset: top - rowHeight, Edge: scrollback.EdgeStart}))
			Expect(view.Status()).To(Equal(scrollback.StatusUnlocked))
			_, ok = view.Pending()
			Expect(ok).To(BeFalse())
		})

		It("grows a window around a target toward older history", func() {
			open(1000, 200)
			target := msgs[500].Hash
			view.Update(ctx, scrollback.ScrollToMessage{Hash: target})
			view.Update(ctx, scrollback.RetryElapsed{Seq: 1})
			top := float64(view.Window().Index(target)) * rowHeight
			view.Update(ctx, scrollback.ElementFound{Target: scrollback.Target{Hash: target}, Seq: 1, Bounds: scrollback.Bounds{Top: top, Height: rowHeight}, Found: true})
			Expect(view.Window().HasMoreOlder).To(BeTrue())

			view.Update(ctx, scrollback.Scrolled{Viewport: content(view, 100, scrollback.EdgeStart)})

			Expect(view.Status()).To(Equal(scrollback.StatusUnlocked))
			Expect(view.Limit()).To(Equal(history.Around(225, target)))
			Expect(view.Window().Len()).To(Equal(225))
		})

		It("ignores retries from superseded navigations", func() {
			open(1000, 200)
			view.Update(ctx, scrollback.ScrollToMessage{Hash: msgs[100].Hash})
			view.Update(ctx, scrollback.ScrollToMessage{Hash: msgs[300].Hash})

			cmds, _ := view.Update(ctx, scrollback.RetryElapsed{Seq: 1})
			Expect(cmds).To(BeEmpty())

			cmds, _ = view.Update(ctx, scrollback.RetryElapsed{Seq: 2})
			Expect(cmds).To(Equal([]scrollback.Command{scrollback.FindElement{Target: scrollback.Target{Hash: msgs[300].Hash}, Seq: 2}}))
		})

		It("switches to the bottom when the target sits on the last page", func() {
			open(1000, 200)
			target := msgs[995].Hash
			view.Update(ctx, scrollback.ScrollToMessage{Hash: target})
			Expect(view.Window().HasMoreNewer).To(BeFalse())
			view.Update(ctx, scrollback.Repainted{Elements: elements(view.Window(), nil), Viewport: content(view, 0, scrollback.EdgeEnd)})

			top := float64(view.Window().Index(target)) * rowHeight
			cmds, _ := view.Update(ctx, scrollback.ElementFound{Target: scrollback.Target{Hash: target}, Seq: 1, Bounds: scrollback.Bounds{Top: top, Height: rowHeight}, Found: true})

			Expect(cmds).To(ContainElement(scrollback.ScrollTo{Offset: 0, Edge: scrollback.EdgeEnd}))
			Expect(view.Status()).To(Equal(scrollback.StatusBottom))
			Expect(view.Limit().Is(history.LimitBottom)).To(BeTrue())
		})

		It("treats a target that was not rendered as a no-op", func() {
			open(1000, 200)
			target := msgs[100].Hash
			view.Update(ctx, scrollback.ScrollToMessage{Hash: target})

			cmds, _ := view.Update(ctx, scrollback.ElementFound{Target: scrollback.Target{Hash: target}, Seq: 1})

			Expect(cmds).To(BeEmpty())
			_, ok := view.Pending()
			Expect(ok).To(BeFalse())
			cmds, _ = view.Update(ctx, scrollback.RetryElapsed{Seq: 1})
			Expect(cmds).To(BeEmpty())
		})

		It("falls back to the bottom for an unknown hash", func() {
			open(1000, 200)
			unlock()

			cmds, _ := view.Update(ctx, scrollback.ScrollToMessage{Hash: "deadbeefdeadbeef"})

			Expect(commandsOf[scrollback.StartTimer](cmds)).To(BeEmpty())
			Expect(cmds).To(ContainElement(scrollback.ScrollTo{Offset: 0, Edge: scrollback.EdgeEnd}))
			Expect(view.Status()).To(Equal(scrollback.StatusBottom))
			Expect(view.Limit()).To(Equal(history.Bottom(200)))
			_, ok := view.Pending()
			Expect(ok).To(BeFalse())
		})

		It("defers navigation until the history is loaded", func() {
			view = scrollback.NewView(key, store, testConfig(200))
			view.Update(ctx, scrollback.Opened{})
			msgs = generate(1000, 0)

			cmds, _ := view.Update(ctx, scrollback.ScrollToMessage{Hash: msgs[10].Hash})
			Expect(cmds).To(BeEmpty())
			_, ok := view.Pending()
			Expect(ok).To(BeTrue())

			Expect(store.Load(ctx, key)).To(Succeed())
			Expect(store.Append(ctx, key, msgs...)).To(Succeed())
			cmds, _ = view.Update(ctx, scrollback.HistoryLoaded{})

			Expect(cmds).To(ContainElement(scrollback.StartTimer{Seq: 1, After: 50 * time.Millisecond}))
			Expect(view.Window().Contains(msgs[10].Hash)).To(BeTrue())
		})

		It("scrolls to the divider above the first unread message", func() {
			open(1000, 200)
			Expect(store.MarkRead(ctx, key, msgs[900].ServerTime)).To(Succeed())
			view.Update(ctx, scrollback.HistoryLoaded{})
			Expect(view.Window().DividerIndex()).To(Equal(101))

			cmds, _ := view.Update(ctx, scrollback.ScrollToBacklog{})

			Expect(cmds).To(ContainElement(scrollback.StartTimer{Seq: 1, After: 50 * time.Millisecond}))
			Expect(view.Limit()).To(Equal(history.Around(200, msgs[901].Hash)))
			pending, ok := view.Pending()
			Expect(ok).To(BeTrue())
			Expect(pending).To(Equal(scrollback.Target{Hash: msgs[901].Hash, Divider: true}))
		})

		It("scrolls to the bottom when nothing is unread", func() {
			open(1000, 200)
			Expect(store.MarkRead(ctx, key, msgs[999].ServerTime)).To(Succeed())
			view.Update(ctx, scrollback.HistoryLoaded{})
			unlock()

			cmds, app := view.Update(ctx, scrollback.ScrollToBacklog{})

			Expect(cmds).To(ContainElement(scrollback.ScrollTo{Offset: 0, Edge: scrollback.EdgeEnd}))
			Expect(view.Status()).To(Equal(scrollback.StatusBottom))
			Expect(app).To(Equal(scrollback.MarkAsRead{Key: key, Until: msgs[999].ServerTime}))
			_, ok := view.Pending()
			Expect(ok).To(BeFalse())
		})

		It("returns to the live tail on request", func() {
			open(1000, 200)
			unlock()

			cmds, _ := view.Update(ctx, scrollback.ScrollToBottom{})

			Expect(cmds).To(ContainElement(scrollback.ScrollTo{Offset: 0, Edge: scrollback.EdgeEnd}))
			Expect(view.Status()).To(Equal(scrollback.StatusBottom))
			Expect(view.Limit()).To(Equal(history.Bottom(200)))
		})
	})

	Describe("clearing", func() {
		It("resets to the bottom and drops navigation", func() {
			open(1000, 200)
			view.Update(ctx, scrollback.ScrollToMessage{Hash: msgs[100].Hash})

			Expect(store.Clear(ctx, key)).To(Succeed())
			cmds, _ := view.Update(ctx, scrollback.HistoryLoaded{})

			Expect(cmds).To(ContainElement(scrollback.ScrollTo{Offset: 0, Edge: scrollback.EdgeEnd}))
			Expect(view.Status()).To(Equal(scrollback.StatusBottom))
			Expect(view.Limit()).To(Equal(history.Bottom(200)))
			Expect(view.Window().Len()).To(BeZero())
			_, ok := view.Pending()
			Expect(ok).To(BeFalse())
		})
	})
})
