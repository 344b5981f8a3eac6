package mirror

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/vango-dev/mirror/pkg/protocol"
	"github.com/vango-dev/mirror/pkg/surface"
	"github.com/vango-dev/mirror/pkg/vdom"
)

func quiet() Option {
	return WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// board is a small two-level application: a root div holding lists of
// items. Every mutation reports the ids it invalidated.
type board struct {
	ids  *IDGenerator
	root *Element
}

func newBoard(rng *rand.Rand) *board {
	b := &board{ids: NewIDGenerator("n")}
	b.root = Div("root", Class("board"))
	for i := 0; i < 3; i++ {
		b.root.Append(b.list(rng))
	}
	return b
}

func (b *board) item(rng *rand.Rand) *Element {
	return Li(b.ids.Next(), fmt.Sprintf("item %d", rng.Intn(100)))
}

func (b *board) list(rng *rand.Rand) *Element {
	l := Ul(b.ids.Next(), Class("list"))
	for i := rng.Intn(4); i > 0; i-- {
		l.Append(b.item(rng))
	}
	return l
}

func (b *board) mutate(rng *rand.Rand, mark func(string)) {
	ci := rng.Intn(len(b.root.Kids))
	list := b.root.Kids[ci].(*Element)

	var item *Element
	idx := -1
	if len(list.Kids) > 0 {
		idx = rng.Intn(len(list.Kids))
		item = list.Kids[idx].(*Element)
	}

	switch rng.Intn(7) {
	case 0:
		if item != nil {
			item.SetText(fmt.Sprintf("edited %d & <more>", rng.Intn(100)))
			mark(item.ID())
		}
	case 1:
		if item != nil {
			if _, ok := item.Attributes.Get("hidden"); ok {
				item.RemoveAttr("hidden")
			} else {
				item.SetAttr(Hidden())
			}
			mark(item.ID())
		}
	case 2:
		list.SetAttr(Data("n", strconv.Itoa(rng.Intn(10))))
		mark(list.ID())
	case 3:
		for i := rng.Intn(3) + 1; i > 0; i-- {
			list.Append(b.item(rng))
		}
		mark(list.ID())
	case 4:
		list.Truncate(rng.Intn(len(list.Kids) + 1))
		mark(list.ID())
	case 5:
		if item != nil {
			list.Kids[idx] = b.item(rng)
			mark(item.ID())
		}
	case 6:
		b.root.Kids[ci] = b.list(rng)
		mark(list.ID())
	}
}

func freshDocument(t *testing.T, root View) *Document {
	t.Helper()
	_, markup := vdom.Render(root)
	d := NewDocument("app")
	d.Emit(protocol.AppendChild("app", markup))
	if err := d.Err(); err != nil {
		t.Fatalf("fresh render did not apply: %v", err)
	}
	return d
}

func TestConvergence(t *testing.T) {
	for _, seed := range []int64{1, 7, 42, 1234} {
		t.Run(strconv.FormatInt(seed, 10), func(t *testing.T) {
			rng := rand.New(rand.NewSource(seed))
			b := newBoard(rng)

			live := NewDocument("app")
			r := New("app", b.root, live, quiet())

			for round := 0; round < 150; round++ {
				for i := rng.Intn(4) + 1; i > 0; i-- {
					b.mutate(rng, r.Mark)
				}
				r.Diff(context.Background(), b.root)

				if err := live.Err(); err != nil {
					t.Fatalf("round %d: command failed to apply: %v", round, err)
				}
				want := freshDocument(t, b.root).HTML()
				if got := live.HTML(); got != want {
					t.Fatalf("round %d: documents diverged\n got: %s\nwant: %s", round, got, want)
				}
			}
		})
	}
}

func TestConvergenceWithoutChanges(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	b := newBoard(rng)
	rec := &Recorder{}
	r := New("app", b.root, rec, quiet())
	rec.Reset()

	r.Root().Walk(func(n *vdom.Node) bool {
		r.Mark(n.ID)
		return true
	})
	res := r.Diff(context.Background(), b.root)
	if rec.Len() != 0 || res.TotalCommands() != 0 {
		t.Errorf("unchanged tree emitted %d commands: %v", rec.Len(), rec.Commands())
	}
}

func TestOverWebSocket(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	b := newBoard(rng)
	done := make(chan error, 1)

	handler := surface.Upgrade(nil, surface.WebSocketConfig{WriteTimeout: 2 * time.Second}, func(_ *http.Request, ws *surface.WebSocket) {
		r := New("app", b.root, ws, quiet())
		for round := 0; round < 20; round++ {
			b.mutate(rng, r.Mark)
			r.Diff(context.Background(), b.root)
		}
		done <- ws.Err()
	})
	ts := httptest.NewServer(handler)
	defer ts.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http"), nil)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	remote := NewDocument("app")
	if err := surface.Receive(conn, remote); err != nil {
		t.Fatalf("Receive() error: %v", err)
	}
	if err := <-done; err != nil {
		t.Fatalf("server write error: %v", err)
	}
	if err := remote.Err(); err != nil {
		t.Fatalf("remote apply error: %v", err)
	}

	want := freshDocument(t, b.root).HTML()
	if got := remote.HTML(); got != want {
		t.Errorf("remote document diverged\n got: %s\nwant: %s", got, want)
	}
}
