package surface

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/vango-dev/mirror/pkg/protocol"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Errors reported by Document.
var (
	ErrUnknownTarget = errors.New("surface: no element with target id")
	ErrChildCount    = errors.New("surface: fewer children than requested")
)

// Document is an in-memory HTML tree that applies commands the way a
// browser would. It is useful for tests and for server-side snapshots of
// a live view. It is safe for concurrent use.
type Document struct {
	mu   sync.Mutex
	root *html.Node
	err  error
}

// NewDocument creates a document holding a single empty <div> with the
// given id, which serves as the mount point.
func NewDocument(rootID string) *Document {
	return &Document{
		root: &html.Node{
			Type:     html.ElementNode,
			Data:     "div",
			DataAtom: atom.Div,
			Attr:     []html.Attribute{{Key: "id", Val: rootID}},
		},
	}
}

// Emit implements protocol.Sink. Commands that cannot be applied are
// skipped; the first failure is reported by Err.
func (d *Document) Emit(c protocol.Command) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.apply(c); err != nil && d.err == nil {
		d.err = err
	}
}

// Err returns the first command that failed to apply.
func (d *Document) Err() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.err
}

// HTML renders the inner markup of the mount point.
func (d *Document) HTML() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	var b strings.Builder
	for c := d.root.FirstChild; c != nil; c = c.NextSibling {
		// Rendering to a strings.Builder only fails on malformed trees,
		// which the parser never produces.
		_ = html.Render(&b, c)
	}
	return b.String()
}

// Lookup returns the element with the given id, or nil.
func (d *Document) Lookup(id string) *html.Node {
	d.mu.Lock()
	defer d.mu.Unlock()
	return findByID(d.root, id)
}

func (d *Document) apply(c protocol.Command) error {
	if err := c.Validate(); err != nil {
		return err
	}
	target := findByID(d.root, c.Target)
	if target == nil {
		return fmt.Errorf("%w: %s %q", ErrUnknownTarget, c.Op, c.Target)
	}

	switch c.Op {
	case protocol.OpReplaceElement:
		parent := target.Parent
		if parent == nil {
			return fmt.Errorf("surface: cannot replace mount point %q", c.Target)
		}
		nodes, err := parseIn(parent, c.Markup)
		if err != nil {
			return err
		}
		for _, n := range nodes {
			parent.InsertBefore(n, target)
		}
		parent.RemoveChild(target)

	case protocol.OpReplaceContent:
		nodes, err := parseIn(target, c.Markup)
		if err != nil {
			return err
		}
		for target.FirstChild != nil {
			target.RemoveChild(target.FirstChild)
		}
		for _, n := range nodes {
			target.AppendChild(n)
		}

	case protocol.OpRemoveTrailingChildren:
		for i := 0; i < c.Count; i++ {
			if target.LastChild == nil {
				return fmt.Errorf("%w: %q has %d, want %d", ErrChildCount, c.Target, i, c.Count)
			}
			target.RemoveChild(target.LastChild)
		}

	case protocol.OpAppendChild:
		nodes, err := parseIn(target, c.Markup)
		if err != nil {
			return err
		}
		for _, n := range nodes {
			target.AppendChild(n)
		}

	case protocol.OpSetAttr:
		setAttr(target, c.Key, c.Value)

	case protocol.OpRemoveAttr:
		for i, a := range target.Attr {
			if a.Namespace == "" && a.Key == c.Key {
				target.Attr = append(target.Attr[:i], target.Attr[i+1:]...)
				break
			}
		}
	}
	return nil
}

// parseIn parses markup as the content of context.
func parseIn(context *html.Node, markup string) ([]*html.Node, error) {
	nodes, err := html.ParseFragment(strings.NewReader(markup), context)
	if err != nil {
		return nil, fmt.Errorf("surface: parse markup: %w", err)
	}
	return nodes, nil
}

// setAttr sets key on n. New keys are inserted so that "id" stays first
// and the rest stay in ascending order, matching rendered markup.
func setAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Namespace == "" && n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	i := sort.Search(len(n.Attr), func(i int) bool {
		k := n.Attr[i].Key
		return k != "id" && k > key
	})
	n.Attr = append(n.Attr, html.Attribute{})
	copy(n.Attr[i+1:], n.Attr[i:])
	n.Attr[i] = html.Attribute{Key: key, Val: val}
}

func findByID(n *html.Node, id string) *html.Node {
	if n.Type == html.ElementNode {
		for _, a := range n.Attr {
			if a.Namespace == "" && a.Key == "id" {
				if a.Val == id {
					return n
				}
				break
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findByID(c, id); found != nil {
			return found
		}
	}
	return nil
}
