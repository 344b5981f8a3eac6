package surface

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/vango-dev/mirror/pkg/protocol"
)

// Script writes each command as one line of JavaScript operating on the
// browser DOM. The output can be evaluated in a page or inlined in a
// <script> element: string literals are JSON-quoted, which escapes '<',
// '>' and '&'.
type Script struct {
	w   io.Writer
	err error
	n   int
}

// NewScript creates a Script writing to w.
func NewScript(w io.Writer) *Script {
	return &Script{w: w}
}

// Emit implements protocol.Sink. After the first write error every
// command is dropped.
func (s *Script) Emit(c protocol.Command) {
	if s.err != nil {
		return
	}
	stmt, err := Statement(c)
	if err != nil {
		s.err = err
		return
	}
	if _, err := io.WriteString(s.w, stmt+"\n"); err != nil {
		s.err = fmt.Errorf("surface: write script: %w", err)
		return
	}
	s.n++
}

// Err returns the first error encountered.
func (s *Script) Err() error {
	return s.err
}

// Written returns the number of statements written.
func (s *Script) Written() int {
	return s.n
}

// Statement returns the JavaScript statement that applies c.
func Statement(c protocol.Command) (string, error) {
	if err := c.Validate(); err != nil {
		return "", err
	}
	el := "document.getElementById(" + quote(c.Target) + ")"

	switch c.Op {
	case protocol.OpReplaceElement:
		return el + ".outerHTML = " + quote(c.Markup) + ";", nil

	case protocol.OpReplaceContent:
		return el + ".innerHTML = " + quote(c.Markup) + ";", nil

	case protocol.OpRemoveTrailingChildren:
		return fmt.Sprintf("{ const e = %s; for (let i = 0; i < %d; i++) e.lastChild.remove(); }", el, c.Count), nil

	case protocol.OpAppendChild:
		var b strings.Builder
		b.WriteString(`{ const t = document.createElement("template"); t.innerHTML = `)
		b.WriteString(quote(c.Markup))
		b.WriteString("; ")
		b.WriteString(el)
		b.WriteString(".append(...t.content.childNodes); }")
		return b.String(), nil

	case protocol.OpSetAttr:
		value := ""
		if c.HasValue {
			value = c.Value
		}
		return el + ".setAttribute(" + quote(c.Key) + ", " + quote(value) + ");", nil

	case protocol.OpRemoveAttr:
		return el + ".removeAttribute(" + quote(c.Key) + ");", nil
	}
	return "", fmt.Errorf("%w: %d", protocol.ErrUnknownOp, c.Op)
}

func quote(s string) string {
	// Marshaling a string cannot fail.
	b, _ := json.Marshal(s)
	return string(b)
}
