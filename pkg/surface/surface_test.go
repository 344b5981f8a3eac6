package surface

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/vango-dev/mirror/pkg/protocol"
)

var sample = []protocol.Command{
	protocol.AppendChild("app", `<ul id="list"><li id="a">A</li></ul>`),
	protocol.ReplaceContent("a", "A2"),
	protocol.SetAttr("list", "class", "todos"),
	protocol.SetFlag("list", "hidden"),
	protocol.RemoveAttr("list", "hidden"),
	protocol.RemoveTrailingChildren("list", 1),
	protocol.ReplaceElement("list", `<p id="empty">none</p>`),
}

func TestRecorder(t *testing.T) {
	r := &Recorder{}
	for _, c := range sample[:3] {
		r.Emit(c)
	}

	if r.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", r.Len())
	}
	ops := r.Ops()
	want := []protocol.Op{protocol.OpAppendChild, protocol.OpReplaceContent, protocol.OpSetAttr}
	for i := range want {
		if ops[i] != want[i] {
			t.Errorf("Ops()[%d] = %s, want %s", i, ops[i], want[i])
		}
	}

	cmds := r.Commands()
	cmds[0].Target = "mutated"
	if r.Commands()[0].Target != "app" {
		t.Error("Commands() must return a copy")
	}

	r.Reset()
	if r.Len() != 0 {
		t.Errorf("Len() after Reset = %d", r.Len())
	}
}

func TestMulti(t *testing.T) {
	a, b, c := &Recorder{}, &Recorder{}, &Recorder{}
	sink := Multi(a, nil, Multi(b, c))

	for _, cmd := range sample {
		sink.Emit(cmd)
	}
	for name, r := range map[string]*Recorder{"a": a, "b": b, "c": c} {
		if r.Len() != len(sample) {
			t.Errorf("recorder %s got %d commands, want %d", name, r.Len(), len(sample))
		}
	}
}

func TestStatement(t *testing.T) {
	tests := []struct {
		cmd  protocol.Command
		want string
	}{
		{
			protocol.ReplaceElement("old", `<p id="new">x</p>`),
			`document.getElementById("old").outerHTML = "\u003cp id=\"new\"\u003ex\u003c/p\u003e";`,
		},
		{
			protocol.ReplaceContent("a", "A & B"),
			`document.getElementById("a").innerHTML = "A \u0026 B";`,
		},
		{
			protocol.RemoveTrailingChildren("list", 2),
			`{ const e = document.getElementById("list"); for (let i = 0; i < 2; i++) e.lastChild.remove(); }`,
		},
		{
			protocol.AppendChild("list", "<li>"),
			`{ const t = document.createElement("template"); t.innerHTML = "\u003cli\u003e"; document.getElementById("list").append(...t.content.childNodes); }`,
		},
		{
			protocol.SetAttr("btn", "title", `say "hi"`),
			`document.getElementById("btn").setAttribute("title", "say \"hi\"");`,
		},
		{
			protocol.SetFlag("btn", "disabled"),
			`document.getElementById("btn").setAttribute("disabled", "");`,
		},
		{
			protocol.RemoveAttr("btn", "disabled"),
			`document.getElementById("btn").removeAttribute("disabled");`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.cmd.Op.String(), func(t *testing.T) {
			got, err := Statement(tt.cmd)
			if err != nil {
				t.Fatalf("Statement() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Statement() =\n%s\nwant\n%s", got, tt.want)
			}
		})
	}
}

func TestStatementInvalid(t *testing.T) {
	if _, err := Statement(protocol.RemoveTrailingChildren("list", 0)); !errors.Is(err, protocol.ErrInvalidCommand) {
		t.Errorf("Statement() error = %v, want ErrInvalidCommand", err)
	}
	if _, err := Statement(protocol.Command{Op: 0x7f, Target: "x"}); !errors.Is(err, protocol.ErrUnknownOp) {
		t.Errorf("Statement() error = %v, want ErrUnknownOp", err)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestScript(t *testing.T) {
	var buf bytes.Buffer
	s := NewScript(&buf)
	for _, c := range sample {
		s.Emit(c)
	}
	if err := s.Err(); err != nil {
		t.Fatalf("Err() = %v", err)
	}
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != len(sample) || s.Written() != len(sample) {
		t.Fatalf("wrote %d lines (%d counted), want %d", len(lines), s.Written(), len(sample))
	}

	s = NewScript(failingWriter{})
	s.Emit(sample[0])
	s.Emit(sample[1])
	if s.Err() == nil || s.Written() != 0 {
		t.Errorf("Err() = %v, Written() = %d", s.Err(), s.Written())
	}
}

func TestScriptGolden(t *testing.T) {
	var buf bytes.Buffer
	s := NewScript(&buf)
	for _, c := range sample {
		s.Emit(c)
	}
	if err := s.Err(); err != nil {
		t.Fatalf("Err() = %v", err)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "script", buf.Bytes())
}
