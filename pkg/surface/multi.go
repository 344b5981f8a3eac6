package surface

import "github.com/vango-dev/mirror/pkg/protocol"

type multiSink []protocol.Sink

func (m multiSink) Emit(c protocol.Command) {
	for _, s := range m {
		s.Emit(c)
	}
}

// Multi returns a sink that emits each command to every given sink, in
// argument order. Nil sinks are skipped.
func Multi(sinks ...protocol.Sink) protocol.Sink {
	m := make(multiSink, 0, len(sinks))
	for _, s := range sinks {
		if s == nil {
			continue
		}
		// Flatten nested fan-outs.
		if inner, ok := s.(multiSink); ok {
			m = append(m, inner...)
			continue
		}
		m = append(m, s)
	}
	return m
}
