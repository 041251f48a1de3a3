package progrock

import (
	"fmt"

	"github.com/vito/progrock"
)

// Vertex implements ports.Span wrapping *progrock.VertexRecorder.
type Vertex struct {
	vertex *progrock.VertexRecorder
	err    error
}

// End marks the vertex as finished, carrying any recorded error.
func (v *Vertex) End() {
	v.vertex.Done(v.err)
}

// RecordError remembers the error so End reports the vertex as failed.
func (v *Vertex) RecordError(err error) {
	if v.err == nil {
		v.err = err
	}
	_, _ = fmt.Fprintf(v.vertex.Stderr(), "error: %v\n", err)
}

// SetAttribute renders a key-value pair into the vertex output.
func (v *Vertex) SetAttribute(key string, value any) {
	_, _ = fmt.Fprintf(v.vertex.Stdout(), "%s=%v\n", key, value)
}
