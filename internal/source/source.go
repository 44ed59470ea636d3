// Package source reads collision events from LCIO or proio files.
package source

import (
	"fmt"
	"io"

	"github.com/decibelcooper/hcreco/internal/config"
	"github.com/decibelcooper/hcreco/internal/gen"
	"github.com/decibelcooper/hcreco/internal/track"
)

// Event is the input of one collision.
type Event struct {
	Run, Number int64
	// Tracks holds one slice per configured track collection, in
	// configuration order. Missing collections are empty.
	Tracks [][]track.Track
	Gen    gen.Event
	// HasGen is false when the generator collection is absent or
	// unreadable.
	HasGen bool
}

// Source yields events in file order. Next returns io.EOF after the last
// event.
type Source interface {
	Next() (*Event, error)
	Close() error
}

// Open opens path according to the input configuration.
func Open(path string, in config.Input) (Source, error) {
	switch in.Format {
	case config.FormatLCIO:
		return OpenLCIO(path, in)
	case config.FormatProio:
		return OpenProio(path, in)
	}
	return nil, fmt.Errorf("unknown input format %q", in.Format)
}

// Slice is an in-memory Source.
type Slice struct {
	Events []*Event
	pos    int
}

func (s *Slice) Next() (*Event, error) {
	if s.pos >= len(s.Events) {
		return nil, io.EOF
	}
	ev := s.Events[s.pos]
	s.pos++
	return ev, nil
}

func (s *Slice) Close() error { return nil }
