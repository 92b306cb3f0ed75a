// Package rdfio loads N-Triples and Turtle documents into rdf stores.
package rdfio

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/dd0wney/cluso-rdfgraph/pkg/logging"
	"github.com/dd0wney/cluso-rdfgraph/pkg/rdf"
	krdf "github.com/knakk/rdf"
	"golang.org/x/exp/mmap"
)

// Format is an RDF serialisation the loader can decode
type Format string

const (
	FormatNTriples Format = "ntriples"
	FormatTurtle   Format = "turtle"
)

// Common sentinel errors
var (
	ErrUnknownFormat   = errors.New("unknown rdf format")
	ErrUnsupportedTerm = errors.New("unsupported rdf term")
)

// ParseFormat resolves a format name such as "nt" or "ttl"
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case "nt", "ntriples", "n-triples":
		return FormatNTriples, nil
	case "ttl", "turtle":
		return FormatTurtle, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

// FormatFor picks the format from a file extension
func FormatFor(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}

func (f Format) knakk() krdf.Format {
	if f == FormatNTriples {
		return krdf.NTriples
	}
	return krdf.Turtle
}

// Decode reads every triple from r into a store. Duplicate statements
// collapse; decoding stops at the first syntax error.
func Decode(r io.Reader, format Format) (*rdf.Store, error) {
	if format != FormatNTriples && format != FormatTurtle {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	dec := krdf.NewTripleDecoder(r, format.knakk())
	b := rdf.NewBuilder()
	for n := 0; ; n++ {
		tr, err := dec.Decode()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decoding statement %d: %w", n, err)
		}
		t, err := convertTriple(tr)
		if err != nil {
			return nil, fmt.Errorf("statement %d: %w", n, err)
		}
		b.Add(t)
	}
	return b.Build()
}

func convertTriple(tr krdf.Triple) (rdf.Triple, error) {
	s, err := convertTerm(tr.Subj)
	if err != nil {
		return rdf.Triple{}, err
	}
	p, err := convertTerm(tr.Pred)
	if err != nil {
		return rdf.Triple{}, err
	}
	o, err := convertTerm(tr.Obj)
	if err != nil {
		return rdf.Triple{}, err
	}
	return rdf.NewTriple(s, p, o), nil
}

func convertTerm(t krdf.Term) (rdf.Term, error) {
	switch v := t.(type) {
	case krdf.IRI:
		return rdf.IRI(v.String()), nil
	case krdf.Blank:
		return rdf.Blank(v.String()), nil
	case krdf.Literal:
		if lang := v.Lang(); lang != "" {
			return rdf.LangLiteral(v.String(), lang), nil
		}
		return rdf.TypedLiteral(v.String(), v.DataType.String()), nil
	default:
		return rdf.Term{}, fmt.Errorf("%w: %T", ErrUnsupportedTerm, t)
	}
}

// Loader reads RDF files through a memory map
type Loader struct {
	logger logging.Logger
}

// NewLoader creates a file loader; a nil logger discards output
func NewLoader(logger logging.Logger) *Loader {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Loader{logger: logger.With(logging.Component("rdfio"))}
}

// LoadFile decodes the file at path. An empty format is inferred from the
// file extension.
func (l *Loader) LoadFile(path string, format Format) (*rdf.Store, error) {
	if format == "" {
		f, err := FormatFor(path)
		if err != nil {
			return nil, err
		}
		format = f
	}

	start := time.Now()
	reader, err := mmap.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer func() { _ = reader.Close() }()

	store, err := Decode(io.NewSectionReader(reader, 0, int64(reader.Len())), format)
	if err != nil {
		l.logger.Error("load failed", logging.Path(path), logging.Error(err))
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	l.logger.Info("rdf loaded",
		logging.Path(path),
		logging.String("format", string(format)),
		logging.Triples(store.Len()),
		logging.Latency(time.Since(start)),
	)
	return store, nil
}

// LoadFiles decodes several files into one store, in argument order
func (l *Loader) LoadFiles(paths []string, format Format) (*rdf.Store, error) {
	if len(paths) == 1 {
		return l.LoadFile(paths[0], format)
	}
	b := rdf.NewBuilder()
	for _, p := range paths {
		s, err := l.LoadFile(p, format)
		if err != nil {
			return nil, err
		}
		for _, t := range s.Triples() {
			b.Add(t)
		}
	}
	return b.Build()
}
