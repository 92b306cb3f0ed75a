package namespace

import "strings"

// Converter builds the short token for a URI. match is nil when no binding
// covers the URI's root.
type Converter func(uri string, match *Binding) string

// PrefixConverter renders matched URIs as prefix:localname and leaves
// unmatched URIs unchanged.
func PrefixConverter(uri string, match *Binding) string {
	if match == nil {
		return uri
	}
	return match.Prefix + ":" + strings.TrimPrefix(uri, match.Namespace)
}

// PithyURI is a URI together with the namespace it matched and its short token.
type PithyURI struct {
	URI       string
	Namespace string // empty when Matched is false
	Prefix    string
	Token     string
	Matched   bool
}

// String returns the short token
func (p PithyURI) String() string {
	if p.Token == "" {
		return p.URI
	}
	return p.Token
}

// LocalName returns the part of the URI after its namespace, or after its
// root when no namespace matched.
func (p PithyURI) LocalName() string {
	if p.Matched {
		return strings.TrimPrefix(p.URI, p.Namespace)
	}
	return strings.TrimPrefix(p.URI, Root(p.URI))
}

type options struct {
	converter Converter
}

// Option configures NewPithyURI
type Option func(*options)

// WithConverter replaces the token builder. A nil converter keeps the raw
// URI as the token even when a namespace matches.
func WithConverter(c Converter) Option {
	return func(o *options) {
		o.converter = c
	}
}

// NewPithyURI resolves uri against the table. The first binding, in
// registration order, whose namespace equals Root(uri) is used.
func NewPithyURI(uri string, t *Table, opts ...Option) PithyURI {
	o := options{converter: PrefixConverter}
	for _, opt := range opts {
		opt(&o)
	}

	p := PithyURI{URI: uri}
	match := t.match(uri)
	if match != nil {
		p.Matched = true
		p.Namespace = match.Namespace
		p.Prefix = match.Prefix
	}

	switch {
	case t.Len() == 0:
		p.Token = uri
	case o.converter == nil:
		p.Token = uri
	default:
		p.Token = o.converter(uri, match)
	}
	return p
}

// Shorten returns the short token for uri: prefix:localname when a binding
// matches the URI's root, otherwise the URI unchanged. It is a pure function
// of its arguments; distinct URIs may legitimately yield the same token.
func Shorten(uri string, t *Table) string {
	return NewPithyURI(uri, t).Token
}

func (t *Table) match(uri string) *Binding {
	if t.Len() == 0 || uri == "" {
		return nil
	}
	root := Root(uri)
	if !strings.HasPrefix(uri, root) {
		return nil
	}
	for i := range t.bindings {
		if t.bindings[i].Namespace == root {
			b := t.bindings[i]
			return &b
		}
	}
	return nil
}

// Root returns the URI with its final path segment or fragment removed.
// A URI ending in "/" is its own root. When the last path segment contains
// "#", the root runs up to and including the last "#"; otherwise it runs up
// to and including the last "/".
func Root(uri string) string {
	if uri == "" {
		return ""
	}
	if strings.HasSuffix(uri, "/") {
		return uri
	}
	name := uri[strings.LastIndex(uri, "/")+1:]
	if strings.Contains(name, "#") {
		return uri[:strings.LastIndex(uri, "#")+1]
	}
	i := strings.LastIndex(uri, "/")
	if i < 0 {
		return "/"
	}
	return uri[:i+1]
}

// Expand turns a prefix:localname token back into a full URI. Tokens whose
// prefix is not bound, and strings that already look like absolute URIs, are
// returned unchanged.
func Expand(token string, t *Table) string {
	prefix, local, ok := strings.Cut(token, ":")
	if !ok || strings.HasPrefix(local, "//") {
		return token
	}
	ns, bound := t.Lookup(prefix)
	if !bound {
		return token
	}
	return ns + local
}
