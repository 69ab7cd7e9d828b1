// Package twiml builds call-control response documents as an in-memory
// verb/noun tree and serializes them to the markup wire format.
//
// The nesting grammar is enforced by construction: each verb method lives on
// the builder type for the only context where that verb is legal, so an
// illegal document does not compile. Attributes are emitted only when their
// value differs from the verb's documented default; consumers depend on the
// absence of default-valued attributes, so that rule is a wire contract.
package twiml

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const xmlDeclaration = `<?xml version="1.0" encoding="UTF-8"?>`

// ErrMissingContent reports a verb or noun constructed without its required
// discriminating content (for example a Dial Number with an empty target).
// It surfaces from Render rather than producing malformed markup silently.
var ErrMissingContent = errors.New("twiml: missing required content")

type attr struct {
	key, value string
}

// node is a single element: tag, insertion-ordered attributes, and either
// text content or children. Nodes are owned exclusively by their parent.
type node struct {
	tag      string
	attrs    []attr
	text     string
	children []*node
}

func (n *node) set(key, value string) {
	n.attrs = append(n.attrs, attr{key, value})
}

func (n *node) setInt(key string, v int) {
	n.set(key, strconv.Itoa(v))
}

func (n *node) setBool(key string, v bool) {
	if v {
		n.set(key, "true")
	} else {
		n.set(key, "false")
	}
}

func (n *node) child(tag string) *node {
	c := &node{tag: tag}
	n.children = append(n.children, c)
	return c
}

func (n *node) write(b *strings.Builder) {
	b.WriteByte('<')
	b.WriteString(n.tag)
	for _, a := range n.attrs {
		b.WriteByte(' ')
		b.WriteString(a.key)
		b.WriteString(`="`)
		b.WriteString(escapeAttr(a.value))
		b.WriteByte('"')
	}
	if n.text == "" && len(n.children) == 0 {
		b.WriteString("/>")
		return
	}
	b.WriteByte('>')
	if n.text != "" {
		b.WriteString(escapeText(n.text))
	}
	for _, c := range n.children {
		c.write(b)
	}
	b.WriteString("</")
	b.WriteString(n.tag)
	b.WriteByte('>')
}

var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

var attrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

func escapeText(s string) string { return textEscaper.Replace(s) }

func escapeAttr(s string) string { return attrEscaper.Replace(s) }

// Response is the root document builder. Verb methods append to the root in
// call order; methods that open a nesting context return a scoped builder
// exposing only the verbs legal inside it.
//
// The zero Response is not usable; construct with NewResponse.
type Response struct {
	root *node
	err  error
}

func NewResponse() *Response {
	return &Response{root: &node{tag: "Response"}}
}

// fail records the first construction error; later verbs still append so the
// builder chain stays usable, but Render refuses the document.
func (r *Response) fail(err error) {
	if r.err == nil {
		r.err = err
	}
}

// Render serializes the document: XML declaration, then a depth-first walk
// emitting tags, attributes in insertion order, text, and children.
// Rendering does not mutate the tree.
func (r *Response) Render() (string, error) {
	if r.err != nil {
		return "", r.err
	}
	var b strings.Builder
	b.WriteString(xmlDeclaration)
	r.root.write(&b)
	return b.String(), nil
}

// Equal reports document equality, defined as equality of the serialized
// form. A document that fails to render equals nothing.
func (r *Response) Equal(o *Response) bool {
	if o == nil {
		return false
	}
	a, err := r.Render()
	if err != nil {
		return false
	}
	b, err := o.Render()
	if err != nil {
		return false
	}
	return a == b
}

func requireContent(what, v string) (string, error) {
	if strings.TrimSpace(v) == "" {
		return "", fmt.Errorf("%w: %s", ErrMissingContent, what)
	}
	return v, nil
}
