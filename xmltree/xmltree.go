// Copyright 2022 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

// Package xmltree provides a small element tree built from XML token streams.
//
// The tree preserves attribute order and mixed element and character data
// content so that elements which are not otherwise understood can be replayed
// on output exactly as they were read. Namespace declarations are folded into
// element names on decode and regenerated on encode.
package xmltree // import "mellium.im/msg/xmltree"

import (
	"encoding/xml"
	"strings"

	"mellium.im/xmlstream"
)

// Element is a single XML element: its resolved name, its attributes in
// document order, and its children.
type Element struct {
	Name     xml.Name
	Attr     []xml.Attr
	Children []Child
}

// Child is one node of an element's content: a nested element or, if Element
// is nil, character data.
type Child struct {
	Element *Element
	Data    string
}

// Decode reads tokens from r until it encounters a start element and returns
// the tree rooted at that element. Character data, comments, and processing
// instructions before the first start element are discarded.
func Decode(r xml.TokenReader) (Element, error) {
	for {
		tok, err := r.Token()
		if err != nil {
			return Element{}, err
		}
		if start, ok := tok.(xml.StartElement); ok {
			return DecodeElement(r, start)
		}
	}
}

// DecodeElement builds the tree for the element opened by start, consuming
// tokens from r up to and including the matching end element.
func DecodeElement(r xml.TokenReader, start xml.StartElement) (Element, error) {
	el := Element{Name: start.Name, Attr: stripNamespaceDecls(start.Attr)}
	for {
		tok, err := r.Token()
		if err != nil {
			return el, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			child, err := DecodeElement(r, t)
			if err != nil {
				return el, err
			}
			el.Children = append(el.Children, Child{Element: &child})
		case xml.EndElement:
			return el, nil
		case xml.CharData:
			el.Children = append(el.Children, Child{Data: string(t)})
		}
	}
}

// xmlns declarations are redundant once names are resolved and would be
// emitted twice on re-encoding if kept.
func stripNamespaceDecls(attr []xml.Attr) []xml.Attr {
	var out []xml.Attr
	for _, a := range attr {
		if a.Name.Local == "xmlns" || a.Name.Space == "xmlns" {
			continue
		}
		out = append(out, a)
	}
	return out
}

// FirstChild returns the first child element whose local name matches local,
// or nil if there is none. The namespace is deliberately not considered;
// callers that care about it check the returned element's name.
func (e *Element) FirstChild(local string) *Element {
	for i := range e.Children {
		if c := e.Children[i].Element; c != nil && c.Name.Local == local {
			return c
		}
	}
	return nil
}

// Text returns the concatenated character data of the element and all of its
// descendants, in document order.
func (e *Element) Text() string {
	var b strings.Builder
	e.text(&b)
	return b.String()
}

func (e *Element) text(b *strings.Builder) {
	for _, c := range e.Children {
		if c.Element != nil {
			c.Element.text(b)
			continue
		}
		b.WriteString(c.Data)
	}
}

// InnerXML renders the element's content as markup with all namespace
// qualification removed: element and attribute names are written as bare
// local names and namespaced attributes are dropped.
func (e *Element) InnerXML() string {
	var b strings.Builder
	for _, c := range e.Children {
		renderChild(&b, c)
	}
	return b.String()
}

func renderChild(b *strings.Builder, c Child) {
	if c.Element == nil {
		/* #nosec */
		xml.EscapeText(b, []byte(c.Data))
		return
	}
	el := c.Element
	b.WriteByte('<')
	b.WriteString(el.Name.Local)
	for _, a := range el.Attr {
		if a.Name.Space != "" {
			continue
		}
		b.WriteByte(' ')
		b.WriteString(a.Name.Local)
		b.WriteString(`="`)
		/* #nosec */
		xml.EscapeText(b, []byte(a.Value))
		b.WriteByte('"')
	}
	if len(el.Children) == 0 {
		b.WriteString("/>")
		return
	}
	b.WriteByte('>')
	for _, cc := range el.Children {
		renderChild(b, cc)
	}
	b.WriteString("</")
	b.WriteString(el.Name.Local)
	b.WriteByte('>')
}

// Copy returns a deep copy of the element that shares no data with the
// original.
func (e Element) Copy() Element {
	if e.Attr != nil {
		e.Attr = append([]xml.Attr(nil), e.Attr...)
	}
	if e.Children != nil {
		children := make([]Child, len(e.Children))
		for i, c := range e.Children {
			if c.Element != nil {
				cp := c.Element.Copy()
				c.Element = &cp
			}
			children[i] = c
		}
		e.Children = children
	}
	return e
}

// TokenReader satisfies the xmlstream.Marshaler interface.
func (e Element) TokenReader() xml.TokenReader {
	var inner []xml.TokenReader
	for _, c := range e.Children {
		if c.Element != nil {
			inner = append(inner, c.Element.TokenReader())
			continue
		}
		inner = append(inner, xmlstream.Token(xml.CharData(c.Data)))
	}
	return xmlstream.Wrap(
		xmlstream.MultiReader(inner...),
		xml.StartElement{Name: e.Name, Attr: e.Attr},
	)
}

// WriteXML satisfies the xmlstream.WriterTo interface.
// It is like MarshalXML except it writes tokens to w.
func (e Element) WriteXML(w xmlstream.TokenWriter) (int, error) {
	return xmlstream.Copy(w, e.TokenReader())
}

// MarshalXML implements xml.Marshaler.
func (e Element) MarshalXML(enc *xml.Encoder, _ xml.StartElement) error {
	_, err := e.WriteXML(enc)
	return err
}

// UnmarshalXML implements xml.Unmarshaler.
func (e *Element) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	el, err := DecodeElement(d, start)
	if err != nil {
		return err
	}
	*e = el
	return nil
}
