package dom

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Element is the mirrored state of a page element with an id
type Element struct {
	ID      string
	Tag     string
	Classes []string
	Text    string
	// Parent is the id of the direct parent element, empty if it has none
	Parent string
}

// HasClass checks if the element carries class
func (e *Element) HasClass(class string) bool {
	for _, c := range e.Classes {
		if c == class {
			return true
		}
	}
	return false
}

func (e *Element) clone() *Element {
	res := *e
	res.Classes = append([]string(nil), e.Classes...)
	return &res
}

// Document keeps elements with ids and form fields of a page
type Document struct {
	elements map[string]*Element
	forms    map[string][]string
}

// Parse reads html and collects elements having an id and named inputs of forms having an id
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("can't parse html: %w", err)
	}
	res := &Document{elements: map[string]*Element{}, forms: map[string][]string{}}
	if err := res.walk(root, ""); err != nil {
		return nil, err
	}
	return res, nil
}

func (d *Document) walk(n *html.Node, form string) error {
	if n.Type == html.ElementNode {
		id := attr(n, "id")
		if id != "" {
			if _, ok := d.elements[id]; ok {
				return fmt.Errorf("duplicate id '%s'", id)
			}
			d.elements[id] = &Element{
				ID:      id,
				Tag:     n.Data,
				Classes: strings.Fields(attr(n, "class")),
				Text:    text(n),
				Parent:  parentID(n),
			}
		}
		if n.Data == "form" && id != "" {
			form = id
			d.forms[form] = nil
		}
		if (n.Data == "input" || n.Data == "textarea") && form != "" {
			if name := attr(n, "name"); name != "" {
				d.forms[form] = append(d.forms[form], name)
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := d.walk(c, form); err != nil {
			return err
		}
	}
	return nil
}

// Element returns a copy of the element
func (d *Document) Element(id string) (*Element, bool) {
	e, ok := d.elements[id]
	if !ok {
		return nil, false
	}
	return e.clone(), true
}

// Fields returns input names of the form
func (d *Document) Fields(form string) ([]string, bool) {
	res, ok := d.forms[form]
	return append([]string(nil), res...), ok
}

// Clone makes a deep copy, so each page session mutates its own mirror
func (d *Document) Clone() *Document {
	res := &Document{elements: make(map[string]*Element, len(d.elements)), forms: make(map[string][]string, len(d.forms))}
	for k, v := range d.elements {
		res.elements[k] = v.clone()
	}
	for k, v := range d.forms {
		res.forms[k] = append([]string(nil), v...)
	}
	return res
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func parentID(n *html.Node) string {
	if n.Parent == nil || n.Parent.Type != html.ElementNode {
		return ""
	}
	return attr(n.Parent, "id")
}

func text(n *html.Node) string {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
	}
	return strings.TrimSpace(sb.String())
}
