package view

import (
	"io"
	"sort"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// RenderHTML writes n as an HTML fragment.
func RenderHTML(w io.Writer, n *Node) error {
	return html.Render(w, toHTML(n))
}

// RenderPage writes a complete HTML document with n as the body.
func RenderPage(w io.Writer, title string, n *Node) error {
	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})

	root := element("html", nil)
	head := element("head", nil)
	head.AppendChild(element("meta", []html.Attribute{{Key: "charset", Val: "utf-8"}}))
	titleNode := element("title", nil)
	titleNode.AppendChild(&html.Node{Type: html.TextNode, Data: title})
	head.AppendChild(titleNode)

	body := element("body", nil)
	body.AppendChild(toHTML(n))

	root.AppendChild(head)
	root.AppendChild(body)
	doc.AppendChild(root)
	return html.Render(w, doc)
}

func element(tag string, attrs []html.Attribute) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
		Attr:     attrs,
	}
}

func toHTML(n *Node) *html.Node {
	var attrs []html.Attribute
	if len(n.Classes) > 0 {
		attrs = append(attrs, html.Attribute{Key: "class", Val: strings.Join(n.Classes, " ")})
	}
	keys := make([]string, 0, len(n.Attrs))
	for k := range n.Attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		attrs = append(attrs, html.Attribute{Key: k, Val: n.Attrs[k]})
	}

	out := element(n.Tag, attrs)
	if n.Text != "" {
		out.AppendChild(&html.Node{Type: html.TextNode, Data: n.Text})
	}
	for _, c := range n.Children {
		out.AppendChild(toHTML(c))
	}
	return out
}

var blockTags = map[string]bool{
	"main": true, "nav": true, "section": true, "article": true, "header": true,
	"div": true, "form": true, "ul": true, "li": true, "p": true,
	"h1": true, "h2": true, "h3": true, "h4": true,
}

// RenderText renders n as indented plain text, one line per block element.
// Buttons show as [label] and checkboxes as [x] or [ ].
func RenderText(n *Node) string {
	return RenderTextFunc(n, nil)
}

// TokenFunc rewrites the text token of a node, for example to style it.
type TokenFunc func(n *Node, token string) string

// RenderTextFunc is RenderText with every token passed through decorate.
func RenderTextFunc(n *Node, decorate TokenFunc) string {
	r := &textRenderer{decorate: decorate}
	r.render(n, 0)
	r.flush()
	return strings.TrimRight(r.b.String(), "\n")
}

type textRenderer struct {
	b         strings.Builder
	line      []string
	lineDepth int
	decorate  TokenFunc
}

func (r *textRenderer) emit(token string, depth int) {
	if len(r.line) == 0 {
		r.lineDepth = depth
	}
	r.line = append(r.line, token)
}

func (r *textRenderer) flush() {
	if len(r.line) == 0 {
		return
	}
	r.b.WriteString(strings.Repeat("  ", r.lineDepth))
	r.b.WriteString(strings.Join(r.line, " "))
	r.b.WriteString("\n")
	r.line = r.line[:0]
}

// render emits n at depth. Inline children stay on their block's line and
// nested blocks are indented one level further.
func (r *textRenderer) render(n *Node, depth int) {
	block := blockTags[n.Tag]
	if block {
		r.flush()
	}

	if token := textToken(n); token != "" {
		if r.decorate != nil {
			token = r.decorate(n, token)
		}
		r.emit(token, depth)
	}

	if n.Tag != "select" {
		for _, c := range n.Children {
			if blockTags[c.Tag] {
				r.render(c, depth+1)
			} else {
				r.render(c, depth)
			}
		}
	}

	if block {
		r.flush()
	}
}

func textToken(n *Node) string {
	switch n.Tag {
	case "button":
		return "[" + n.Text + "]"
	case "input":
		if n.Attr("type") == "checkbox" {
			if n.Attr("checked") != "" {
				return "[x]"
			}
			return "[ ]"
		}
		return n.Attr("name") + ": " + n.Attr("value")
	case "textarea":
		return n.Attr("name") + ": " + n.Text
	case "select":
		if opt := n.Find(ByAttr("selected", "selected")); opt != nil {
			return n.Attr("name") + ": " + opt.Text
		}
		return n.Attr("name") + ":"
	case "label":
		return ""
	}
	return n.Text
}
