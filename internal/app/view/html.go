package view

import (
	"html"
	"io"
	"strings"
)

// ActionPath is the URL path an action button posts to.
func ActionPath(action Action) string {
	return "/actions/" + string(action)
}

// RenderHTML returns the HTML markup of the tree.
func RenderHTML(root *Node) string {
	var sb strings.Builder
	_ = WriteHTML(&sb, root)
	return sb.String()
}

// WriteHTML writes the HTML markup of the tree to w.
func WriteHTML(w io.Writer, root *Node) error {
	hw := &htmlWriter{w: w}
	hw.node(root)
	return hw.err
}

type htmlWriter struct {
	w   io.Writer
	err error
}

func (h *htmlWriter) write(parts ...string) {
	for _, p := range parts {
		if h.err != nil {
			return
		}
		_, h.err = io.WriteString(h.w, p)
	}
}

func (h *htmlWriter) attrs(n *Node) string {
	var sb strings.Builder
	if n.ID != "" {
		sb.WriteString(` id="` + html.EscapeString(n.ID) + `"`)
	}
	if n.Class != "" {
		sb.WriteString(` class="` + html.EscapeString(n.Class) + `"`)
	}
	return sb.String()
}

func (h *htmlWriter) children(n *Node) {
	for _, c := range n.Children {
		h.node(c)
	}
}

func (h *htmlWriter) node(n *Node) {
	if n == nil {
		return
	}
	text := html.EscapeString(n.Text)
	switch n.Kind {
	case KindText:
		h.write("<span", h.attrs(n), ">", text, "</span>")
	case KindLink:
		h.write(`<a href="`, html.EscapeString(n.Href), `"`, h.attrs(n), ">", text, "</a>")
	case KindButton:
		h.write(`<form method="post" action="`, html.EscapeString(ActionPath(n.Action)), `" data-action="`,
			html.EscapeString(string(n.Action)), `"><button type="submit"`, h.attrs(n), ">", text, "</button></form>")
	case KindImage:
		h.write(`<img src="`, html.EscapeString(n.Src), `" alt="`, text, `"`, h.attrs(n), " />")
	case KindRule:
		h.write("<hr", h.attrs(n), " />")
	case KindTable:
		h.write("<table", h.attrs(n), ">")
		h.children(n)
		h.write("</table>")
	case KindRow:
		h.write("<tr", h.attrs(n), ">")
		h.children(n)
		h.write("</tr>")
	case KindCell:
		h.write("<td", h.attrs(n), ">", text, "</td>")
	default:
		h.write("<div", h.attrs(n), ">")
		if text != "" {
			h.write(text)
		}
		h.children(n)
		h.write("</div>")
	}
}
