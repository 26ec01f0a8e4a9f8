package view

import (
	"fmt"
	"strings"
)

// RenderText returns a plain text layout of the tree. Buttons are shown as
// [label] followed by the key bound to their action, if any.
func RenderText(root *Node, keys map[Action]string) string {
	var sb strings.Builder
	writeText(&sb, root, keys)
	return strings.TrimRight(sb.String(), "\n") + "\n"
}

func writeText(sb *strings.Builder, n *Node, keys map[Action]string) {
	if n == nil {
		return
	}
	switch n.Kind {
	case KindText:
		sb.WriteString(n.Text + "\n")
	case KindLink:
		sb.WriteString(n.Text + "\n")
	case KindButton:
		label := "[" + n.Text + "]"
		if key, ok := keys[n.Action]; ok {
			label += " (" + key + ")"
		}
		sb.WriteString(label + "\n")
	case KindImage:
		fmt.Fprintf(sb, "<%s: %s>\n", n.Text, n.Src)
	case KindRule:
		sb.WriteString(strings.Repeat("─", 40) + "\n")
	case KindTable:
		for _, row := range n.Children {
			writeRow(sb, row)
		}
	default:
		for _, c := range n.Children {
			writeText(sb, c, keys)
		}
	}
}

func writeRow(sb *strings.Builder, row *Node) {
	cells := make([]string, 0, len(row.Children))
	for _, c := range row.Children {
		cells = append(cells, fmt.Sprintf("%-12s", c.Text))
	}
	sb.WriteString(strings.TrimRight(strings.Join(cells, " "), " ") + "\n")
}
