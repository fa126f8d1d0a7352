package syntax

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// Print writes an indented outline of the parse tree to w, one element per
// line with its span.
func (d *Document) Print(w io.Writer) error {
	bw := bufio.NewWriter(w)

	printValue(bw, d.Root, 0)

	return bw.Flush()
}

func printValue(w *bufio.Writer, v Value, depth int) {
	indent := strings.Repeat("  ", depth)

	switch v := v.(type) {
	case *Node:
		w.WriteString(indent + "Node " + spanString(v.span) + "\n")

		for _, e := range v.Entries {
			w.WriteString(indent + "  Entry " + spanString(e.span) +
				" key=" + e.Key.text + "\n")
			printValue(w, e.Value, depth+2)
		}

	case *Array:
		w.WriteString(indent + "Array " + spanString(v.span) +
			" prefix=" + string(v.Prefix) +
			" len=" + strconv.Itoa(len(v.Elements)) + "\n")

		for _, elem := range v.Elements {
			printValue(w, elem, depth+1)
		}

	case *Literal:
		w.WriteString(indent + "Literal " + spanString(v.span) +
			" " + v.Kind.String() + " " + v.text + "\n")
	}
}

func spanString(s Span) string {
	return s.Start.String() + "-" + s.End.String()
}
