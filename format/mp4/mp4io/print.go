package mp4io

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Node is one atom in a structural dump of a file.
type Node struct {
	Tag      Tag    `json:"-"`
	Type     string `json:"type"`
	Name     string `json:"name,omitempty"`
	Offset   uint64 `json:"offset"`
	Size     uint64 `json:"size"`
	Children []Node `json:"children,omitempty"`
}

// childrenAt gives, for atoms walked into, how many body bytes precede the
// first child.
var childrenAt = map[Tag]uint64{
	MOOV: 0, TRAK: 0, MDIA: 0, MINF: 0, DINF: 0, STBL: 0, EDTS: 0,
	CLIP: 0, MATT: 0, TAPT: 0, RMRA: 0, RMDA: 0, MVEX: 0,
	STSD: 8, DREF: 8,
}

// ReadTree walks the whole file structurally. Atoms are not parsed; the
// walk only descends into known containers.
func ReadTree(c *Cursor) ([]Node, error) {
	size, err := c.Size()
	if err != nil {
		return nil, err
	}
	if err = c.SeekAbsolute(0); err != nil {
		return nil, err
	}
	return readNodes(c, size)
}

func readNodes(c *Cursor, end uint64) ([]Node, error) {
	var nodes []Node
	for c.Position()+HeaderSize <= end {
		f, tag, err := ReadHeader(c)
		if err != nil {
			return nodes, err
		}
		if f.End() > end {
			return nodes, fmt.Errorf("%w: %q at offset %d ends at %d, past parent end %d",
				ErrFramingViolation, tag, f.Offset, f.End(), end)
		}
		n := Node{Tag: tag, Type: tag.String(), Name: TagName(tag), Offset: f.Offset, Size: f.Length}
		if skip, ok := childrenAt[tag]; ok && f.Length >= HeaderSize+skip {
			if err = c.SeekAbsolute(f.Offset + HeaderSize + skip); err != nil {
				return nodes, err
			}
			if n.Children, err = readNodes(c, f.End()); err != nil {
				return nodes, parseErr(tag.String(), f.Offset, err)
			}
		}
		nodes = append(nodes, n)
		if err = c.SeekAbsolute(f.End()); err != nil {
			return nodes, err
		}
	}
	return nodes, nil
}

func printNode(out io.Writer, n Node, depth int) {
	fmt.Fprintf(out, "%s%s offset=%d size=%d", strings.Repeat(" ", depth*2), n.Tag, n.Offset, n.Size)
	if n.Name != "" {
		fmt.Fprintf(out, " (%s)", n.Name)
	}
	fmt.Fprintln(out)
	for _, child := range n.Children {
		printNode(out, child, depth+1)
	}
}

// FprintAtoms writes an indented listing of nodes.
func FprintAtoms(out io.Writer, nodes []Node) {
	for _, n := range nodes {
		printNode(out, n, 0)
	}
}

func PrintAtoms(nodes []Node) {
	FprintAtoms(os.Stdout, nodes)
}
