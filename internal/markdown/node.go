package markdown

// Node is one component call in a compiled markdown document.
type Node struct {
	Tag       Tag
	Component string
	Text      string
	Attrs     map[string]string
	Children  []*Node

	raw bool
}

type Document struct {
	FrontMatter map[string][]string
	Nodes       []*Node
}

// mergeText joins adjacent text runs so the generated source emits one
// Text call per run.
func mergeText(nodes []*Node) []*Node {
	merged := nodes[:0]
	for _, n := range nodes {
		if n.Tag == TagText && len(merged) > 0 {
			last := merged[len(merged)-1]
			if last.Tag == TagText {
				last.Text += n.Text
				last.raw = last.raw || n.raw
				continue
			}
		}
		merged = append(merged, n)
	}
	return merged
}
