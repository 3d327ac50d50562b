package markdown

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/adrg/frontmatter"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
	"go.uber.org/zap"
)

// Compiler turns markdown sources into component trees. It is safe to reuse
// across files.
type Compiler struct {
	cfg    Config
	md     goldmark.Markdown
	logger *zap.Logger
}

func NewCompiler(cfg Config, logger *zap.Logger) *Compiler {
	if logger == nil {
		logger = zap.NewNop()
	}

	var extensions []goldmark.Extender
	if cfg.Features.Autolink {
		extensions = append(extensions, extension.Linkify)
	}
	if cfg.Features.Tables {
		extensions = append(extensions, extension.Table)
	}
	if cfg.Features.TaskList {
		extensions = append(extensions, extension.TaskList)
	}

	return &Compiler{
		cfg:    cfg,
		md:     goldmark.New(goldmark.WithExtensions(extensions...)),
		logger: logger,
	}
}

func (c *Compiler) Compile(src []byte) (*Document, error) {
	doc := &Document{}

	body := src
	if c.cfg.Features.FrontMatter {
		var matter map[string]any
		rest, err := frontmatter.Parse(bytes.NewReader(src), &matter)
		if err != nil {
			return nil, fmt.Errorf("failed to parse front matter: %w", err)
		}
		body = rest
		doc.FrontMatter, err = flattenFrontMatter(matter)
		if err != nil {
			return nil, err
		}
	}

	root := c.md.Parser().Parse(text.NewReader(body))
	w := &walker{compiler: c, source: body}
	doc.Nodes = w.children(root)
	return doc, nil
}

// flattenFrontMatter normalizes every value to a list of strings. Nested
// maps and lists have no Kotlin representation and are rejected.
func flattenFrontMatter(matter map[string]any) (map[string][]string, error) {
	if len(matter) == 0 {
		return nil, nil
	}
	flat := make(map[string][]string, len(matter))
	for key, value := range matter {
		switch v := value.(type) {
		case nil:
			flat[key] = []string{}
		case []any:
			values := make([]string, 0, len(v))
			for _, item := range v {
				if !isScalar(item) {
					return nil, fmt.Errorf("front matter %q: list items must be scalars", key)
				}
				values = append(values, fmt.Sprint(item))
			}
			flat[key] = values
		default:
			if !isScalar(v) {
				return nil, fmt.Errorf("front matter %q: nested values are not supported", key)
			}
			flat[key] = []string{fmt.Sprint(v)}
		}
	}
	return flat, nil
}

func isScalar(value any) bool {
	switch value.(type) {
	case []any, map[string]any, map[any]any:
		return false
	}
	return true
}

// FrontMatterKeys returns the front matter keys in sorted order.
func (d *Document) FrontMatterKeys() []string {
	keys := make([]string, 0, len(d.FrontMatter))
	for key := range d.FrontMatter {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

type walker struct {
	compiler *Compiler
	source   []byte
}

func (w *walker) node(tag Tag) *Node {
	return &Node{Tag: tag, Component: w.compiler.cfg.Component(tag)}
}

func (w *walker) textNode(s string) *Node {
	n := w.node(TagText)
	n.Text = s
	return n
}

// code keeps the body in Text and as a single text child, so overriding the
// text widget applies to code too.
func (w *walker) code(tag Tag, body string) *Node {
	code := w.node(tag)
	code.Text = body
	code.Children = []*Node{w.textNode(body)}
	return code
}

func (w *walker) children(parent ast.Node) []*Node {
	var nodes []*Node
	for child := parent.FirstChild(); child != nil; child = child.NextSibling() {
		nodes = append(nodes, w.convert(child)...)
	}
	if len(nodes) == 0 {
		return nil
	}

	// goldmark may split a run at an escape, so unescape after merging.
	nodes = mergeText(nodes)
	for _, n := range nodes {
		if n.raw {
			n.Text = string(unescape([]byte(n.Text)))
			n.raw = false
		}
	}
	return nodes
}

func (w *walker) container(tag Tag, n ast.Node) *Node {
	node := w.node(tag)
	node.Children = w.children(n)
	return node
}

func (w *walker) convert(n ast.Node) []*Node {
	switch n := n.(type) {
	case *ast.Heading:
		return []*Node{w.container(headingTag(n.Level), n)}

	case *ast.Paragraph:
		return []*Node{w.container(TagP, n)}

	case *ast.TextBlock:
		return w.children(n)

	case *ast.Text:
		value := string(n.Segment.Value(w.source))
		if n.SoftLineBreak() && !n.HardLineBreak() {
			value += " "
		}
		run := w.textNode(value)
		run.raw = true
		nodes := []*Node{run}
		if n.HardLineBreak() {
			nodes = append(nodes, w.node(TagBr))
		}
		return nodes

	case *ast.String:
		return []*Node{w.textNode(string(n.Value))}

	case *ast.CodeSpan:
		return []*Node{w.code(TagInlineCode, w.plainText(n))}

	case *ast.Emphasis:
		tag := TagEm
		if n.Level >= 2 {
			tag = TagB
		}
		return []*Node{w.container(tag, n)}

	case *ast.Link:
		link := w.container(TagA, n)
		link.Attrs = map[string]string{"href": string(n.Destination)}
		if len(n.Title) > 0 {
			link.Attrs["title"] = string(n.Title)
		}
		return []*Node{link}

	case *ast.AutoLink:
		link := w.node(TagA)
		link.Attrs = map[string]string{"href": string(n.URL(w.source))}
		link.Children = []*Node{w.textNode(string(n.Label(w.source)))}
		return []*Node{link}

	case *ast.Image:
		img := w.node(TagImg)
		img.Attrs = map[string]string{
			"src": string(n.Destination),
			"alt": w.altText(n),
		}
		if len(n.Title) > 0 {
			img.Attrs["title"] = string(n.Title)
		}
		return []*Node{img}

	case *ast.ThematicBreak:
		return []*Node{w.node(TagHr)}

	case *ast.List:
		if !n.IsOrdered() {
			return []*Node{w.container(TagUl, n)}
		}
		list := w.container(TagOl, n)
		if n.Start != 1 {
			list.Attrs = map[string]string{"start": strconv.Itoa(n.Start)}
		}
		return []*Node{list}

	case *ast.ListItem:
		return []*Node{w.container(TagLi, n)}

	case *ast.FencedCodeBlock:
		code := w.code(TagCode, w.lines(n))
		if lang := n.Language(w.source); len(lang) > 0 {
			code.Attrs = map[string]string{"language": string(lang)}
		}
		return []*Node{code}

	case *ast.CodeBlock:
		return []*Node{w.code(TagCode, w.lines(n))}

	case *ast.Blockquote:
		return []*Node{w.container(TagBlockquote, n)}

	case *east.Table:
		return []*Node{w.table(n)}

	case *east.TaskCheckBox:
		if n.IsChecked {
			return []*Node{w.textNode("[x] ")}
		}
		return []*Node{w.textNode("[ ] ")}

	case *ast.HTMLBlock, *ast.RawHTML:
		w.compiler.logger.Warn("raw HTML in markdown is not supported and was dropped",
			zap.String("kind", n.Kind().String()))
		return nil

	default:
		w.compiler.logger.Warn("unsupported markdown node, rendering its children only",
			zap.String("kind", n.Kind().String()))
		return w.children(n)
	}
}

// table regroups goldmark's header and rows into thead and tbody.
func (w *walker) table(n *east.Table) *Node {
	table := w.node(TagTable)
	body := w.node(TagTbody)

	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		switch row := child.(type) {
		case *east.TableHeader:
			head := w.node(TagThead)
			tr := w.node(TagTr)
			for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
				tr.Children = append(tr.Children, w.container(TagTh, cell))
			}
			head.Children = []*Node{tr}
			table.Children = append(table.Children, head)
		case *east.TableRow:
			tr := w.node(TagTr)
			for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
				tr.Children = append(tr.Children, w.container(TagTd, cell))
			}
			body.Children = append(body.Children, tr)
		}
	}

	if len(body.Children) > 0 {
		table.Children = append(table.Children, body)
	}
	return table
}

func (w *walker) lines(n ast.Node) string {
	var b strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		segment := lines.At(i)
		b.Write(segment.Value(w.source))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// plainText flattens the raw text below n, as used for code
// spans.
func (w *walker) plainText(n ast.Node) string {
	var b strings.Builder
	_ = ast.Walk(n, func(child ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := child.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(w.source))
			if t.SoftLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return b.String()
}

// altText flattens an image description. Unlike code spans, its text is
// unescaped.
func (w *walker) altText(n ast.Node) string {
	var b strings.Builder
	var raw []byte
	flush := func() {
		b.Write(unescape(raw))
		raw = raw[:0]
	}
	_ = ast.Walk(n, func(child ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := child.(type) {
		case *ast.CodeSpan:
			flush()
			b.WriteString(w.plainText(t))
			return ast.WalkSkipChildren, nil
		case *ast.Text:
			raw = append(raw, t.Segment.Value(w.source)...)
			if t.SoftLineBreak() {
				raw = append(raw, ' ')
			}
		case *ast.String:
			raw = append(raw, t.Value...)
		}
		return ast.WalkContinue, nil
	})
	flush()
	return b.String()
}

func headingTag(level int) Tag {
	switch level {
	case 1:
		return TagH1
	case 2:
		return TagH2
	case 3:
		return TagH3
	case 4:
		return TagH4
	case 5:
		return TagH5
	default:
		return TagH6
	}
}

func unescape(value []byte) []byte {
	value = util.UnescapePunctuations(value)
	value = util.ResolveNumericReferences(value)
	return util.ResolveEntityNames(value)
}
