package markdown

import (
	"fmt"
	"path"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/3-lines-studio/routegen/internal/core"
)

// PageSource places a compiled markdown file in the generated source tree.
type PageSource struct {
	Package  string
	FileName string
	FuncName string
	PageFQCN string
}

// Dir is the source directory of the package relative to a source root.
func (s PageSource) Dir() string {
	return strings.ReplaceAll(s.Package, ".", "/")
}

func (s PageSource) Path() string {
	return path.Join(s.Dir(), s.FileName)
}

var titleCaser = cases.Title(language.Und, cases.NoLower)

// PageSourceFor maps a markdown path relative to the markdown root onto the
// pages package: "posts/blog-post.md" becomes BlogPost in <pages>.posts,
// written to blog-post.kt so the page keeps its file slug.
func PageSourceFor(relPath, pagesPackage string) PageSource {
	relPath = path.Clean(strings.ReplaceAll(relPath, "\\", "/"))
	dir, file := path.Split(relPath)
	base := strings.TrimSuffix(file, path.Ext(file))

	pkg := pagesPackage
	for _, segment := range strings.Split(strings.Trim(dir, "/"), "/") {
		if segment == "" || segment == "." {
			continue
		}
		pkg = core.QualifiedName(pkg, packageSegment(segment))
	}

	return PageSource{
		Package:  pkg,
		FileName: base + ".kt",
		FuncName: functionName(base),
	}
}

func packageSegment(segment string) string {
	var b strings.Builder
	for i, r := range strings.ToLower(segment) {
		switch {
		case r == '_' || unicode.IsLetter(r):
			b.WriteRune(r)
		case unicode.IsDigit(r):
			if i == 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

func functionName(base string) string {
	words := strings.FieldsFunc(base, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	var b strings.Builder
	for _, word := range words {
		b.WriteString(titleCaser.String(word))
	}
	name := b.String()
	if name == "" || unicode.IsDigit([]rune(name)[0]) {
		name = "Page" + name
	}
	return name
}

const indentUnit = "    "

// GeneratePage renders doc as a Kotlin page function. Output is
// deterministic for a given document and source.
func GeneratePage(doc *Document, src PageSource) string {
	pageFQCN := src.PageFQCN
	if pageFQCN == "" {
		pageFQCN = "com.varabyte.kobweb.core.Page"
	}
	pageName := pageFQCN[strings.LastIndex(pageFQCN, ".")+1:]

	var b strings.Builder
	b.WriteString("// Generated by routegen from markdown. Do not edit.\n")
	if src.Package != "" {
		fmt.Fprintf(&b, "package %s\n\n", src.Package)
	}
	b.WriteString("import androidx.compose.runtime.Composable\n")
	if strings.Contains(pageFQCN, ".") {
		fmt.Fprintf(&b, "import %s\n", pageFQCN)
	}
	b.WriteString("\n")

	if len(doc.FrontMatter) > 0 {
		fmt.Fprintf(&b, "val %sFrontMatter: Map<String, List<String>> = mapOf(\n", src.FuncName)
		for _, key := range doc.FrontMatterKeys() {
			values := doc.FrontMatter[key]
			quoted := make([]string, len(values))
			for i, v := range values {
				quoted[i] = core.KotlinString(v)
			}
			fmt.Fprintf(&b, "%s%s to listOf(%s),\n", indentUnit, core.KotlinString(key), strings.Join(quoted, ", "))
		}
		b.WriteString(")\n\n")
	}

	fmt.Fprintf(&b, "@%s\n@Composable\nfun %s() {\n", pageName, src.FuncName)
	for _, n := range doc.Nodes {
		writeNode(&b, n, 1)
	}
	b.WriteString("}\n")
	return b.String()
}

func writeNode(b *strings.Builder, n *Node, depth int) {
	indent := strings.Repeat(indentUnit, depth)

	switch n.Tag {
	case TagText:
		fmt.Fprintf(b, "%s%s(%s)\n", indent, n.Component, core.KotlinString(n.Text))

	case TagBr, TagHr:
		fmt.Fprintf(b, "%s%s()\n", indent, n.Component)

	case TagImg:
		fmt.Fprintf(b, "%s%s(src = %s, alt = %s)\n", indent, n.Component,
			core.KotlinString(n.Attrs["src"]), core.KotlinString(n.Attrs["alt"]))

	default:
		fmt.Fprintf(b, "%s%s%s {", indent, n.Component, callArguments(n))
		if len(n.Children) == 0 {
			b.WriteString("}\n")
			return
		}
		b.WriteString("\n")
		for _, child := range n.Children {
			writeNode(b, child, depth+1)
		}
		fmt.Fprintf(b, "%s}\n", indent)
	}
}

func callArguments(n *Node) string {
	switch n.Tag {
	case TagA:
		return fmt.Sprintf("(href = %s)", core.KotlinString(n.Attrs["href"]))
	case TagOl:
		if start, ok := n.Attrs["start"]; ok {
			return fmt.Sprintf("(attrs = { attr(\"start\", %s) })", core.KotlinString(start))
		}
	}
	return ""
}
