package markdown

import (
	"os"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	v := m.Run()
	snaps.Clean(m, snaps.CleanOpts{Sort: true})
	os.Exit(v)
}

func compile(t *testing.T, cfg Config, src string) *Document {
	t.Helper()
	doc, err := NewCompiler(cfg, nil).Compile([]byte(src))
	require.NoError(t, err)
	return doc
}

func tags(nodes []*Node) []Tag {
	out := make([]Tag, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.Tag)
	}
	return out
}

func TestCompileInlineFormatting(t *testing.T) {
	doc := compile(t, DefaultConfig(), "# Hello\n\nSome *em* and **bold** text.\n")

	require.Len(t, doc.Nodes, 2)
	assert.Equal(t, TagH1, doc.Nodes[0].Tag)
	assert.Equal(t, "org.jetbrains.compose.web.dom.H1", doc.Nodes[0].Component)

	p := doc.Nodes[1]
	assert.Equal(t, []Tag{TagText, TagEm, TagText, TagB, TagText}, tags(p.Children))
	assert.Equal(t, "Some ", p.Children[0].Text)
	assert.Equal(t, "em", p.Children[1].Children[0].Text)
	assert.Equal(t, "bold", p.Children[3].Children[0].Text)
	assert.Equal(t, " text.", p.Children[4].Text)
}

func TestCompileLineBreaks(t *testing.T) {
	doc := compile(t, DefaultConfig(), "one\ntwo\n")
	require.Len(t, doc.Nodes, 1)
	require.Len(t, doc.Nodes[0].Children, 1)
	assert.Equal(t, "one two", doc.Nodes[0].Children[0].Text)

	doc = compile(t, DefaultConfig(), "one  \ntwo\n")
	require.Len(t, doc.Nodes, 1)
	assert.Equal(t, []Tag{TagText, TagBr, TagText}, tags(doc.Nodes[0].Children))
}

func TestCompileEscapes(t *testing.T) {
	doc := compile(t, DefaultConfig(), "1 \\* 2 &amp; 3\n")
	require.Len(t, doc.Nodes, 1)
	require.Len(t, doc.Nodes[0].Children, 1)
	assert.Equal(t, "1 * 2 & 3", doc.Nodes[0].Children[0].Text)
}

func TestCompileFrontMatter(t *testing.T) {
	src := "---\ntitle: Hello\ntags: [a, b]\n---\n# Hi\n"

	doc := compile(t, DefaultConfig(), src)
	assert.Equal(t, map[string][]string{"title": {"Hello"}, "tags": {"a", "b"}}, doc.FrontMatter)
	require.NotEmpty(t, doc.Nodes)
	assert.Equal(t, TagH1, doc.Nodes[0].Tag)

	cfg := DefaultConfig()
	cfg.Features.FrontMatter = false
	doc = compile(t, cfg, src)
	assert.Nil(t, doc.FrontMatter)
	require.NotEmpty(t, doc.Nodes)
	assert.Equal(t, TagHr, doc.Nodes[0].Tag, "without front matter support the header is markdown")
}

func TestCompileTaskList(t *testing.T) {
	doc := compile(t, DefaultConfig(), "- [x] done\n- [ ] todo\n")

	require.Len(t, doc.Nodes, 1)
	list := doc.Nodes[0]
	assert.Equal(t, TagUl, list.Tag)
	require.Len(t, list.Children, 2)
	assert.Equal(t, "[x] done", list.Children[0].Children[0].Text)
	assert.Equal(t, "[ ] todo", list.Children[1].Children[0].Text)
}

func TestCompileTable(t *testing.T) {
	doc := compile(t, DefaultConfig(), "| a | b |\n|---|---|\n| 1 | 2 |\n")

	require.Len(t, doc.Nodes, 1)
	table := doc.Nodes[0]
	assert.Equal(t, TagTable, table.Tag)
	assert.Equal(t, []Tag{TagThead, TagTbody}, tags(table.Children))

	head := table.Children[0].Children[0]
	assert.Equal(t, []Tag{TagTh, TagTh}, tags(head.Children))
	body := table.Children[1].Children[0]
	assert.Equal(t, []Tag{TagTd, TagTd}, tags(body.Children))
	assert.Equal(t, "1", body.Children[0].Children[0].Text)

	cfg := DefaultConfig()
	cfg.Features.Tables = false
	doc = compile(t, cfg, "| a | b |\n|---|---|\n| 1 | 2 |\n")
	assert.NotContains(t, tags(doc.Nodes), TagTable)
}

func TestCompileAutolink(t *testing.T) {
	doc := compile(t, DefaultConfig(), "see https://example.com now\n")

	require.Len(t, doc.Nodes, 1)
	p := doc.Nodes[0]
	assert.Equal(t, []Tag{TagText, TagA, TagText}, tags(p.Children))
	assert.Equal(t, "https://example.com", p.Children[1].Attrs["href"])
	assert.Equal(t, "https://example.com", p.Children[1].Children[0].Text)
}

func TestCompileCodeAndImages(t *testing.T) {
	doc := compile(t, DefaultConfig(), "```kotlin\nval x = 1\n```\n\n![a cat](cat.png) and `inline`\n")

	require.Len(t, doc.Nodes, 2)
	code := doc.Nodes[0]
	assert.Equal(t, TagCode, code.Tag)
	assert.Equal(t, "val x = 1", code.Text)
	assert.Equal(t, "kotlin", code.Attrs["language"])

	p := doc.Nodes[1]
	assert.Equal(t, []Tag{TagImg, TagText, TagInlineCode}, tags(p.Children))
	assert.Equal(t, map[string]string{"src": "cat.png", "alt": "a cat"}, p.Children[0].Attrs)
	assert.Equal(t, "inline", p.Children[2].Text)
}

func TestCompileImageAltIsUnescaped(t *testing.T) {
	doc := compile(t, DefaultConfig(), "![a\\*b &amp; `c\\*`](x.png)\n")

	require.Len(t, doc.Nodes, 1)
	require.Len(t, doc.Nodes[0].Children, 1)
	assert.Equal(t, `a*b & c\*`, doc.Nodes[0].Children[0].Attrs["alt"])
}

func TestCompileRejectsNestedFrontMatter(t *testing.T) {
	tests := map[string]string{
		"map":          "---\nauthor:\n  name: Ann\n---\nbody\n",
		"list of maps": "---\nlinks:\n  - href: /a\n---\nbody\n",
	}

	for name, src := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := NewCompiler(DefaultConfig(), nil).Compile([]byte(src))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "front matter")
		})
	}
}

func TestCompileDropsRawHTML(t *testing.T) {
	doc := compile(t, DefaultConfig(), "<div>x</div>\n")
	assert.Empty(t, doc.Nodes)
}

func TestComponentOverrides(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Components[TagH1] = "com.example.components.Title"
	cfg.Components["marquee"] = "com.example.Marquee"

	doc := compile(t, cfg, "# Hi\n")
	assert.Equal(t, "com.example.components.Title", doc.Nodes[0].Component)
	assert.Equal(t, "org.jetbrains.compose.web.dom.Text", doc.Nodes[0].Children[0].Component)

	assert.Equal(t, []Tag{"marquee"}, cfg.UnknownTags())
	assert.Equal(t, "com.example.components.Title", cfg.ResolvedComponents()[TagH1])
	assert.Equal(t, "org.jetbrains.compose.web.dom.Ul", cfg.ResolvedComponents()[TagUl])
}

func TestPageSourceFor(t *testing.T) {
	tests := []struct {
		relPath string
		want    PageSource
	}{
		{"posts/blog-post.md", PageSource{Package: "com.example.pages.posts", FileName: "blog-post.kt", FuncName: "BlogPost"}},
		{"index.md", PageSource{Package: "com.example.pages", FileName: "index.kt", FuncName: "Index"}},
		{"My-Docs/2024-recap.md", PageSource{Package: "com.example.pages.my_docs", FileName: "2024-recap.kt", FuncName: "Page2024Recap"}},
		{"guides/setup/gettingStarted.md", PageSource{Package: "com.example.pages.guides.setup", FileName: "gettingStarted.kt", FuncName: "GettingStarted"}},
	}

	for _, tt := range tests {
		t.Run(tt.relPath, func(t *testing.T) {
			assert.Equal(t, tt.want, PageSourceFor(tt.relPath, "com.example.pages"))
		})
	}
}

func TestGeneratePage(t *testing.T) {
	cfg := DefaultConfig()
	w := &walker{compiler: NewCompiler(cfg, nil)}

	heading := w.node(TagH1)
	heading.Children = []*Node{w.textNode("Hi")}
	link := w.node(TagA)
	link.Attrs = map[string]string{"href": "/x"}
	link.Children = []*Node{w.textNode("link")}
	para := w.node(TagP)
	para.Children = []*Node{w.textNode("a \"quoted\" $name "), link}

	doc := &Document{
		FrontMatter: map[string][]string{"title": {"Hello"}, "author": {"Ann", "Bo"}},
		Nodes:       []*Node{heading, para, w.node(TagHr)},
	}
	src := PageSource{Package: "com.example.pages.posts", FileName: "hello.kt", FuncName: "Hello"}

	want := `// Generated by routegen from markdown. Do not edit.
package com.example.pages.posts

import androidx.compose.runtime.Composable
import com.varabyte.kobweb.core.Page

val HelloFrontMatter: Map<String, List<String>> = mapOf(
    "author" to listOf("Ann", "Bo"),
    "title" to listOf("Hello"),
)

@Page
@Composable
fun Hello() {
    org.jetbrains.compose.web.dom.H1 {
        org.jetbrains.compose.web.dom.Text("Hi")
    }
    org.jetbrains.compose.web.dom.P {
        org.jetbrains.compose.web.dom.Text("a \"quoted\" \$name ")
        org.jetbrains.compose.web.dom.A(href = "/x") {
            org.jetbrains.compose.web.dom.Text("link")
        }
    }
    org.jetbrains.compose.web.dom.Hr()
}
`
	assert.Equal(t, want, GeneratePage(doc, src))
}

func TestGeneratePageCustomAnnotation(t *testing.T) {
	out := GeneratePage(&Document{}, PageSource{Package: "site.pages", FuncName: "Empty", PageFQCN: "site.framework.Route"})
	assert.Contains(t, out, "import site.framework.Route\n")
	assert.Contains(t, out, "@Route\n@Composable\nfun Empty() {\n}\n")
	assert.NotContains(t, out, "FrontMatter")
}

func TestGeneratePageFromMarkdown(t *testing.T) {
	src := `---
title: Release notes
---
# Release notes

Version **2.0** ships with:

1. Faster builds
2. [Docs](https://example.com/docs "Docs")

- [x] scanner
- [ ] watch mode

| Flag | Default |
|------|---------|
| -v   | off     |

> Upgrade with ` + "`routegen build`" + `.

---
`
	doc := compile(t, DefaultConfig(), src)
	snaps.MatchSnapshot(t, GeneratePage(doc, PageSourceFor("release-notes.md", "com.example.pages")))
}
