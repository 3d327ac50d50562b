package scan

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/3-lines-studio/routegen/internal/core"
)

func newTestParser() *Parser {
	return NewParser(Options{PagesPackage: "com.example.pages"})
}

func TestScanFilePages(t *testing.T) {
	tests := []struct {
		name string
		file string
		src  string
		want []core.PageEntry
	}{
		{
			name: "page in sub package",
			file: "src/jsMain/kotlin/com/example/pages/posts/BlogPage.kt",
			src: `package com.example.pages.posts

import com.varabyte.kobweb.core.Page
import androidx.compose.runtime.Composable

@Page
@Composable
fun Render() {
    Text("hello")
}
`,
			want: []core.PageEntry{{FQCN: "com.example.pages.posts.Render", Route: "/posts/blog"}},
		},
		{
			name: "index page at pages root",
			file: "IndexPage.kt",
			src: `package com.example.pages

@Page
@Composable
fun HomePage() {}
`,
			want: []core.PageEntry{{FQCN: "com.example.pages.HomePage", Route: "/"}},
		},
		{
			name: "modifiers and arguments between annotation and fun",
			file: "About.kt",
			src: `package com.example.pages

@Page(routeOverride = "x")
@Suppress("unused")
private suspend fun About() {}
`,
			want: []core.PageEntry{{FQCN: "com.example.pages.About", Route: "/about"}},
		},
		{
			name: "qualified annotation matches by simple name",
			file: "Contact.kt",
			src: `package com.example.pages

@com.varabyte.kobweb.core.Page
@Composable fun Contact() {}
`,
			want: []core.PageEntry{{FQCN: "com.example.pages.Contact", Route: "/contact"}},
		},
		{
			name: "bracketed annotation list",
			file: "Team.kt",
			src: `package com.example.pages

@[Page Composable]
fun Team() {}
`,
			want: []core.PageEntry{{FQCN: "com.example.pages.Team", Route: "/team"}},
		},
		{
			name: "page outside pages package is ignored",
			file: "Widget.kt",
			src: `package com.example.components

@Page
fun Widget() {}
`,
			want: nil,
		},
		{
			name: "member functions are not top level",
			file: "Holder.kt",
			src: `package com.example.pages

class Holder {
    @Page
    fun Inner() {}
}
`,
			want: nil,
		},
		{
			name: "annotation does not carry over a property",
			file: "Prop.kt",
			src: `package com.example.pages

@Page
val x = 1

fun NotAPage() {}
`,
			want: nil,
		},
		{
			name: "file annotations are ignored",
			file: "Misc.kt",
			src: `@file:Page
package com.example.pages

fun Misc() {}
`,
			want: nil,
		},
		{
			name: "markers inside strings and comments are ignored",
			file: "Noise.kt",
			src: `package com.example.pages

// @Page
/* @Page /* nested */ still comment */
val text = "@Page fun Fake() { ${"{"} }"
val raw = """
@Page
fun AlsoFake() {}
"""
val brace = '{'

@Page
fun Real() { println("}") }
`,
			want: []core.PageEntry{{FQCN: "com.example.pages.Real", Route: "/noise"}},
		},
		{
			name: "extension and generic functions use the function name",
			file: "Ext.kt",
			src: `package com.example.pages

@Page
fun <T> List<T>.Listing() {}
`,
			want: []core.PageEntry{{FQCN: "com.example.pages.Listing", Route: "/ext"}},
		},
		{
			name: "bounded type parameters",
			file: "Bounded.kt",
			src: `package com.example.pages

@Page
fun <T : Comparable<T>, R> Sorted() {}

@Page
fun <F : () -> Unit> Callback() {}
`,
			want: []core.PageEntry{
				{FQCN: "com.example.pages.Sorted", Route: "/bounded"},
				{FQCN: "com.example.pages.Callback", Route: "/bounded"},
			},
		},
		{
			name: "annotations without whitespace between them",
			file: "Glued.kt",
			src: `package com.example.pages

@Page@Composable
fun Glued() {}

@Composable@com.varabyte.kobweb.core.Page fun Qualified() {}
`,
			want: []core.PageEntry{
				{FQCN: "com.example.pages.Glued", Route: "/glued"},
				{FQCN: "com.example.pages.Qualified", Route: "/glued"},
			},
		},
		{
			name: "labels are not annotations",
			file: "Labels.kt",
			src: `package com.example.pages

val items = listOf(1).forEach { return@forEach }

@Page
fun Labels() {}
`,
			want: []core.PageEntry{{FQCN: "com.example.pages.Labels", Route: "/labels"}},
		},
		{
			name: "no matching annotations",
			file: "Util.kt",
			src: `package com.example.pages

@Composable
fun Helper() {}
`,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := newTestParser().ScanFile(tt.file, []byte(tt.src))
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got.Pages); diff != "" {
				t.Errorf("ScanFile() pages mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestScanFileAliasedImports(t *testing.T) {
	src := `package com.example.pages

import com.varabyte.kobweb.core.Page as MyPage
import com.varabyte.kobweb.core.App as Shell

@MyPage
fun Aliased() {}

@Page
fun NoLongerMatches() {}

@Shell
fun Root() {}
`
	got, err := newTestParser().ScanFile("AliasPage.kt", []byte(src))
	require.NoError(t, err)

	assert.Equal(t, []core.PageEntry{{FQCN: "com.example.pages.Aliased", Route: "/alias"}}, got.Pages)
	assert.True(t, got.HasApp)
	assert.Equal(t, "com.example.pages.Root", got.AppFQCN)
}

func TestScanFileAliasOnlyAppliesBelowImport(t *testing.T) {
	src := `package com.example.pages

@MyPage
fun Before() {}

import com.varabyte.kobweb.core.Page as MyPage

@MyPage
fun After() {}
`
	got, err := newTestParser().ScanFile("Order.kt", []byte(src))
	require.NoError(t, err)
	assert.Equal(t, []core.PageEntry{{FQCN: "com.example.pages.After", Route: "/order"}}, got.Pages)
}

// Matching is by simple name only: an unrelated annotation that shares the
// name is reported as a page.
func TestScanFileNameOnlyMatchingIsAFalsePositive(t *testing.T) {
	src := `package com.example.pages

import org.other.Page

@Page
fun Lookalike() {}
`
	got, err := newTestParser().ScanFile("Lookalike.kt", []byte(src))
	require.NoError(t, err)
	assert.Len(t, got.Pages, 1)
}

func TestScanFileAppWithoutPackage(t *testing.T) {
	got, err := newTestParser().ScanFile("App.kt", []byte("@App\nfun MyApp(content: () -> Unit) {}\n"))
	require.NoError(t, err)

	assert.True(t, got.HasApp)
	assert.Equal(t, "MyApp", got.AppFQCN)
}

func TestScanFileCustomAnnotationNames(t *testing.T) {
	p := NewParser(Options{
		PagesPackage: "site.pages",
		PageFQCN:     "site.framework.Route",
		AppFQCN:      "site.framework.Root",
	})

	src := `package site.pages

@Route
fun Home() {}

@Root
fun Shell() {}
`
	got, err := p.ScanFile("Index.kt", []byte(src))
	require.NoError(t, err)
	assert.Equal(t, []core.PageEntry{{FQCN: "site.pages.Home", Route: "/"}}, got.Pages)
	assert.Equal(t, "site.pages.Shell", got.AppFQCN)
}

func TestScanAll(t *testing.T) {
	files := []SourceFile{
		{Path: "b/SecondApp.kt", Content: []byte("package com.example\n@App fun Second() {}\n")},
		{Path: "a/FirstApp.kt", Content: []byte("package com.example\n@App fun First() {}\n")},
		{Path: "c/pages/AboutPage.kt", Content: []byte("package com.example.pages\n@Page fun About() {}\n")},
	}

	got, err := newTestParser().ScanAll(files)
	require.NoError(t, err)

	assert.Equal(t, "com.example.Second", got.AppFQCN, "last app in path order wins")
	assert.Equal(t, []core.PageEntry{{FQCN: "com.example.pages.About", Route: "/about"}}, got.Pages)
}

func TestScanAllIsDeterministic(t *testing.T) {
	files := []SourceFile{
		{Path: "z/ZPage.kt", Content: []byte("package com.example.pages\n@Page fun Z() {}\n")},
		{Path: "a/APage.kt", Content: []byte("package com.example.pages\n@Page fun A() {}\n")},
	}
	reversed := []SourceFile{files[1], files[0]}

	first, err := newTestParser().ScanAll(files)
	require.NoError(t, err)
	second, err := newTestParser().ScanAll(reversed)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestScanFileParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		line int
	}{
		{name: "unterminated string", src: "package a\n\nval s = \"oops\n", line: 3},
		{name: "unterminated raw string", src: "val s = \"\"\"never closed\n", line: 1},
		{name: "unterminated block comment", src: "/* open\n", line: 1},
		{name: "unclosed brace", src: "package a\nfun f() {\n", line: 2},
		{name: "unexpected closer", src: "package a\n}\n", line: 2},
		{name: "mismatched closer", src: "fun f(] {}\n", line: 1},
		{name: "package without name", src: "package ;\n", line: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTestParser().ScanFile("Broken.kt", []byte(tt.src))
			require.Error(t, err)

			var parseErr *core.ParseError
			require.True(t, errors.As(err, &parseErr), "expected ParseError, got %T", err)
			assert.Equal(t, "Broken.kt", parseErr.File)
			assert.Equal(t, tt.line, parseErr.Line)
		})
	}
}

func TestScanAllStopsAtFirstBrokenFile(t *testing.T) {
	files := []SourceFile{
		{Path: "a/Good.kt", Content: []byte("package com.example.pages\n@Page fun Good() {}\n")},
		{Path: "b/Bad.kt", Content: []byte("fun broken( {\n")},
	}

	_, err := newTestParser().ScanAll(files)
	var parseErr *core.ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, "b/Bad.kt", parseErr.File)
}
