package templates

import (
	"errors"
	"io/fs"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestProcessFilename(t *testing.T) {
	data := TemplateData{
		Group: "org.acme.site",
		Title: "Acme",
	}

	tests := []struct {
		name         string
		filename     string
		wantFilename string
		wantIsTmpl   bool
	}{
		{
			name:         "tmpl file gets processed",
			filename:     ".routegen/conf.yaml.tmpl",
			wantFilename: ".routegen/conf.yaml",
			wantIsTmpl:   true,
		},
		{
			name:         "regular file unchanged",
			filename:     "src/jsMain/resources/public/robots.txt",
			wantFilename: "src/jsMain/resources/public/robots.txt",
			wantIsTmpl:   false,
		},
		{
			name:         "group directory expands to package path",
			filename:     "src/jsMain/kotlin/__group__/pages/IndexPage.kt.tmpl",
			wantFilename: "src/jsMain/kotlin/org/acme/site/pages/IndexPage.kt",
			wantIsTmpl:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotFilename, gotIsTmpl := ProcessFilename(tt.filename, data)
			if gotFilename != tt.wantFilename {
				t.Errorf("ProcessFilename(%q) filename = %q, want %q", tt.filename, gotFilename, tt.wantFilename)
			}
			if gotIsTmpl != tt.wantIsTmpl {
				t.Errorf("ProcessFilename(%q) isTmpl = %v, want %v", tt.filename, gotIsTmpl, tt.wantIsTmpl)
			}
		})
	}
}

func TestProcessContent(t *testing.T) {
	data := TemplateData{
		Group: "com.example",
		Title: "My Blog",
	}

	tests := []struct {
		name       string
		content    string
		isTemplate bool
		target     string
		title      string
		want       string
	}{
		{
			name:    "non-template content unchanged",
			content: "package {{.Group}}",
			target:  "AppEntry.kt",
			want:    "package {{.Group}}",
		},
		{
			name:       "group placeholder",
			content:    "package {{.Group}}.pages",
			isTemplate: true,
			target:     "src/AppEntry.kt",
			want:       "package com.example.pages",
		},
		{
			name:       "yaml title is quoted",
			content:    "title: {{.Title}}",
			isTemplate: true,
			target:     ".routegen/conf.yaml",
			want:       `title: "My Blog"`,
		},
		{
			name:       "yaml title with quotes",
			content:    "title: {{.Title}}",
			isTemplate: true,
			target:     ".routegen/conf.yaml",
			title:      `Say "hi"`,
			want:       `title: "Say \"hi\""`,
		},
		{
			name:       "kotlin title is escaped",
			content:    `Text("Welcome to {{.Title}}")`,
			isTemplate: true,
			target:     "pages/IndexPage.kt",
			title:      `Say "hi" to $name`,
			want:       `Text("Welcome to Say \"hi\" to \$name")`,
		},
		{
			name:       "markdown title is escaped",
			content:    "{{.Title}} is built",
			isTemplate: true,
			target:     "markdown/about.md",
			title:      "*Acme* [beta]",
			want:       `\*Acme\* \[beta\] is built`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := data
			if tt.title != "" {
				d.Title = tt.title
			}
			got, err := ProcessContent([]byte(tt.content), tt.isTemplate, tt.target, d)
			if err != nil {
				t.Fatalf("ProcessContent() error = %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("ProcessContent() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestProcessContentYAMLRoundTrip(t *testing.T) {
	for _, title := range []string{`Say "hi"`, "a: b # c", "line\nbreak", "'single'", "$name"} {
		got, err := ProcessContent([]byte("title: {{.Title}}\n"), true, "conf.yaml", TemplateData{Title: title})
		if err != nil {
			t.Fatalf("ProcessContent(%q) error = %v", title, err)
		}

		var decoded struct {
			Title string `yaml:"title"`
		}
		if err := yaml.Unmarshal(got, &decoded); err != nil {
			t.Fatalf("yaml.Unmarshal(%q) error = %v", got, err)
		}
		if decoded.Title != title {
			t.Errorf("title round trip = %q, want %q", decoded.Title, title)
		}
	}
}

func TestGetTemplate(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			fsys, err := GetTemplate(name)
			if err != nil {
				t.Fatalf("GetTemplate(%q) error = %v", name, err)
			}

			for _, required := range []string{
				".routegen/conf.yaml.tmpl",
				".gitignore",
				"src/jsMain/kotlin/__group__/pages/IndexPage.kt.tmpl",
			} {
				if _, err := fs.Stat(fsys, required); err != nil {
					t.Errorf("template %q is missing %s: %v", name, required, err)
				}
			}
		})
	}

	_, err := GetTemplate("spa")
	if !errors.Is(err, ErrInvalidTemplate) {
		t.Errorf("GetTemplate(spa) error = %v, want ErrInvalidTemplate", err)
	}
}

func TestMarkdownTemplateHasPosts(t *testing.T) {
	fsys, err := GetTemplate("markdown")
	if err != nil {
		t.Fatal(err)
	}

	var markdown []string
	err = fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if strings.Contains(path, ".md") {
			markdown = append(markdown, path)
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(markdown) != 2 {
		t.Errorf("markdown files = %v, want 2", markdown)
	}
}

func TestDeriveTitle(t *testing.T) {
	tests := map[string]string{
		"/tmp/my-blog": "My Blog",
		"site":         "Site",
		"docs_v2":      "Docs V2",
		".":            "My Site",
		"/work/---":    "My Site",
	}
	for in, want := range tests {
		if got := DeriveTitle(in); got != want {
			t.Errorf("DeriveTitle(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestValidGroup(t *testing.T) {
	valid := []string{"com.example", "site", "org.acme_2.web"}
	invalid := []string{"", "com..example", "1com.example", "com.exa-mple", ".pages"}

	for _, group := range valid {
		if !ValidGroup(group) {
			t.Errorf("ValidGroup(%q) = false, want true", group)
		}
	}
	for _, group := range invalid {
		if ValidGroup(group) {
			t.Errorf("ValidGroup(%q) = true, want false", group)
		}
	}
}
