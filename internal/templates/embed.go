package templates

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/3-lines-studio/routegen/internal/core"
)

//go:embed all:minimal
var minimalFS embed.FS

//go:embed all:markdown
var markdownFS embed.FS

var validTemplates = []string{"minimal", "markdown"}

var ErrInvalidTemplate = errors.New("invalid template name")

// groupDir is the directory placeholder replaced by the group's package path.
const groupDir = "__group__"

const DefaultGroup = "com.example"

func GetTemplate(name string) (fs.FS, error) {
	switch name {
	case "minimal":
		return fs.Sub(minimalFS, "minimal")
	case "markdown":
		return fs.Sub(markdownFS, "markdown")
	default:
		return nil, ErrInvalidTemplate
	}
}

func Names() []string {
	return append([]string(nil), validTemplates...)
}

type TemplateData struct {
	Group string
	Title string
}

// ProcessFilename maps a template path to its output path and reports
// whether the content needs substitution.
func ProcessFilename(filename string, data TemplateData) (string, bool) {
	filename = strings.ReplaceAll(filename, groupDir, strings.ReplaceAll(data.Group, ".", "/"))
	if before, ok := strings.CutSuffix(filename, ".tmpl"); ok {
		return before, true
	}
	return filename, false
}

// ProcessContent substitutes the placeholders of a template whose output
// file is target. The title is escaped for the syntax of that file.
func ProcessContent(content []byte, isTemplate bool, target string, data TemplateData) ([]byte, error) {
	if !isTemplate {
		return content, nil
	}

	title, err := escapeTitle(path.Ext(target), data.Title)
	if err != nil {
		return nil, err
	}

	result := string(content)
	result = strings.ReplaceAll(result, "{{.Group}}", data.Group)
	result = strings.ReplaceAll(result, "{{.Title}}", title)

	return []byte(result), nil
}

func escapeTitle(ext, title string) (string, error) {
	switch ext {
	case ".yaml", ".yml":
		out, err := yaml.Marshal(&yaml.Node{Kind: yaml.ScalarNode, Style: yaml.DoubleQuotedStyle, Value: title})
		if err != nil {
			return "", fmt.Errorf("failed to quote title: %w", err)
		}
		return strings.TrimSuffix(string(out), "\n"), nil
	case ".kt", ".kts":
		quoted := core.KotlinString(title)
		return quoted[1 : len(quoted)-1], nil
	case ".md":
		return escapeMarkdown(title), nil
	default:
		return title, nil
	}
}

// markdownPunct is the set of characters markdown allows to be backslash
// escaped.
const markdownPunct = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

func escapeMarkdown(s string) string {
	var b strings.Builder
	for _, r := range s {
		if strings.ContainsRune(markdownPunct, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

var titleCaser = cases.Title(language.English)

// DeriveTitle turns a project directory name into a site title:
// "my-blog" -> "My Blog".
func DeriveTitle(projectDir string) string {
	base := filepath.Base(projectDir)
	if base == "." || base == "/" || base == "" {
		return "My Site"
	}
	words := strings.FieldsFunc(base, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if len(words) == 0 {
		return "My Site"
	}
	return titleCaser.String(strings.Join(words, " "))
}

// ValidGroup reports whether group is a dotted Kotlin package name.
func ValidGroup(group string) bool {
	if group == "" {
		return false
	}
	for _, segment := range strings.Split(group, ".") {
		if segment == "" {
			return false
		}
		for i, r := range segment {
			if r == '_' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) {
				continue
			}
			return false
		}
	}
	return true
}
