package markdown

import "sort"

// Tag names an HTML element the markdown parser can produce.
type Tag string

const (
	TagText       Tag = "text"
	TagImg        Tag = "img"
	TagH1         Tag = "h1"
	TagH2         Tag = "h2"
	TagH3         Tag = "h3"
	TagH4         Tag = "h4"
	TagH5         Tag = "h5"
	TagH6         Tag = "h6"
	TagP          Tag = "p"
	TagBr         Tag = "br"
	TagA          Tag = "a"
	TagEm         Tag = "em"
	TagB          Tag = "b"
	TagI          Tag = "i"
	TagHr         Tag = "hr"
	TagUl         Tag = "ul"
	TagOl         Tag = "ol"
	TagLi         Tag = "li"
	TagCode       Tag = "code"
	TagInlineCode Tag = "inlineCode"
	TagBlockquote Tag = "blockquote"
	TagTable      Tag = "table"
	TagThead      Tag = "thead"
	TagTbody      Tag = "tbody"
	TagTr         Tag = "tr"
	TagTd         Tag = "td"
	TagTh         Tag = "th"
)

const widgetPackage = "org.jetbrains.compose.web.dom."

var defaultComponents = map[Tag]string{
	TagText:       widgetPackage + "Text",
	TagImg:        widgetPackage + "Img",
	TagH1:         widgetPackage + "H1",
	TagH2:         widgetPackage + "H2",
	TagH3:         widgetPackage + "H3",
	TagH4:         widgetPackage + "H4",
	TagH5:         widgetPackage + "H5",
	TagH6:         widgetPackage + "H6",
	TagP:          widgetPackage + "P",
	TagBr:         widgetPackage + "Br",
	TagA:          widgetPackage + "A",
	TagEm:         widgetPackage + "Em",
	TagB:          widgetPackage + "B",
	TagI:          widgetPackage + "I",
	TagHr:         widgetPackage + "Hr",
	TagUl:         widgetPackage + "Ul",
	TagOl:         widgetPackage + "Ol",
	TagLi:         widgetPackage + "Li",
	TagCode:       widgetPackage + "Code",
	TagInlineCode: widgetPackage + "Code",
	TagBlockquote: widgetPackage + "Blockquote",
	TagTable:      widgetPackage + "Table",
	TagThead:      widgetPackage + "Thead",
	TagTbody:      widgetPackage + "Tbody",
	TagTr:         widgetPackage + "Tr",
	TagTd:         widgetPackage + "Td",
	TagTh:         widgetPackage + "Th",
}

// Features toggles markdown syntax extensions.
type Features struct {
	// Autolink turns bare URLs and email addresses into links.
	Autolink bool `yaml:"autolink"`
	// FrontMatter strips a leading YAML block and exposes its values.
	FrontMatter bool `yaml:"frontMatter"`
	// Tables enables pipe table syntax.
	Tables bool `yaml:"tables"`
	// TaskList enables "- [ ]" / "- [x]" list items.
	TaskList bool `yaml:"taskList"`
}

type Config struct {
	// Path is the markdown root relative to the resource root.
	Path     string   `yaml:"path"`
	Features Features `yaml:"features"`
	// Components overrides the composable used for a tag. Tags that are not
	// listed keep their default widget.
	Components map[Tag]string `yaml:"components"`
}

func DefaultConfig() Config {
	return Config{
		Path: "markdown",
		Features: Features{
			Autolink:    true,
			FrontMatter: true,
			Tables:      true,
			TaskList:    true,
		},
		Components: map[Tag]string{},
	}
}

func (c Config) Component(tag Tag) string {
	if component, ok := c.Components[tag]; ok && component != "" {
		return component
	}
	return defaultComponents[tag]
}

// ResolvedComponents returns the full tag mapping with overrides applied.
func (c Config) ResolvedComponents() map[Tag]string {
	resolved := make(map[Tag]string, len(defaultComponents))
	for tag := range defaultComponents {
		resolved[tag] = c.Component(tag)
	}
	return resolved
}

// UnknownTags lists overridden tags the markdown parser never produces.
func (c Config) UnknownTags() []Tag {
	var unknown []Tag
	for tag := range c.Components {
		if _, ok := defaultComponents[tag]; !ok {
			unknown = append(unknown, tag)
		}
	}
	sort.Slice(unknown, func(i, j int) bool { return unknown[i] < unknown[j] })
	return unknown
}
