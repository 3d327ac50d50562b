package core

import (
	_ "embed"
	"strings"
	"text/template"
)

const DefaultAppFQCN = "com.varabyte.kobweb.core.DefaultApp"

//go:embed bootstrap.kt.tmpl
var bootstrapSource string

var bootstrapTemplate = template.Must(template.New("main.kt").
	Funcs(template.FuncMap{"kt": KotlinString}).
	Parse(bootstrapSource))

type bootstrapData struct {
	App    string
	RootID string
	Routes RouteTable
}

// GenerateBootstrap renders main.kt. Output depends only on its arguments so
// unchanged inputs produce byte-identical source.
func GenerateBootstrap(appFQCN string, hasApp bool, table RouteTable) (string, error) {
	data := bootstrapData{
		App:    DefaultAppFQCN,
		RootID: RootElementID,
		Routes: table,
	}
	if hasApp && appFQCN != "" {
		data.App = appFQCN
	}

	var out strings.Builder
	if err := bootstrapTemplate.Execute(&out, data); err != nil {
		return "", err
	}
	return out.String(), nil
}
