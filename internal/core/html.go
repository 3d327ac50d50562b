package core

import (
	"fmt"
	"html"
	"strings"
)

const RootElementID = "root"

// DefaultHeadElements are injected into every generated index.html.
// TODO: only link font-awesome when a page actually uses its icons.
var DefaultHeadElements = []string{
	`<link rel="stylesheet" href="https://cdnjs.cloudflare.com/ajax/libs/font-awesome/5.15.4/css/all.min.css" />`,
}

func RenderHTMLShell(title string, headElements []string, scriptName string) (string, error) {
	if scriptName == "" {
		return "", fmt.Errorf("missing script src")
	}

	var head strings.Builder
	head.WriteString(`    <meta charset="UTF-8" />` + "\n")
	head.WriteString(`    <meta name="viewport" content="width=device-width, initial-scale=1.0" />` + "\n")
	fmt.Fprintf(&head, "    <title>%s</title>\n", html.EscapeString(title))
	for _, element := range headElements {
		element = strings.TrimSpace(element)
		if element == "" {
			continue
		}
		fmt.Fprintf(&head, "    %s\n", element)
	}

	doc := fmt.Sprintf(`<!doctype html>
<html lang="en">
  <head>
%s  </head>
  <body>
    <div id="%s"></div>
    <script src="%s"></script>
  </body>
</html>
`, head.String(), RootElementID, html.EscapeString(scriptName))

	return doc, nil
}
