package core

import (
	"path"
	"path/filepath"
	"strings"
)

// SlugForFile derives the leaf of a page route from the source file name:
// "BlogPage.kt" -> "blog", "IndexPage.kt" -> "".
func SlugForFile(fileName string) string {
	name := path.Base(filepath.ToSlash(fileName))
	name = strings.TrimSuffix(name, path.Ext(name))
	name = strings.TrimSuffix(name, "Page")
	name = strings.ToLower(name)
	if name == "index" {
		return ""
	}
	return name
}

// SlugPrefix returns the route directory for a package below pagesPkg, e.g.
// "com.example.pages.posts" under "com.example.pages" -> "/posts". The second
// result is false when pkg is not inside pagesPkg.
func SlugPrefix(pkg, pagesPkg string) (string, bool) {
	if pagesPkg == "" {
		if pkg == "" {
			return "", true
		}
		return "/" + strings.ReplaceAll(pkg, ".", "/"), true
	}

	if pkg == pagesPkg {
		return "", true
	}

	rest, ok := strings.CutPrefix(pkg, pagesPkg+".")
	if !ok {
		return "", false
	}
	return "/" + strings.ReplaceAll(rest, ".", "/"), true
}

func PageRoute(prefix, slug string) string {
	return prefix + "/" + slug
}

func QualifiedName(pkg, name string) string {
	if pkg == "" {
		return name
	}
	return pkg + "." + name
}

// ResolvePagesPackage expands a leading "." against the project group, so
// ".pages" in group "com.example" becomes "com.example.pages".
func ResolvePagesPackage(group, pagesPackage string) string {
	rest, ok := strings.CutPrefix(pagesPackage, ".")
	if !ok {
		return pagesPackage
	}
	if group == "" {
		return rest
	}
	return group + "." + rest
}

// ScriptFileName is the last path segment of a configured script path.
func ScriptFileName(scriptPath string) string {
	if i := strings.LastIndex(scriptPath, "/"); i >= 0 {
		return scriptPath[i+1:]
	}
	return scriptPath
}
