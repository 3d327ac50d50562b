package core

import "sort"

type Route struct {
	FQCN string
	Path string
}

// RouteTable lists page registrations sorted by route path.
type RouteTable []Route

// BuildRouteTable associates each page function with its route and sorts the
// result by route. Duplicate routes are kept; the runtime router decides
// which registration wins.
func BuildRouteTable(pages []PageEntry) RouteTable {
	index := make(map[string]int, len(pages))
	table := make(RouteTable, 0, len(pages))

	for _, page := range pages {
		if i, ok := index[page.FQCN]; ok {
			table[i].Path = page.Route
			continue
		}
		index[page.FQCN] = len(table)
		table = append(table, Route{FQCN: page.FQCN, Path: page.Route})
	}

	sort.SliceStable(table, func(i, j int) bool {
		return table[i].Path < table[j].Path
	})

	return table
}

// Duplicates maps every route path registered by more than one function to
// those functions, listed in table order. The paths themselves are unordered.
func (t RouteTable) Duplicates() map[string][]string {
	byPath := make(map[string][]string)
	for _, route := range t {
		byPath[route.Path] = append(byPath[route.Path], route.FQCN)
	}

	dups := make(map[string][]string)
	for path, fqcns := range byPath {
		if len(fqcns) > 1 {
			dups[path] = fqcns
		}
	}
	return dups
}

func (t RouteTable) Paths() []string {
	paths := make([]string, len(t))
	for i, route := range t {
		paths[i] = route.Path
	}
	return paths
}
