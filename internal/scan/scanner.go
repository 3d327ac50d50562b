package scan

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/3-lines-studio/routegen/internal/core"
)

const (
	DefaultAppFQCN  = "com.varabyte.kobweb.core.App"
	DefaultPageFQCN = "com.varabyte.kobweb.core.Page"
)

type Options struct {
	// PagesPackage is the fully resolved root package of all pages. Page
	// functions outside it are ignored.
	PagesPackage string
	AppFQCN      string
	PageFQCN     string
	Logger       *zap.Logger
}

type SourceFile struct {
	Path    string
	Content []byte
}

// Parser holds the read-only scan configuration. Build it once and share it
// across every file of a build; per-file state lives in fileScan.
//
// Annotations are matched by simple name only, so an unrelated annotation
// that happens to be called Page (or the current alias) is reported as a
// page too.
type Parser struct {
	pagesPackage string
	appFQCN      string
	pageFQCN     string
	logger       *zap.Logger
}

func NewParser(opts Options) *Parser {
	p := &Parser{
		pagesPackage: opts.PagesPackage,
		appFQCN:      opts.AppFQCN,
		pageFQCN:     opts.PageFQCN,
		logger:       opts.Logger,
	}
	if p.appFQCN == "" {
		p.appFQCN = DefaultAppFQCN
	}
	if p.pageFQCN == "" {
		p.pageFQCN = DefaultPageFQCN
	}
	if p.logger == nil {
		p.logger = zap.NewNop()
	}
	return p
}

func (p *Parser) PagesPackage() string {
	return p.pagesPackage
}

// ScanAll scans files in path order and merges their results. The first
// malformed file aborts the scan.
func (p *Parser) ScanAll(files []SourceFile) (core.ScanResult, error) {
	sorted := make([]SourceFile, len(files))
	copy(sorted, files)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Path < sorted[j].Path
	})

	result := core.NewScanResult()
	for _, file := range sorted {
		fileResult, err := p.ScanFile(file.Path, file.Content)
		if err != nil {
			return core.ScanResult{}, err
		}
		result.Merge(fileResult)
	}
	return *result, nil
}

func (p *Parser) ScanFile(path string, src []byte) (core.ScanResult, error) {
	tokens, err := lex(path, src)
	if err != nil {
		return core.ScanResult{}, err
	}

	s := &fileScan{
		parser:   p,
		file:     path,
		tokens:   tokens,
		appName:  simpleName(p.appFQCN),
		pageName: simpleName(p.pageFQCN),
	}
	if err := s.run(); err != nil {
		return core.ScanResult{}, err
	}
	return s.result, nil
}

var modifiers = map[string]bool{
	"public": true, "private": true, "internal": true, "protected": true,
	"inline": true, "suspend": true, "operator": true, "infix": true,
	"tailrec": true, "external": true, "expect": true, "actual": true,
	"override": true, "open": true, "abstract": true, "final": true,
}

var useSiteTargets = map[string]bool{
	"file": true, "field": true, "property": true, "get": true, "set": true,
	"receiver": true, "param": true, "setparam": true, "delegate": true,
}

// fileScan is the single-pass state for one file. The live annotation names
// change as aliased imports are encountered, so a declaration only sees the
// aliases imported above it.
type fileScan struct {
	parser   *Parser
	file     string
	tokens   []token
	i        int
	pkg      string
	appName  string
	pageName string
	pending  []string
	open     []token
	result   core.ScanResult
}

func (s *fileScan) peek() token {
	return s.tokens[s.i]
}

func (s *fileScan) peekAt(offset int) token {
	if s.i+offset >= len(s.tokens) {
		return s.tokens[len(s.tokens)-1]
	}
	return s.tokens[s.i+offset]
}

func (s *fileScan) errorf(tok token, format string, args ...any) error {
	return &core.ParseError{File: s.file, Line: tok.line, Col: tok.col, Msg: fmt.Sprintf(format, args...)}
}

func (s *fileScan) run() error {
	for {
		tok := s.peek()
		switch tok.kind {
		case tokEOF:
			if len(s.open) > 0 {
				unclosed := s.open[len(s.open)-1]
				return s.errorf(unclosed, "unclosed %q", unclosed.text)
			}
			return nil

		case tokPunct:
			if err := s.punct(tok); err != nil {
				return err
			}

		case tokAt:
			if len(s.open) > 0 {
				s.i++
				continue
			}
			if err := s.annotation(); err != nil {
				return err
			}

		case tokIdent:
			if len(s.open) > 0 {
				s.i++
				continue
			}
			if err := s.topLevelIdent(tok); err != nil {
				return err
			}

		default:
			if len(s.open) == 0 {
				s.pending = nil
			}
			s.i++
		}
	}
}

var closers = map[string]string{")": "(", "]": "[", "}": "{"}

func (s *fileScan) punct(tok token) error {
	switch tok.text {
	case "(", "[", "{":
		s.open = append(s.open, tok)
	case ")", "]", "}":
		if len(s.open) == 0 || s.open[len(s.open)-1].text != closers[tok.text] {
			return s.errorf(tok, "unexpected %q", tok.text)
		}
		s.open = s.open[:len(s.open)-1]
	}
	if len(s.open) == 0 {
		s.pending = nil
	}
	s.i++
	return nil
}

func (s *fileScan) topLevelIdent(tok token) error {
	switch tok.text {
	case "package":
		s.i++
		name, _ := s.dottedName()
		if name == "" {
			return s.errorf(tok, "expected package name")
		}
		s.pkg = name
		s.pending = nil
	case "import":
		s.i++
		s.importDirective()
		s.pending = nil
	case "fun":
		return s.function()
	default:
		if !modifiers[tok.text] {
			s.pending = nil
		}
		s.i++
	}
	return nil
}

// dottedName consumes a.b.c and reports whether it ended in a wildcard.
func (s *fileScan) dottedName() (string, bool) {
	if s.peek().kind != tokIdent {
		return "", false
	}
	parts := []string{s.peek().text}
	s.i++

	for s.peek().kind == tokPunct && s.peek().text == "." {
		next := s.peekAt(1)
		switch {
		case next.kind == tokIdent:
			parts = append(parts, next.text)
			s.i += 2
		case next.kind == tokPunct && next.text == "*":
			s.i += 2
			return strings.Join(parts, "."), true
		default:
			return strings.Join(parts, "."), false
		}
	}
	return strings.Join(parts, "."), false
}

func (s *fileScan) importDirective() {
	name, wildcard := s.dottedName()
	if wildcard || name == "" {
		return
	}

	if s.peek().kind != tokIdent || s.peek().text != "as" {
		return
	}
	s.i++
	if s.peek().kind != tokIdent {
		return
	}
	alias := s.peek().text
	s.i++

	switch name {
	case s.parser.appFQCN:
		s.appName = alias
	case s.parser.pageFQCN:
		s.pageName = alias
	}
}

func (s *fileScan) annotation() error {
	at := s.peek()
	s.i++

	if s.peek().kind == tokPunct && s.peek().text == "[" {
		s.i++
		var names []string
		for {
			tok := s.peek()
			switch {
			case tok.kind == tokEOF:
				return s.errorf(at, "unterminated annotation list")
			case tok.kind == tokPunct && tok.text == "]":
				s.i++
				s.pending = append(s.pending, names...)
				return nil
			case tok.kind == tokIdent:
				name, _ := s.dottedName()
				names = append(names, simpleName(name))
				if err := s.skipArguments(); err != nil {
					return err
				}
			default:
				s.i++
			}
		}
	}

	if s.peek().kind != tokIdent {
		return nil
	}

	target := ""
	if next := s.peekAt(1); next.kind == tokPunct && next.text == ":" && useSiteTargets[s.peek().text] {
		target = s.peek().text
		s.i += 2
	}

	name, _ := s.dottedName()
	if err := s.skipArguments(); err != nil {
		return err
	}
	if target == "" && name != "" {
		s.pending = append(s.pending, simpleName(name))
	}
	return nil
}

// skipArguments consumes an annotation's parenthesised arguments, if any.
func (s *fileScan) skipArguments() error {
	if s.peek().kind != tokPunct || s.peek().text != "(" {
		return nil
	}
	start := s.peek()
	depth := 0
	for {
		tok := s.peek()
		if tok.kind == tokEOF {
			return s.errorf(start, "unclosed %q", start.text)
		}
		s.i++
		if tok.kind != tokPunct {
			continue
		}
		switch tok.text {
		case "(", "[", "{":
			depth++
		case ")", "]", "}":
			depth--
			if depth == 0 {
				return nil
			}
		}
	}
}

// function handles a top-level fun declaration. The name is the last
// identifier before the parameter list, which skips receiver types such as
// List<T>.name.
func (s *fileScan) function() error {
	s.i++
	annotations := s.pending
	s.pending = nil

	if next := s.peek(); next.kind == tokIdent && next.text == "interface" {
		return nil
	}

	name := ""
	angle := 0
	for {
		tok := s.peek()
		if tok.kind == tokEOF {
			return nil
		}
		if tok.kind == tokIdent {
			name = tok.text
			s.i++
			continue
		}
		if tok.kind != tokPunct {
			if angle > 0 {
				s.i++
				continue
			}
			return nil
		}
		if angle > 0 {
			switch {
			case tok.text == "<":
				angle++
			case tok.text == ">":
				angle--
			case tok.text == "-" && s.peekAt(1).text == ">":
				s.i++
			}
			s.i++
			continue
		}
		switch tok.text {
		case "<":
			angle++
		case ">":
			angle--
		case "(":
			if angle == 0 {
				if name != "" {
					s.declare(name, annotations)
				}
				return nil
			}
		case ".", "?", ",", "*":
		default:
			return nil
		}
		s.i++
	}
}

func (s *fileScan) declare(name string, annotations []string) {
	fqcn := core.QualifiedName(s.pkg, name)

	for _, annotation := range annotations {
		switch annotation {
		case s.appName:
			s.result.AppFQCN = fqcn
			s.result.HasApp = true
			s.parser.logger.Debug("found app entry point", zap.String("function", fqcn), zap.String("file", s.file))

		case s.pageName:
			prefix, ok := core.SlugPrefix(s.pkg, s.parser.pagesPackage)
			if !ok {
				s.parser.logger.Debug("page outside pages package ignored",
					zap.String("function", fqcn),
					zap.String("package", s.pkg),
					zap.String("pagesPackage", s.parser.pagesPackage),
				)
				continue
			}
			route := core.PageRoute(prefix, core.SlugForFile(s.file))
			s.result.Pages = append(s.result.Pages, core.PageEntry{FQCN: fqcn, Route: route})
			s.parser.logger.Debug("found page", zap.String("function", fqcn), zap.String("route", route))
		}
	}
}

func simpleName(fqcn string) string {
	if i := strings.LastIndex(fqcn, "."); i >= 0 {
		return fqcn[i+1:]
	}
	return fqcn
}
