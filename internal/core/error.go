package core

import (
	"errors"
	"fmt"
)

var ErrConfigNotFound = errors.New("project config not found")

// ConfigError aborts a build before any source is scanned.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	if errors.Is(e.Err, ErrConfigNotFound) {
		return fmt.Sprintf("a project must have a %q file in its root directory", e.Path)
	}
	return fmt.Sprintf("invalid project config %s: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

type ParseError struct {
	File string
	Line int
	Col  int
	Msg  string
}

func (e *ParseError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("%s: %s", e.File, e.Msg)
	}
	return fmt.Sprintf("%s:%d:%d: %s", e.File, e.Line, e.Col, e.Msg)
}

type GenerateError struct {
	Target string
	Err    error
}

func (e *GenerateError) Error() string {
	return fmt.Sprintf("failed to generate %s: %v", e.Target, e.Err)
}

func (e *GenerateError) Unwrap() error {
	return e.Err
}
