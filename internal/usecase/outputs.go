package usecase

import (
	"path"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/3-lines-studio/routegen/internal/core"
)

// ManifestFileName is written to the generation directory after every build.
const ManifestFileName = "routegen-manifest.json"

// outputWriter writes generated files below the project directory, skipping
// files whose content is already on disk.
type outputWriter struct {
	fs         FileSystem
	projectDir string
	manifest   *core.Manifest
	logger     *zap.Logger
	written    []string
	unchanged  []string
}

func newOutputWriter(fs FileSystem, projectDir string, manifest *core.Manifest, logger *zap.Logger) *outputWriter {
	return &outputWriter{
		fs:         fs,
		projectDir: projectDir,
		manifest:   manifest,
		logger:     logger,
	}
}

// write stores content at rel, a slash-separated project-relative path, and
// records it in the manifest.
func (w *outputWriter) write(rel string, content []byte) error {
	if err := w.put(rel, content); err != nil {
		return err
	}
	w.manifest.AddOutput(rel, content)
	return nil
}

func (w *outputWriter) writeManifest(rel string) error {
	data, err := w.manifest.Marshal()
	if err != nil {
		return &core.GenerateError{Target: path.Base(rel), Err: err}
	}
	return w.put(rel, data)
}

func (w *outputWriter) put(rel string, content []byte) error {
	target := filepath.Join(w.projectDir, filepath.FromSlash(rel))

	if existing, err := w.fs.ReadFile(target); err == nil && core.HashContent(existing) == core.HashContent(content) {
		w.unchanged = append(w.unchanged, rel)
		w.logger.Debug("output unchanged", zap.String("path", rel))
		return nil
	}

	if err := w.fs.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return &core.GenerateError{Target: rel, Err: err}
	}
	if err := w.fs.WriteFile(target, content, 0644); err != nil {
		return &core.GenerateError{Target: rel, Err: err}
	}

	w.written = append(w.written, rel)
	w.logger.Debug("output written", zap.String("path", rel), zap.Int("bytes", len(content)))
	return nil
}
