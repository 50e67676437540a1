// Package export writes a generated batch to disk as JSON, YAML or XLSX,
// optionally brotli-compressed. Every file is written to a temp file in
// the target directory and renamed into place.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/andybalholm/brotli"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/courseforge/internal/coursegen"
	"github.com/abhisek/courseforge/internal/logger"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatXLSX Format = "xlsx"
)

const (
	DefaultDir       = "./data"
	DefaultFilename  = "technical_courses.json"
	RoadmapsBasename = "technical_roadmaps"

	compressedExt = ".br"
)

type Options struct {
	Dir      string
	Filename string

	// Format overrides the format implied by Filename's extension.
	Format   Format
	Compress bool

	// Roadmaps also writes the roadmaps next to the courses.
	Roadmaps bool
}

// Writer is a coursegen.Sink.
type Writer struct {
	opts   Options
	format Format
	log    *logger.Logger
}

var _ coursegen.Sink = (*Writer)(nil)

func NewWriter(opts Options, log *logger.Logger) (*Writer, error) {
	if opts.Dir == "" {
		opts.Dir = DefaultDir
	}
	if opts.Filename == "" {
		opts.Filename = DefaultFilename
	}
	if log == nil {
		log = logger.Nop()
	}

	format := opts.Format
	if format == "" {
		f, err := FormatFromPath(opts.Filename)
		if err != nil {
			return nil, err
		}
		format = f
	}
	if err := format.validate(); err != nil {
		return nil, err
	}
	opts.Filename = withExt(strings.TrimSuffix(opts.Filename, compressedExt), format)

	return &Writer{opts: opts, format: format, log: log.With("component", "export")}, nil
}

// CoursesPath is where Write puts the course artifact.
func (w *Writer) CoursesPath() string {
	return w.path(w.opts.Filename)
}

func (w *Writer) RoadmapsPath() string {
	f := w.format
	if f == FormatXLSX {
		f = FormatJSON
	}
	return w.path(withExt(RoadmapsBasename, f))
}

func (w *Writer) path(name string) string {
	p := filepath.Join(w.opts.Dir, name)
	if w.opts.Compress {
		p += compressedExt
	}
	return p
}

// Write stores the courses and, when enabled, the roadmaps. It returns
// the paths written.
func (w *Writer) Write(ctx context.Context, out coursegen.Output) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(w.opts.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	var paths []string

	coursesPath := w.CoursesPath()
	err := writeAtomic(coursesPath, w.opts.Compress, func(dst io.Writer) error {
		switch w.format {
		case FormatYAML:
			return encodeYAML(dst, out.Courses)
		case FormatXLSX:
			return encodeXLSX(dst, out.Courses)
		default:
			return encodeJSON(dst, out.Courses)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("write courses: %w", err)
	}
	paths = append(paths, coursesPath)
	w.log.Info("wrote courses", "path", coursesPath, "count", len(out.Courses), "format", string(w.format))

	if w.opts.Roadmaps {
		roadmapsPath := w.RoadmapsPath()
		err := writeAtomic(roadmapsPath, w.opts.Compress, func(dst io.Writer) error {
			if w.format == FormatYAML {
				return encodeYAML(dst, out.Roadmaps)
			}
			return encodeJSON(dst, out.Roadmaps)
		})
		if err != nil {
			return paths, fmt.Errorf("write roadmaps: %w", err)
		}
		paths = append(paths, roadmapsPath)
		w.log.Info("wrote roadmaps", "path", roadmapsPath, "count", len(out.Roadmaps))
	}

	return paths, nil
}

// FormatFromPath infers the format from a file extension, ignoring a
// trailing .br.
func FormatFromPath(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(strings.TrimSuffix(path, compressedExt)))
	switch ext {
	case ".json", "":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".xlsx":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("unsupported output extension %q", ext)
	}
}

func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if f == "yml" {
		f = FormatYAML
	}
	return f, f.validate()
}

func (f Format) validate() error {
	switch f {
	case FormatJSON, FormatYAML, FormatXLSX:
		return nil
	default:
		return fmt.Errorf("unsupported output format %q (want json, yaml or xlsx)", string(f))
	}
}

func withExt(name string, f Format) string {
	ext := filepath.Ext(name)
	want := "." + string(f)
	if ext == want || (f == FormatYAML && ext == ".yml") {
		return name
	}
	return strings.TrimSuffix(name, ext) + want
}

// writeAtomic streams encode into a temp file beside path and renames it
// into place on success.
func writeAtomic(path string, compress bool, encode func(io.Writer) error) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".courseforge-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if compress {
		bw := brotli.NewWriterLevel(tmp, brotli.DefaultCompression)
		if err := encode(bw); err != nil {
			return err
		}
		if err := bw.Close(); err != nil {
			return fmt.Errorf("flush brotli: %w", err)
		}
	} else if err := encode(tmp); err != nil {
		return err
	}

	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func encodeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
