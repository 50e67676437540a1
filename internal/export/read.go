package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/andybalholm/brotli"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/courseforge/internal/course"
	"github.com/abhisek/courseforge/internal/roadmap"
)

// ReadCourses loads a JSON or YAML course artifact, decompressing .br files.
func ReadCourses(path string) ([]course.Course, error) {
	var out []course.Course
	if err := readFile(path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func ReadRoadmaps(path string) ([]roadmap.Roadmap, error) {
	var out []roadmap.Roadmap
	if err := readFile(path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func readFile(path string, v any) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	if format == FormatXLSX {
		return fmt.Errorf("%s: reading xlsx artifacts is not supported", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, compressedExt) {
		r = brotli.NewReader(f)
	}

	if format == FormatYAML {
		if err := yaml.NewDecoder(r).Decode(v); err != nil {
			return fmt.Errorf("decode %s: %w", path, err)
		}
		return nil
	}
	if err := json.NewDecoder(r).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
