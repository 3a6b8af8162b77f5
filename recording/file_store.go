package recording

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

const demoExt = ".yaml"

// FileStore keeps one YAML file per demo in a directory.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("recording: create %s: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) Dir() string {
	return s.dir
}

func (s *FileStore) path(name string) string {
	return filepath.Join(s.dir, filepath.Base(name)+demoExt)
}

func (s *FileStore) Save(ctx context.Context, demos ...Demo) error {
	for _, demo := range demos {
		if err := ctx.Err(); err != nil {
			return err
		}
		data, err := yaml.Marshal(&demo)
		if err != nil {
			return fmt.Errorf("recording: marshal %s: %w", demo.Name, err)
		}

		target := s.path(demo.Name)
		tmp := target + ".tmp"
		if err := os.WriteFile(tmp, data, 0o644); err != nil {
			return fmt.Errorf("recording: write %s: %w", tmp, err)
		}
		if err := os.Rename(tmp, target); err != nil {
			return fmt.Errorf("recording: rename %s: %w", target, err)
		}
	}
	return nil
}

func (s *FileStore) Load(_ context.Context, name string) (Demo, error) {
	data, err := os.ReadFile(s.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return Demo{}, fmt.Errorf("recording: load %s: %w", name, ErrDemoNotFound)
	}
	if err != nil {
		return Demo{}, fmt.Errorf("recording: load %s: %w", name, err)
	}

	var demo Demo
	if err := yaml.Unmarshal(data, &demo); err != nil {
		return Demo{}, fmt.Errorf("recording: unmarshal %s: %w", name, err)
	}
	return demo, nil
}

func (s *FileStore) List(context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("recording: list %s: %w", s.dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != demoExt {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), demoExt))
	}
	sort.Strings(names)
	return names, nil
}

func (s *FileStore) Close() error {
	return nil
}
