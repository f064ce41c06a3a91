package statsfile

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/tsalign/tsplot/pkg/errors"
)

// Decode decodes and normalizes a single statistics file from raw TOML.
// The name is used in error messages and recorded as the file's Path.
func Decode(data []byte, name string) (File, error) {
	var f File
	if err := toml.Unmarshal(data, &f); err != nil {
		return File{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode %s", name)
	}
	f.Path = name
	if err := f.Normalize(); err != nil {
		return File{}, err
	}
	return f, nil
}

// ReadFile decodes and normalizes the statistics file at path.
func ReadFile(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return File{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "statistics file %s", path)
		}
		return File{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", path)
	}
	return Decode(data, path)
}

// Load reads statistics files from the given paths. Directory arguments are
// walked recursively for *.toml files. The result preserves argument order;
// files found by walking a directory are ordered lexically within it.
func Load(paths []string) ([]File, error) {
	if len(paths) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no statistics files given")
	}

	var files []File
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "stat %s", path)
		}

		if !info.IsDir() {
			f, err := ReadFile(path)
			if err != nil {
				return nil, err
			}
			files = append(files, f)
			continue
		}

		err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !strings.EqualFold(filepath.Ext(p), ".toml") {
				return nil
			}
			f, err := ReadFile(p)
			if err != nil {
				return err
			}
			files = append(files, f)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	if len(files) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no statistics files found under %s", strings.Join(paths, ", "))
	}
	return files, nil
}
