package namespace

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/abdul-hamid-achik/webreq/packages/core/errs"
	"github.com/tidwall/gjson"
)

// FileExt is the extension of namespace files.
const FileExt = ".json"

// Store reads namespace files from one directory.
type Store struct {
	dir string
}

func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) Dir() string {
	return s.dir
}

// Path returns the file backing the namespace called name.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, name+FileExt)
}

// Discover lists the namespaces in the directory in lexical order. The
// index of a name is its number in the namespace picker.
func (s *Store) Discover() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errs.Config("discover namespaces", s.dir, "requests directory does not exist")
		}
		return nil, errs.WrapConfig("discover namespaces", s.dir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		stem, ok := strings.CutSuffix(entry.Name(), FileExt)
		if !ok || stem == "" || IsExample(stem) {
			continue
		}
		names = append(names, stem)
	}
	slices.Sort(names)
	return names, nil
}

// IsExample reports whether a file stem marks an example or template file
// that must not be offered as a namespace.
func IsExample(stem string) bool {
	stem = strings.ToLower(stem)
	return stem == "example" || strings.HasSuffix(stem, ".example")
}

// Load reads and parses the namespace called name for mode. The name must
// be one of the discovered namespaces.
func (s *Store) Load(name, mode string) (*Namespace, error) {
	names, err := s.Discover()
	if err != nil {
		return nil, err
	}
	if !slices.Contains(names, name) {
		return nil, errs.Config(opLoad, name, "no namespace file %s in %s", name+FileExt, s.dir)
	}

	data, err := s.read(name)
	if err != nil {
		return nil, err
	}

	ns, err := Parse(name, mode, data)
	if err != nil {
		return nil, err
	}
	ns.Path = s.Path(name)
	return ns, nil
}

// Validate checks the namespace called name. With mode empty the file is
// checked for every mode it defines a base URL for.
func (s *Store) Validate(name, mode string) error {
	if mode != "" {
		_, err := s.Load(name, mode)
		return err
	}

	names, err := s.Discover()
	if err != nil {
		return err
	}
	if !slices.Contains(names, name) {
		return errs.Config(opLoad, name, "no namespace file %s in %s", name+FileExt, s.dir)
	}
	data, err := s.read(name)
	if err != nil {
		return err
	}

	modes := Modes(data)
	if len(modes) == 0 {
		if err := checkDocument(name, data); err != nil {
			return err
		}
		return errs.Config(opLoad, name, "no base url defined for any mode")
	}
	for _, m := range modes {
		if _, err := Parse(name, m, data); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) read(name string) ([]byte, error) {
	data, err := os.ReadFile(s.Path(name))
	if err != nil {
		return nil, errs.WrapConfig(opLoad, name, err)
	}
	return data, nil
}

// Modes lists the modes a namespace file defines a base URL for, in file
// order.
func Modes(data []byte) []string {
	var modes []string
	gjson.GetBytes(data, "url").ForEach(func(key, _ gjson.Result) bool {
		modes = append(modes, key.Str)
		return true
	})
	return modes
}
