package output

import (
	"os"
	"sort"

	"github.com/pirakansa/bsindex/internal/cli/shared"
	"gopkg.in/yaml.v3"
)

const (
	LockFileName = "bsindex.lock"
	lockVersion  = "v1"
)

// LockFile records the files written by the last build.
type LockFile struct {
	Version    string               `yaml:"version"`
	Repository string               `yaml:"repository"`
	Files      map[string]LockEntry `yaml:"files"`
}

type LockEntry struct {
	shared.Digest `yaml:",inline"`
	UpdatedAt     string `yaml:"updated_at"`
}

func LoadLock(path string) (*LockFile, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &LockFile{Version: lockVersion, Files: map[string]LockEntry{}}, nil
		}
		return nil, err
	}
	var lock LockFile
	if err := yaml.Unmarshal(b, &lock); err != nil {
		return nil, err
	}
	if lock.Version == "" {
		lock.Version = lockVersion
	}
	if lock.Files == nil {
		lock.Files = map[string]LockEntry{}
	}
	return &lock, nil
}

func SaveLock(path string, lock *LockFile) error {
	if lock.Version == "" {
		lock.Version = lockVersion
	}
	if lock.Files == nil {
		lock.Files = map[string]LockEntry{}
	}
	b, err := yaml.Marshal(lock)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

// Names returns the recorded file names in sorted order.
func (l *LockFile) Names() []string {
	names := make([]string, 0, len(l.Files))
	for name := range l.Files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
