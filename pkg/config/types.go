package config

// Config is the bsindex.yaml document.
type Config struct {
	Version    int        `koanf:"version" yaml:"version"`
	Repository Repository `koanf:"repository" yaml:"repository"`
	Source     Source     `koanf:"source" yaml:"source"`
	Output     Output     `koanf:"output" yaml:"output"`
	Build      Build      `koanf:"build" yaml:"build"`
	Log        Log        `koanf:"log" yaml:"log"`
	Metrics    Metrics    `koanf:"metrics" yaml:"metrics"`
}

// Repository identifies the published repository.
type Repository struct {
	Name    string   `koanf:"name" yaml:"name" validate:"required"`
	BaseURL string   `koanf:"base_url" yaml:"base_url" validate:"required,url"`
	Mirrors []string `koanf:"mirrors" yaml:"mirrors" validate:"dive,url"`
}

// Source describes where the data files are read from.
type Source struct {
	Type string `koanf:"type" yaml:"type" validate:"oneof=dir archive git"`
	Path string `koanf:"path" yaml:"path" validate:"required"`
	// Ref selects the git revision; empty means HEAD.
	Ref     string   `koanf:"ref" yaml:"ref"`
	Include []string `koanf:"include" yaml:"include" validate:"dive,required"`
	Exclude []string `koanf:"exclude" yaml:"exclude" validate:"dive,required"`
	// StripComponents drops leading path elements from archive entries.
	StripComponents int   `koanf:"strip_components" yaml:"strip_components" validate:"min=0"`
	MaxFileSize     int64 `koanf:"max_file_size" yaml:"max_file_size" validate:"min=0"`
}

type Output struct {
	Dir    string `koanf:"dir" yaml:"dir" validate:"required"`
	Backup string `koanf:"backup" yaml:"backup" validate:"oneof=none timestamp"`
	Prune  bool   `koanf:"prune" yaml:"prune"`
	Mode   string `koanf:"mode" yaml:"mode" validate:"omitempty,filemode"`
}

type Build struct {
	Workers int  `koanf:"workers" yaml:"workers" validate:"min=0"`
	Strict  bool `koanf:"strict" yaml:"strict"`
}

type Log struct {
	Level  string `koanf:"level" yaml:"level" validate:"oneof=debug info warn error"`
	Format string `koanf:"format" yaml:"format" validate:"oneof=json console"`
}

type Metrics struct {
	Textfile string `koanf:"textfile" yaml:"textfile"`
}

const (
	SourceDir     = "dir"
	SourceArchive = "archive"
	SourceGit     = "git"

	BackupNone      = "none"
	BackupTimestamp = "timestamp"
)
