package bsdata

import (
	"runtime"

	"go.uber.org/zap"
)

// Options controls how a file set is indexed and normalized.
type Options struct {
	// Workers bounds per-file parallelism. Zero means GOMAXPROCS; one runs inline.
	Workers int
	Logger  *zap.Logger
	// OnFile is called once per input file after indexing, in input name order.
	OnFile func(FileProgress)
}

// FileProgress describes one processed file during BuildIndex.
type FileProgress struct {
	Index    int
	Total    int
	Name     string
	FilePath string
	DataType DataType
	Outcome  string
	Err      error
}

const (
	OutcomeIndexed = "indexed"
	OutcomeSkipped = "skipped"
	OutcomeIgnored = "ignored"
)

func (o Options) withDefaults() Options {
	if o.Workers <= 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}
