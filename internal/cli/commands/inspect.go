package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/pirakansa/bsindex/pkg/bsdata"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type inspectDocument struct {
	File      string            `yaml:"file"`
	DataType  bsdata.DataType   `yaml:"data_type"`
	Entry     string            `yaml:"entry,omitempty"`
	Metadata  interface{}       `yaml:"metadata,omitempty"`
	Index     *bsdata.DataIndex `yaml:"index,omitempty"`
	Error     string            `yaml:"error,omitempty"`
	Published string            `yaml:"published_as"`
}

func newInspectCmd(ctx *appContext) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect FILE...",
		Short: "Print the metadata of data files and indexes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd.OutOrStdout(), args)
		},
	}
}

func runInspect(out io.Writer, paths []string) error {
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	defer enc.Close()

	failed := 0
	for _, path := range paths {
		doc := inspectFile(path)
		if doc.Error != "" {
			failed++
		}
		if err := enc.Encode(doc); err != nil {
			return err
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files could not be inspected", failed, len(paths))
	}
	return nil
}

func inspectFile(path string) inspectDocument {
	dataType, compressed := bsdata.Classify(path)
	doc := inspectDocument{
		File:      path,
		DataType:  dataType,
		Published: bsdata.CompressedName(path),
	}
	data, err := os.ReadFile(path)
	if err != nil {
		doc.Error = err.Error()
		return doc
	}
	if compressed {
		entry, inner, err := bsdata.DecompressFile(data)
		if err != nil {
			doc.Error = err.Error()
			return doc
		}
		doc.Entry = entry
		data = inner
	}

	if bsdata.IsReservedName(path) {
		doc.Index, err = bsdata.UnmarshalIndex(data)
	} else {
		doc.Metadata, err = extractMetadata(dataType, data)
	}
	if err != nil {
		doc.Index, doc.Metadata = nil, nil
		doc.Error = err.Error()
	}
	return doc
}

func extractMetadata(dataType bsdata.DataType, data []byte) (interface{}, error) {
	switch dataType {
	case bsdata.DataTypeGameSystem:
		return bsdata.ExtractGameSystem(data)
	case bsdata.DataTypeCatalogue:
		return bsdata.ExtractCatalogue(data)
	case bsdata.DataTypeRoster:
		return bsdata.ExtractRoster(data)
	}
	return nil, nil
}
