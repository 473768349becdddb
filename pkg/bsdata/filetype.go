package bsdata

import "strings"

// DataType identifies the kind of document a data file holds.
type DataType string

const (
	DataTypeGameSystem DataType = "gamesystem"
	DataTypeCatalogue  DataType = "catalogue"
	DataTypeRoster     DataType = "roster"
	DataTypeOther      DataType = "other"
)

const (
	GameSystemFileExtension           = ".gst"
	GameSystemCompressedFileExtension = ".gstz"
	CatalogueFileExtension            = ".cat"
	CatalogueCompressedFileExtension  = ".catz"
	RosterFileExtension               = ".ros"
	RosterCompressedFileExtension     = ".rosz"
	IndexFileExtension                = ".xml"
	IndexCompressedFileExtension      = ".bsi"
	OtherCompressedFileExtension      = ".zip"

	IndexFileName           = "index" + IndexFileExtension
	IndexCompressedFileName = "index" + IndexCompressedFileExtension
)

type suffixPair struct {
	dataType   DataType
	raw        string
	compressed string
}

var suffixPairs = []suffixPair{
	{dataType: DataTypeGameSystem, raw: GameSystemFileExtension, compressed: GameSystemCompressedFileExtension},
	{dataType: DataTypeCatalogue, raw: CatalogueFileExtension, compressed: CatalogueCompressedFileExtension},
	{dataType: DataTypeRoster, raw: RosterFileExtension, compressed: RosterCompressedFileExtension},
	{dataType: DataTypeOther, raw: IndexFileExtension, compressed: IndexCompressedFileExtension},
}

// Classify maps a file name (optionally with a path) to its data type and
// reports whether the name is in compressed form. Suffixes are compared
// ASCII case-insensitively.
func Classify(name string) (DataType, bool) {
	for _, pair := range suffixPairs {
		if hasSuffixFold(name, pair.compressed) {
			return pair.dataType, true
		}
		if hasSuffixFold(name, pair.raw) {
			return pair.dataType, false
		}
	}
	return DataTypeOther, hasSuffixFold(name, OtherCompressedFileExtension)
}

// IsCompressedName reports whether name carries a compressed suffix.
func IsCompressedName(name string) bool {
	_, compressed := Classify(name)
	return compressed
}

// CompressedName returns the canonical compressed file name for name with all
// directory components removed.
func CompressedName(name string) string {
	base := BaseName(name)
	for _, pair := range suffixPairs {
		if hasSuffixFold(base, pair.compressed) {
			return base
		}
		if hasSuffixFold(base, pair.raw) {
			return base[:len(base)-len(pair.raw)] + pair.compressed
		}
	}
	if hasSuffixFold(base, OtherCompressedFileExtension) {
		return base
	}
	return base + OtherCompressedFileExtension
}

// BaseName strips any slash or backslash separated directory prefix.
func BaseName(name string) string {
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		return name[i+1:]
	}
	return name
}

// RootTag returns the root element name of documents of the given type.
func (t DataType) RootTag() string {
	switch t {
	case DataTypeGameSystem:
		return GameSystemTag
	case DataTypeCatalogue:
		return CatalogueTag
	case DataTypeRoster:
		return RosterTag
	default:
		return ""
	}
}

// Indexable reports whether files of this type receive index entries.
func (t DataType) Indexable() bool {
	return t.RootTag() != ""
}

// hasSuffixFold compares ASCII letters without regard to case; suffix must be
// lower case ASCII.
func hasSuffixFold(s, suffix string) bool {
	if len(s) < len(suffix) {
		return false
	}
	tail := s[len(s)-len(suffix):]
	for i := 0; i < len(suffix); i++ {
		c := tail[i]
		if 'A' <= c && c <= 'Z' {
			c += 'a' - 'A'
		}
		if c != suffix[i] {
			return false
		}
	}
	return true
}
