package bsdata

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"golang.org/x/net/html/charset"
)

// XMLDeclaration is written verbatim as the first line of every index document.
const XMLDeclaration = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`

// MarshalIndex renders index as an indented UTF-8 XML document.
func MarshalIndex(index *DataIndex) ([]byte, error) {
	if index == nil {
		return nil, fmt.Errorf("%w: index is nil", ErrSerialization)
	}
	doc := *index
	if doc.Xmlns == "" {
		doc.Xmlns = IndexNamespace
	}

	buf := &bytes.Buffer{}
	buf.WriteString(XMLDeclaration)
	buf.WriteByte('\n')
	encoder := xml.NewEncoder(buf)
	encoder.Indent("", "  ")
	if err := encoder.Encode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerialization, err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerialization, err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// UnmarshalIndex parses an index document produced by MarshalIndex.
func UnmarshalIndex(data []byte) (*DataIndex, error) {
	decoder := xml.NewDecoder(bytes.NewReader(data))
	decoder.CharsetReader = charset.NewReaderLabel
	var index DataIndex
	if err := decoder.Decode(&index); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerialization, err)
	}
	return &index, nil
}
