package bsdata

import (
	"bytes"
	"errors"
	"testing"
)

func TestCreateRepositoryData(t *testing.T) {
	files := map[string][]byte{
		"orks.cat":   []byte(sampleCatalogue),
		"broken.ros": []byte(`<roster battleScribeVersion="2" description="" name="n" pointsLimit="0" gameSystemId="s"/>`),
		"index.xml":  []byte("stale"),
	}
	data, err := CreateRepositoryData(testRepository, files, Options{})
	if err != nil {
		t.Fatalf("CreateRepositoryData failed: %v", err)
	}

	want := []string{"broken.rosz", "index.bsi", "orks.catz"}
	got := keys(data.Files)
	if len(got) != len(want) {
		t.Fatalf("expected %v got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v got %v", want, got)
		}
	}

	name, indexXML, err := DecompressFile(data.Files["index.bsi"])
	if err != nil {
		t.Fatalf("DecompressFile failed: %v", err)
	}
	if name != "index.xml" {
		t.Fatalf("expected index.xml entry got %q", name)
	}
	if !bytes.HasPrefix(indexXML, []byte(XMLDeclaration)) {
		t.Fatalf("unexpected index document:\n%s", indexXML)
	}
	index, err := UnmarshalIndex(indexXML)
	if err != nil {
		t.Fatalf("UnmarshalIndex failed: %v", err)
	}
	if len(index.Entries) != 1 || index.Entries[0].FilePath != "orks.catz" {
		t.Fatalf("unexpected entries %+v", index.Entries)
	}
	if _, ok := data.Files[index.Entries[0].FilePath]; !ok {
		t.Fatalf("indexed file missing from output")
	}
	if len(data.Skipped) != 1 || data.Skipped[0].FilePath != "broken.rosz" {
		t.Fatalf("unexpected skipped %+v", data.Skipped)
	}
	if string(files["index.xml"]) != "stale" || len(files) != 3 {
		t.Fatalf("input map was modified")
	}
}

func TestCreateRepositoryDataKeepsCompressedBytes(t *testing.T) {
	archive, err := CompressFile("orks.cat", []byte(sampleCatalogue))
	if err != nil {
		t.Fatalf("CompressFile failed: %v", err)
	}
	data, err := CreateRepositoryData(testRepository, map[string][]byte{"sub/orks.catz": archive}, Options{})
	if err != nil {
		t.Fatalf("CreateRepositoryData failed: %v", err)
	}
	if !bytes.Equal(data.Files["orks.catz"], archive) {
		t.Fatalf("expected compressed input to pass through unchanged")
	}
	if len(data.Index.Entries) != 1 {
		t.Fatalf("expected the compressed catalogue to be indexed")
	}
}

func TestCreateRepositoryDataIsReproducible(t *testing.T) {
	files := map[string][]byte{
		"orks.cat":  []byte(sampleCatalogue),
		"wh40k.gst": []byte(sampleGameSystem),
		"army.ros":  []byte(sampleRoster),
	}
	first, err := CreateRepositoryData(testRepository, files, Options{Workers: 1})
	if err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	second, err := CreateRepositoryData(testRepository, files, Options{Workers: 8})
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	for name, content := range first.Files {
		if !bytes.Equal(second.Files[name], content) {
			t.Fatalf("output differs for %s", name)
		}
	}
}

func TestCreateRepositoryDataInvalidURL(t *testing.T) {
	_, err := CreateRepositoryData(Repository{Name: "Orks", BaseURL: "::"}, nil, Options{})
	if !errors.Is(err, ErrInvalidURL) {
		t.Fatalf("expected ErrInvalidURL, got %v", err)
	}
}

func TestIsReservedName(t *testing.T) {
	for _, name := range []string{"index.xml", "index.bsi", "sub/INDEX.XML"} {
		if !IsReservedName(name) {
			t.Fatalf("expected %q to be reserved", name)
		}
	}
	if IsReservedName("myindex.xml") {
		t.Fatalf("myindex.xml is not reserved")
	}
}
