package bsdata

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

var testRepository = Repository{Name: "Orks", BaseURL: "https://example.com/data"}

func TestBuildIndexSingleCatalogue(t *testing.T) {
	result, err := BuildIndex(testRepository, map[string][]byte{"orks.cat": []byte(sampleCatalogue)}, Options{})
	if err != nil {
		t.Fatalf("BuildIndex failed: %v", err)
	}
	index := result.Index
	if index.IndexURL != "https://example.com/data/Orks/index.bsi" {
		t.Fatalf("unexpected index url %q", index.IndexURL)
	}
	if index.RepositoryName != "Orks" {
		t.Fatalf("unexpected repository name %q", index.RepositoryName)
	}
	if len(index.Entries) != 1 {
		t.Fatalf("expected 1 entry got %d", len(index.Entries))
	}
	entry := index.Entries[0]
	if entry.FilePath != "orks.catz" || entry.DataType != DataTypeCatalogue || entry.Name != "Orks" {
		t.Fatalf("unexpected entry %+v", entry)
	}
	if entry.Revision == nil || *entry.Revision != 3 {
		t.Fatalf("expected revision 3 got %v", entry.Revision)
	}
	if entry.GameSystemID == nil || *entry.GameSystemID != "sys1" {
		t.Fatalf("expected gameSystemId sys1 got %v", entry.GameSystemID)
	}
	if entry.Points != nil || entry.Description != nil {
		t.Fatalf("expected roster fields to be absent: %+v", entry)
	}
	if len(result.Skipped) != 0 || result.Warnings() != nil {
		t.Fatalf("expected no skipped files: %+v", result.Skipped)
	}
}

func TestBuildIndexReadsCompressedInput(t *testing.T) {
	archive, err := CompressFile("wh40k.gst", []byte(sampleGameSystem))
	if err != nil {
		t.Fatalf("CompressFile failed: %v", err)
	}
	result, err := BuildIndex(testRepository, map[string][]byte{"wh40k.gstz": archive}, Options{})
	if err != nil {
		t.Fatalf("BuildIndex failed: %v", err)
	}
	if len(result.Index.Entries) != 1 || result.Index.Entries[0].DataType != DataTypeGameSystem {
		t.Fatalf("unexpected entries %+v", result.Index.Entries)
	}
	if result.Index.Entries[0].GameSystemID != nil {
		t.Fatalf("game system entries carry no gameSystemId")
	}
}

func TestBuildIndexStreamsCompressedEntryPastDecompressLimit(t *testing.T) {
	old := decompressLimit
	decompressLimit = 256
	defer func() { decompressLimit = old }()

	large := sampleCatalogue + "<!--" + strings.Repeat("x", 8192) + "-->\n"
	archive, err := CompressFile("orks.cat", []byte(large))
	if err != nil {
		t.Fatalf("CompressFile failed: %v", err)
	}
	if _, _, err := DecompressFile(archive); !errors.Is(err, ErrCompression) {
		t.Fatalf("expected DecompressFile to reject an entry over the limit, got %v", err)
	}

	result, err := BuildIndex(testRepository, map[string][]byte{"orks.catz": archive}, Options{})
	if err != nil {
		t.Fatalf("BuildIndex failed: %v", err)
	}
	if len(result.Skipped) != 0 {
		t.Fatalf("expected the large catalogue to be indexed, skipped: %+v", result.Skipped)
	}
	if len(result.Index.Entries) != 1 || result.Index.Entries[0].Name != "Orks" {
		t.Fatalf("unexpected entries %+v", result.Index.Entries)
	}
}

func TestBuildIndexSkipsMalformedRoster(t *testing.T) {
	files := map[string][]byte{
		"orks.cat":   []byte(sampleCatalogue),
		"broken.ros": []byte(`<roster battleScribeVersion="2" description="" name="n" pointsLimit="0" gameSystemId="s"/>`),
		"notes.txt":  []byte("ignored"),
	}
	var progress []FileProgress
	result, err := BuildIndex(testRepository, files, Options{
		OnFile: func(p FileProgress) { progress = append(progress, p) },
	})
	if err != nil {
		t.Fatalf("BuildIndex failed: %v", err)
	}
	if len(result.Index.Entries) != 1 {
		t.Fatalf("expected only the catalogue entry, got %+v", result.Index.Entries)
	}
	if len(result.Skipped) != 1 || result.Skipped[0].Name != "broken.ros" {
		t.Fatalf("expected broken.ros to be skipped, got %+v", result.Skipped)
	}
	if !errors.Is(result.Warnings(), ErrMalformedDocument) {
		t.Fatalf("expected malformed warning, got %v", result.Warnings())
	}

	outcomes := map[string]string{}
	for _, p := range progress {
		if p.Total != 3 {
			t.Fatalf("unexpected total %d", p.Total)
		}
		outcomes[p.Name] = p.Outcome
	}
	want := map[string]string{"broken.ros": OutcomeSkipped, "notes.txt": OutcomeIgnored, "orks.cat": OutcomeIndexed}
	for name, outcome := range want {
		if outcomes[name] != outcome {
			t.Fatalf("expected %s=%s got %v", name, outcome, outcomes)
		}
	}
}

func TestBuildIndexSkipsUnreadableArchive(t *testing.T) {
	result, err := BuildIndex(testRepository, map[string][]byte{"orks.catz": []byte("not a zip")}, Options{})
	if err != nil {
		t.Fatalf("BuildIndex failed: %v", err)
	}
	if len(result.Skipped) != 1 || !errors.Is(result.Skipped[0].Err, ErrCompression) {
		t.Fatalf("expected compression failure, got %+v", result.Skipped)
	}
}

func TestBuildIndexEntriesSortedByFilePath(t *testing.T) {
	catalogue := func(id string) []byte {
		return []byte(`<catalogue id="` + id + `" gameSystemId="s" battleScribeVersion="2" revision="1" name="` + id + `" authorName="" authorContact="" authorUrl=""/>`)
	}
	files := map[string][]byte{
		"z/alpha.cat": catalogue("alpha"),
		"a/zulu.cat":  catalogue("zulu"),
		"mike.cat":    catalogue("mike"),
	}
	for _, workers := range []int{1, 8} {
		result, err := BuildIndex(testRepository, files, Options{Workers: workers})
		if err != nil {
			t.Fatalf("BuildIndex failed: %v", err)
		}
		var got []string
		for _, entry := range result.Index.Entries {
			got = append(got, entry.FilePath)
		}
		want := []string{"alpha.catz", "mike.catz", "zulu.catz"}
		if len(got) != len(want) {
			t.Fatalf("unexpected entries %v", got)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("workers=%d: expected %v got %v", workers, want, got)
			}
		}
	}
}

func TestBuildIndexWarnsOnDuplicateIDs(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	files := map[string][]byte{
		"orks.cat":   []byte(sampleCatalogue),
		"orks-2.cat": []byte(sampleCatalogue),
	}
	result, err := BuildIndex(testRepository, files, Options{Logger: zap.New(core)})
	if err != nil {
		t.Fatalf("BuildIndex failed: %v", err)
	}
	if len(result.Index.Entries) != 2 {
		t.Fatalf("expected both entries to be kept, got %d", len(result.Index.Entries))
	}
	if logs.FilterMessage("duplicate data id").Len() != 1 {
		t.Fatalf("expected one duplicate id warning, got %v", logs.All())
	}
}

func TestBuildIndexInvalidURL(t *testing.T) {
	tests := []Repository{
		{Name: "Orks", BaseURL: "not a url"},
		{Name: "Orks", BaseURL: "ftp://example.com/data"},
		{Name: "Orks", BaseURL: ""},
		{Name: "", BaseURL: "https://example.com"},
	}
	for _, repo := range tests {
		if _, err := BuildIndex(repo, nil, Options{}); !errors.Is(err, ErrInvalidURL) {
			t.Fatalf("expected ErrInvalidURL for %+v, got %v", repo, err)
		}
	}
}

func TestIndexURLTrimsSlashes(t *testing.T) {
	got, err := IndexURL("https://example.com/data/", "/Orks/")
	if err != nil {
		t.Fatalf("IndexURL failed: %v", err)
	}
	if got != "https://example.com/data/Orks/index.bsi" {
		t.Fatalf("unexpected url %q", got)
	}
}

func TestForEachVisitsEveryIndexOnce(t *testing.T) {
	var mu sync.Mutex
	seen := map[int]int{}
	if err := forEach(4, 100, func(i int) {
		mu.Lock()
		seen[i]++
		mu.Unlock()
	}); err != nil {
		t.Fatalf("forEach failed: %v", err)
	}
	if len(seen) != 100 {
		t.Fatalf("expected 100 indexes got %d", len(seen))
	}
	for i, n := range seen {
		if n != 1 {
			t.Fatalf("index %d visited %d times", i, n)
		}
	}
}
