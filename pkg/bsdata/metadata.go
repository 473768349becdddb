package bsdata

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"math"
	"strconv"
	"strings"

	"golang.org/x/net/html/charset"
)

const (
	GameSystemTag = "gameSystem"
	CatalogueTag  = "catalogue"
	RosterTag     = "roster"
)

const (
	idAttribute                  = "id"
	gameSystemIDAttribute        = "gameSystemId"
	battleScribeVersionAttribute = "battleScribeVersion"
	revisionAttribute            = "revision"
	nameAttribute                = "name"
	authorNameAttribute          = "authorName"
	authorContactAttribute       = "authorContact"
	authorURLAttribute           = "authorUrl"
	descriptionAttribute         = "description"
	pointsAttribute              = "points"
	pointsLimitAttribute         = "pointsLimit"
	gameSystemNameAttribute      = "gameSystemName"
	gameSystemRevisionAttribute  = "gameSystemRevision"
)

// GameSystem holds the root attributes of a game system document.
type GameSystem struct {
	ID                  string `yaml:"id"`
	BattleScribeVersion string `yaml:"battle_scribe_version"`
	Revision            int    `yaml:"revision"`
	Name                string `yaml:"name"`
	AuthorName          string `yaml:"author_name"`
	AuthorContact       string `yaml:"author_contact"`
	AuthorURL           string `yaml:"author_url"`
}

// Catalogue holds the root attributes of a catalogue document.
type Catalogue struct {
	ID                  string `yaml:"id"`
	GameSystemID        string `yaml:"game_system_id"`
	BattleScribeVersion string `yaml:"battle_scribe_version"`
	Revision            int    `yaml:"revision"`
	Name                string `yaml:"name"`
	AuthorName          string `yaml:"author_name"`
	AuthorContact       string `yaml:"author_contact"`
	AuthorURL           string `yaml:"author_url"`
}

// Roster holds the root attributes of a roster document. GameSystemName and
// GameSystemRevision are nil when the document does not carry them.
type Roster struct {
	BattleScribeVersion string  `yaml:"battle_scribe_version"`
	Description         string  `yaml:"description"`
	Name                string  `yaml:"name"`
	Points              float64 `yaml:"points"`
	PointsLimit         float64 `yaml:"points_limit"`
	GameSystemID        string  `yaml:"game_system_id"`
	GameSystemName      *string `yaml:"game_system_name,omitempty"`
	GameSystemRevision  *int    `yaml:"game_system_revision,omitempty"`
}

// ExtractGameSystem reads the attributes of the first gameSystem element.
func ExtractGameSystem(data []byte) (*GameSystem, error) {
	return extractGameSystem(bytes.NewReader(data))
}

func extractGameSystem(src io.Reader) (*GameSystem, error) {
	r, err := newAttributeReader(src, GameSystemTag)
	if err != nil {
		return nil, err
	}
	gameSystem := &GameSystem{
		ID:                  r.str(idAttribute),
		BattleScribeVersion: r.str(battleScribeVersionAttribute),
		Revision:            r.revision(),
		Name:                r.str(nameAttribute),
		AuthorName:          r.str(authorNameAttribute),
		AuthorContact:       r.str(authorContactAttribute),
		AuthorURL:           r.str(authorURLAttribute),
	}
	if r.err != nil {
		return nil, r.err
	}
	return gameSystem, nil
}

// ExtractCatalogue reads the attributes of the first catalogue element.
func ExtractCatalogue(data []byte) (*Catalogue, error) {
	return extractCatalogue(bytes.NewReader(data))
}

func extractCatalogue(src io.Reader) (*Catalogue, error) {
	r, err := newAttributeReader(src, CatalogueTag)
	if err != nil {
		return nil, err
	}
	catalogue := &Catalogue{
		ID:                  r.str(idAttribute),
		GameSystemID:        r.str(gameSystemIDAttribute),
		BattleScribeVersion: r.str(battleScribeVersionAttribute),
		Revision:            r.revision(),
		Name:                r.str(nameAttribute),
		AuthorName:          r.str(authorNameAttribute),
		AuthorContact:       r.str(authorContactAttribute),
		AuthorURL:           r.str(authorURLAttribute),
	}
	if r.err != nil {
		return nil, r.err
	}
	return catalogue, nil
}

// ExtractRoster reads the attributes of the first roster element.
func ExtractRoster(data []byte) (*Roster, error) {
	return extractRoster(bytes.NewReader(data))
}

func extractRoster(src io.Reader) (*Roster, error) {
	r, err := newAttributeReader(src, RosterTag)
	if err != nil {
		return nil, err
	}
	roster := &Roster{
		BattleScribeVersion: r.str(battleScribeVersionAttribute),
		Description:         r.str(descriptionAttribute),
		Name:                r.str(nameAttribute),
		Points:              r.double(pointsAttribute),
		PointsLimit:         r.double(pointsLimitAttribute),
		GameSystemID:        r.str(gameSystemIDAttribute),
	}
	if value, ok := r.optional(gameSystemNameAttribute); ok {
		roster.GameSystemName = &value
	}
	if _, ok := r.optional(gameSystemRevisionAttribute); ok {
		revision := r.integer(gameSystemRevisionAttribute)
		roster.GameSystemRevision = &revision
	}
	if r.err != nil {
		return nil, r.err
	}
	return roster, nil
}

// scanRootAttributes tokenizes src until the first start element whose
// qualified name equals tag ignoring case, and returns its unprefixed
// attributes. Nothing after that element is read.
func scanRootAttributes(src io.Reader, tag string) (map[string]string, error) {
	decoder := xml.NewDecoder(src)
	decoder.CharsetReader = charset.NewReaderLabel
	for {
		token, err := decoder.RawToken()
		if errors.Is(err, io.EOF) {
			return nil, &MalformedDocumentError{Tag: tag, Err: errRootNotFound}
		}
		if errors.Is(err, ErrCompression) {
			return nil, err
		}
		if err != nil {
			return nil, &MalformedDocumentError{Tag: tag, Err: err}
		}
		start, ok := token.(xml.StartElement)
		if !ok || !strings.EqualFold(qualifiedName(start.Name), tag) {
			continue
		}
		attrs := make(map[string]string, len(start.Attr))
		for _, attr := range start.Attr {
			if attr.Name.Space != "" {
				continue
			}
			attrs[attr.Name.Local] = attr.Value
		}
		return attrs, nil
	}
}

// qualifiedName restores the prefix RawToken leaves in Space.
func qualifiedName(name xml.Name) string {
	if name.Space == "" {
		return name.Local
	}
	return name.Space + ":" + name.Local
}

// attributeReader converts root attributes, keeping the first failure.
type attributeReader struct {
	tag   string
	attrs map[string]string
	err   error
}

func newAttributeReader(src io.Reader, tag string) (*attributeReader, error) {
	attrs, err := scanRootAttributes(src, tag)
	if err != nil {
		return nil, err
	}
	return &attributeReader{tag: tag, attrs: attrs}, nil
}

func (r *attributeReader) optional(name string) (string, bool) {
	value, ok := r.attrs[name]
	return value, ok
}

func (r *attributeReader) str(name string) string {
	value, ok := r.attrs[name]
	if !ok {
		r.fail(name, errAttributeMissing)
	}
	return value
}

func (r *attributeReader) integer(name string) int {
	value, ok := r.attrs[name]
	if !ok {
		r.fail(name, errAttributeMissing)
		return 0
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		r.fail(name, err)
		return 0
	}
	return parsed
}

func (r *attributeReader) revision() int {
	revision := r.integer(revisionAttribute)
	if revision < 0 {
		r.fail(revisionAttribute, errNegativeRevision)
		return 0
	}
	return revision
}

func (r *attributeReader) double(name string) float64 {
	value, ok := r.attrs[name]
	if !ok {
		r.fail(name, errAttributeMissing)
		return 0
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		r.fail(name, err)
		return 0
	}
	if math.IsNaN(parsed) || math.IsInf(parsed, 0) {
		r.fail(name, errNotFinite)
		return 0
	}
	return parsed
}

func (r *attributeReader) fail(name string, err error) {
	if r.err != nil {
		return
	}
	r.err = &MalformedDocumentError{Tag: r.tag, Attribute: name, Err: err}
}
