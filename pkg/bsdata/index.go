package bsdata

import "encoding/xml"

const IndexNamespace = "http://www.battlescribe.net/schema/dataIndexSchema"

// Repository names the repository being indexed and where its index is served.
type Repository struct {
	Name    string
	BaseURL string
	// URLs lists optional mirror repository URLs written into the index.
	URLs []string
}

// DataIndex is the index document enumerating a repository's data files.
type DataIndex struct {
	XMLName        xml.Name         `xml:"dataIndex" yaml:"-"`
	Xmlns          string           `xml:"xmlns,attr" yaml:"-"`
	RepositoryName string           `xml:"name,attr" yaml:"repository_name"`
	IndexURL       string           `xml:"indexUrl,attr" yaml:"index_url"`
	RepositoryURLs []string         `xml:"repositoryUrls>repositoryUrl" yaml:"repository_urls,omitempty"`
	Entries        []DataIndexEntry `xml:"dataIndexEntries>dataIndexEntry" yaml:"entries"`
}

// DataIndexEntry describes one indexed data file. Pointer fields are nil when
// the document type does not carry them.
type DataIndexEntry struct {
	FilePath            string   `xml:"filePath,attr" yaml:"file_path"`
	DataType            DataType `xml:"dataType,attr" yaml:"data_type"`
	ID                  *string  `xml:"id,attr,omitempty" yaml:"id,omitempty"`
	GameSystemID        *string  `xml:"gameSystemId,attr,omitempty" yaml:"game_system_id,omitempty"`
	BattleScribeVersion string   `xml:"battleScribeVersion,attr" yaml:"battle_scribe_version"`
	Revision            *int     `xml:"revision,attr,omitempty" yaml:"revision,omitempty"`
	Name                string   `xml:"name,attr" yaml:"name"`
	AuthorName          *string  `xml:"authorName,attr,omitempty" yaml:"author_name,omitempty"`
	AuthorContact       *string  `xml:"authorContact,attr,omitempty" yaml:"author_contact,omitempty"`
	AuthorURL           *string  `xml:"authorUrl,attr,omitempty" yaml:"author_url,omitempty"`
	Description         *string  `xml:"description,attr,omitempty" yaml:"description,omitempty"`
	Points              *float64 `xml:"points,attr,omitempty" yaml:"points,omitempty"`
	PointsLimit         *float64 `xml:"pointsLimit,attr,omitempty" yaml:"points_limit,omitempty"`
	GameSystemName      *string  `xml:"gameSystemName,attr,omitempty" yaml:"game_system_name,omitempty"`
	GameSystemRevision  *int     `xml:"gameSystemRevision,attr,omitempty" yaml:"game_system_revision,omitempty"`
}

func NewGameSystemEntry(filePath string, gameSystem *GameSystem) DataIndexEntry {
	return DataIndexEntry{
		FilePath:            filePath,
		DataType:            DataTypeGameSystem,
		ID:                  ptr(gameSystem.ID),
		BattleScribeVersion: gameSystem.BattleScribeVersion,
		Revision:            ptr(gameSystem.Revision),
		Name:                gameSystem.Name,
		AuthorName:          ptr(gameSystem.AuthorName),
		AuthorContact:       ptr(gameSystem.AuthorContact),
		AuthorURL:           ptr(gameSystem.AuthorURL),
	}
}

func NewCatalogueEntry(filePath string, catalogue *Catalogue) DataIndexEntry {
	return DataIndexEntry{
		FilePath:            filePath,
		DataType:            DataTypeCatalogue,
		ID:                  ptr(catalogue.ID),
		GameSystemID:        ptr(catalogue.GameSystemID),
		BattleScribeVersion: catalogue.BattleScribeVersion,
		Revision:            ptr(catalogue.Revision),
		Name:                catalogue.Name,
		AuthorName:          ptr(catalogue.AuthorName),
		AuthorContact:       ptr(catalogue.AuthorContact),
		AuthorURL:           ptr(catalogue.AuthorURL),
	}
}

func NewRosterEntry(filePath string, roster *Roster) DataIndexEntry {
	return DataIndexEntry{
		FilePath:            filePath,
		DataType:            DataTypeRoster,
		GameSystemID:        ptr(roster.GameSystemID),
		BattleScribeVersion: roster.BattleScribeVersion,
		Name:                roster.Name,
		Description:         ptr(roster.Description),
		Points:              ptr(roster.Points),
		PointsLimit:         ptr(roster.PointsLimit),
		GameSystemName:      roster.GameSystemName,
		GameSystemRevision:  roster.GameSystemRevision,
	}
}

func ptr[T any](v T) *T {
	return &v
}
