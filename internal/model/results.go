package model

// ElementWordCount holds the word and character statistics for a single
// structure node. Counts reflect the node's own textual content only,
// never its descendants'.
type ElementWordCount struct {
	Identifier     string   `json:"identifier"`
	Type           NodeType `json:"type"`
	Label          string   `json:"label,omitempty"`
	WordCount      int      `json:"wordCount"`
	CharacterCount int      `json:"characterCount"`
}

// HierarchyWordCount aggregates all nodes of one hierarchy level
type HierarchyWordCount struct {
	Type         NodeType `json:"type"`
	Count        int      `json:"count"`         // Nodes of this type in the tree
	TotalWords   int      `json:"totalWords"`    // Sum of own word counts
	AverageWords float64  `json:"averageWords"`  // TotalWords / Count
}

// WordCountResult is the complete structural analysis of one title tree
type WordCountResult struct {
	TitleNumber     int                  `json:"titleNumber,omitempty"`
	TotalWords      int                  `json:"totalWords"`
	TotalCharacters int                  `json:"totalCharacters"`
	TotalElements   int                  `json:"totalElements"`
	ByHierarchy     []HierarchyWordCount `json:"byHierarchy"`
	TopElements     []ElementWordCount   `json:"topElements"` // Up to 10, by word count
	Sections        []ElementWordCount   `json:"sections"`    // All section nodes, encounter order
}

// AgencyStat holds the reference statistics for one agency node.
// Counts are over distinct referenced titles/chapters/parts of that node's
// own CFR references; children get their own independent records.
type AgencyStat struct {
	Name         string `json:"name"`
	Slug         string `json:"slug"`
	ShortName    string `json:"shortName,omitempty"`
	TitleCount   int    `json:"titleCount"`
	ChapterCount int    `json:"chapterCount"`
	PartCount    int    `json:"partCount"`
	Titles       []int  `json:"titles"` // Distinct referenced title numbers, ascending
}

// TitleDistribution records which agencies reference one title
type TitleDistribution struct {
	TitleNumber int      `json:"titleNumber"`
	TitleName   string   `json:"titleName"`
	AgencyCount int      `json:"agencyCount"`
	Agencies    []string `json:"agencies"` // Distinct agency slugs
}

// AgencyStatsResult is the complete analysis of an agency forest
type AgencyStatsResult struct {
	TotalAgencies          int                   `json:"totalAgencies"`          // Forest roots only
	AgenciesWithReferences int                   `json:"agenciesWithReferences"` // Emitted stat records
	TotalTitles            int                   `json:"totalTitles"`
	AverageTitlesPerAgency float64               `json:"averageTitlesPerAgency"`
	TopAgencies            []AgencyStat          `json:"topAgencies"` // Up to 10, by title count
	TitleDistribution      []TitleDistribution   `json:"titleDistribution"`
	Agencies               map[string]AgencyStat `json:"agencies"` // Keyed by slug
}

// TitleExtreme identifies the largest or smallest title in a batch
type TitleExtreme struct {
	TitleNumber int `json:"titleNumber"`
	TotalWords  int `json:"totalWords"`
}

// BatchSummary is the cross-title rollup over a batch of analysis results
type BatchSummary struct {
	TitleCount           int          `json:"titleCount"`
	TotalWords           int          `json:"totalWords"`
	TotalElements        int          `json:"totalElements"`
	AverageWordsPerTitle float64      `json:"averageWordsPerTitle"`
	LongestTitle         TitleExtreme `json:"longestTitle"`
	ShortestTitle        TitleExtreme `json:"shortestTitle"`
}
