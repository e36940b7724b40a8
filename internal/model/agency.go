package model

// CFRReference points from an agency to a regulation location
type CFRReference struct {
	Title   int    `json:"title"`             // CFR title number
	Chapter string `json:"chapter,omitempty"` // Chapter within the title (optional)
	Part    string `json:"part,omitempty"`    // Part within the title (optional)
}

// Agency is one element of the federal-agency hierarchy. Agencies form a
// forest: multiple independent roots, each with nested sub-agencies.
// Slug is the aggregation key; the source feed does not guarantee it is
// globally distinct across the forest.
type Agency struct {
	Name          string         `json:"name"`
	ShortName     string         `json:"short_name,omitempty"`
	Slug          string         `json:"slug"`
	CFRReferences []CFRReference `json:"cfr_references,omitempty"`
	Children      []*Agency      `json:"children,omitempty"`
}
