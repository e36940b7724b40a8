package model

// NodeType tags a structure node with its hierarchy level
type NodeType string

const (
	NodeTitle      NodeType = "title"
	NodeSubtitle   NodeType = "subtitle"
	NodeChapter    NodeType = "chapter"
	NodeSubchapter NodeType = "subchapter"
	NodePart       NodeType = "part"
	NodeSubpart    NodeType = "subpart"
	NodeSubject    NodeType = "subject"
	NodeSection    NodeType = "section"
	NodeAppendix   NodeType = "appendix"
)

// StructureNode is one element of a regulation's hierarchical document tree.
// A tree is rooted at exactly one title-typed node; depth is unbounded.
// Content and Text carry the node's own text only (sections and appendices
// in practice); descendants keep their own.
type StructureNode struct {
	Type       NodeType         `json:"type"`
	Identifier string           `json:"identifier"`
	Label      string           `json:"label,omitempty"`
	Content    string           `json:"content,omitempty"`
	Text       []string         `json:"text,omitempty"`
	Children   []*StructureNode `json:"children,omitempty"`
}
