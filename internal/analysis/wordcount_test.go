package analysis

import (
	"fmt"
	"testing"

	"github.com/regscope/regscope/internal/model"
)

func TestAnalyzeTree_SingleSection(t *testing.T) {
	root := &model.StructureNode{
		Type:       model.NodeTitle,
		Identifier: "17",
		Children: []*model.StructureNode{
			{
				Type:       model.NodeChapter,
				Identifier: "I",
				Children: []*model.StructureNode{
					{
						Type:       model.NodePart,
						Identifier: "1",
						Children: []*model.StructureNode{
							{
								Type:       model.NodeSection,
								Identifier: "1.1",
								Content:    "This is a test section with exactly ten words here.",
							},
						},
					},
				},
			},
		},
	}

	result := AnalyzeTree(root)

	if result.TitleNumber != 17 {
		t.Errorf("Expected title number 17, got %d", result.TitleNumber)
	}
	if result.TotalWords != 10 {
		t.Errorf("Expected 10 total words, got %d", result.TotalWords)
	}
	if result.TotalElements != 4 {
		t.Errorf("Expected 4 elements, got %d", result.TotalElements)
	}

	var section *model.HierarchyWordCount
	for i := range result.ByHierarchy {
		if result.ByHierarchy[i].Type == model.NodeSection {
			section = &result.ByHierarchy[i]
		}
	}
	if section == nil {
		t.Fatal("Expected a section entry in byHierarchy")
	}
	if section.Count != 1 || section.TotalWords != 10 || section.AverageWords != 10 {
		t.Errorf("Unexpected section hierarchy entry: %+v", section)
	}

	if len(result.Sections) != 1 || result.Sections[0].Identifier != "1.1" {
		t.Errorf("Expected one section record for 1.1, got %+v", result.Sections)
	}
}

func TestAnalyzeTree_TotalsMatchElementSum(t *testing.T) {
	root := &model.StructureNode{
		Type:       model.NodeTitle,
		Identifier: "3",
		Content:    "title preamble text",
		Children: []*model.StructureNode{
			{
				Type:       model.NodeChapter,
				Identifier: "I",
				Children: []*model.StructureNode{
					{Type: model.NodeSection, Identifier: "3.1", Content: "one two three"},
					{Type: model.NodeSection, Identifier: "3.2", Text: []string{"four", "five"}},
				},
			},
			{
				Type:       model.NodeAppendix,
				Identifier: "A",
				Content:    "appendix body",
				Text:       []string{"with", "extra text"},
			},
		},
	}

	result := AnalyzeTree(root)

	// totalWords must equal the sum over every element record
	sum := 0
	for _, el := range result.TopElements {
		sum += el.WordCount
	}
	if result.TotalWords != sum {
		t.Errorf("totalWords %d does not match element sum %d", result.TotalWords, sum)
	}
	if result.TotalElements != 5 {
		t.Errorf("Expected 5 elements, got %d", result.TotalElements)
	}

	// Hierarchy entries must partition all nodes by type
	counted := 0
	for _, h := range result.ByHierarchy {
		counted += h.Count
	}
	if counted != result.TotalElements {
		t.Errorf("byHierarchy counts %d nodes, tree has %d", counted, result.TotalElements)
	}

	// Own content only: appendix counts its own five words, not the title's
	for _, el := range result.TopElements {
		if el.Identifier == "A" && el.WordCount != 5 {
			t.Errorf("Expected appendix own word count 5, got %d", el.WordCount)
		}
	}
}

func TestAnalyzeTree_ByHierarchySortedByType(t *testing.T) {
	root := &model.StructureNode{
		Type:       model.NodeTitle,
		Identifier: "1",
		Children: []*model.StructureNode{
			{Type: model.NodeSubtitle, Identifier: "A"},
			{Type: model.NodeChapter, Identifier: "I"},
			{Type: model.NodeAppendix, Identifier: "App"},
		},
	}

	result := AnalyzeTree(root)

	for i := 1; i < len(result.ByHierarchy); i++ {
		if result.ByHierarchy[i-1].Type >= result.ByHierarchy[i].Type {
			t.Errorf("byHierarchy not sorted lexicographically: %q before %q",
				result.ByHierarchy[i-1].Type, result.ByHierarchy[i].Type)
		}
	}
}

func TestAnalyzeTree_TopElementsLimitAndOrder(t *testing.T) {
	root := &model.StructureNode{Type: model.NodeTitle, Identifier: "2"}
	for i := 0; i < 15; i++ {
		content := ""
		for w := 0; w <= i; w++ {
			content += "word "
		}
		root.Children = append(root.Children, &model.StructureNode{
			Type:       model.NodeSection,
			Identifier: fmt.Sprintf("2.%d", i),
			Content:    content,
		})
	}

	result := AnalyzeTree(root)

	if len(result.TopElements) != 10 {
		t.Fatalf("Expected 10 top elements, got %d", len(result.TopElements))
	}
	for i := 1; i < len(result.TopElements); i++ {
		if result.TopElements[i-1].WordCount < result.TopElements[i].WordCount {
			t.Errorf("Top elements not descending at %d", i)
		}
	}
	// Heaviest section has 15 words
	if result.TopElements[0].Identifier != "2.14" {
		t.Errorf("Expected 2.14 first, got %s", result.TopElements[0].Identifier)
	}
}

func TestAnalyzeTree_TiesKeepEncounterOrder(t *testing.T) {
	root := &model.StructureNode{
		Type:       model.NodeTitle,
		Identifier: "5",
		Children: []*model.StructureNode{
			{Type: model.NodeSection, Identifier: "5.1", Content: "same count"},
			{Type: model.NodeSection, Identifier: "5.2", Content: "same count"},
		},
	}

	result := AnalyzeTree(root)

	if result.TopElements[0].Identifier != "5.1" || result.TopElements[1].Identifier != "5.2" {
		t.Errorf("Tied elements out of encounter order: %+v", result.TopElements[:2])
	}
}

func TestAnalyzeTree_UnknownTypeProcessedGenerically(t *testing.T) {
	root := &model.StructureNode{
		Type:       model.NodeTitle,
		Identifier: "9",
		Children: []*model.StructureNode{
			{Type: model.NodeType("reserved"), Identifier: "X", Content: "two words"},
		},
	}

	result := AnalyzeTree(root)

	if result.TotalWords != 2 || result.TotalElements != 2 {
		t.Errorf("Unknown type not processed generically: %+v", result)
	}
	found := false
	for _, h := range result.ByHierarchy {
		if h.Type == "reserved" {
			found = true
		}
	}
	if !found {
		t.Error("Expected a byHierarchy entry for the unknown type")
	}
}

func TestAnalyzeTree_EmptyContent(t *testing.T) {
	root := &model.StructureNode{Type: model.NodeTitle, Identifier: "12"}

	result := AnalyzeTree(root)

	if result.TotalWords != 0 || result.TotalCharacters != 0 {
		t.Errorf("Expected zero counts for contentless tree, got %+v", result)
	}
	if result.TotalElements != 1 {
		t.Errorf("Expected the root to be counted, got %d elements", result.TotalElements)
	}
}

func TestCountOwnContent_WhitespaceHandling(t *testing.T) {
	node := &model.StructureNode{
		Content: "  leading   and trailing  ",
		Text:    []string{"plus", "joined"},
	}

	words, chars := countOwnContent(node)

	if words != 5 {
		t.Errorf("Expected 5 words, got %d", words)
	}
	if chars != len("leading   and trailing   plus joined") {
		t.Errorf("Unexpected character count %d", chars)
	}
}
