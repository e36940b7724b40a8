// Package analysis implements the structural analysis engine: word and
// character statistics over regulation document trees, and reference
// statistics over the federal-agency forest. All functions are pure; inputs
// are treated as immutable snapshots and every call allocates fresh results.
package analysis

import (
	"sort"
	"strconv"
	"strings"

	"github.com/regscope/regscope/internal/model"
)

// topElementLimit caps the number of heaviest elements reported per tree
const topElementLimit = 10

// AnalyzeTree reduces a title-rooted structure tree into per-element and
// per-hierarchy-level word statistics. Every node is visited exactly once in
// pre-order; a node's counts cover only its own content, while the tree
// totals fold all nodes together. Unknown node types are processed
// generically, so the function is total over well-formed trees.
//
// The walk uses an explicit stack rather than native recursion: observed
// trees nest no deeper than six levels, but the data contract allows
// unbounded depth.
func AnalyzeTree(root *model.StructureNode) *model.WordCountResult {
	result := &model.WordCountResult{}
	if root == nil {
		return result
	}
	if n, err := strconv.Atoi(root.Identifier); err == nil {
		result.TitleNumber = n
	}

	byType := make(map[model.NodeType]*model.HierarchyWordCount)
	var elements []model.ElementWordCount

	stack := []*model.StructureNode{root}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		words, chars := countOwnContent(node)
		elements = append(elements, model.ElementWordCount{
			Identifier:     node.Identifier,
			Type:           node.Type,
			Label:          node.Label,
			WordCount:      words,
			CharacterCount: chars,
		})

		agg, ok := byType[node.Type]
		if !ok {
			agg = &model.HierarchyWordCount{Type: node.Type}
			byType[node.Type] = agg
		}
		agg.Count++
		agg.TotalWords += words

		result.TotalWords += words
		result.TotalCharacters += chars
		result.TotalElements++

		// Push children in reverse so they pop in document order
		for i := len(node.Children) - 1; i >= 0; i-- {
			if node.Children[i] != nil {
				stack = append(stack, node.Children[i])
			}
		}
	}

	result.ByHierarchy = make([]model.HierarchyWordCount, 0, len(byType))
	for _, agg := range byType {
		agg.AverageWords = float64(agg.TotalWords) / float64(agg.Count)
		result.ByHierarchy = append(result.ByHierarchy, *agg)
	}
	sort.Slice(result.ByHierarchy, func(i, j int) bool {
		return result.ByHierarchy[i].Type < result.ByHierarchy[j].Type
	})

	result.TopElements = topElements(elements)

	for _, el := range elements {
		if el.Type == model.NodeSection {
			result.Sections = append(result.Sections, el)
		}
	}

	return result
}

// countOwnContent concatenates a node's content field and space-joined text
// field, trims the result, and counts maximal non-whitespace runs and
// characters. A node with neither field counts as zero.
func countOwnContent(node *model.StructureNode) (words, chars int) {
	var parts []string
	if node.Content != "" {
		parts = append(parts, node.Content)
	}
	if len(node.Text) > 0 {
		parts = append(parts, strings.Join(node.Text, " "))
	}
	if len(parts) == 0 {
		return 0, 0
	}

	text := strings.TrimSpace(strings.Join(parts, " "))
	return len(strings.Fields(text)), len(text)
}

// topElements returns the heaviest elements by word count, descending,
// ties broken by encounter order.
func topElements(elements []model.ElementWordCount) []model.ElementWordCount {
	top := make([]model.ElementWordCount, len(elements))
	copy(top, elements)
	sort.SliceStable(top, func(i, j int) bool {
		return top[i].WordCount > top[j].WordCount
	})
	if len(top) > topElementLimit {
		top = top[:topElementLimit]
	}
	return top
}
