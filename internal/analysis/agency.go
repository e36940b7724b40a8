package analysis

import (
	"fmt"
	"sort"

	"github.com/regscope/regscope/internal/model"
)

// topAgencyLimit caps the number of top agencies reported
const topAgencyLimit = 10

// defaultTitleCount is the CFR title count, used when no registry is supplied
const defaultTitleCount = 50

// chapterRef and partRef key the distinct-reference sets per agency node
type chapterRef struct {
	title   int
	chapter string
}

type partRef struct {
	title int
	part  string
}

// AnalyzeForest reduces an agency forest into per-agency reference
// statistics, cross-referenced against the flat title registry. Each node is
// reduced over its own CFR references only; sub-agency references are never
// folded into a parent's record. Nodes with no references are walked for
// their children but emit no record.
//
// Slugs are not guaranteed globally distinct by the source feed: when two
// nodes share one, the later-visited record overwrites the earlier in the
// result mapping. A nil registry falls back to the fixed CFR title count.
func AnalyzeForest(roots []*model.Agency, registry []model.TitleEntry) *model.AgencyStatsResult {
	result := &model.AgencyStatsResult{
		TotalAgencies: len(roots),
		Agencies:      make(map[string]model.AgencyStat),
	}
	if registry == nil {
		result.TotalTitles = defaultTitleCount
	} else {
		result.TotalTitles = len(registry)
	}

	// Ordered so duplicate-slug overwrites keep the first encounter position
	// and downstream sorts stay deterministic.
	var order []string
	titleAgencies := make(map[int]map[string]struct{})

	walkForest(roots, func(node *model.Agency) {
		stat, ok := reduceAgency(node)
		if !ok {
			return
		}
		if _, seen := result.Agencies[stat.Slug]; !seen {
			order = append(order, stat.Slug)
		}
		result.Agencies[stat.Slug] = stat
	})

	result.AgenciesWithReferences = len(result.Agencies)

	stats := make([]model.AgencyStat, 0, len(order))
	titleSum := 0
	for _, slug := range order {
		stat := result.Agencies[slug]
		stats = append(stats, stat)
		titleSum += stat.TitleCount
		for _, title := range stat.Titles {
			if titleAgencies[title] == nil {
				titleAgencies[title] = make(map[string]struct{})
			}
			titleAgencies[title][slug] = struct{}{}
		}
	}

	if len(stats) > 0 {
		result.AverageTitlesPerAgency = float64(titleSum) / float64(len(stats))
	}

	top := make([]model.AgencyStat, len(stats))
	copy(top, stats)
	sort.SliceStable(top, func(i, j int) bool {
		return top[i].TitleCount > top[j].TitleCount
	})
	if len(top) > topAgencyLimit {
		top = top[:topAgencyLimit]
	}
	result.TopAgencies = top

	result.TitleDistribution = buildDistribution(titleAgencies, registry)

	return result
}

// StatBySlug looks up a single agency's stat record. It re-runs the forest
// reduction, so the answer matches what AnalyzeForest would report,
// including last-write-wins on duplicate slugs.
func StatBySlug(roots []*model.Agency, slug string) (model.AgencyStat, bool) {
	var found model.AgencyStat
	var ok bool
	walkForest(roots, func(node *model.Agency) {
		if node.Slug != slug {
			return
		}
		if stat, has := reduceAgency(node); has {
			found = stat
			ok = true
		}
	})
	return found, ok
}

// StatsReferencingTitle returns every agency stat whose distinct title set
// contains the given title number, in encounter order.
func StatsReferencingTitle(roots []*model.Agency, title int) []model.AgencyStat {
	var stats []model.AgencyStat
	walkForest(roots, func(node *model.Agency) {
		stat, ok := reduceAgency(node)
		if !ok {
			return
		}
		for _, t := range stat.Titles {
			if t == title {
				stats = append(stats, stat)
				return
			}
		}
	})
	return stats
}

// walkForest visits every node of the forest depth-first in pre-order,
// using an explicit stack per root.
func walkForest(roots []*model.Agency, visit func(*model.Agency)) {
	for _, root := range roots {
		if root == nil {
			continue
		}
		stack := []*model.Agency{root}
		for len(stack) > 0 {
			node := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			visit(node)
			for i := len(node.Children) - 1; i >= 0; i-- {
				if node.Children[i] != nil {
					stack = append(stack, node.Children[i])
				}
			}
		}
	}
}

// reduceAgency builds the distinct title/chapter/part sets from one node's
// own references. Nodes with no referenced titles emit no record.
func reduceAgency(node *model.Agency) (model.AgencyStat, bool) {
	titles := make(map[int]struct{})
	chapters := make(map[chapterRef]struct{})
	parts := make(map[partRef]struct{})

	for _, ref := range node.CFRReferences {
		titles[ref.Title] = struct{}{}
		if ref.Chapter != "" {
			chapters[chapterRef{ref.Title, ref.Chapter}] = struct{}{}
		}
		if ref.Part != "" {
			parts[partRef{ref.Title, ref.Part}] = struct{}{}
		}
	}

	if len(titles) == 0 {
		return model.AgencyStat{}, false
	}

	titleList := make([]int, 0, len(titles))
	for t := range titles {
		titleList = append(titleList, t)
	}
	sort.Ints(titleList)

	return model.AgencyStat{
		Name:         node.Name,
		Slug:         node.Slug,
		ShortName:    node.ShortName,
		TitleCount:   len(titles),
		ChapterCount: len(chapters),
		PartCount:    len(parts),
		Titles:       titleList,
	}, true
}

// buildDistribution inverts the per-agency title sets into per-title agency
// sets, resolving display names through the registry.
func buildDistribution(titleAgencies map[int]map[string]struct{}, registry []model.TitleEntry) []model.TitleDistribution {
	names := make(map[int]string, len(registry))
	for _, entry := range registry {
		names[entry.Number] = entry.Name
	}

	dist := make([]model.TitleDistribution, 0, len(titleAgencies))
	for title, slugs := range titleAgencies {
		name, ok := names[title]
		if !ok || name == "" {
			name = fmt.Sprintf("Title %d", title)
		}
		agencies := make([]string, 0, len(slugs))
		for slug := range slugs {
			agencies = append(agencies, slug)
		}
		sort.Strings(agencies)
		dist = append(dist, model.TitleDistribution{
			TitleNumber: title,
			TitleName:   name,
			AgencyCount: len(agencies),
			Agencies:    agencies,
		})
	}

	sort.Slice(dist, func(i, j int) bool {
		if dist[i].AgencyCount != dist[j].AgencyCount {
			return dist[i].AgencyCount > dist[j].AgencyCount
		}
		return dist[i].TitleNumber < dist[j].TitleNumber
	})

	return dist
}
