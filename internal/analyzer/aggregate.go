package analyzer

import "sort"

// categoryOrder fixes the report order of category groups within a file,
// most actionable first. Matches the categorizer's priority chain.
var categoryOrder = map[Category]int{
	CategoryInterfaceBloat:         0,
	CategoryUnusedExport:           1,
	CategoryDeadClass:              2,
	CategoryOrphanedImplementation: 3,
	CategoryDeadPublicMethod:       4,
	CategoryDeadPrivateMethod:      5,
	CategoryDeadFunction:           6,
}

// aggregate shapes the flat finding list into the file-grouped,
// category-grouped result, and fills the summary counts. Unknown categories
// or confidences cannot occur here: the categorizer and scorer are total.
func aggregate(findings []Finding) *Result {
	byFile := map[string][]Finding{}
	filePaths := map[string]string{}
	for _, f := range findings {
		byFile[f.FileID] = append(byFile[f.FileID], f)
		filePaths[f.FileID] = f.FilePath
	}

	fileIDs := make([]string, 0, len(byFile))
	for id := range byFile {
		fileIDs = append(fileIDs, id)
	}
	sort.Slice(fileIDs, func(i, j int) bool {
		return filePaths[fileIDs[i]] < filePaths[fileIDs[j]]
	})

	result := &Result{
		Summary: Summary{
			DeadCodeFound: len(findings),
			ByCategory:    map[Category]int{},
			ByConfidence:  map[Confidence]int{},
		},
		FindingsByFile: []FileFindings{},
	}
	for _, f := range findings {
		result.Summary.ByCategory[f.Category]++
		result.Summary.ByConfidence[f.Confidence]++
	}

	for _, fileID := range fileIDs {
		fs := byFile[fileID]

		type groupKey struct {
			cat  Category
			conf Confidence
		}
		groups := map[groupKey][]Finding{}
		for _, f := range fs {
			k := groupKey{f.Category, f.Confidence}
			groups[k] = append(groups[k], f)
		}

		keyList := make([]groupKey, 0, len(groups))
		for k := range groups {
			keyList = append(keyList, k)
		}
		sort.Slice(keyList, func(i, j int) bool {
			if keyList[i].cat != keyList[j].cat {
				return categoryOrder[keyList[i].cat] < categoryOrder[keyList[j].cat]
			}
			return keyList[i].conf.Rank() < keyList[j].conf.Rank()
		})

		ff := FileFindings{
			FilePath:         filePaths[fileID],
			FileID:           fileID,
			DeadSymbolsCount: len(fs),
		}
		for _, k := range keyList {
			symbols := groups[k]
			sort.SliceStable(symbols, func(i, j int) bool {
				return symbols[i].LineRange.Start < symbols[j].LineRange.Start
			})
			ff.ByCategory = append(ff.ByCategory, CategoryGroup{
				Category:   k.cat,
				Confidence: k.conf,
				Symbols:    symbols,
			})
		}
		result.FindingsByFile = append(result.FindingsByFile, ff)
	}

	return result
}
