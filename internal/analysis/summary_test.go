package analysis

import (
	"errors"
	"testing"

	"github.com/regscope/regscope/internal/model"
)

func TestSummarize(t *testing.T) {
	results := []*model.WordCountResult{
		{TitleNumber: 1, TotalWords: 100, TotalElements: 10},
		{TitleNumber: 2, TotalWords: 300, TotalElements: 20},
		{TitleNumber: 3, TotalWords: 50, TotalElements: 5},
	}

	summary, err := Summarize(results)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if summary.TitleCount != 3 {
		t.Errorf("Expected 3 titles, got %d", summary.TitleCount)
	}
	if summary.TotalWords != 450 {
		t.Errorf("Expected 450 total words, got %d", summary.TotalWords)
	}
	if summary.TotalElements != 35 {
		t.Errorf("Expected 35 total elements, got %d", summary.TotalElements)
	}
	if summary.AverageWordsPerTitle != 150 {
		t.Errorf("Expected average 150, got %f", summary.AverageWordsPerTitle)
	}
	if summary.LongestTitle.TitleNumber != 2 {
		t.Errorf("Expected title 2 longest, got %d", summary.LongestTitle.TitleNumber)
	}
	if summary.ShortestTitle.TitleNumber != 3 {
		t.Errorf("Expected title 3 shortest, got %d", summary.ShortestTitle.TitleNumber)
	}
}

func TestSummarize_EmptyBatch(t *testing.T) {
	_, err := Summarize(nil)
	if !errors.Is(err, ErrEmptyBatch) {
		t.Errorf("Expected ErrEmptyBatch, got %v", err)
	}
}

func TestSummarize_FirstOccurrenceWinsOnTies(t *testing.T) {
	results := []*model.WordCountResult{
		{TitleNumber: 7, TotalWords: 10},
		{TitleNumber: 8, TotalWords: 10},
	}

	summary, err := Summarize(results)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if summary.LongestTitle.TitleNumber != 7 {
		t.Errorf("Expected first tied result to win longest, got %d", summary.LongestTitle.TitleNumber)
	}
	if summary.ShortestTitle.TitleNumber != 7 {
		t.Errorf("Expected first tied result to win shortest, got %d", summary.ShortestTitle.TitleNumber)
	}
}
