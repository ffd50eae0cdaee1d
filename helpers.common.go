package main

import (
	"fmt"
	"strings"
)

// This file contains the rendering helpers producing the human-readable
// outcome line of each report step.

// renderBooks lists the titles of the found books.
func renderBooks(books []Book) string {
	if len(books) == 0 {
		return "found 0 book(s)"
	}
	titles := make([]string, 0, len(books))
	for _, book := range books {
		titles = append(titles, book.Title)
	}
	return fmt.Sprintf("found %d book(s): %s", len(books), strings.Join(titles, ", "))
}

// renderSummaries lists the projected books as "title by author ($price)".
func renderSummaries(summaries []BookSummary) string {
	if len(summaries) == 0 {
		return "found 0 book(s)"
	}
	lines := make([]string, 0, len(summaries))
	for _, s := range summaries {
		lines = append(lines, fmt.Sprintf("%s by %s ($%.2f)", s.Title, s.Author, s.Price))
	}
	return fmt.Sprintf("found %d book(s): %s", len(summaries), strings.Join(lines, ", "))
}

// renderGenrePricings lists each genre with its average price, as ordered
// by the aggregation.
func renderGenrePricings(rows []GenrePricing) string {
	if len(rows) == 0 {
		return "no genres found"
	}
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, fmt.Sprintf("%s=$%.2f", row.Genre, row.AveragePrice))
	}
	return strings.Join(lines, ", ")
}

// renderDecadeCounts lists each decade with its book count, as ordered
// by the aggregation.
func renderDecadeCounts(rows []DecadeCount) string {
	if len(rows) == 0 {
		return "no decades found"
	}
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, fmt.Sprintf("%s=%d", row.Decade, row.BookCount))
	}
	return strings.Join(lines, ", ")
}

// renderExplain summarizes an execution plan report.
func renderExplain(report ExplainReport) string {
	stage := report.WinningStage
	if stage == "" {
		stage = "unknown"
	}
	return fmt.Sprintf("winning plan stage %s, examined %d document(s), returned %d",
		stage, report.DocsExamined, report.ReturnedCount)
}
