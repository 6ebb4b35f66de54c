package main

import (
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/pierre-delecto/stash-theporndb-scraper/internal/reconcile"
)

var summaryOrder = []reconcile.Outcome{
	reconcile.OutcomeMatched,
	reconcile.OutcomeNoMatch,
	reconcile.OutcomeAmbiguous,
	reconcile.OutcomeSkipped,
	reconcile.OutcomeFailed,
}

func summaryTable(results []reconcile.SceneResult) string {
	counts := make(map[reconcile.Outcome]int, len(summaryOrder))
	for _, result := range results {
		counts[result.Outcome]++
	}

	rows := make([]table.Row, 0, len(summaryOrder)+1)
	for _, outcome := range summaryOrder {
		rows = append(rows, table.Row{string(outcome), strconv.Itoa(counts[outcome])})
	}
	rows = append(rows, table.Row{"total", strconv.Itoa(len(results))})

	return renderTable(table.Row{"Outcome", "Scenes"}, rows, 2)
}
