package services

import (
	"fmt"
	"sort"
	"strings"

	"classhawk-scraper/models"
)

// PrintBatchReport formats and prints the batch summary to terminal
func PrintBatchReport(summary *models.BatchSummary) {
	border := strings.Repeat("═", 55)
	thin := strings.Repeat("─", 55)

	fmt.Printf("\n╔%s╗\n", border)
	fmt.Printf("║%s║\n", center("CLASSHAWK BATCH SUMMARY", 55))
	fmt.Printf("╚%s╝\n", border)

	fmt.Printf("\n OVERVIEW\n%s\n", thin)
	fmt.Printf("  Raw Records Scraped   : %d\n", summary.TotalRaw)
	fmt.Printf("  Canonical Classes     : %d\n", summary.TotalClasses)
	fmt.Printf("  Open Right Now        : %d\n", summary.OpenClasses)

	if len(summary.ByStatus) > 0 {
		fmt.Printf("\n BY STATUS\n%s\n", thin)
		for _, status := range []models.Status{models.StatusOpen, models.StatusWaitlist, models.StatusFull} {
			if n := summary.ByStatus[status]; n > 0 {
				fmt.Printf("  %-10s : %d\n", status, n)
			}
		}
	}

	if len(summary.ByBrand) > 0 {
		fmt.Printf("\n CLASSES PER BRAND\n%s\n", thin)
		for _, bc := range sortedCounts(summary.ByBrand) {
			bar := strings.Repeat("▓", min(bc.count, 40))
			fmt.Printf("  %-28s %4d  %s\n", bc.key+":", bc.count, bar)
		}
	}

	if len(summary.ByCategory) > 0 {
		fmt.Printf("\n CLASSES PER CATEGORY\n%s\n", thin)
		byCategory := make(map[string]int, len(summary.ByCategory))
		for cat, n := range summary.ByCategory {
			byCategory[string(cat)] = n
		}
		for _, cc := range sortedCounts(byCategory) {
			fmt.Printf("  %-28s %4d\n", cc.key+":", cc.count)
		}
	}

	fmt.Printf("\n%s\n\n", border)
}

type keyCount struct {
	key   string
	count int
}

func sortedCounts(m map[string]int) []keyCount {
	out := make([]keyCount, 0, len(m))
	for k, n := range m {
		out = append(out, keyCount{k, n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}
		return out[i].key < out[j].key
	})
	return out
}

func center(s string, width int) string {
	runes := []rune(s)
	if len(runes) >= width {
		return s
	}
	pad := (width - len(runes)) / 2
	return strings.Repeat(" ", pad) + s + strings.Repeat(" ", width-len(runes)-pad)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
