package invoice

import (
	"sort"
	"strings"
	"time"
)

// ClientStats aggregates one client's archived invoices
type ClientStats struct {
	Name    string  `json:"name"`
	Count   int     `json:"count"`
	Revenue float64 `json:"revenue"`
}

// Stats is the business overview derived from the archive
type Stats struct {
	TotalInvoices int           `json:"totalInvoices"`
	TotalRevenue  float64       `json:"totalRevenue"`
	MonthRevenue  float64       `json:"monthRevenue"`
	WeekRevenue   float64       `json:"weekRevenue"`
	TopClients    []ClientStats `json:"topClients"`
}

// ComputeStats aggregates revenue totals and the top five clients by
// invoice count. The week starts on Sunday; an invoice is dated by its
// invoiceDate, falling back to archival time when the date does not parse.
func ComputeStats(archive []*Archived, now time.Time) Stats {
	startOfWeek := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).
		AddDate(0, 0, -int(now.Weekday()))

	var stats Stats
	stats.TotalInvoices = len(archive)

	counts := make(map[string]*ClientStats)
	for _, entry := range archive {
		amount := entry.Data.TotalAmount

		date, err := time.ParseInLocation("2006-01-02", entry.Data.InvoiceDate, now.Location())
		if err != nil {
			date = time.UnixMilli(entry.CreatedAt).In(now.Location())
		}

		stats.TotalRevenue += amount
		if date.Month() == now.Month() && date.Year() == now.Year() {
			stats.MonthRevenue += amount
		}
		if !date.Before(startOfWeek) {
			stats.WeekRevenue += amount
		}

		name := strings.TrimSpace(entry.Data.ClientName)
		if name == "" {
			name = "Unknown Client"
		}
		cs, ok := counts[name]
		if !ok {
			cs = &ClientStats{Name: name}
			counts[name] = cs
		}
		cs.Count++
		cs.Revenue += amount
	}

	top := make([]ClientStats, 0, len(counts))
	for _, cs := range counts {
		top = append(top, *cs)
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].Count != top[j].Count {
			return top[i].Count > top[j].Count
		}
		return top[i].Name < top[j].Name
	})
	if len(top) > 5 {
		top = top[:5]
	}
	stats.TopClients = top
	return stats
}
