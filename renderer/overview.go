package renderer

import "github.com/etnz/wealth"

// OverviewReport is the current state of the holdings.
type OverviewReport struct {
	Title       string
	Currency    string
	Type        string // type filter applied to Holdings, "" or wealth.AllTypes for none
	Section     string // heading of the holdings table, "Holdings" when empty
	Portions    bool   // adds the share of each holding in the total value
	Summary     wealth.Summary
	Holdings    []wealth.Holding
	Allocations []wealth.Allocation
}

// HasTargets reports whether any allocation has a target.
func (r OverviewReport) HasTargets() bool {
	for _, a := range r.Allocations {
		if a.HasTarget() {
			return true
		}
	}
	return false
}

// HasTypes reports whether any holding has a type.
func (r OverviewReport) HasTypes() bool {
	for _, h := range r.Holdings {
		if h.Type != "" {
			return true
		}
	}
	return false
}

// Filtered reports whether Holdings is restricted to one type.
func (r OverviewReport) Filtered() bool { return r.Type != "" && r.Type != wealth.AllTypes }

// OverviewMarkdown renders the overview report as markdown.
func OverviewMarkdown(r OverviewReport) (string, error) {
	if r.Currency == "" {
		r.Currency = wealth.DefaultCurrency
	}
	if r.Title == "" {
		r.Title = "Portfolio Overview"
	}
	if r.Section == "" {
		r.Section = "Holdings"
	}
	partials := map[string]string{
		"overview_allocations": "overview_allocations.md",
		"overview_holdings":    "overview_holdings.md",
	}
	return renderTemplate("overview", "overview.md", partials, r.Currency, r)
}
