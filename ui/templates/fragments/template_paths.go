// Package fragments provides template names for the dashboard page
package fragments

// Template names as registered when the templates directory is parsed
const (
	Index = "index.html"

	// Layout templates
	Sidebar = "fragments/sidebar.html"
	Header  = "fragments/header.html"

	// Result templates
	Dataset = "fragments/dataset.html"
	Plot    = "fragments/plot.html"
)

// All lists every template the server expects to find
func All() []string {
	return []string{Index, Sidebar, Header, Dataset, Plot}
}
