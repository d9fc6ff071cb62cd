// CLAUDE:SUMMARY Bluemonday policy stripping scripts and event handlers from vendor HTML before parsing.
package tables

import "github.com/microcosm-cc/bluemonday"

// Vendor pages are untrusted input: scripts, iframes and event handlers are
// stripped before the DOM is parsed. Table structure attributes and inline
// styles survive so that colspan/rowspan and hidden-style detection still work.
var sanitizePolicy = func() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowTables()
	p.AllowAttrs("colspan", "rowspan").OnElements("td", "th")
	p.AllowAttrs("style").Globally()
	return p
}()

func sanitize(htmlText string) string {
	return sanitizePolicy.Sanitize(htmlText)
}
