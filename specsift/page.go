// CLAUDE:SUMMARY Page-level scraping of per-model descriptions and series feature headings.
package specsift

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/ElanGll2023/specsift/tables"
)

var modelMentionPattern = regexp.MustCompile(`S\d{4}[A-Z]*-[\w-]+`)

// headingSkipTerms filter page headings that are navigation, marketing or
// table captions rather than product feature titles.
var headingSkipTerms = []string{
	"hardware", "specification", "performance", "poe", "removable",
	"components", "matrix", "standards", "protocols", "resource",
	"related", "cloud", "ai", "intelligent", "security", "smb",
	"terminal", "industry", "solution", "service", "policy",
	"online", "training", "partner", "profile", "news", "contact",
	"blog", "learning", "certification", "exhibition", "continued",
	"global", "help", "become", "business",
	"规格", "性能", "硬件", "软件", "协议", "标准", "资源",
	"博客", "培训", "认证", "展览", "联系",
}

// pageNotes scrapes page-level facts outside the tables: free-text model
// descriptions and the series feature headings.
func pageNotes(htmlText string) (descriptions map[string]string, features string) {
	descriptions = make(map[string]string)

	doc, err := html.Parse(strings.NewReader(htmlText))
	if err != nil {
		return descriptions, ""
	}

	var featureList []string
	seen := make(map[string]bool)

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Script, atom.Style, atom.Noscript:
				return
			case atom.Div, atom.P, atom.Td, atom.Span:
				if model, desc, ok := modelDescription(tables.CollectText(n)); ok {
					if _, dup := descriptions[model]; !dup {
						descriptions[model] = desc
					}
				}
			case atom.H2, atom.H3:
				if t, ok := featureHeading(tables.CollectText(n)); ok && !seen[t] {
					seen[t] = true
					featureList = append(featureList, t)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return descriptions, strings.Join(featureList, "; ")
}

// modelDescription splits "S5130S-28P-EI: 24 x 10/100/1000BASE-T..." style
// text into the model and its trailing description.
func modelDescription(text string) (model, desc string, ok bool) {
	model = modelMentionPattern.FindString(text)
	if model == "" {
		return "", "", false
	}
	parts := strings.SplitN(text, model, 2)
	if len(parts) < 2 {
		return "", "", false
	}
	desc = strings.TrimLeft(parts[1], " \t:：")
	desc = strings.TrimSpace(desc)
	if len(desc) <= 10 || len(desc) >= 200 {
		return "", "", false
	}
	return model, desc, true
}

func featureHeading(text string) (string, bool) {
	if len(text) < 5 || len(text) > 80 {
		return "", false
	}
	lower := strings.ToLower(text)
	for _, term := range headingSkipTerms {
		if strings.Contains(lower, term) {
			return "", false
		}
	}
	return text, true
}
