package wikipedia

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/heartmarshall/wikinaturalist-backend/internal/provider"
)

var (
	referenceMarker = regexp.MustCompile(`\[\d+\]`)
	sentenceEnd     = regexp.MustCompile(`[.!?](\s|$)`)
)

// parseArticle extracts the article text fields from mobile-html. wikiBase is
// the absolute prefix for "./Title" links, e.g. "https://en.wikipedia.org/wiki/".
func parseArticle(doc *html.Node, wikiBase string) *provider.ArticleText {
	removeNodes(doc, func(n *html.Node) bool {
		return hasClass(n, "noexcerpt") || hasClass(n, "mw-empty-elt")
	})

	out := &provider.ArticleText{}

	if n := findFirst(doc, func(n *html.Node) bool { return getAttr(n, "id") == "pcs-edit-section-title-description" }); n != nil {
		out.MediumDescription = textContent(n)
	}

	intro := findFirst(doc, func(n *html.Node) bool {
		v, ok := lookupAttr(n, "data-mw-section-id")
		return ok && v == "0"
	})
	if intro == nil {
		return out
	}

	rewriteRelativeLinks(intro, wikiBase)

	if p := findFirst(intro, isIntroParagraph); p != nil {
		out.IntroParagraph = innerHTML(p)
		out.IntroText = strings.Join(strings.Fields(textContent(p)), " ")
		out.ShortDescription = firstSentence(out.IntroText)
	}
	if box := findFirst(intro, func(n *html.Node) bool { return hasClass(n, "infobox") }); box != nil {
		out.Infobox = strings.TrimSpace(textContent(box))
	}
	return out
}

// isIntroParagraph matches a <p> that is a direct child of a <section>
// nested somewhere inside .mw-parser-output.
func isIntroParagraph(n *html.Node) bool {
	if !isElement(n, "p") || n.Parent == nil || !isElement(n.Parent, "section") {
		return false
	}
	for a := n.Parent.Parent; a != nil; a = a.Parent {
		if hasClass(a, "mw-parser-output") {
			return true
		}
	}
	return false
}

func rewriteRelativeLinks(root *html.Node, wikiBase string) {
	walk(root, func(n *html.Node) {
		if !isElement(n, "a") {
			return
		}
		for i, a := range n.Attr {
			if a.Key == "href" && strings.HasPrefix(a.Val, "./") {
				n.Attr[i].Val = wikiBase + strings.TrimPrefix(a.Val, "./")
			}
		}
	})
}

func firstSentence(text string) string {
	text = referenceMarker.ReplaceAllString(text, "")
	text = strings.Join(strings.Fields(text), " ")
	if loc := sentenceEnd.FindStringIndex(text); loc != nil {
		return text[:loc[0]+1]
	}
	return text
}

func walk(n *html.Node, fn func(*html.Node)) {
	fn(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

// findFirst returns the first descendant of root (root included) in
// document order that matches.
func findFirst(root *html.Node, match func(*html.Node) bool) *html.Node {
	if root.Type == html.ElementNode && match(root) {
		return root
	}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, match); found != nil {
			return found
		}
	}
	return nil
}

func removeNodes(root *html.Node, match func(*html.Node) bool) {
	var doomed []*html.Node
	walk(root, func(n *html.Node) {
		if n.Type == html.ElementNode && match(n) {
			doomed = append(doomed, n)
		}
	})
	for _, n := range doomed {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
	}
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	walk(n, func(c *html.Node) {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
	})
	return sb.String()
}

func innerHTML(n *html.Node) string {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&sb, c); err != nil {
			return sb.String()
		}
	}
	return sb.String()
}

func isElement(n *html.Node, tag string) bool {
	return n.Type == html.ElementNode && n.Data == tag
}

func lookupAttr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func getAttr(n *html.Node, key string) string {
	v, _ := lookupAttr(n, key)
	return v
}

func hasClass(n *html.Node, class string) bool {
	if n.Type != html.ElementNode {
		return false
	}
	for _, c := range strings.Fields(getAttr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}
