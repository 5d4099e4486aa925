package provider

// SearchHit is the top result of a knowledge-graph entity search.
type SearchHit struct {
	ID          string
	Description *string
}

// EntityDetails holds the descriptive claims of a knowledge-graph entity.
// Image and RangeMap are already resolved to thumbnail URLs.
type EntityDetails struct {
	ID         string
	TaxonName  *string
	CommonName *string
	Image      *string
	RangeMap   *string
}

// ArticleText is the text extracted from an encyclopedia article.
type ArticleText struct {
	// ShortDescription is the first sentence of the intro paragraph, plain text.
	ShortDescription  string
	MediumDescription string
	// IntroParagraph is HTML with relative links made absolute.
	IntroParagraph string
	// IntroText is IntroParagraph as plain text.
	IntroText string
	Infobox   string
}

// FullText joins the plain-text fields used for frequency counting.
func (a *ArticleText) FullText() string {
	if a == nil {
		return ""
	}
	return a.MediumDescription + " " + a.IntroText + " " + a.Infobox
}

// ListPage is the raw wikitext of a user's list page.
type ListPage struct {
	Title    string
	Wikitext string
}
