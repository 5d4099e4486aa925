package textclass

import (
	"regexp"

	"github.com/heartmarshall/wikinaturalist-backend/internal/domain"
	"github.com/heartmarshall/wikinaturalist-backend/internal/provider"
	"github.com/heartmarshall/wikinaturalist-backend/internal/taxonomy"
)

// Strategy inspects an article and returns a group id, or "" for no opinion.
type Strategy interface {
	Name() string
	Classify(article *provider.ArticleText) string
}

type labelPattern struct {
	groupID string
	re      *regexp.Regexp
}

// LabelStrategy looks for phylogenetic labels in the infobox. Labels are
// tried in registry order and the first whole-word match wins. A plant label
// is refined to tree or grass by word frequency over the full text.
type LabelStrategy struct {
	patterns []labelPattern
}

// NewLabelStrategy compiles one pattern per registry group, skipping the
// fallback group.
func NewLabelStrategy(registry *taxonomy.Registry) *LabelStrategy {
	fallback := registry.Fallback().ID
	s := &LabelStrategy{}
	for _, g := range registry.Groups() {
		if g.ID == fallback || g.Label == "" {
			continue
		}
		s.patterns = append(s.patterns, labelPattern{
			groupID: g.ID,
			re:      regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(g.Label) + `\b`),
		})
	}
	return s
}

func (s *LabelStrategy) Name() string { return "label" }

func (s *LabelStrategy) Classify(article *provider.ArticleText) string {
	if article.Infobox == "" {
		return ""
	}
	for _, p := range s.patterns {
		if !p.re.MatchString(article.Infobox) {
			continue
		}
		if p.groupID == domain.GroupPlant {
			return disambiguatePlant(article.FullText())
		}
		return p.groupID
	}
	return ""
}

func disambiguatePlant(text string) string {
	word, _ := MostFrequent([]string{domain.GroupTree, domain.GroupGrass}, text)
	if word == "" {
		return domain.GroupPlant
	}
	return word
}

// FrequencyStrategy picks the registry group id that occurs most often as a
// word in the full article text. Ids containing an underscore, such as
// other_arthropod, can never win: MostFrequent splits words on "_", so no
// text word equals the id.
type FrequencyStrategy struct {
	ids []string
}

// NewFrequencyStrategy counts every registry group id.
func NewFrequencyStrategy(registry *taxonomy.Registry) *FrequencyStrategy {
	return &FrequencyStrategy{ids: registry.IDs()}
}

func (s *FrequencyStrategy) Name() string { return "frequency" }

func (s *FrequencyStrategy) Classify(article *provider.ArticleText) string {
	word, _ := MostFrequent(s.ids, article.FullText())
	return word
}
