package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Group identifiers. Ordering and membership of the registry live in the
// taxonomy package; these constants only name the groups code refers to.
const (
	GroupMammal         = "mammal"
	GroupBird           = "bird"
	GroupReptile        = "reptile"
	GroupAmphibian      = "amphibian"
	GroupFish           = "fish"
	GroupArachnid       = "arachnid"
	GroupInsect         = "insect"
	GroupMollusk        = "mollusk"
	GroupOtherArthropod = "other_arthropod"
	GroupInvertebrate   = "invertebrate"
	GroupPlant          = "plant"
	GroupGrass          = "grass"
	GroupTree           = "tree"
	GroupFungi          = "fungi"
	GroupUnknown        = "unknown"
)

// defaultBackground is returned when a display color cannot be parsed.
const defaultBackground = "#f9f9f9"

// Group is one category of the classification taxonomy.
type Group struct {
	ID    string
	Label string
	// ExternalID is the knowledge-graph node for the group. Empty for
	// text-only groups such as the fallback.
	ExternalID   string
	DisplayColor string
	Icon         string
	Explainer    string
}

// HasExternalID reports whether the group can be matched during graph traversal.
func (g Group) HasExternalID() bool { return g.ExternalID != "" }

// BackgroundColor returns a very light variant of the display color
// (10% color, 90% white) formatted as "rgb(r, g, b)".
func (g Group) BackgroundColor() string {
	hex := strings.TrimPrefix(g.DisplayColor, "#")
	if len(hex) < 6 {
		return defaultBackground
	}

	channels := make([]int64, 3)
	for i := range channels {
		v, err := strconv.ParseInt(hex[i*2:i*2+2], 16, 64)
		if err != nil {
			return defaultBackground
		}
		channels[i] = v
	}

	blend := func(c int64) int {
		return int(math.Round(float64(c)*0.1 + 255*0.9))
	}
	return fmt.Sprintf("rgb(%d, %d, %d)", blend(channels[0]), blend(channels[1]), blend(channels[2]))
}

// ClassificationSource records which classifier produced a group.
type ClassificationSource string

const (
	SourceGraph ClassificationSource = "graph"
	SourceText  ClassificationSource = "text"
	SourceNone  ClassificationSource = "none"
)

func (s ClassificationSource) String() string { return string(s) }

func (s ClassificationSource) IsValid() bool {
	switch s {
	case SourceGraph, SourceText, SourceNone:
		return true
	}
	return false
}
