package taxonomy

import "github.com/heartmarshall/wikinaturalist-backend/internal/domain"

// defaultGroups is the canonical group table. Order is match priority: the
// most specific animal classes come first, the fallback last.
var defaultGroups = []domain.Group{
	{
		ID:           domain.GroupMammal,
		Label:        "Mammalia",
		ExternalID:   "Q7377",
		DisplayColor: "#FFDDAA",
		Icon:         "🐘",
		Explainer:    "Warm-blooded vertebrates, typically covered in hair or fur, nurse their young.",
	},
	{
		ID:           domain.GroupBird,
		Label:        "Aves",
		ExternalID:   "Q5113",
		DisplayColor: "#49C0C0FF",
		Icon:         "🐦",
		Explainer:    "Warm-blooded vertebrates, feathered, lay hard-shelled eggs, usually capable of flight.",
	},
	{
		ID:           domain.GroupReptile,
		Label:        "Reptilia",
		ExternalID:   "Q10811",
		DisplayColor: "#80AA50FF",
		Icon:         "🐍",
		Explainer:    "Cold-blooded vertebrates covered in scales or bony plates that lay amniotic eggs. Includes snakes, lizards and turtles.",
	},
	{
		ID:           domain.GroupAmphibian,
		Label:        "Amphibia",
		ExternalID:   "Q10908",
		DisplayColor: "#50B080FF",
		Icon:         "🐸",
		Explainer:    "Cold-blooded vertebrates with smooth, moist skin that undergo metamorphosis between water and land.",
	},
	{
		ID:           domain.GroupFish,
		Label:        "Actinopterygii",
		ExternalID:   "Q2089675",
		DisplayColor: "#20A0B0FF",
		Icon:         "🐠",
		Explainer:    "Aquatic vertebrates, typically scaly, breathe through gills, fins for movement.",
	},
	{
		ID:           domain.GroupArachnid,
		Label:        "Arachnida",
		ExternalID:   "Q1358",
		DisplayColor: "#808080FF",
		Icon:         "🕷️",
		Explainer:    "Arthropods with two body sections and eight legs. Includes spiders, scorpions and ticks.",
	},
	{
		ID:           domain.GroupInsect,
		Label:        "Insecta",
		ExternalID:   "Q1390",
		DisplayColor: "#B09060FF",
		Icon:         "🐜",
		Explainer:    "Arthropods with three body sections, six legs, and usually one or two pairs of wings.",
	},
	{
		ID:           domain.GroupMollusk,
		Label:        "Mollusca",
		ExternalID:   "Q43219",
		DisplayColor: "#A0C0E0FF",
		Icon:         "🐌",
		Explainer:    "Soft-bodied, unsegmented invertebrates, often enclosed in a shell. Includes snails, slugs, clams and octopus.",
	},
	{
		ID:           domain.GroupOtherArthropod,
		Label:        "Arthropoda",
		ExternalID:   "Q21",
		DisplayColor: "#D09080FF",
		Icon:         "🦀",
		Explainer:    "Segmented bodies, hard exoskeletons and jointed limbs. Includes crabs, shrimp, centipedes and millipedes.",
	},
	{
		ID:           domain.GroupInvertebrate,
		Label:        "Animalia",
		ExternalID:   "Q34091",
		DisplayColor: "#FFDDAA",
		Icon:         "🪱",
		Explainer:    "Catch-all for other animals without backbones (worms, jellyfish, starfish).",
	},
	{
		ID:           domain.GroupPlant,
		Label:        "Plantae",
		ExternalID:   "Q756",
		DisplayColor: "#88DD88FF",
		Icon:         "🌿",
		Explainer:    "Organisms that photosynthesize. Used as a fallback for non-woody, non-grass plants.",
	},
	{
		ID:           domain.GroupGrass,
		Label:        "Poaceae",
		ExternalID:   "Q34723",
		DisplayColor: "#CCFFCC",
		Icon:         "🌾",
		Explainer:    "Non-woody plants, often small or flexible-stemmed. Includes true grasses, wildflowers, shrubs and ferns.",
	},
	{
		ID:           domain.GroupTree,
		Label:        "Plantae",
		ExternalID:   "Q7541",
		DisplayColor: "#55BB55FF",
		Icon:         "🌳",
		Explainer:    "Large, woody, perennial plants with a single stem or trunk.",
	},
	{
		ID:           domain.GroupFungi,
		Label:        "Fungi",
		ExternalID:   "Q7705",
		DisplayColor: "#E0E0A0FF",
		Icon:         "🍄",
		Explainer:    "Non-photosynthetic organisms that reproduce via spores. Includes mushrooms, molds and yeasts.",
	},
	{
		ID:           domain.GroupUnknown,
		Label:        "Unknown",
		DisplayColor: "#B4FAB4",
		Icon:         "🌎",
		Explainer:    "Species with unidentified biological classification.",
	},
}
