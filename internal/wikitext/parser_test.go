package wikitext

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/wikinaturalist-backend/internal/domain"
)

func ptr(f float64) *float64 { return &f }

func TestParse_RoundTrip(t *testing.T) {
	t.Parallel()

	got := Parse("== Spain ==\n# { lat: 43.0, lon: 1.17 }\n# Quercus robur\n# Pica pica")

	require.Len(t, got, 1)
	assert.Equal(t, domain.Collection{
		Title:     "Spain",
		Latitude:  ptr(43.0),
		Longitude: ptr(1.17),
		Names:     []string{"Quercus robur", "Pica pica"},
	}, got[0])
}

func TestParse_MultipleSections(t *testing.T) {
	t.Parallel()

	raw := `Intro text that is ignored.
== Garden ==
* Pica pica
* Erithacus rubecula
* Pica pica

=== Pond ===
# { lat: -12.5 , lon: -.75 }
# Rana temporaria
`
	got := Parse(raw)

	require.Len(t, got, 2)

	assert.Equal(t, "Garden", got[0].Title)
	assert.Nil(t, got[0].Latitude)
	assert.Nil(t, got[0].Longitude)
	assert.Equal(t, []string{"Pica pica", "Erithacus rubecula", "Pica pica"}, got[0].Names)

	assert.Equal(t, "Pond", got[1].Title)
	require.NotNil(t, got[1].Latitude)
	assert.InDelta(t, -12.5, *got[1].Latitude, 1e-9)
	assert.InDelta(t, -0.75, *got[1].Longitude, 1e-9)
	assert.Equal(t, []string{"Rana temporaria"}, got[1].Names)
}

func TestParse_DropsEmptySections(t *testing.T) {
	t.Parallel()

	raw := "== Empty ==\n\n== Only coordinates ==\n* { lat: 1, lon: 2 }\n== Blank items ==\n*\n#   \n== Kept ==\n* Pica pica"
	got := Parse(raw)

	require.Len(t, got, 1)
	assert.Equal(t, "Kept", got[0].Title)
}

func TestParse_CoordinatesAnywhereInSection(t *testing.T) {
	t.Parallel()

	raw := "== Late ==\n* Quercus robur\n* {lat:10,lon:20}\n* Pica pica\n* { lat: 1, lon: 1 }"
	got := Parse(raw)

	require.Len(t, got, 1)
	assert.InDelta(t, 10.0, *got[0].Latitude, 1e-9)
	assert.InDelta(t, 20.0, *got[0].Longitude, 1e-9)
	// Only the first coordinate line is consumed.
	assert.Equal(t, []string{"Quercus robur", "Pica pica", "{ lat: 1, lon: 1 }"}, got[0].Names)
}

func TestParse_MalformedCoordinatesAreNames(t *testing.T) {
	t.Parallel()

	got := Parse("== X ==\n* { lat: 1.2.3, lon: 4 }\n* Pica pica")

	require.Len(t, got, 1)
	assert.Nil(t, got[0].Latitude)
	assert.Equal(t, []string{"{ lat: 1.2.3, lon: 4 }", "Pica pica"}, got[0].Names)
}

func TestParse_IgnoresNonListLines(t *testing.T) {
	t.Parallel()

	raw := "== Mixed ==\nprose line\n  * indented item  \n:: definition\n#numbered"
	got := Parse(raw)

	require.Len(t, got, 1)
	assert.Equal(t, []string{"indented item", "numbered"}, got[0].Names)
}

func TestParse_StripsOneMarkerOnly(t *testing.T) {
	t.Parallel()

	got := Parse("== Nested ==\n** Pica pica\n#* Quercus robur")

	require.Len(t, got, 1)
	assert.Equal(t, []string{"* Pica pica", "* Quercus robur"}, got[0].Names)
}

func TestParse_TrimsTitle(t *testing.T) {
	t.Parallel()

	got := Parse("==   Costa Rica   ==\n* Ateles geoffroyi")

	require.Len(t, got, 1)
	assert.Equal(t, "Costa Rica", got[0].Title)
}

func TestParse_CRLF(t *testing.T) {
	t.Parallel()

	got := Parse("== Spain ==\r\n# Quercus robur\r\n# Pica pica\r\n")

	require.Len(t, got, 1)
	assert.Equal(t, "Spain", got[0].Title)
	assert.Equal(t, []string{"Quercus robur", "Pica pica"}, got[0].Names)
}

func TestParse_Empty(t *testing.T) {
	t.Parallel()

	assert.Nil(t, Parse(""))
	assert.Nil(t, Parse("no headings here\n* Pica pica"))
	assert.Nil(t, Parse("== A ==\n== B ==\n"))
}

func TestFilterLines(t *testing.T) {
	t.Parallel()

	raw := "{{User box}}\n== Spain ==\nSome prose.\n  # Quercus robur\n* Pica pica\n[[Category:X]]\r\n=== Sub ==="
	assert.Equal(t, "== Spain ==\n  # Quercus robur\n* Pica pica\n=== Sub ===", FilterLines(raw))
	assert.Empty(t, FilterLines("prose only"))
}

func TestFilterThenParse(t *testing.T) {
	t.Parallel()

	raw := "Welcome to my lists!\n== Spain ==\n<!-- comment -->\n# { lat: 43.0, lon: 1.17 }\n# Quercus robur\n"
	got := Parse(FilterLines(raw))

	require.Len(t, got, 1)
	assert.Equal(t, []string{"Quercus robur"}, got[0].Names)
	assert.InDelta(t, 43.0, *got[0].Latitude, 1e-9)
}
