package wikidata

import "encoding/json"

type searchResponse struct {
	Search []searchItem `json:"search"`
}

type searchItem struct {
	ID          string `json:"id"`
	Description string `json:"description"`
}

type entitiesResponse struct {
	Entities map[string]apiEntity `json:"entities"`
}

type apiEntity struct {
	ID      string                `json:"id"`
	Missing *string               `json:"missing"`
	Claims  map[string][]apiClaim `json:"claims"`
}

type apiClaim struct {
	Mainsnak apiSnak `json:"mainsnak"`
}

type apiSnak struct {
	Datavalue *apiDatavalue `json:"datavalue"`
}

// apiDatavalue keeps Value raw: its shape depends on the property type
// (entity reference, plain string, monolingual text).
type apiDatavalue struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

type entityRef struct {
	ID string `json:"id"`
}

type monolingualText struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

// entityIDs returns the referenced entity ids of a property, skipping
// claims without a usable value.
func (e apiEntity) entityIDs(property string) []string {
	var ids []string
	for _, c := range e.Claims[property] {
		if c.Mainsnak.Datavalue == nil {
			continue
		}
		var ref entityRef
		if err := json.Unmarshal(c.Mainsnak.Datavalue.Value, &ref); err != nil || ref.ID == "" {
			continue
		}
		ids = append(ids, ref.ID)
	}
	return ids
}

// firstString returns the first string value of a property.
func (e apiEntity) firstString(property string) (string, bool) {
	claims := e.Claims[property]
	if len(claims) == 0 || claims[0].Mainsnak.Datavalue == nil {
		return "", false
	}
	var s string
	if err := json.Unmarshal(claims[0].Mainsnak.Datavalue.Value, &s); err != nil || s == "" {
		return "", false
	}
	return s, true
}

// monolingual returns the text of a monolingual property, preferring the
// given language and falling back to the first claim.
func (e apiEntity) monolingual(property, language string) (string, bool) {
	var first *monolingualText
	for _, c := range e.Claims[property] {
		if c.Mainsnak.Datavalue == nil {
			continue
		}
		var mt monolingualText
		if err := json.Unmarshal(c.Mainsnak.Datavalue.Value, &mt); err != nil || mt.Text == "" {
			continue
		}
		if mt.Language == language {
			return mt.Text, true
		}
		if first == nil {
			first = &mt
		}
	}
	if first == nil {
		return "", false
	}
	return first.Text, true
}
