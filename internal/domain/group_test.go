package domain

import "testing"

func TestGroup_BackgroundColor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		color string
		want  string
	}{
		{name: "six digit hex", color: "#FFDDAA", want: "rgb(255, 252, 247)"},
		{name: "eight digit hex ignores alpha", color: "#808080FF", want: "rgb(242, 242, 242)"},
		{name: "black", color: "#000000", want: "rgb(230, 230, 230)"},
		{name: "too short", color: "#FFF", want: "#f9f9f9"},
		{name: "not hex", color: "#GGHHII", want: "#f9f9f9"},
		{name: "empty", color: "", want: "#f9f9f9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			g := Group{DisplayColor: tt.color}
			if got := g.BackgroundColor(); got != tt.want {
				t.Errorf("BackgroundColor(%q) = %q, want %q", tt.color, got, tt.want)
			}
		})
	}
}

func TestGroup_HasExternalID(t *testing.T) {
	t.Parallel()

	if (Group{ID: GroupUnknown}).HasExternalID() {
		t.Error("fallback group should not have an external id")
	}
	if !(Group{ID: GroupMammal, ExternalID: "Q7377"}).HasExternalID() {
		t.Error("mammal group should have an external id")
	}
}

func TestClassificationSource_IsValid(t *testing.T) {
	t.Parallel()

	for _, s := range []ClassificationSource{SourceGraph, SourceText, SourceNone} {
		if !s.IsValid() {
			t.Errorf("%q should be valid", s)
		}
	}
	if ClassificationSource("llm").IsValid() {
		t.Error(`"llm" should not be valid`)
	}
}
