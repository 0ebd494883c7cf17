package core

import (
	"testing"
)

func TestIDFromContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "same content produces same ID",
			content: "What are the regulations for damaged STOP signs?",
		},
		{
			name:    "empty string",
			content: "",
		},
		{
			name:    "long content",
			content: "Road signs shall be placed and operated in a consistent manner, positioned appropriately",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id1 := IDFromContent(tt.content)
			id2 := IDFromContent(tt.content)

			if id1 != id2 {
				t.Errorf("IDFromContent() produced different IDs for same content: %d vs %d", id1, id2)
			}
		})
	}
}

func TestIDFromContent_Different(t *testing.T) {
	id1 := IDFromContent("content1")
	id2 := IDFromContent("content2")

	if id1 == id2 {
		t.Errorf("IDFromContent() produced same ID for different content")
	}
}

func TestCitation_Key(t *testing.T) {
	tests := []struct {
		name     string
		citation Citation
		want     string
	}{
		{
			name: "full citation",
			citation: Citation{
				Code:     "IRC:67-2022",
				Clause:   "14.4",
				Category: "Road Sign",
				Type:     "STOP Sign",
			},
			want: "IRC:67-2022|14.4|STOP Sign",
		},
		{
			name: "category does not affect the key",
			citation: Citation{
				Code:   "IRC:35-2015",
				Clause: "3.1",
				Type:   "Centre Line",
			},
			want: "IRC:35-2015|3.1|Centre Line",
		},
		{
			name:     "empty citation",
			citation: Citation{},
			want:     "||",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.citation.Key(); got != tt.want {
				t.Errorf("Citation.Key() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCitation_Empty(t *testing.T) {
	if !(Citation{}).Empty() {
		t.Error("zero citation should be empty")
	}
	if !(Citation{Category: "Road Sign"}).Empty() {
		t.Error("category alone carries no grounding information")
	}
	if (Citation{Code: "IRC:67-2022"}).Empty() {
		t.Error("citation with a code should not be empty")
	}
	if (Citation{Clause: "2.3"}).Empty() {
		t.Error("citation with a clause should not be empty")
	}
}

func TestFusedContext_Empty(t *testing.T) {
	var nilCtx *FusedContext
	if !nilCtx.Empty() {
		t.Error("nil context should report empty")
	}

	empty := &FusedContext{Citations: map[string]Citation{}}
	if !empty.Empty() {
		t.Error("context without hits should report empty")
	}

	populated := &FusedContext{
		Hits: []RetrievalHit{{Source: SourceGraph, Text: "some record"}},
	}
	if populated.Empty() {
		t.Error("context with hits should not report empty")
	}
}

func TestFusedContext_HasCitation(t *testing.T) {
	cit := Citation{Code: "IRC:67-2022", Clause: "14.4", Type: "STOP Sign"}
	ctx := &FusedContext{
		Hits:      []RetrievalHit{{Source: SourceGraph, Citation: cit}},
		Citations: map[string]Citation{cit.Key(): cit},
	}

	if !ctx.HasCitation(cit.Key()) {
		t.Error("expected citation key to be present")
	}
	if ctx.HasCitation("IRC:99-2099|1.1|Imaginary Sign") {
		t.Error("unexpected citation key reported present")
	}
}

func TestHitSource_String(t *testing.T) {
	if SourceGraph.String() != "graph" {
		t.Errorf("SourceGraph.String() = %q", SourceGraph.String())
	}
	if SourceVector.String() != "vector" {
		t.Errorf("SourceVector.String() = %q", SourceVector.String())
	}
	if HitSource(0).String() != "unknown" {
		t.Errorf("zero HitSource should stringify as unknown")
	}
}

func TestProvenance_String(t *testing.T) {
	if ProvenanceGenerated.String() != "generated" {
		t.Errorf("ProvenanceGenerated.String() = %q", ProvenanceGenerated.String())
	}
	if ProvenanceFallback.String() != "fallback" {
		t.Errorf("ProvenanceFallback.String() = %q", ProvenanceFallback.String())
	}
	if Provenance(0).String() != "unknown" {
		t.Errorf("zero Provenance should stringify as unknown")
	}
}
