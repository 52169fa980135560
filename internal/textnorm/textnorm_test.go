// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package textnorm

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"ascii untouched", "French Bread", "French Bread"},
		{"acute accents", "Feijão carioca", "Feijao carioca"},
		{"cedilla", "Açúcar, cristal", "Acucar, cristal"},
		{"case preserved", "CRÈME Brûlée", "CREME Brulee"},
		{"punctuation preserved", "Arroz, integral (cozido)", "Arroz, integral (cozido)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeFull(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"lowercases", "French Bread", "french bread"},
		{"strips punctuation", "Arroz, integral, cozido", "arroz integral cozido"},
		{"collapses whitespace", "  pão   de  queijo ", "pao de queijo"},
		{"parens", "Leite (integral)", "leite integral"},
		{"accents and case", "Açúcar CRISTAL", "acucar cristal"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeFull(tt.in); got != tt.want {
				t.Errorf("NormalizeFull(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	samples := []string{
		"", "Feijão", "Açúcar, cristal", "  pão   de  queijo ",
		"French Bread Whole Wheat", "CRÈME Brûlée (congelada)",
	}
	for _, s := range samples {
		if got := Normalize(Normalize(s)); got != Normalize(s) {
			t.Errorf("Normalize not idempotent on %q: %q != %q", s, got, Normalize(s))
		}
		if got := NormalizeFull(NormalizeFull(s)); got != NormalizeFull(s) {
			t.Errorf("NormalizeFull not idempotent on %q: %q != %q", s, got, NormalizeFull(s))
		}
	}
}

func TestTier(t *testing.T) {
	tests := []struct {
		name  string
		item  string
		query string
		want  int
	}{
		{"exact", "French Bread", "french bread", TierExact},
		{"exact with accents", "Pão francês", "pao frances", TierExact},
		{"prefix", "French Bread Whole Wheat", "French Bread", TierPrefix},
		{"contains", "Whole Wheat French Bread", "french bread", TierContains},
		{"other", "Rice, white", "bread", TierOther},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Tier(tt.item, tt.query); got != tt.want {
				t.Errorf("Tier(%q, %q) = %d, want %d", tt.item, tt.query, got, tt.want)
			}
		})
	}
}
