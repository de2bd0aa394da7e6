package reconcile

import "github.com/fanclub-cms/matchdesk/app/modules/matchimport/application/textnorm"

// DefaultCorrections maps nicknames and short forms to canonical name keys.
func DefaultCorrections() map[string]string {
	return map[string]string{
		"vinicius":         "vinicius_junior",
		"vini":             "vinicius_junior",
		"vini_jr":          "vinicius_junior",
		"vinicius_jr":      "vinicius_junior",
		"mbappe":           "kylian_mbappe",
		"rodrygo":          "rodrygo_goes",
		"militao":          "eder_militao",
		"carvajal":         "dani_carvajal",
		"alaba":            "david_alaba",
		"rudiger":          "antonio_rudiger",
		"tchouameni":       "aurelien_tchouameni",
		"camavinga":        "eduardo_camavinga",
		"valverde":         "federico_valverde",
		"fede_valverde":    "federico_valverde",
		"bellingham":       "jude_bellingham",
		"courtois":         "thibaut_courtois",
		"lunin":            "andriy_lunin",
		"modric":           "luka_modric",
		"brahim":           "brahim_diaz",
		"guler":            "arda_guler",
		"mendy":            "ferland_mendy",
		"asencio":          "raul_asencio",
		"lucas_vazquez":    "lucas_vazquez",
		"ceballos":         "dani_ceballos",
		"trent":            "trent_alexander_arnold",
		"alexander_arnold": "trent_alexander_arnold",
		"huijsen":          "dean_huijsen",
	}
}

// corrections is a normalized correction table.
type corrections map[string]string

func newCorrections(base, extra map[string]string) corrections {
	c := make(corrections, len(base)+len(extra))
	for k, v := range base {
		c[textnorm.Key(k)] = textnorm.Key(v)
	}
	for k, v := range extra {
		c[textnorm.Key(k)] = textnorm.Key(v)
	}
	return c
}

// apply rewrites key through the table, trying the full key first and then
// its last token.
func (c corrections) apply(key string) string {
	if v, ok := c[key]; ok {
		return v
	}
	tokens := textnorm.Tokens(key)
	if len(tokens) > 1 {
		if v, ok := c[tokens[len(tokens)-1]]; ok {
			return v
		}
	}
	return key
}
