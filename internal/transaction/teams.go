package transaction

import "strings"

// franchises maps the 32 official league abbreviations to full display names.
var franchises = map[string]string{
	"ARI": "Arizona Cardinals",
	"ATL": "Atlanta Falcons",
	"BAL": "Baltimore Ravens",
	"BUF": "Buffalo Bills",
	"CAR": "Carolina Panthers",
	"CHI": "Chicago Bears",
	"CIN": "Cincinnati Bengals",
	"CLE": "Cleveland Browns",
	"DAL": "Dallas Cowboys",
	"DEN": "Denver Broncos",
	"DET": "Detroit Lions",
	"GB":  "Green Bay Packers",
	"HOU": "Houston Texans",
	"IND": "Indianapolis Colts",
	"JAX": "Jacksonville Jaguars",
	"KC":  "Kansas City Chiefs",
	"LAC": "Los Angeles Chargers",
	"LAR": "Los Angeles Rams",
	"LV":  "Las Vegas Raiders",
	"MIA": "Miami Dolphins",
	"MIN": "Minnesota Vikings",
	"NE":  "New England Patriots",
	"NO":  "New Orleans Saints",
	"NYG": "New York Giants",
	"NYJ": "New York Jets",
	"PHI": "Philadelphia Eagles",
	"PIT": "Pittsburgh Steelers",
	"SEA": "Seattle Seahawks",
	"SF":  "San Francisco 49ers",
	"TB":  "Tampa Bay Buccaneers",
	"TEN": "Tennessee Titans",
	"WSH": "Washington Commanders",
}

// ResolveTeam maps a short franchise code to its full display name. An
// unresolved code falls back to the full name captured alongside it, then to
// the Unknown sentinel.
func ResolveTeam(abbr, fullName string) string {
	if name, ok := franchises[strings.ToUpper(strings.TrimSpace(abbr))]; ok {
		return name
	}
	if fullName != "" {
		return fullName
	}
	return Unknown
}
