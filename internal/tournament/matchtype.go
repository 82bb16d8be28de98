package tournament

import (
	"fmt"
	"strings"

	"github.com/derekprior/pickup/internal/roster"
)

// MatchType is the badminton event a tournament is played as.
type MatchType string

const (
	MensSingles   MatchType = "MS"
	WomensSingles MatchType = "WS"
	MixedDoubles  MatchType = "XD"
	MensDoubles   MatchType = "MD"
	WomensDoubles MatchType = "WD"
)

// MatchTypes lists every match type in the order they are offered.
var MatchTypes = []MatchType{MensDoubles, WomensDoubles, MixedDoubles, MensSingles, WomensSingles}

// ParseMatchType accepts a match type code in any case.
func ParseMatchType(s string) (MatchType, error) {
	mt := MatchType(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range MatchTypes {
		if mt == known {
			return mt, nil
		}
	}
	return "", fmt.Errorf("unknown match type %q (want one of MS, WS, XD, MD, WD)", s)
}

func (m MatchType) Label() string {
	switch m {
	case MensSingles:
		return "Men's Singles"
	case WomensSingles:
		return "Women's Singles"
	case MixedDoubles:
		return "Mixed Doubles"
	case MensDoubles:
		return "Men's Doubles"
	case WomensDoubles:
		return "Women's Doubles"
	}
	return string(m)
}

// PlayersPerSide is 1 for singles and 2 for doubles.
func (m MatchType) PlayersPerSide() int {
	switch m {
	case MixedDoubles, MensDoubles, WomensDoubles:
		return 2
	}
	return 1
}

// Doubles reports whether competitors are pairs.
func (m MatchType) Doubles() bool { return m.PlayersPerSide() == 2 }

// CanPlay reports whether a roster with the given gender counts can field
// at least one match of this type.
func (m MatchType) CanPlay(male, female int) bool {
	switch m {
	case MensSingles:
		return male >= 2
	case WomensSingles:
		return female >= 2
	case MixedDoubles:
		return male >= 2 && female >= 2
	case MensDoubles:
		return male >= 4
	case WomensDoubles:
		return female >= 4
	}
	return false
}

// DetectMatchType picks a singles event from the roster's genders: all
// female plays women's singles, anything else men's singles.
func DetectMatchType(players []roster.Player) MatchType {
	s := roster.Summarize(players)
	if s.Female > 0 && s.Male == 0 {
		return WomensSingles
	}
	return MensSingles
}
