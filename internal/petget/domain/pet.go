package domain

import (
	"strings"
	"time"
)

type Species string

const (
	SpeciesDog        Species = "DOG"
	SpeciesCat        Species = "CAT"
	SpeciesBird       Species = "BIRD"
	SpeciesFish       Species = "FISH"
	SpeciesHamster    Species = "HAMSTER"
	SpeciesRabbit     Species = "RABBIT"
	SpeciesTurtle     Species = "TURTLE"
	SpeciesIguana     Species = "IGUANA"
	SpeciesChinchilla Species = "CHINCHILLA"
	SpeciesFerret     Species = "FERRET"
	SpeciesOther      Species = "OTHER"
)

var knownSpecies = map[Species]struct{}{
	SpeciesDog: {}, SpeciesCat: {}, SpeciesBird: {}, SpeciesFish: {}, SpeciesHamster: {},
	SpeciesRabbit: {}, SpeciesTurtle: {}, SpeciesIguana: {}, SpeciesChinchilla: {},
	SpeciesFerret: {}, SpeciesOther: {},
}

// ParseSpecies normalises s, reporting whether it names a known species.
func ParseSpecies(s string) (Species, bool) {
	sp := Species(strings.ToUpper(strings.TrimSpace(s)))
	_, ok := knownSpecies[sp]
	return sp, ok
}

type Sex string

const (
	SexMale    Sex = "M"
	SexFemale  Sex = "F"
	SexUnknown Sex = "I"
)

// ParseSex normalises s; an empty value means unknown.
func ParseSex(s string) (Sex, bool) {
	switch Sex(strings.ToUpper(strings.TrimSpace(s))) {
	case SexMale:
		return SexMale, true
	case SexFemale:
		return SexFemale, true
	case SexUnknown, "":
		return SexUnknown, true
	default:
		return "", false
	}
}

type Pet struct {
	ID         string
	TenantID   string
	CustomerID string
	Name       string
	Species    Species
	Breed      string
	Sex        Sex
	BirthDate  *time.Time
	WeightKg   *float64
	Color      string
	Microchip  string
	Pedigree   bool
	Notes      string
	Active     bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (p *Pet) OwnerTenant() string          { return p.TenantID }
func (p *Pet) AssignTenant(tenantID string) { p.TenantID = tenantID }
