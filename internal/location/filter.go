// Package location prunes candidates by geographic overlap. City names are
// canonicalized through an alias table (case-insensitive and tolerant of
// Cyrillic/Latin spellings), and an optional symmetric distance table can
// reject pairs of cities that are too far apart. Unknown city pairs fail
// open: the engine would rather surface a match than hide one over a gap
// in the distance data.
package location

import (
	"fmt"
	"os"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/adilzhanb/baribar/internal/models"
	"github.com/adilzhanb/baribar/internal/text"
)

// defaultCityAliases maps canonical city names to their alternate spellings.
// Canonical forms are the Latin transliterations the normalizer produces.
var defaultCityAliases = map[string][]string{
	"almaty":    {"алматы", "алма-ата", "alma-ata", "ala"},
	"astana":    {"астана", "nur-sultan", "нур-султан", "nursultan", "nqz"},
	"shymkent":  {"шымкент", "чимкент", "chimkent"},
	"karaganda": {"караганда", "қарағанды", "qaragandy"},
	"aktobe":    {"актобе", "актюбинск", "aktyubinsk"},
	"taraz":     {"тараз", "джамбул", "dzhambul"},
	"pavlodar":  {"павлодар"},
	"oskemen":   {"өскемен", "усть-каменогорск", "ust-kamenogorsk"},
	"atyrau":    {"атырау"},
	"kostanay":  {"костанай", "qostanai"},
	"semey":     {"семей", "семипалатинск", "semipalatinsk"},
}

// defaultDistances holds road distances in km between canonical city pairs.
// The table is sparse; absent pairs are treated as within range.
var defaultDistances = []CityDistance{
	{"almaty", "astana", 1210},
	{"almaty", "shymkent", 690},
	{"almaty", "taraz", 490},
	{"almaty", "karaganda", 1000},
	{"astana", "karaganda", 220},
	{"astana", "pavlodar", 450},
	{"shymkent", "taraz", 200},
	{"oskemen", "semey", 200},
}

// CityDistance is one symmetric entry of the distance table.
type CityDistance struct {
	A  string  `yaml:"a"`
	B  string  `yaml:"b"`
	Km float64 `yaml:"km"`
}

// aliasFile is the YAML shape accepted by LoadFile.
type aliasFile struct {
	Aliases   map[string][]string `yaml:"aliases"`
	Distances []CityDistance      `yaml:"distances"`
}

// Filter admits candidates whose canonical location set overlaps the
// participant's, granting a fixed bonus on admission.
type Filter struct {
	normalizer *text.Normalizer
	alias      map[string]string // alias -> canonical
	distances  map[[2]string]float64

	bonus         float64
	maxDistanceKm float64 // 0 disables the distance check
}

// NewFilter builds a filter over the built-in alias and distance tables.
func NewFilter(normalizer *text.Normalizer, bonus, maxDistanceKm float64) (*Filter, error) {
	return newFilter(normalizer, defaultCityAliases, defaultDistances, bonus, maxDistanceKm)
}

// LoadFile builds a filter whose alias/distance tables are the built-ins
// merged with a YAML overlay.
func LoadFile(normalizer *text.Normalizer, path string, bonus, maxDistanceKm float64) (*Filter, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read location file: %w", err)
	}

	var overlay aliasFile
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return nil, fmt.Errorf("parse location file %s: %w", path, err)
	}

	aliases := make(map[string][]string, len(defaultCityAliases)+len(overlay.Aliases))
	for k, v := range defaultCityAliases {
		aliases[k] = append([]string(nil), v...)
	}
	for k, v := range overlay.Aliases {
		aliases[k] = append(aliases[k], v...)
	}
	distances := append(append([]CityDistance(nil), defaultDistances...), overlay.Distances...)

	return newFilter(normalizer, aliases, distances, bonus, maxDistanceKm)
}

func newFilter(normalizer *text.Normalizer, aliases map[string][]string,
	distances []CityDistance, bonus, maxDistanceKm float64) (*Filter, error) {

	f := &Filter{
		normalizer:    normalizer,
		alias:         make(map[string]string),
		distances:     make(map[[2]string]float64, len(distances)),
		bonus:         bonus,
		maxDistanceKm: maxDistanceKm,
	}

	for canon, alts := range aliases {
		cc := normalizer.Normalize(canon)
		if cc == "" {
			return nil, fmt.Errorf("city name %q canonicalizes to empty string", canon)
		}
		f.alias[cc] = cc
		for _, alt := range alts {
			ca := normalizer.Normalize(alt)
			if ca == "" {
				continue
			}
			if owner, ok := f.alias[ca]; ok && owner != cc {
				return nil, fmt.Errorf("city alias %q maps to both %q and %q", alt, owner, cc)
			}
			f.alias[ca] = cc
		}
	}

	// Distance entries must name cities from the alias table; a typo here
	// would otherwise produce an entry that never matches anything.
	for _, d := range distances {
		a, aok := f.alias[normalizer.Normalize(d.A)]
		b, bok := f.alias[normalizer.Normalize(d.B)]
		if !aok || !bok {
			return nil, fmt.Errorf("distance entry references unknown city: %q-%q", d.A, d.B)
		}
		f.distances[distKey(a, b)] = d.Km
	}
	return f, nil
}

// Canonical resolves a raw city name to its canonical form. Unknown cities
// canonicalize to their normalized spelling, so two participants using the
// same unlisted city still overlap.
func (f *Filter) Canonical(city string) string {
	n := f.normalizer.Normalize(city)
	if canon, ok := f.alias[n]; ok {
		return canon
	}
	return n
}

// CanonicalSet resolves and dedups a declared location list.
func (f *Filter) CanonicalSet(cities []string) []string {
	out := make([]string, 0, len(cities))
	for _, c := range cities {
		if canon := f.Canonical(c); canon != "" {
			out = append(out, canon)
		}
	}
	return lo.Uniq(out)
}

// Admit reports whether the candidate shares at least one canonical
// location with the participant, and the bonus granted on admission. When a
// distance cap is configured, every cross-set city pair must additionally
// sit within the cap, so a candidate straddling a distant second city is
// rejected even if one city overlaps.
func (f *Filter) Admit(participant, candidate models.Participant) (bool, float64) {
	pSet := f.CanonicalSet(participant.Locations)
	cSet := f.CanonicalSet(candidate.Locations)

	if len(lo.Intersect(pSet, cSet)) == 0 {
		return false, 0
	}

	if f.maxDistanceKm > 0 {
		for _, pc := range pSet {
			for _, cc := range cSet {
				if !f.withinDistance(pc, cc) {
					return false, 0
				}
			}
		}
	}
	return true, f.bonus
}

// withinDistance checks the symmetric distance table; identical cities and
// unknown pairs are within range by default.
func (f *Filter) withinDistance(a, b string) bool {
	if a == b {
		return true
	}
	km, ok := f.distances[distKey(a, b)]
	if !ok {
		return true
	}
	return km <= f.maxDistanceKm
}

func distKey(a, b string) [2]string {
	if b < a {
		a, b = b, a
	}
	return [2]string{a, b}
}
