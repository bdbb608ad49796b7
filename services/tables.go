package services

import (
	"sort"

	"classhawk-scraper/models"
)

// venueKeyword maps a substring of a class's human location label to the
// venue-specific slug it identifies.
type venueKeyword struct {
	Keyword string
	Slug    string
}

// categoryRule maps any of its keywords (substring match on the lowercased
// class name) to one activity category.
type categoryRule struct {
	Category models.Category
	Keywords []string
}

// Tables is the immutable lookup data the normalizer runs on. Order inside
// VenueKeywords and Categories is load-bearing: venue keywords are matched
// longest-first so "chiswick riverside" wins over "chiswick", and category
// rules are matched first-hit so "reformer" wins over "pilates" and boxing
// vocabulary wins over generic HIIT vocabulary.
type Tables struct {
	// VenueKeywords is keyed by the generic brand token adapters emit when
	// they only know the brand, not the venue.
	VenueKeywords map[string][]venueKeyword

	// MultiWordBrands are hyphenated brand prefixes checked before the
	// first-segment rule, so "virgin-active-strand" doesn't truncate to
	// "virgin".
	MultiWordBrands []string

	// BrandAliases maps known spelling variants to the canonical brand slug.
	BrandAliases map[string]string

	// MultiLocationBrands is the set of single-word brands operating more
	// than one venue; for these the slug's first segment is the brand.
	MultiLocationBrands map[string]bool

	Categories []categoryRule
}

// DefaultTables returns the production lookup data.
func DefaultTables() *Tables {
	t := &Tables{
		VenueKeywords: map[string][]venueKeyword{
			"virginactive": {
				{"aldersgate", "virgin-active-aldersgate"},
				{"bank", "virgin-active-bank"},
				{"bromley", "virgin-active-bromley"},
				{"canary riverside", "virgin-active-canary-riverside"},
				{"cannon street", "virgin-active-cannon-street"},
				{"walbrook", "virgin-active-cannon-street"},
				{"chiswick park", "virgin-active-chiswick-park"},
				{"chiswick riverside", "virgin-active-chiswick-riverside"},
				{"chiswick", "virgin-active-chiswick-park"},
				{"clapham", "virgin-active-clapham"},
				{"crouch end", "virgin-active-crouch-end"},
				{"fulham pools", "virgin-active-fulham-pools"},
				{"islington angel", "virgin-active-islington-angel"},
				{"islington", "virgin-active-islington-angel"},
				{"kensington", "virgin-active-kensington"},
				{"mayfair", "virgin-active-mayfair"},
				{"mill hill", "virgin-active-mill-hill"},
				{"moorgate", "virgin-active-moorgate"},
				{"notting hill", "virgin-active-notting-hill"},
				{"strand", "virgin-active-strand"},
				{"streatham", "virgin-active-streatham"},
				{"swiss cottage", "virgin-active-swiss-cottage"},
				{"wandsworth smugglers way", "virgin-active-wandsworth-smugglers-way"},
				{"wandsworth", "virgin-active-wandsworth-smugglers-way"},
				{"wimbledon worple road", "virgin-active-wimbledon-worple-road"},
				{"wimbledon", "virgin-active-wimbledon-worple-road"},
			},
			"1rebel": {
				{"st mary axe", "1rebel-st-mary-axe"},
				{"victoria", "1rebel-victoria"},
				{"southbank", "1rebel-southbank"},
				{"south bank", "1rebel-southbank"},
				{"high street kensington", "1rebel-high-street-kensington"},
				{"holborn", "1rebel-holborn"},
				{"oxford circus", "1rebel-oxford-circus"},
				{"bayswater", "1rebel-bayswater"},
				{"angel", "1rebel-angel"},
			},
			"barrys": {
				{"central london", "barrys-central-london"},
				{"east london", "barrys-east-london"},
				{"west london", "barrys-west-london"},
				{"sw1", "barrys-sw1"},
				{"canary wharf", "barrys-canary-wharf"},
			},
			"psycle": {
				{"mortimer street", "psycle-mortimer-street"},
				{"shoreditch", "psycle-shoreditch"},
				{"bank", "psycle-bank"},
				{"clapham", "psycle-clapham"},
				{"westfield london", "psycle-westfield-london"},
			},
			"frame": {
				{"shoreditch", "frame-shoreditch"},
				{"kings cross", "frame-kings-cross"},
				{"king's cross", "frame-kings-cross"},
				{"victoria", "frame-victoria"},
				{"angel", "frame-angel"},
				{"hammersmith", "frame-hammersmith"},
			},
			"threetribes": {
				{"tower bridge", "three-tribes-tower-bridge"},
				{"borough", "three-tribes-borough"},
			},
			"pilates-circuit": {
				{"aldgate", "pilates-circuit-aldgate"},
			},
		},
		MultiWordBrands: []string{
			"virgin-active",
			"bst-lagree",
			"three-tribes",
			"shiva-shakti",
			"pilates-circuit",
		},
		BrandAliases: map[string]string{
			"virginactive": "virgin-active",
		},
		MultiLocationBrands: map[string]bool{
			"1rebel":  true,
			"barrys":  true,
			"psycle":  true,
			"frame":   true,
			"gymbox":  true,
			"blok":    true,
			"more":    true,
			"triyoga": true,
		},
		Categories: []categoryRule{
			{models.CategoryReformer, []string{"reformer", "lagree", "megaformer"}},
			{models.CategoryAerial, []string{"aerial", "trapeze", "silks"}},
			{models.CategoryBarre, []string{"barre"}},
			{models.CategoryBoxing, []string{"box", "kickbox", "muay thai", "combat", "fight club", "sparring"}},
			{models.CategorySpin, []string{"spin", "cycle", "cycling", "ride", "rpm"}},
			{models.CategoryPilates, []string{"pilates", "mat class"}},
			{models.CategoryYoga, []string{"yoga", "vinyasa", "hatha", "yin", "ashtanga", "bikram", "rocket"}},
			{models.CategoryDance, []string{"dance", "zumba", "ballet", "twerk"}},
			{models.CategorySwimming, []string{"swim", "aqua", "hydro"}},
			{models.CategoryRecovery, []string{"recovery", "stretch", "mobility", "meditation", "breathwork", "sound bath", "restore", "yoga nidra"}},
			{models.CategoryRun, []string{"run", "tread", "track club"}},
			{models.CategoryStrength, []string{"strength", "lift", "pump", "weights", "barbell", "sculpt", "reshape"}},
			{models.CategoryHIIT, []string{"hiit", "interval", "circuit", "metcon", "conditioning", "sweat", "bootcamp"}},
		},
	}

	// Longest keyword first, so the most specific venue name wins.
	for brand := range t.VenueKeywords {
		kws := t.VenueKeywords[brand]
		sort.SliceStable(kws, func(i, j int) bool {
			return len(kws[i].Keyword) > len(kws[j].Keyword)
		})
		t.VenueKeywords[brand] = kws
	}

	return t
}
