package services

import (
	"fmt"
	"regexp"
	"strings"

	"classhawk-scraper/models"

	"go.uber.org/zap"
)

var (
	time24Regex = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)
	time12Regex = regexp.MustCompile(`(?i)^(\d{1,2}):(\d{2})\s*(AM|PM)$`)
	slugRegex   = regexp.MustCompile(`[^a-z0-9-]+`)
	hyphenRuns  = regexp.MustCompile(`-+`)
)

// Normalizer turns heterogeneous adapter output into canonical Class records.
// Adapter-specific shapes stop here; nothing past this boundary sees a RawClass.
type Normalizer struct {
	tables *Tables
	logger *zap.SugaredLogger
}

// NewNormalizer creates a Normalizer on the given lookup tables
func NewNormalizer(tables *Tables, logger *zap.SugaredLogger) *Normalizer {
	return &Normalizer{tables: tables, logger: logger}
}

// Normalize maps every raw record to a canonical one, dropping records that
// lack a resolvable date or time. It never fabricates either.
func (n *Normalizer) Normalize(raw []*models.RawClass) []*models.Class {
	var out []*models.Class
	dropped := 0

	for _, r := range raw {
		c, err := n.normalizeOne(r)
		if err != nil {
			dropped++
			n.logger.Warnf("Dropping invalid record (%v): %+v", err, *r)
			continue
		}
		out = append(out, c)
	}

	n.logger.Infof("Normalized %d classes from %d raw records (%d dropped)", len(out), len(raw), dropped)
	return out
}

func (n *Normalizer) normalizeOne(r *models.RawClass) (*models.Class, error) {
	gymSlug := firstNonEmpty(r.GymSlug, r.Gym, "unknown")
	date := firstNonEmpty(r.Date, r.RawDate)
	rawTime := firstNonEmpty(r.Time, r.StartTime)
	trainer := firstNonEmpty(r.Trainer, r.Instructor, "Instructor")
	location := firstNonEmpty(r.Location, "London")
	className := firstNonEmpty(r.ClassName, "Class")

	if date == "" {
		return nil, fmt.Errorf("missing date")
	}
	if rawTime == "" {
		return nil, fmt.Errorf("missing time")
	}

	gymSlug = n.resolveVenueSlug(gymSlug, location)

	c := &models.Class{
		UID:       n.identityKey(r.SourceID, gymSlug, date, NormalizeTime(rawTime), className),
		GymSlug:   gymSlug,
		BrandSlug: n.brandSlug(gymSlug),
		ClassName: className,
		Trainer:   trainer,
		Location:  location,
		Date:      date,
		Time:      NormalizeTime(rawTime),
		Status:    MapStatus(r.Status),
		Category:  n.Categorize(className),
		Link:      r.Link,
	}
	return c, nil
}

// NormalizeTime converts 12-hour clock strings to zero-padded 24-hour HH:MM.
// Already-24h input is zero-padded; anything unrecognized passes through
// unchanged (best effort, never fatal).
func NormalizeTime(t string) string {
	t = strings.TrimSpace(t)

	if m := time24Regex.FindStringSubmatch(t); m != nil {
		hour := 0
		fmt.Sscanf(m[1], "%d", &hour)
		return fmt.Sprintf("%02d:%s", hour, m[2])
	}

	if m := time12Regex.FindStringSubmatch(t); m != nil {
		hour := 0
		fmt.Sscanf(m[1], "%d", &hour)
		period := strings.ToUpper(m[3])
		if period == "PM" && hour != 12 {
			hour += 12
		} else if period == "AM" && hour == 12 {
			hour = 0
		}
		return fmt.Sprintf("%02d:%s", hour, m[2])
	}

	return t
}

// MapStatus maps free-text adapter status onto the canonical enum. Fail
// closed: anything unrecognized is Full, never Open.
func MapStatus(s string) models.Status {
	lower := strings.ToLower(s)
	switch {
	case strings.Contains(lower, "waitlist"):
		return models.StatusWaitlist
	case strings.Contains(lower, "full"):
		return models.StatusFull
	case strings.Contains(lower, "open"):
		return models.StatusOpen
	default:
		return models.StatusFull
	}
}

// resolveVenueSlug re-keys a generic brand slug into a venue-specific one
// using the human location label. Non-generic slugs pass through untouched.
// A generic slug with no keyword match is kept as-is with a warning — that
// means the venue table needs a new entry, not that the record is bad.
func (n *Normalizer) resolveVenueSlug(gymSlug, location string) string {
	keywords, generic := n.tables.VenueKeywords[gymSlug]
	if !generic {
		return gymSlug
	}

	loc := strings.ToLower(location)
	for _, vk := range keywords {
		if strings.Contains(loc, vk.Keyword) {
			return vk.Slug
		}
	}

	n.logger.Warnf("No venue keyword matched for brand %q location %q; keeping generic slug", gymSlug, location)
	return gymSlug
}

// brandSlug derives the parent brand from a (possibly venue-specific) gym
// slug. Multi-word prefixes are checked before the first-segment rule; the
// ordering matters for brands like virgin-active.
func (n *Normalizer) brandSlug(gymSlug string) string {
	for _, prefix := range n.tables.MultiWordBrands {
		if gymSlug == prefix || strings.HasPrefix(gymSlug, prefix+"-") {
			return prefix
		}
	}

	if canonical, ok := n.tables.BrandAliases[gymSlug]; ok {
		return canonical
	}

	if idx := strings.Index(gymSlug, "-"); idx > 0 {
		first := gymSlug[:idx]
		if n.tables.MultiLocationBrands[first] {
			return first
		}
	}

	return gymSlug
}

// Categorize classifies a class name into the fixed taxonomy, first rule wins.
func (n *Normalizer) Categorize(className string) models.Category {
	name := strings.ToLower(className)
	for _, rule := range n.tables.Categories {
		for _, kw := range rule.Keywords {
			if strings.Contains(name, kw) {
				return rule.Category
			}
		}
	}
	return models.CategoryOther
}

// identityKey returns the deduplication key for one bookable session. A
// source-stable id from a real booking API passes through verbatim; otherwise
// the key is synthesized from the fields that survive text-formatting churn
// between runs (location deliberately excluded).
func (n *Normalizer) identityKey(sourceID, gymSlug, date, timeStr, className string) string {
	if sourceID != "" {
		return sourceID
	}
	return Slugify(gymSlug + "-" + date + "-" + timeStr + "-" + className)
}

// Slugify lowercases and collapses any non [a-z0-9-] run to a single hyphen,
// trimming hyphens at both ends.
func Slugify(s string) string {
	s = strings.ToLower(s)
	s = slugRegex.ReplaceAllString(s, "-")
	s = hyphenRuns.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// Dedupe collapses records sharing an identity key, last occurrence winning.
// Output preserves the order keys were first seen, so batch order stays
// deterministic for the store and the report.
func Dedupe(classes []*models.Class) []*models.Class {
	byUID := make(map[string]*models.Class, len(classes))
	var order []string

	for _, c := range classes {
		if _, seen := byUID[c.UID]; !seen {
			order = append(order, c.UID)
		}
		byUID[c.UID] = c
	}

	out := make([]*models.Class, 0, len(order))
	for _, uid := range order {
		out = append(out, byUID[uid])
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
