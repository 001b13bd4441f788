package domain

import "fmt"

// OptionType is the fixed, position-ordered strategic archetype of a
// direction: position N always corresponds to OptionType N (§4.E).
type OptionType string

const (
	OptionMarketAligned OptionType = "Market-Aligned"
	OptionDesignerLed   OptionType = "Designer-Led"
	OptionHybrid        OptionType = "Hybrid"
	OptionWildCard      OptionType = "Wild-Card"
)

// OptionTypeForPosition returns the option type fixed to the given
// 1-based position, per the invariant "the mapping option_number ->
// option_type is fixed across all runs".
func OptionTypeForPosition(n int) (OptionType, bool) {
	switch n {
	case 1:
		return OptionMarketAligned, true
	case 2:
		return OptionDesignerLed, true
	case 3:
		return OptionHybrid, true
	case 4:
		return OptionWildCard, true
	default:
		return "", false
	}
}

// BrandDirection is one of four strategically distinct proposals emitted
// per run by the Director stage.
type BrandDirection struct {
	OptionNumber       int             `json:"option_number"`
	OptionType         OptionType      `json:"option_type"`
	DirectionName      string          `json:"direction_name"`
	Rationale          string          `json:"rationale"`
	Colors             []ColorSwatch   `json:"colors"`
	TypographyPrimary  string          `json:"typography_primary"`
	TypographySecondary string         `json:"typography_secondary"`
	GraphicStyle       string          `json:"graphic_style"`
	LogoSpec           LogoSpec        `json:"logo_spec"`
	PatternSpec        PatternSpec     `json:"pattern_spec"`
	BackgroundSpec     BackgroundSpec  `json:"background_spec"`
	Tagline            string          `json:"tagline"`
	AdSlogan           string          `json:"ad_slogan"`
	AnnouncementCopy   string          `json:"announcement_copy"`
}

// PrimaryHueFamily returns the hue family of the direction's primary
// color, used by the P4 divergence check. Falls back to the raw hex when
// no hue family has been enriched yet (Phase 1 directions, pre-§4.H.3).
func (d BrandDirection) PrimaryHueFamily() string {
	for _, c := range d.Colors {
		if c.Role == RolePrimary {
			if c.HueFamily != "" {
				return c.HueFamily
			}
			return c.Hex
		}
	}
	return ""
}

func (d BrandDirection) validate() error {
	if len(d.Colors) == 0 {
		return fmt.Errorf("direction %d: colors must be non-empty", d.OptionNumber)
	}
	for _, c := range d.Colors {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("direction %d: %w", d.OptionNumber, err)
		}
	}
	if !CoversRequiredRoles(d.Colors) {
		return fmt.Errorf("direction %d: colors do not cover required roles %v", d.OptionNumber, RequiredRoles())
	}
	return nil
}

// BrandDirectionsOutput is the Director stage's sole output: exactly four
// directions, indexed by option_number in [1,4], each option_type
// appearing exactly once.
type BrandDirectionsOutput struct {
	Directions [4]BrandDirection `json:"directions"`
}

// Validate enforces P1 (four directions, each option_type exactly once),
// P2 (per-color hex), P3 (locked copy propagation must be checked
// separately by the caller against the Brief, since this type alone does
// not carry the brief), and the role-coverage invariant from §3.
func (o *BrandDirectionsOutput) Validate() error {
	seenNumbers := make(map[int]bool, 4)
	seenTypes := make(map[OptionType]bool, 4)
	for _, d := range o.Directions {
		if d.OptionNumber < 1 || d.OptionNumber > 4 {
			return fmt.Errorf("option_number %d out of range [1,4]", d.OptionNumber)
		}
		wantType, ok := OptionTypeForPosition(d.OptionNumber)
		if !ok || d.OptionType != wantType {
			return fmt.Errorf("option_number %d must have option_type %q, got %q", d.OptionNumber, wantType, d.OptionType)
		}
		if seenNumbers[d.OptionNumber] {
			return fmt.Errorf("duplicate option_number %d", d.OptionNumber)
		}
		seenNumbers[d.OptionNumber] = true
		seenTypes[d.OptionType] = true
		if err := d.validate(); err != nil {
			return err
		}
	}
	if len(seenNumbers) != 4 {
		return fmt.Errorf("expected exactly 4 distinct option_numbers, got %d", len(seenNumbers))
	}
	for _, t := range []OptionType{OptionMarketAligned, OptionDesignerLed, OptionHybrid, OptionWildCard} {
		if !seenTypes[t] {
			return fmt.Errorf("missing option_type %q", t)
		}
	}
	return nil
}

// ValidateLockedCopy enforces P3: when the brief carries locked copy,
// every direction must reproduce it byte-for-byte.
func (o *BrandDirectionsOutput) ValidateLockedCopy(lc *LockedCopy) error {
	if lc == nil {
		return nil
	}
	for _, d := range o.Directions {
		if lc.Tagline != "" && d.Tagline != lc.Tagline {
			return fmt.Errorf("direction %d tagline does not match locked copy", d.OptionNumber)
		}
		if lc.Slogan != "" && d.AdSlogan != lc.Slogan {
			return fmt.Errorf("direction %d slogan does not match locked copy", d.OptionNumber)
		}
		if lc.Announcement != "" && d.AnnouncementCopy != lc.Announcement {
			return fmt.Errorf("direction %d announcement does not match locked copy", d.OptionNumber)
		}
	}
	return nil
}

// ValidateDivergence enforces P4: no two directions may share both the
// same primary hue family and the same logo_type.
func (o *BrandDirectionsOutput) ValidateDivergence() error {
	type signature struct {
		hue string
		lt  LogoType
	}
	seen := make(map[signature]int, 4)
	for _, d := range o.Directions {
		sig := signature{hue: d.PrimaryHueFamily(), lt: d.LogoSpec.LogoType}
		if prev, ok := seen[sig]; ok {
			return fmt.Errorf("directions %d and %d share primary hue family %q and logo_type %q", prev, d.OptionNumber, sig.hue, sig.lt)
		}
		seen[sig] = d.OptionNumber
	}
	return nil
}

// ByOptionNumber returns the direction with the given option_number, or
// false if none matches.
func (o *BrandDirectionsOutput) ByOptionNumber(n int) (BrandDirection, bool) {
	for _, d := range o.Directions {
		if d.OptionNumber == n {
			return d, true
		}
	}
	return BrandDirection{}, false
}
