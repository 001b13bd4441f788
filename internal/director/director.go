// Package director implements the Director Stage (§4.E): a single
// structured-output call that produces the four strategically distinct
// BrandDirections every run is built around.
package director

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/brandforge/pipeline/internal/domain"
	"github.com/brandforge/pipeline/internal/modelclient"
	"github.com/brandforge/pipeline/internal/research"
	"github.com/brandforge/pipeline/pkg/pipelineerr"
)

// clicheDenyList is the per-industry anti-cliché deny-list (§4.E). Brand
// briefs are matched by keyword against the industry key; directions
// whose logo_spec metaphor/form contain a denied term are rejected by
// validate() and the call is repaired.
var clicheDenyList = map[string][]string{
	"coffee": {"coffee bean", "mug", "steam", "cup"},
	"tech":   {"circuit board", "gear", "lightbulb"},
}

// Stage runs the Director Stage.
type Stage struct {
	text   modelclient.TextStructured
	logger *zap.Logger
}

// NewStage creates a Stage.
func NewStage(text modelclient.TextStructured, logger *zap.Logger) *Stage {
	return &Stage{text: text, logger: logger}
}

// Generate produces a BrandDirectionsOutput for brief, using researchRec
// (possibly empty) and any extracted StyleDNA must-match clauses.
func (s *Stage) Generate(ctx context.Context, brief *domain.Brief, researchRec research.Record, dnaClauses []string) (*domain.BrandDirectionsOutput, error) {
	system := s.buildSystemPrompt(brief, dnaClauses)
	user := s.buildUserPrompt(brief, researchRec)

	var out domain.BrandDirectionsOutput
	err := s.text.Generate(ctx, "director", "BrandDirectionsOutput", system, user, &out, func(raw map[string]interface{}) error {
		return validateDirectionsRaw(raw, brief)
	})
	if err != nil {
		if kind, ok := pipelineerr.KindOf(err); ok && kind == pipelineerr.KindModelSchemaViolation {
			return nil, pipelineerr.New(pipelineerr.KindDirectorOutputInvalid, "director output failed validation after repair attempts", err)
		}
		return nil, err
	}

	return &out, nil
}

// Refine re-invokes the Director in refinement mode, preserving
// option-type ordering and regenerating all four directions (or the
// subset named targets covers) per the feedback.
func (s *Stage) Refine(ctx context.Context, brief *domain.Brief, previous *domain.BrandDirectionsOutput, feedback string, targets []int) (*domain.BrandDirectionsOutput, error) {
	system := s.buildSystemPrompt(brief, nil)

	prevJSON, err := json.Marshal(previous)
	if err != nil {
		return nil, fmt.Errorf("marshal previous output: %w", err)
	}

	scope := "all four directions"
	if len(targets) > 0 {
		scope = fmt.Sprintf("only option_number(s) %v; leave the others byte-identical to previous_output", targets)
	}

	user := fmt.Sprintf(`previous_output:
%s

refinement_feedback: %q

Regenerate %s, keeping the option_number -> option_type mapping fixed and respecting every rule in the system prompt.`, string(prevJSON), feedback, scope)

	var out domain.BrandDirectionsOutput
	err = s.text.Generate(ctx, "director_refine", "BrandDirectionsOutput", system, user, &out, func(raw map[string]interface{}) error {
		return validateDirectionsRaw(raw, brief)
	})
	if err != nil {
		if kind, ok := pipelineerr.KindOf(err); ok && kind == pipelineerr.KindModelSchemaViolation {
			return nil, pipelineerr.New(pipelineerr.KindDirectorOutputInvalid, "refinement output failed validation after repair attempts", err)
		}
		return nil, err
	}

	return &out, nil
}

func (s *Stage) buildSystemPrompt(brief *domain.Brief, dnaClauses []string) string {
	var b strings.Builder
	b.WriteString("You are an autonomous Creative Director. Produce exactly four brand-identity directions as a JSON object matching the BrandDirectionsOutput schema.\n\n")
	b.WriteString("Fixed position order: option_number 1 is option_type \"Market-Aligned\", 2 is \"Designer-Led\", 3 is \"Hybrid\", 4 is \"Wild-Card\".\n")
	b.WriteString("Every direction's colors array must cover roles {primary, neutral-dark, neutral-light} at minimum, 4-6 swatches, each hex matching ^#[0-9A-Fa-f]{6}$.\n")
	b.WriteString("No two directions may share both the same primary color hue family and the same logo_type (measurable divergence).\n\n")

	b.WriteString("Anti-cliche rules (hard constraints, regenerate if violated):\n")
	for industry, deny := range clicheDenyList {
		b.WriteString(fmt.Sprintf("- %s: never depict %s literally in logo_spec.metaphor or logo_spec.form.\n", industry, strings.Join(deny, ", ")))
	}

	if brief.HasLockedCopy() {
		b.WriteString("\nCopy-override rule: the brief has locked copy. Reproduce it byte-for-byte in every direction's tagline/ad_slogan/announcement_copy fields.\n")
	}

	if len(dnaClauses) > 0 {
		b.WriteString("\nHard visual constraints extracted from user-supplied references:\n")
		for _, c := range dnaClauses {
			b.WriteString("- " + c + "\n")
		}
	}

	return b.String()
}

func (s *Stage) buildUserPrompt(brief *domain.Brief, researchRec research.Record) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("brand_name: %s\nproduct_description: %s\ntarget_audience: %s\ntone: %s\ncore_promise: %s\nkeywords: %s\n",
		brief.BrandName, brief.ProductDescription, brief.TargetAudience, brief.Tone, brief.CorePromise, strings.Join(brief.Keywords, ", ")))

	if brief.HasLockedCopy() {
		b.WriteString(fmt.Sprintf("locked_copy: tagline=%q slogan=%q announcement=%q\n",
			brief.LockedCopy.Tagline, brief.LockedCopy.Slogan, brief.LockedCopy.Announcement))
	}

	if researchRec.Positioning != "" || researchRec.DesignLanguageObservations != "" || researchRec.CommonVisualTropes != "" {
		b.WriteString(fmt.Sprintf("\nmarket_research:\n  positioning: %s\n  design_language_observations: %s\n  common_visual_tropes: %s\n",
			researchRec.Positioning, researchRec.DesignLanguageObservations, researchRec.CommonVisualTropes))
	} else {
		b.WriteString("\nmarket_research: unavailable (timed out or failed); proceed without it.\n")
	}

	return b.String()
}

func validateRaw(raw map[string]interface{}, brief *domain.Brief) error {
	dirs, ok := raw["directions"]
	if !ok {
		return fmt.Errorf("missing top-level field \"directions\"")
	}
	arr, ok := dirs.([]interface{})
	if !ok || len(arr) != 4 {
		return fmt.Errorf("\"directions\" must be an array of exactly 4 entries")
	}
	for i, d := range arr {
		m, ok := d.(map[string]interface{})
		if !ok {
			return fmt.Errorf("directions[%d] is not an object", i)
		}
		for _, field := range []string{"option_number", "option_type", "colors", "logo_spec"} {
			if _, ok := m[field]; !ok {
				return fmt.Errorf("directions[%d] missing required field %q", i, field)
			}
		}
	}
	return nil
}

// validateDirectionsRaw runs every check that must trigger a structured-
// repair retry rather than a terminal failure: the structural shape
// check, the decoded invariants (role coverage, hex format, locked-copy
// propagation), and the two hard constraints named in §4.E — divergence
// and the anti-cliche deny-list. All of it runs inside modelclient's
// repair loop so a violation reprompts the model with the specific
// failure instead of failing the whole run on the first attempt.
func validateDirectionsRaw(raw map[string]interface{}, brief *domain.Brief) error {
	if err := validateRaw(raw, brief); err != nil {
		return err
	}

	data, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("re-marshal directions for validation: %w", err)
	}
	var out domain.BrandDirectionsOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return fmt.Errorf("decode directions for validation: %w", err)
	}

	if err := out.Validate(); err != nil {
		return err
	}
	if err := out.ValidateLockedCopy(brief.LockedCopy); err != nil {
		return err
	}
	if err := out.ValidateDivergence(); err != nil {
		return err
	}
	if err := checkClicheDenyList(&out, brief); err != nil {
		return err
	}
	return nil
}

func checkClicheDenyList(out *domain.BrandDirectionsOutput, brief *domain.Brief) error {
	industry := detectIndustry(brief)
	deny, ok := clicheDenyList[industry]
	if !ok {
		return nil
	}
	for _, d := range out.Directions {
		haystack := strings.ToLower(d.LogoSpec.Metaphor + " " + d.LogoSpec.Form)
		for _, term := range deny {
			if strings.Contains(haystack, term) {
				return fmt.Errorf("direction %d (%s) depicts denied cliche %q for industry %q", d.OptionNumber, d.OptionType, term, industry)
			}
		}
	}
	return nil
}

func detectIndustry(brief *domain.Brief) string {
	haystack := strings.ToLower(brief.ProductDescription + " " + strings.Join(brief.Keywords, " "))
	for industry := range clicheDenyList {
		if strings.Contains(haystack, industry) {
			return industry
		}
	}
	return ""
}
