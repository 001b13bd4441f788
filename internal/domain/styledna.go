package domain

// CornerTreatment enumerates the §3 StyleDNA corner_treatment vocabulary.
type CornerTreatment string

const (
	CornerSharp   CornerTreatment = "sharp"
	CornerRounded CornerTreatment = "rounded"
	CornerMixed   CornerTreatment = "mixed"
)

// ShapeVocabulary enumerates the §3 StyleDNA shape_vocabulary vocabulary.
type ShapeVocabulary string

const (
	ShapeGeometric ShapeVocabulary = "geometric"
	ShapeOrganic   ShapeVocabulary = "organic"
	ShapeHybrid    ShapeVocabulary = "hybrid"
)

// RenderingMedium enumerates the §3 StyleDNA rendering_medium vocabulary.
type RenderingMedium string

const (
	MediumCleanVector  RenderingMedium = "clean-digital-vector"
	MediumTextured     RenderingMedium = "textured"
	MediumHandDrawn    RenderingMedium = "hand-drawn"
	MediumPhotographic RenderingMedium = "photographic"
)

// StyleDNAFillStyle enumerates the §3 StyleDNA fill_style vocabulary
// (distinct from LogoSpec.FillStyle's vocabulary, which includes a third
// "fill_with_outline_detail" option StyleDNA does not carry).
type StyleDNAFillStyle string

const (
	DNAFillSolid   StyleDNAFillStyle = "solid-fill"
	DNAFillOutline StyleDNAFillStyle = "outline-only"
	DNAFillGradient StyleDNAFillStyle = "gradient"
)

// StyleDNA is extracted once per user-supplied reference image, cached by
// content hash (§4.C, P7).
type StyleDNA struct {
	StrokeWeight     StrokeWeight       `json:"stroke_weight"`
	CornerTreatment  CornerTreatment    `json:"corner_treatment"`
	ShapeVocabulary  ShapeVocabulary    `json:"shape_vocabulary"`
	RenderingMedium  RenderingMedium    `json:"rendering_medium"`
	Complexity       int                `json:"complexity"` // 1..5
	FillStyle        StyleDNAFillStyle  `json:"fill_style"`
	NotPresent       []string           `json:"not_present"`
}

// MustMatchClause renders the DNA as the textual hard-constraint clause
// injected into downstream prompts, per §4.C: "MUST MATCH: medium stroke
// weight, sharp corners, geometric shapes".
func (d StyleDNA) MustMatchClause() string {
	return "MUST MATCH: " + string(d.StrokeWeight) + " stroke weight, " +
		string(d.CornerTreatment) + " corners, " + string(d.ShapeVocabulary) + " shapes"
}
