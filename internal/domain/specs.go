package domain

// LogoType enumerates the §3 logo_type vocabulary.
type LogoType string

const (
	LogoSymbol       LogoType = "symbol"
	LogoAbstractMark LogoType = "abstract_mark"
	LogoLettermark   LogoType = "lettermark"
	LogoLogotype     LogoType = "logotype"
	LogoCombination  LogoType = "combination"
)

// FillStyle enumerates the §3 fill_style vocabulary shared by LogoSpec and
// StyleDNA.
type FillStyle string

const (
	FillSolid           FillStyle = "solid_fill"
	FillOutlineOnly     FillStyle = "outline_only"
	FillOutlineDetailed FillStyle = "fill_with_outline_detail"
)

// StrokeWeight enumerates the §3 stroke_weight vocabulary.
type StrokeWeight string

const (
	StrokeHairline StrokeWeight = "hairline"
	StrokeThin     StrokeWeight = "thin"
	StrokeMedium   StrokeWeight = "medium"
	StrokeBold     StrokeWeight = "bold"
)

// LogoSpec is a render specification, not an image: the Director emits it,
// the Logo Generator turns it into an ImageGen prompt.
type LogoSpec struct {
	LogoType             LogoType     `json:"logo_type"`
	Form                 string       `json:"form"`
	Composition          string       `json:"composition"`
	ColorHex             string       `json:"color_hex"`
	FillStyle            FillStyle    `json:"fill_style"`
	StrokeWeight         StrokeWeight `json:"stroke_weight"`
	TypographyTreatment  string       `json:"typography_treatment"`
	RenderStyle          string       `json:"render_style"`
	Metaphor             string       `json:"metaphor"`
	Avoid                []string     `json:"avoid"`
}

// PatternSpec is the analogous render specification for the seamless
// pattern tile generated in Phase 2 (§4.H.1).
type PatternSpec struct {
	MotifDescription string   `json:"motif_description"`
	Composition      string   `json:"composition"`
	ColorHex         string   `json:"color_hex"`
	RenderStyle      string   `json:"render_style"`
	Avoid            []string `json:"avoid"`
}

// BackgroundSpec is the analogous render specification for the background
// image generated in Phase 2 (§4.H.2).
type BackgroundSpec struct {
	SceneDescription string   `json:"scene_description"`
	ColorHex         string   `json:"color_hex"`
	RenderStyle      string   `json:"render_style"`
	Avoid            []string `json:"avoid"`
}
