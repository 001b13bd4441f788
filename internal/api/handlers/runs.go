// Package handlers implements the gin.HandlerFunc endpoints of the
// optional HTTP surface (§12.1), thin wrappers around internal/runs'
// run registry.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/brandforge/pipeline/internal/auth"
	"github.com/brandforge/pipeline/internal/domain"
	"github.com/brandforge/pipeline/internal/mockup"
	"github.com/brandforge/pipeline/internal/runs"
	"github.com/brandforge/pipeline/internal/stylescape"
	"github.com/brandforge/pipeline/pkg/pipelineerr"
)

// RunsHandler serves every /api/v1/runs/* endpoint.
type RunsHandler struct {
	manager            *runs.Manager
	stylescape         *stylescape.Compositor
	outputRoot         string
	mockupMetadataPath string
	logger             *zap.Logger
}

// NewRunsHandler creates a RunsHandler.
func NewRunsHandler(manager *runs.Manager, stylescapeCompositor *stylescape.Compositor, outputRoot, mockupMetadataPath string, logger *zap.Logger) *RunsHandler {
	return &RunsHandler{manager: manager, stylescape: stylescapeCompositor, outputRoot: outputRoot, mockupMetadataPath: mockupMetadataPath, logger: logger}
}

// startLogosRequest is the body of POST /api/v1/runs/logos.
type startLogosRequest struct {
	BrandName          string               `json:"brand_name" binding:"required"`
	ProductDescription string               `json:"product_description" binding:"required"`
	TargetAudience     string               `json:"target_audience"`
	Tone               string               `json:"tone"`
	Competitors        string               `json:"competitors"`
	CorePromise        string               `json:"core_promise"`
	Keywords           []string             `json:"keywords"`
	MoodboardImages    []string             `json:"moodboard_images"`
	StyleRefImages     []string             `json:"style_ref_images"`
	LockedCopy         *domain.LockedCopy   `json:"locked_copy"`
}

// StartLogos handles POST /api/v1/runs/logos.
//
//	@Summary		Start the logos phase
//	@Description	Kicks off Phase 1 (research, direction generation, four parallel logo renders) and returns a run ID immediately.
//	@Tags			runs
//	@Accept			json
//	@Produce		json
//	@Param			request	body		startLogosRequest	true	"Brand brief"
//	@Success		202		{object}	runRef
//	@Failure		400		{object}	pipelineerr.ErrorResponse
//	@Router			/runs/logos [post]
func (h *RunsHandler) StartLogos(c *gin.Context) {
	var req startLogosRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, pipelineerr.ErrorResponse{Error: pipelineerr.NewAPIError(pipelineerr.ErrInvalidRequest, err.Error(), nil)})
		return
	}

	brief := &domain.Brief{
		BrandName:          req.BrandName,
		ProductDescription: req.ProductDescription,
		TargetAudience:     req.TargetAudience,
		Tone:               req.Tone,
		Competitors:        req.Competitors,
		CorePromise:        req.CorePromise,
		Keywords:           req.Keywords,
		MoodboardImages:    req.MoodboardImages,
		StyleRefImages:     req.StyleRefImages,
		LockedCopy:         req.LockedCopy,
	}
	if err := brief.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, pipelineerr.ErrorResponse{Error: pipelineerr.NewAPIError(pipelineerr.ErrInvalidBrief, err.Error(), nil)})
		return
	}

	callerID := auth.MustGetCallerID(c)
	run := h.manager.StartLogosPhase(callerID, h.outputRoot, brief)

	c.JSON(http.StatusAccepted, runRef{RunID: run.ID, State: string(run.State())})
}

type runRef struct {
	RunID string `json:"run_id"`
	State string `json:"state"`
}

// refineRequest is the body of POST /api/v1/runs/{id}/refine.
type refineRequest struct {
	Feedback string `json:"refinement_feedback" binding:"required"`
	Targets  []int  `json:"targets"`
}

// Refine handles POST /api/v1/runs/{id}/refine.
//
//	@Summary		Refine Phase-1 directions
//	@Description	Re-invokes the Director with feedback, regenerating all four directions or a targeted subset, looping Phase 1 (§4.E scenario 6).
//	@Tags			runs
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string			true	"Run ID"
//	@Param			request	body		refineRequest	true	"Refinement feedback"
//	@Success		202		{object}	runRef
//	@Failure		404		{object}	pipelineerr.ErrorResponse
//	@Router			/runs/{id}/refine [post]
func (h *RunsHandler) Refine(c *gin.Context) {
	run, ok := h.manager.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, pipelineerr.ErrorResponse{Error: pipelineerr.ErrRunNotFound})
		return
	}

	var req refineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, pipelineerr.ErrorResponse{Error: pipelineerr.NewAPIError(pipelineerr.ErrInvalidRequest, err.Error(), nil)})
		return
	}

	if err := h.manager.StartRefine(run, req.Feedback, req.Targets); err != nil {
		c.JSON(http.StatusConflict, pipelineerr.ErrorResponse{Error: pipelineerr.NewAPIError(pipelineerr.ErrInvalidRequest, err.Error(), nil)})
		return
	}

	c.JSON(http.StatusAccepted, runRef{RunID: run.ID, State: string(run.State())})
}

// startAssetsRequest is the body of POST /api/v1/runs/{id}/assets.
type startAssetsRequest struct {
	OptionNumber int `json:"option_number" binding:"required"`
}

// StartAssets handles POST /api/v1/runs/{id}/assets.
//
//	@Summary		Start the assets phase for a chosen direction
//	@Description	Kicks off Phase 2 (full production asset kit, mockups, social posts) for the designer-selected option_number.
//	@Tags			runs
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string				true	"Run ID"
//	@Param			request	body		startAssetsRequest	true	"Chosen direction"
//	@Success		202		{object}	runRef
//	@Failure		404		{object}	pipelineerr.ErrorResponse
//	@Router			/runs/{id}/assets [post]
func (h *RunsHandler) StartAssets(c *gin.Context) {
	run, ok := h.manager.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, pipelineerr.ErrorResponse{Error: pipelineerr.ErrRunNotFound})
		return
	}

	var req startAssetsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, pipelineerr.ErrorResponse{Error: pipelineerr.NewAPIError(pipelineerr.ErrInvalidRequest, err.Error(), nil)})
		return
	}

	logos, ok := run.LogosResult()
	if !ok || !logos.Success {
		c.JSON(http.StatusConflict, pipelineerr.ErrorResponse{Error: pipelineerr.NewAPIError(pipelineerr.ErrInvalidRequest, "run has no completed logos phase", nil)})
		return
	}
	chosen, ok := logos.Directions.ByOptionNumber(req.OptionNumber)
	if !ok {
		c.JSON(http.StatusBadRequest, pipelineerr.ErrorResponse{Error: pipelineerr.NewAPIError(pipelineerr.ErrInvalidRequest, "unknown option_number", nil)})
		return
	}
	assets, ok := logos.AssetsByOption[req.OptionNumber]
	if !ok || assets.Logo == "" {
		c.JSON(http.StatusConflict, pipelineerr.ErrorResponse{Error: pipelineerr.NewAPIError(pipelineerr.ErrInvalidRequest, "chosen direction has no logo to build from", nil)})
		return
	}

	var mockupMetadata []mockup.Metadata
	if h.mockupMetadataPath != "" {
		if loaded, err := mockup.LoadMetadata(h.mockupMetadataPath); err == nil {
			mockupMetadata = loaded
		} else {
			h.logger.Warn("failed to load mockup metadata, proceeding without mockups", zap.Error(err))
		}
	}

	h.manager.StartAssetsPhase(run, chosen, assets.Logo, mockupMetadata)
	c.JSON(http.StatusAccepted, runRef{RunID: run.ID, State: string(run.State())})
}

// Outputs handles POST /api/v1/runs/{id}/outputs.
//
//	@Summary		Upload a run's outputs to the output store
//	@Description	Pushes the run's output directory to the configured Output Store (§12.4) and returns a presigned URL per asset.
//	@Tags			runs
//	@Produce		json
//	@Param			id	path		string	true	"Run ID"
//	@Success		200	{object}	map[string]string
//	@Failure		404	{object}	pipelineerr.ErrorResponse
//	@Failure		501	{object}	pipelineerr.ErrorResponse
//	@Router			/runs/{id}/outputs [post]
func (h *RunsHandler) Outputs(c *gin.Context) {
	run, ok := h.manager.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, pipelineerr.ErrorResponse{Error: pipelineerr.ErrRunNotFound})
		return
	}

	urls, err := h.manager.UploadOutputs(c.Request.Context(), run)
	if err != nil {
		c.JSON(http.StatusNotImplemented, pipelineerr.ErrorResponse{Error: pipelineerr.NewAPIError(pipelineerr.ErrInvalidRequest, err.Error(), nil)})
		return
	}
	c.JSON(http.StatusOK, urls)
}

// stylescapeRequest is the body of POST /api/v1/runs/{id}/stylescape.
type stylescapeRequest struct {
	OptionNumber int `json:"option_number" binding:"required"`
}

// Stylescape handles POST /api/v1/runs/{id}/stylescape.
//
//	@Summary		Generate a stylescape for a direction
//	@Description	Renders a single presentation image laying out the chosen direction's logo, palette, and typography together (§9), on demand after Phase 2.
//	@Tags			runs
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string				true	"Run ID"
//	@Param			request	body		stylescapeRequest	true	"Target direction"
//	@Success		200		{object}	map[string]string
//	@Failure		404		{object}	pipelineerr.ErrorResponse
//	@Router			/runs/{id}/stylescape [post]
func (h *RunsHandler) Stylescape(c *gin.Context) {
	run, ok := h.manager.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, pipelineerr.ErrorResponse{Error: pipelineerr.ErrRunNotFound})
		return
	}

	var req stylescapeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, pipelineerr.ErrorResponse{Error: pipelineerr.NewAPIError(pipelineerr.ErrInvalidRequest, err.Error(), nil)})
		return
	}

	logos, ok := run.LogosResult()
	if !ok || !logos.Success {
		c.JSON(http.StatusConflict, pipelineerr.ErrorResponse{Error: pipelineerr.NewAPIError(pipelineerr.ErrInvalidRequest, "run has no completed logos phase", nil)})
		return
	}
	chosen, ok := logos.Directions.ByOptionNumber(req.OptionNumber)
	if !ok {
		c.JSON(http.StatusBadRequest, pipelineerr.ErrorResponse{Error: pipelineerr.NewAPIError(pipelineerr.ErrInvalidRequest, "unknown option_number", nil)})
		return
	}
	assets := logos.AssetsByOption[req.OptionNumber]

	path, err := h.stylescape.Generate(c.Request.Context(), run.OutputDir, chosen, assets)
	if err != nil {
		c.JSON(http.StatusInternalServerError, pipelineerr.ErrorResponse{Error: pipelineerr.NewAPIError(pipelineerr.ErrInvalidRequest, err.Error(), nil)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"stylescape": path})
}

// statusResponse is the body of GET /api/v1/runs/{id}.
type statusResponse struct {
	RunID  string                     `json:"run_id"`
	State  string                     `json:"state"`
	Logos  *domain.LogosPhaseResult   `json:"logos_result,omitempty"`
	Assets *domain.AssetsPhaseResult  `json:"assets_result,omitempty"`
}

// Status handles GET /api/v1/runs/{id}.
//
//	@Summary		Run status snapshot
//	@Tags			runs
//	@Produce		json
//	@Param			id	path		string	true	"Run ID"
//	@Success		200	{object}	statusResponse
//	@Failure		404	{object}	pipelineerr.ErrorResponse
//	@Router			/runs/{id} [get]
func (h *RunsHandler) Status(c *gin.Context) {
	run, ok := h.manager.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, pipelineerr.ErrorResponse{Error: pipelineerr.ErrRunNotFound})
		return
	}

	resp := statusResponse{RunID: run.ID, State: string(run.State())}
	if logos, ok := run.LogosResult(); ok {
		resp.Logos = &logos
	}
	if assets, ok := run.AssetsResult(); ok {
		resp.Assets = &assets
	}
	c.JSON(http.StatusOK, resp)
}
