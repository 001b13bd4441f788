// Package wiring assembles a pipeline.Runner from a loaded config,
// shared between the HTTP server and the standalone CLI entrypoint so
// the two never drift on how a stage is constructed.
package wiring

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/brandforge/pipeline/internal/assetgen"
	awsinternal "github.com/brandforge/pipeline/internal/aws"
	"github.com/brandforge/pipeline/internal/config"
	"github.com/brandforge/pipeline/internal/director"
	"github.com/brandforge/pipeline/internal/logogen"
	"github.com/brandforge/pipeline/internal/mockup"
	"github.com/brandforge/pipeline/internal/modelclient"
	"github.com/brandforge/pipeline/internal/pipeline"
	"github.com/brandforge/pipeline/internal/refindex"
	"github.com/brandforge/pipeline/internal/research"
	"github.com/brandforge/pipeline/internal/secrets"
	"github.com/brandforge/pipeline/internal/social"
	"github.com/brandforge/pipeline/internal/styledna"
	"github.com/brandforge/pipeline/internal/stylescape"
	"github.com/brandforge/pipeline/internal/tags"
)

// Stack holds the assembled pipeline.Runner plus the pieces callers may
// need directly (the Stylescape compositor, which runs outside the
// Runner, and the AWS clients for building an optional
// Ledger/Store/QuotaStore on top).
type Stack struct {
	Runner     *pipeline.Runner
	Stylescape *stylescape.Compositor
	AWSClients *awsinternal.Clients
}

// Build resolves secrets, constructs every stage, and assembles a
// pipeline.Runner. It does not construct the optional persistence layer
// (Ledger, Output Store, QuotaStore) — callers wire those themselves
// depending on whether they need the HTTP surface's bookkeeping.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Stack, error) {
	awsCfg, err := awsinternal.NewConfig(cfg.AWSRegion)
	if err != nil {
		return nil, fmt.Errorf("initialize AWS config: %w", err)
	}
	awsClients := awsinternal.NewClients(awsCfg)

	secretsProvider := secrets.NewProvider(awsClients.SecretsManager, cfg.ReplicateSecretARN, logger)
	apiToken, err := secretsProvider.ReplicateAPIToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve replicate api token: %w", err)
	}

	modelClient := modelclient.NewReplicateClient(apiToken, cfg.TextModel, cfg.VisionModel, cfg.ImageLadder, logger, nil)

	refs, err := refindex.Load(cfg.RefLibraryRoot, logger)
	if err != nil {
		logger.Warn("failed to load reference library, proceeding with an empty index", zap.Error(err))
		refs = &refindex.Index{}
	}

	dnaExtractor := styledna.NewExtractor(modelClient, cfg.StyleDNACacheDir, logger)
	researchStage := research.NewStage(modelClient, time.Duration(cfg.ResearchTimeoutMS)*time.Millisecond, logger)
	directorStage := director.NewStage(modelClient, logger)
	tagResolver := tags.NewResolver(modelClient, logger)
	logoGen := logogen.NewGenerator(modelClient, refs, dnaExtractor, cfg.MaxLogoConcurrency, logger)
	assetGen := assetgen.NewGenerator(modelClient, modelClient, refs, logger)
	mockupCompositor := mockup.NewCompositor(modelClient, cfg.MaxMockupConcurrency, logger)
	socialCompositor := social.NewCompositor(modelClient, modelClient, logger)

	runner := pipeline.NewRunner(researchStage, directorStage, tagResolver, logoGen, assetGen, mockupCompositor, socialCompositor, dnaExtractor, refs, logger)
	stylescapeCompositor := stylescape.NewCompositor(modelClient, logger)

	return &Stack{Runner: runner, Stylescape: stylescapeCompositor, AWSClients: awsClients}, nil
}
