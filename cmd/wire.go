package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	agentadapter "github.com/draftforge/contract-draft-cli/internal/adapters/agent"
	chatrender "github.com/draftforge/contract-draft-cli/internal/adapters/render/chat"
	tomlstore "github.com/draftforge/contract-draft-cli/internal/adapters/workspace/toml"
	"github.com/draftforge/contract-draft-cli/internal/application"
	"github.com/draftforge/contract-draft-cli/internal/domain"
	"github.com/draftforge/contract-draft-cli/internal/logger"
	"github.com/draftforge/contract-draft-cli/internal/ports"
	"github.com/spf13/viper"
)

const defaultAgentBaseURL = "http://localhost:8080/apcontract"

type app struct {
	client    *agentadapter.Client
	intake    *application.Intake
	catalog   *application.Catalog
	workspace ports.WorkspaceStore
	renderer  *chatrender.Renderer
	turnPace  time.Duration
}

func wireApp() (*app, error) {
	if err := logger.Configure("", os.Getenv("CDRAFT_LOG_FILE")); err != nil {
		return nil, fmt.Errorf("configure logger: %w", err)
	}

	config := viper.New()
	if path := os.Getenv("CDRAFT_WORKSPACE"); path != "" {
		config.Set("workspace.path", path)
	}
	workspace, err := tomlstore.NewStore(config)
	if err != nil {
		return nil, fmt.Errorf("wire workspace store: %w", err)
	}

	client := &agentadapter.Client{
		BaseURL:    envOrDefault("CDRAFT_AGENT_BASE_URL", defaultAgentBaseURL),
		HTTPClient: http.DefaultClient,
	}

	renderer, err := chatrender.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("wire chat renderer: %w", err)
	}

	return &app{
		client:    client,
		intake:    application.NewIntake(client),
		catalog:   application.NewCatalog(client, workspace),
		workspace: workspace,
		renderer:  renderer,
		turnPace:  turnPaceFromEnv(),
	}, nil
}

// newWorkflow builds a fresh conversation for this invocation, using
// the stored login profile when one exists.
func (a *app) newWorkflow(ctx context.Context) *application.Workflow {
	user, found, err := a.workspace.Profile(ctx)
	if err != nil {
		logger.Warn("read login profile", "error", err)
	}
	if !found {
		user = domain.UserContext{}
	}
	return application.NewWorkflow(a.client, ports.SystemClock{}, user, application.WithPace(a.turnPace))
}

func turnPaceFromEnv() time.Duration {
	raw := os.Getenv("CDRAFT_TURN_PACE")
	if raw == "" {
		return time.Second
	}
	pace, err := time.ParseDuration(raw)
	if err != nil || pace < 0 {
		logger.Warn("invalid CDRAFT_TURN_PACE, using default", "value", raw)
		return time.Second
	}
	return pace
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
