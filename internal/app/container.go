// Package app provides the dependency injection container for the
// application.
package app

import (
	"io"
	"log/slog"

	"github.com/runoshun/loom/internal/domain"
	"github.com/runoshun/loom/internal/gateway"
	"github.com/runoshun/loom/internal/infra/config"
	"github.com/runoshun/loom/internal/infra/jsonstore"
	"github.com/runoshun/loom/internal/infra/logging"
	"github.com/runoshun/loom/internal/infra/transport"
	"github.com/runoshun/loom/internal/infra/workspace"
	"github.com/runoshun/loom/internal/usecase"
)

// Container provides dependency injection for the application. It holds
// the port implementations and provides factory methods for use cases.
type Container struct {
	// Ports (interfaces bound to implementations)
	Store      domain.DocumentStore
	Workspaces domain.WorkspaceManager
	Transport  domain.SessionTransport
	Clock      domain.Clock

	// Pointer fields
	Logger    *slog.Logger
	logCloser io.Closer

	// Configuration
	Config *config.Config
}

// New creates a new Container from the loaded configuration.
func New() (*Container, error) {
	cfg, err := config.NewLoader().Load()
	if err != nil {
		return nil, err
	}
	return NewWithConfig(cfg)
}

// NewWithConfig creates a new Container over an already-loaded
// configuration.
func NewWithConfig(cfg *config.Config) (*Container, error) {
	logger, closer, err := logging.New(cfg.DataDir, logging.ParseLevel(cfg.Log.Level))
	if err != nil {
		return nil, err
	}

	return &Container{
		Store:      jsonstore.New(domain.DocumentPath(cfg.DataDir)),
		Workspaces: workspace.NewManager(),
		Transport:  transport.NewFileTransport(cfg.DataDir),
		Clock:      domain.RealClock{},
		Logger:     logger,
		logCloser:  closer,
		Config:     cfg,
	}, nil
}

// NewWithDeps creates a new Container with custom dependencies for testing.
func NewWithDeps(cfg *config.Config, store domain.DocumentStore, workspaces domain.WorkspaceManager, tr domain.SessionTransport, clock domain.Clock, logger *slog.Logger) *Container {
	return &Container{
		Store:      store,
		Workspaces: workspaces,
		Transport:  tr,
		Clock:      clock,
		Logger:     logger,
		Config:     cfg,
	}
}

// Close releases the container's resources (the log file handle).
func (c *Container) Close() error {
	if c.logCloser != nil {
		return c.logCloser.Close()
	}
	return nil
}

// UseCase factory methods

// NewStrandUseCase returns a new NewStrand use case.
func (c *Container) NewStrandUseCase() *usecase.NewStrand {
	return usecase.NewNewStrand(c.Store, c.Workspaces, c.Clock, c.Logger, c.Config.WorkspaceBase)
}

// RemoveStrandUseCase returns a new RemoveStrand use case.
func (c *Container) RemoveStrandUseCase() *usecase.RemoveStrand {
	return usecase.NewRemoveStrand(c.Store, c.Workspaces, c.Logger)
}

// ListStrandsUseCase returns a new ListStrands use case.
func (c *Container) ListStrandsUseCase() *usecase.ListStrands {
	return usecase.NewListStrands(c.Store)
}

// StrandStatusUseCase returns a new StrandStatus use case.
func (c *Container) StrandStatusUseCase() *usecase.StrandStatus {
	return usecase.NewStrandStatus(c.Store, c.Workspaces)
}

// NewGoalUseCase returns a new NewGoal use case.
func (c *Container) NewGoalUseCase() *usecase.NewGoal {
	return usecase.NewNewGoal(c.Store, c.Workspaces, c.Clock, c.Logger)
}

// PlanGoalUseCase returns a new PlanGoal use case.
func (c *Container) PlanGoalUseCase() *usecase.PlanGoal {
	return usecase.NewPlanGoal(c.Store, c.Clock, c.Logger)
}

// MergeGoalUseCase returns a new MergeGoal use case.
func (c *Container) MergeGoalUseCase() *usecase.MergeGoal {
	return usecase.NewMergeGoal(c.Store, c.Workspaces, c.Clock, c.Logger)
}

// SpawnTaskUseCase returns a new SpawnTask use case.
func (c *Container) SpawnTaskUseCase() *usecase.SpawnTask {
	return usecase.NewSpawnTask(c.Store, c.Transport, c.Clock, c.Logger, c.Config.DefaultAutonomy)
}

// KickoffUseCase returns a new Kickoff use case.
func (c *Container) KickoffUseCase() *usecase.Kickoff {
	return usecase.NewKickoff(c.Store, c.SpawnTaskUseCase(), c.Logger)
}

// CompleteTaskUseCase returns a new CompleteTask use case.
func (c *Container) CompleteTaskUseCase() *usecase.CompleteTask {
	return usecase.NewCompleteTask(c.Store, c.KickoffUseCase(), c.Clock, c.Logger)
}

// ResetTaskUseCase returns a new ResetTask use case.
func (c *Container) ResetTaskUseCase() *usecase.ResetTask {
	return usecase.NewResetTask(c.Store, c.Clock, c.Logger)
}

// SetAutonomyUseCase returns a new SetAutonomy use case.
func (c *Container) SetAutonomyUseCase() *usecase.SetAutonomy {
	return usecase.NewSetAutonomy(c.Store, c.Clock, c.Logger)
}

// BindSessionUseCase returns a new BindSession use case.
func (c *Container) BindSessionUseCase() *usecase.BindSession {
	return usecase.NewBindSession(c.Store, c.Logger)
}

// Gateway returns the operation registry over the container's use cases.
func (c *Container) Gateway() *gateway.Gateway {
	return gateway.New(gateway.UseCases{
		NewStrand:    c.NewStrandUseCase(),
		ListStrands:  c.ListStrandsUseCase(),
		RemoveStrand: c.RemoveStrandUseCase(),
		StrandStatus: c.StrandStatusUseCase(),
		NewGoal:      c.NewGoalUseCase(),
		PlanGoal:     c.PlanGoalUseCase(),
		MergeGoal:    c.MergeGoalUseCase(),
		Kickoff:      c.KickoffUseCase(),
		SpawnTask:    c.SpawnTaskUseCase(),
		CompleteTask: c.CompleteTaskUseCase(),
		ResetTask:    c.ResetTaskUseCase(),
		SetAutonomy:  c.SetAutonomyUseCase(),
		BindSession:  c.BindSessionUseCase(),
	}, c.Logger)
}
