// Package gateway exposes the orchestration operations in the external
// call shape: a fixed method name, a parameter bag, and a callback
// invoked exactly once with (ok, payload, error).
package gateway

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/runoshun/loom/internal/usecase"
)

// Callback receives the outcome of a gateway call. Exactly one of
// payload and err is set; ok mirrors err == nil.
type Callback func(ok bool, payload any, err *Error)

// Handler executes one registered operation against a validated
// parameter bag.
type Handler func(ctx context.Context, p Params) (any, error)

// UseCases bundles the orchestration use cases the gateway dispatches to.
type UseCases struct {
	NewStrand    *usecase.NewStrand
	ListStrands  *usecase.ListStrands
	RemoveStrand *usecase.RemoveStrand
	StrandStatus *usecase.StrandStatus
	NewGoal      *usecase.NewGoal
	PlanGoal     *usecase.PlanGoal
	MergeGoal    *usecase.MergeGoal
	Kickoff      *usecase.Kickoff
	SpawnTask    *usecase.SpawnTask
	CompleteTask *usecase.CompleteTask
	ResetTask    *usecase.ResetTask
	SetAutonomy  *usecase.SetAutonomy
	BindSession  *usecase.BindSession
}

// Gateway is an explicit registry mapping operation names to handlers.
type Gateway struct {
	handlers map[string]Handler
	logger   *slog.Logger
}

// New builds the registry over the given use cases.
func New(uc UseCases, logger *slog.Logger) *Gateway {
	g := &Gateway{handlers: map[string]Handler{}, logger: logger}
	g.register("strand.new", newStrandHandler(uc.NewStrand))
	g.register("strand.list", listStrandsHandler(uc.ListStrands))
	g.register("strand.remove", removeStrandHandler(uc.RemoveStrand))
	g.register("strand.status", strandStatusHandler(uc.StrandStatus))
	g.register("goal.new", newGoalHandler(uc.NewGoal))
	g.register("goal.plan", planGoalHandler(uc.PlanGoal))
	g.register("goal.kickoff", kickoffHandler(uc.Kickoff))
	g.register("goal.merge", mergeGoalHandler(uc.MergeGoal))
	g.register("task.spawn", spawnTaskHandler(uc.SpawnTask))
	g.register("task.complete", completeTaskHandler(uc.CompleteTask))
	g.register("task.reset", resetTaskHandler(uc.ResetTask))
	g.register("autonomy.set", setAutonomyHandler(uc.SetAutonomy))
	g.register("session.bind", bindSessionHandler(uc.BindSession))
	g.register("session.resolve", resolveSessionHandler(uc.BindSession))
	return g
}

func (g *Gateway) register(method string, h Handler) {
	g.handlers[method] = h
}

// Methods returns the registered operation names.
func (g *Gateway) Methods() []string {
	methods := make([]string, 0, len(g.handlers))
	for name := range g.handlers {
		methods = append(methods, name)
	}
	return methods
}

// Call dispatches a method against the registry. The callback is invoked
// exactly once; an unknown method reports NotFound, and no failure is
// ever propagated as a panic past this boundary.
func (g *Gateway) Call(ctx context.Context, method string, params Params, cb Callback) {
	handler, ok := g.handlers[method]
	if !ok {
		cb(false, nil, &Error{Kind: KindNotFound, Message: "unknown method: " + method})
		return
	}

	payload, err := g.invoke(ctx, method, handler, params)
	if err != nil {
		gwErr := translate(err)
		if g.logger != nil {
			g.logger.Warn("gateway call failed", "method", method, "kind", string(gwErr.Kind), "error", gwErr.Message)
		}
		cb(false, nil, gwErr)
		return
	}
	cb(true, payload, nil)
}

// invoke runs the handler, converting a panic into an error so the
// callback contract holds even for a broken handler.
func (g *Gateway) invoke(ctx context.Context, method string, handler Handler, params Params) (payload any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal failure in %s: %v", method, r)
		}
	}()
	return handler(ctx, params)
}

func newStrandHandler(uc *usecase.NewStrand) Handler {
	return func(ctx context.Context, p Params) (any, error) {
		name, perr := p.String("name")
		if perr != nil {
			return nil, perr
		}
		description, perr := p.OptString("description")
		if perr != nil {
			return nil, perr
		}
		color, perr := p.OptString("color")
		if perr != nil {
			return nil, perr
		}
		remoteURL, perr := p.OptString("remoteUrl")
		if perr != nil {
			return nil, perr
		}
		keywords, perr := p.OptStringSlice("keywords")
		if perr != nil {
			return nil, perr
		}
		createWorkspace, perr := p.OptBool("createWorkspace")
		if perr != nil {
			return nil, perr
		}
		return uc.Execute(ctx, usecase.NewStrandInput{
			Name:            name,
			Description:     description,
			Color:           color,
			RemoteURL:       remoteURL,
			Keywords:        keywords,
			CreateWorkspace: createWorkspace,
		})
	}
}

func listStrandsHandler(uc *usecase.ListStrands) Handler {
	return func(ctx context.Context, _ Params) (any, error) {
		return uc.Execute(ctx, usecase.ListStrandsInput{})
	}
}

func removeStrandHandler(uc *usecase.RemoveStrand) Handler {
	return func(ctx context.Context, p Params) (any, error) {
		strandID, perr := p.String("strandId")
		if perr != nil {
			return nil, perr
		}
		if err := uc.Execute(ctx, usecase.RemoveStrandInput{StrandID: strandID}); err != nil {
			return nil, err
		}
		return map[string]any{"removed": strandID}, nil
	}
}

func strandStatusHandler(uc *usecase.StrandStatus) Handler {
	return func(ctx context.Context, p Params) (any, error) {
		strandID, perr := p.String("strandId")
		if perr != nil {
			return nil, perr
		}
		return uc.Execute(ctx, usecase.StrandStatusInput{StrandID: strandID})
	}
}

func newGoalHandler(uc *usecase.NewGoal) Handler {
	return func(ctx context.Context, p Params) (any, error) {
		strandID, perr := p.String("strandId")
		if perr != nil {
			return nil, perr
		}
		title, perr := p.String("title")
		if perr != nil {
			return nil, perr
		}
		notes, perr := p.OptString("notes")
		if perr != nil {
			return nil, perr
		}
		dependsOn, perr := p.OptStringSlice("dependsOn")
		if perr != nil {
			return nil, perr
		}
		priority, perr := p.OptInt("priority")
		if perr != nil {
			return nil, perr
		}
		phase, perr := p.OptInt("phase")
		if perr != nil {
			return nil, perr
		}
		createWorktree, perr := p.OptBool("createWorktree")
		if perr != nil {
			return nil, perr
		}
		return uc.Execute(ctx, usecase.NewGoalInput{
			StrandID:       strandID,
			Title:          title,
			Notes:          notes,
			DependsOn:      dependsOn,
			Priority:       priority,
			Phase:          phase,
			CreateWorktree: createWorktree,
		})
	}
}

func planGoalHandler(uc *usecase.PlanGoal) Handler {
	return func(ctx context.Context, p Params) (any, error) {
		goalID, perr := p.String("goalId")
		if perr != nil {
			return nil, perr
		}
		plan, perr := p.String("plan")
		if perr != nil {
			return nil, perr
		}
		planRef, perr := p.OptString("planRef")
		if perr != nil {
			return nil, perr
		}
		return uc.Execute(ctx, usecase.PlanGoalInput{
			GoalID:   goalID,
			PlanText: []byte(plan),
			PlanRef:  planRef,
		})
	}
}

func kickoffHandler(uc *usecase.Kickoff) Handler {
	return func(ctx context.Context, p Params) (any, error) {
		goalID, perr := p.String("goalId")
		if perr != nil {
			return nil, perr
		}
		return uc.Execute(ctx, usecase.KickoffInput{GoalID: goalID})
	}
}

func mergeGoalHandler(uc *usecase.MergeGoal) Handler {
	return func(ctx context.Context, p Params) (any, error) {
		goalID, perr := p.String("goalId")
		if perr != nil {
			return nil, perr
		}
		removeWorktree, perr := p.OptBool("removeWorktree")
		if perr != nil {
			return nil, perr
		}
		return uc.Execute(ctx, usecase.MergeGoalInput{GoalID: goalID, RemoveWorktree: removeWorktree})
	}
}

func spawnTaskHandler(uc *usecase.SpawnTask) Handler {
	return func(ctx context.Context, p Params) (any, error) {
		goalID, perr := p.String("goalId")
		if perr != nil {
			return nil, perr
		}
		taskID, perr := p.String("taskId")
		if perr != nil {
			return nil, perr
		}
		return uc.Execute(ctx, usecase.SpawnTaskInput{GoalID: goalID, TaskID: taskID})
	}
}

func completeTaskHandler(uc *usecase.CompleteTask) Handler {
	return func(ctx context.Context, p Params) (any, error) {
		goalID, perr := p.String("goalId")
		if perr != nil {
			return nil, perr
		}
		taskID, perr := p.String("taskId")
		if perr != nil {
			return nil, perr
		}
		summary, perr := p.OptString("summary")
		if perr != nil {
			return nil, perr
		}
		return uc.Execute(ctx, usecase.CompleteTaskInput{GoalID: goalID, TaskID: taskID, Summary: summary})
	}
}

func resetTaskHandler(uc *usecase.ResetTask) Handler {
	return func(ctx context.Context, p Params) (any, error) {
		goalID, perr := p.String("goalId")
		if perr != nil {
			return nil, perr
		}
		taskID, perr := p.String("taskId")
		if perr != nil {
			return nil, perr
		}
		if err := uc.Execute(ctx, usecase.ResetTaskInput{GoalID: goalID, TaskID: taskID}); err != nil {
			return nil, err
		}
		return map[string]any{"reset": taskID}, nil
	}
}

func setAutonomyHandler(uc *usecase.SetAutonomy) Handler {
	return func(ctx context.Context, p Params) (any, error) {
		scope, perr := p.String("scope")
		if perr != nil {
			return nil, perr
		}
		mode, perr := p.String("mode")
		if perr != nil {
			return nil, perr
		}

		var err error
		switch scope {
		case "strand":
			var strandID string
			if strandID, perr = p.String("strandId"); perr != nil {
				return nil, perr
			}
			err = uc.Strand(ctx, usecase.SetAutonomyInput{StrandID: strandID, Mode: mode})
		case "goal":
			var goalID string
			if goalID, perr = p.String("goalId"); perr != nil {
				return nil, perr
			}
			err = uc.Goal(ctx, usecase.SetAutonomyInput{GoalID: goalID, Mode: mode})
		case "task":
			var goalID, taskID string
			if goalID, perr = p.String("goalId"); perr != nil {
				return nil, perr
			}
			if taskID, perr = p.String("taskId"); perr != nil {
				return nil, perr
			}
			err = uc.Task(ctx, usecase.SetAutonomyInput{GoalID: goalID, TaskID: taskID, Mode: mode})
		default:
			return nil, validationError("parameter %q must be one of strand, goal, task", "scope")
		}
		if err != nil {
			return nil, err
		}
		return map[string]any{"mode": mode}, nil
	}
}

func bindSessionHandler(uc *usecase.BindSession) Handler {
	return func(ctx context.Context, p Params) (any, error) {
		sessionKey, perr := p.String("sessionKey")
		if perr != nil {
			return nil, perr
		}
		strandID, perr := p.String("strandId")
		if perr != nil {
			return nil, perr
		}
		if err := uc.Execute(ctx, usecase.BindSessionInput{SessionKey: sessionKey, StrandID: strandID}); err != nil {
			return nil, err
		}
		return map[string]any{"sessionKey": sessionKey, "strandId": strandID}, nil
	}
}

func resolveSessionHandler(uc *usecase.BindSession) Handler {
	return func(ctx context.Context, p Params) (any, error) {
		sessionKey, perr := p.String("sessionKey")
		if perr != nil {
			return nil, perr
		}
		return uc.Resolve(ctx, usecase.ResolveSessionInput{SessionKey: sessionKey})
	}
}
