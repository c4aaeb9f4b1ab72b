package deletion

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"nsportal/internal/domain/events"
	"nsportal/internal/domain/models"
	"nsportal/internal/domain/services"
	"nsportal/internal/messages"
	serviceEvents "nsportal/internal/service/events"
)

var tracer = otel.Tracer("nsportal.deletion")

// Subscriber registers event handlers
type Subscriber interface {
	Subscribe(t events.EventType, h serviceEvents.Handler) func()
}

// PreDeleteNamespaceEvent requests a validation run for Namespace.
// The pipeline reports to View; OnOutcome, when set, receives the result.
type PreDeleteNamespaceEvent struct {
	Namespace models.Namespace
	View      services.View
	OnOutcome func(Outcome)
}

// Type implements events.Event
func (PreDeleteNamespaceEvent) Type() events.EventType { return events.PreDeleteNamespace }

// Pipeline runs the delete guards in order and stops at the first halt.
//
// Runs share no state: every run builds its own ValidationContext, so
// concurrent runs for the same or different namespaces are independent.
type Pipeline struct {
	stages    []Stage
	publisher events.Publisher
	logger    *slog.Logger
}

// NewPipeline creates the namespace delete pipeline
func NewPipeline(
	users services.CurrentUserProvider,
	authz services.AuthorizationService,
	lookup services.ResourceLookupService,
	publisher events.Publisher,
	catalog *messages.Catalog,
	logger *slog.Logger,
) *Pipeline {
	g := &guards{
		users:   users,
		authz:   authz,
		lookup:  lookup,
		catalog: catalog,
	}
	return &Pipeline{
		stages:    g.stages(),
		publisher: publisher,
		logger:    logger,
	}
}

// Stages returns the stage names in execution order
func (p *Pipeline) Stages() []string {
	names := make([]string, 0, len(p.stages))
	for _, s := range p.stages {
		names = append(names, s.Name)
	}
	return names
}

// Subscribe makes the pipeline answer PRE_DELETE_NAMESPACE events on bus.
func (p *Pipeline) Subscribe(bus Subscriber) func() {
	return bus.Subscribe(events.PreDeleteNamespace, func(ctx context.Context, ev events.Event) {
		req, ok := ev.(PreDeleteNamespaceEvent)
		if !ok {
			p.logger.Warn("unexpected pre-delete payload", "type", ev.Type())
			return
		}

		outcome := p.Run(ctx, req.Namespace, req.View)
		if req.OnOutcome != nil {
			req.OnOutcome(outcome)
		}
	})
}

// Run validates ns and reports the result: local failures go to view,
// resource-state failures are published as DELETE_NAMESPACE_FAILED, and a
// full pass shows the confirmation dialog.
func (p *Pipeline) Run(ctx context.Context, ns models.Namespace, view services.View) Outcome {
	runID := uuid.NewString()

	ctx, span := tracer.Start(ctx, "deletion.Pipeline",
		trace.WithAttributes(
			attribute.String("deletion.run_id", runID),
			attribute.String("namespace.app_id", ns.AppID),
			attribute.String("namespace.env", ns.Env),
			attribute.String("namespace.cluster", ns.ClusterName),
			attribute.String("namespace.name", ns.NamespaceName),
		),
	)
	defer span.End()

	start := time.Now()
	p.logger.Info("delete validation started",
		"run_id", runID,
		"app_id", ns.AppID,
		"env", ns.Env,
		"cluster", ns.ClusterName,
		"namespace", ns.NamespaceName,
	)

	outcome := p.runStages(ctx, ValidationContext{RunID: runID, Namespace: ns})
	outcome.RunID = runID
	outcome.Namespace = ns

	p.resolve(ctx, outcome, view)

	duration := time.Since(start)
	pipelineOutcomes.WithLabelValues(string(outcome.Kind)).Inc()
	pipelineDuration.Observe(duration.Seconds())

	span.SetAttributes(
		attribute.String("deletion.outcome", string(outcome.Kind)),
		attribute.String("deletion.stage", outcome.Stage),
	)
	if outcome.Err != nil {
		span.RecordError(outcome.Err)
		span.SetStatus(codes.Error, outcome.Err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}

	attrs := []any{
		"run_id", runID,
		"outcome", outcome.Kind,
		"stage", outcome.Stage,
		"duration", duration,
	}
	if outcome.Err != nil {
		p.logger.Error("delete validation failed", append(attrs, "error", outcome.Err)...)
	} else {
		p.logger.Info("delete validation finished", attrs...)
	}

	return outcome
}

func (p *Pipeline) runStages(ctx context.Context, vc ValidationContext) Outcome {
	for _, stage := range p.stages {
		next, halt := p.runStage(ctx, stage, vc)
		if halt != nil {
			halt.Stage = stage.Name
			halt.MasterUsers = next.MasterUsers
			return *halt
		}
		vc = next
	}

	return Outcome{
		Kind:        OutcomeConfirmed,
		Stage:       StageConfirmation,
		MasterUsers: vc.MasterUsers,
	}
}

func (p *Pipeline) runStage(ctx context.Context, stage Stage, vc ValidationContext) (ValidationContext, *Outcome) {
	ctx, span := tracer.Start(ctx, "deletion.stage."+stage.Name,
		trace.WithAttributes(
			attribute.String("deletion.stage", stage.Name),
			attribute.String("deletion.run_id", vc.RunID),
		),
	)
	defer span.End()

	start := time.Now()
	next, halt := stage.Run(ctx, vc)
	stageDuration.WithLabelValues(stage.Name).Observe(time.Since(start).Seconds())

	if halt != nil {
		span.SetAttributes(attribute.String("deletion.halt", string(halt.Kind)))
	}

	p.logger.Debug("delete validation stage",
		"run_id", vc.RunID,
		"stage", stage.Name,
		"halted", halt != nil,
	)

	return next, halt
}

// resolve hands the outcome to the view or the event bus.
func (p *Pipeline) resolve(ctx context.Context, outcome Outcome, view services.View) {
	if ev, ok := outcome.FailureEvent(); ok {
		p.publisher.Publish(ctx, ev)
		return
	}

	switch outcome.Kind {
	case OutcomeConfirmed:
		view.ShowConfirmationDialog(outcome.Namespace)
	default:
		view.ShowLocalError(outcome.Message)
	}
}
