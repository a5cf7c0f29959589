package grpc

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/andrescamacho/geode-planner/internal/application/planning"
)

// PlannerClient calls a running planner daemon
type PlannerClient struct {
	conn *grpc.ClientConn
}

// NewPlannerClient connects to the daemon at target (host:port).
// Extra dial options are appended after the insecure transport credentials.
func NewPlannerClient(target string, opts ...grpc.DialOption) (*PlannerClient, error) {
	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	}, opts...)

	conn, err := grpc.NewClient(target, dialOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w", err)
	}
	return &PlannerClient{conn: conn}, nil
}

// Close closes the gRPC connection
func (c *PlannerClient) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// SimulateRequest describes a remote single-blueprint search.
// Nil pointers leave the choice to the daemon's configured defaults.
type SimulateRequest struct {
	Blueprint    string
	Horizon      *int
	Eager        *bool
	StallMinutes *int
}

// EvaluateRequest describes a remote evaluation of a blueprint document
type EvaluateRequest struct {
	Input        string
	Policy       planning.AggregationPolicy
	Horizon      *int
	Eager        *bool
	Limit        *int
	StallMinutes *int
}

// Simulate runs one blueprint search on the daemon
func (c *PlannerClient) Simulate(ctx context.Context, req SimulateRequest) (*planning.SimulateBlueprintResponse, error) {
	fields := map[string]interface{}{fieldBlueprint: req.Blueprint}
	setOptional(fields, fieldHorizon, req.Horizon)
	setOptional(fields, fieldEager, req.Eager)
	setOptional(fields, fieldStallMinutes, req.StallMinutes)

	out, err := c.invoke(ctx, simulateMethod, fields)
	if err != nil {
		return nil, fmt.Errorf("simulate failed: %w", err)
	}
	return simulateResponseFromStruct(out), nil
}

// Evaluate runs an aggregation on the daemon
func (c *PlannerClient) Evaluate(ctx context.Context, req EvaluateRequest) (*planning.EvaluateBlueprintsResponse, error) {
	fields := map[string]interface{}{
		fieldInput:  req.Input,
		fieldPolicy: string(req.Policy),
	}
	setOptional(fields, fieldHorizon, req.Horizon)
	setOptional(fields, fieldEager, req.Eager)
	setOptional(fields, fieldLimit, req.Limit)
	setOptional(fields, fieldStallMinutes, req.StallMinutes)

	out, err := c.invoke(ctx, evaluateMethod, fields)
	if err != nil {
		return nil, fmt.Errorf("evaluate failed: %w", err)
	}
	return evaluateResponseFromStruct(out), nil
}

func (c *PlannerClient) invoke(ctx context.Context, method string, fields map[string]interface{}) (*structpb.Struct, error) {
	in, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}
	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, method, in, out); err != nil {
		return nil, err
	}
	return out, nil
}

func setOptional[T int | bool](fields map[string]interface{}, name string, v *T) {
	if v != nil {
		fields[name] = *v
	}
}
