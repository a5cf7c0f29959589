package grpc

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/andrescamacho/geode-planner/internal/infrastructure/config"
	"github.com/andrescamacho/geode-planner/test/helpers"
)

func TestRequestIntField(t *testing.T) {
	tests := []struct {
		name    string
		value   *structpb.Value
		want    int
		present bool
		wantErr bool
	}{
		{"whole number", structpb.NewNumberValue(24), 24, true, false},
		{"negative whole number", structpb.NewNumberValue(-3), -3, true, false},
		{"fraction", structpb.NewNumberValue(24.7), 0, false, true},
		{"too large", structpb.NewNumberValue(1e12), 0, false, true},
		{"not a number", structpb.NewNumberValue(math.NaN()), 0, false, true},
		{"string", structpb.NewStringValue("24"), 0, false, true},
		{"absent", nil, 0, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &structpb.Struct{Fields: map[string]*structpb.Value{}}
			if tt.value != nil {
				s.Fields[fieldHorizon] = tt.value
			}

			got, ok, err := requestIntField(s, fieldHorizon)

			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.present, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPlannerService_RejectsFractionalNumbers(t *testing.T) {
	line := helpers.BlueprintLine(1, 1, 1, 1, 1, 1, 1)
	tests := []struct {
		name   string
		call   func(*plannerService, *structpb.Struct) error
		fields map[string]interface{}
	}{
		{"simulate horizon", simulateCall, map[string]interface{}{fieldBlueprint: line, fieldHorizon: 24.7}},
		{"simulate stall minutes", simulateCall, map[string]interface{}{fieldBlueprint: line, fieldStallMinutes: 2.5}},
		{"evaluate horizon", evaluateCall, map[string]interface{}{fieldInput: line, fieldHorizon: 24.7}},
		{"evaluate limit", evaluateCall, map[string]interface{}{fieldInput: line, fieldPolicy: "top_product", fieldLimit: 1.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			med := helpers.NewMockMediator()
			svc := newPlannerService(med, config.DefaultConfig().Solver)
			req, err := structpb.NewStruct(tt.fields)
			require.NoError(t, err)

			err = tt.call(svc, req)

			require.Error(t, err)
			assert.Equal(t, codes.InvalidArgument, status.Code(err))
			assert.Empty(t, med.Requests(), "nothing reaches the mediator")
		})
	}
}

func simulateCall(svc *plannerService, req *structpb.Struct) error {
	_, err := svc.Simulate(context.Background(), req)
	return err
}

func evaluateCall(svc *plannerService, req *structpb.Struct) error {
	_, err := svc.Evaluate(context.Background(), req)
	return err
}
