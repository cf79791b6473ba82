package design

import (
	"context"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lineplan/config"
	"lineplan/internal/domain/design"
)

func basicRequest() design.Request {
	return design.Request{
		ConsumerX: 15,
		ConsumerY: 5,
		Phase:     design.PhaseSingle,
		LoadKW:    3,
		Features: design.FeatureBatch{
			Poles: []design.RawFeature{
				{"GID": "pole-1", "GEOM": orb.Point{90, 0}, "PHAR_CLCD": "A", "VOLT_VAL": 220.0},
			},
			Lines: []design.RawFeature{
				{
					"GID":          "line-1",
					"GEOM":         orb.LineString{{90, 0}, {90, 20}},
					"LWER_FAC_GID": "pole-1",
					"UPPO_FAC_GID": "pole-1",
					"VOLT_VAL":     220.0,
				},
			},
			Roads: []design.RawFeature{
				{"GID": "road-1", "GEOM": orb.LineString{{0, 0}, {100, 0}}},
			},
		},
	}
}

func TestOrchestrator_Process_SuccessPath(t *testing.T) {
	o := NewOrchestrator(Params{Config: config.DefaultDesignConfig()})

	result := o.Process(context.Background(), basicRequest())

	require.Equal(t, design.StatusSuccess, result.Status)
	require.NotEmpty(t, result.Routes)
	assert.Equal(t, "pole-1", result.Routes[0].StartPoleID)
	assert.Equal(t, 1, result.Routes[0].Rank)
}

func TestOrchestrator_Process_NoCandidateWhenNoPolesMatchPhase(t *testing.T) {
	o := NewOrchestrator(Params{Config: config.DefaultDesignConfig()})

	req := basicRequest()
	req.Phase = design.PhaseThree

	result := o.Process(context.Background(), req)

	assert.Equal(t, design.StatusNoCandidate, result.Status)
}

func TestOrchestrator_Process_NoRoadAccessWhenConsumerFarFromRoads(t *testing.T) {
	o := NewOrchestrator(Params{Config: config.DefaultDesignConfig()})

	req := basicRequest()
	req.ConsumerX, req.ConsumerY = 15, 200

	result := o.Process(context.Background(), req)

	assert.Equal(t, design.StatusNoRoadAccess, result.Status)
}

func TestOrchestrator_Process_FastTrackSucceedsWithNoRoadsInBatch(t *testing.T) {
	o := NewOrchestrator(Params{Config: config.DefaultDesignConfig()})

	req := design.Request{
		ConsumerX: 0,
		ConsumerY: 0,
		Phase:     design.PhaseSingle,
		LoadKW:    3,
		Features: design.FeatureBatch{
			Poles: []design.RawFeature{
				{"GID": "pole-1", "GEOM": orb.Point{10, 0}, "PHAR_CLCD": "A", "VOLT_VAL": 220.0},
			},
			Lines: []design.RawFeature{
				{
					"GID":          "line-1",
					"GEOM":         orb.LineString{{10, 0}, {10, 20}},
					"LWER_FAC_GID": "pole-1",
					"UPPO_FAC_GID": "pole-1",
					"VOLT_VAL":     220.0,
				},
			},
		},
	}

	result := o.Process(context.Background(), req)

	require.Equal(t, design.StatusSuccess, result.Status)
	require.NotEmpty(t, result.Routes)
	assert.Equal(t, "pole-1", result.Routes[0].StartPoleID)
}

func TestOrchestrator_Process_NoRoadAccessWhenNoRoadsAndNoFastTrackCandidate(t *testing.T) {
	o := NewOrchestrator(Params{Config: config.DefaultDesignConfig()})

	req := design.Request{
		ConsumerX: 0,
		ConsumerY: 0,
		Phase:     design.PhaseSingle,
		LoadKW:    3,
		Features: design.FeatureBatch{
			Poles: []design.RawFeature{
				{"GID": "pole-1", "GEOM": orb.Point{200, 0}, "PHAR_CLCD": "A", "VOLT_VAL": 220.0},
			},
			Lines: []design.RawFeature{
				{
					"GID":          "line-1",
					"GEOM":         orb.LineString{{200, 0}, {200, 20}},
					"LWER_FAC_GID": "pole-1",
					"UPPO_FAC_GID": "pole-1",
					"VOLT_VAL":     220.0,
				},
			},
		},
	}

	result := o.Process(context.Background(), req)

	assert.Equal(t, design.StatusNoRoadAccess, result.Status)
}

func TestOrchestrator_Process_CancelledContext(t *testing.T) {
	o := NewOrchestrator(Params{Config: config.DefaultDesignConfig()})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := o.Process(ctx, basicRequest())

	assert.Equal(t, design.StatusCancelled, result.Status)
}
