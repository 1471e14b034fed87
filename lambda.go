package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-lambda-go/events"
)

// Per-request limits. maxLambdaPicks bounds ExperimentsPerSeason*Seasons*Years.
const (
	maxLambdaPicks = 1_000_000
	maxLambdaSeeds = 1 << 16
)

var jsonHeader = map[string]string{
	"Content-Type": "application/json",
}

type simulateRequest struct {
	Config json.RawMessage `json:"config"`
	Field  json.RawMessage `json:"field"`
	Picks  bool            `json:"picks"`
}

func handler(_ context.Context, event events.LambdaFunctionURLRequest) (events.LambdaFunctionURLResponse, error) {
	body := event.Body
	if event.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			return errResp(400, "invalid base64 body")
		}
		body = string(decoded)
	}

	var req simulateRequest
	if body != "" {
		if err := json.Unmarshal([]byte(body), &req); err != nil {
			return errResp(400, "invalid JSON: "+err.Error())
		}
	}

	cfg := DefaultConfig()
	if len(req.Config) > 0 {
		dec := json.NewDecoder(bytes.NewReader(req.Config))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			return errResp(400, "invalid config: "+err.Error())
		}
	}
	if err := cfg.Validate(); err != nil {
		return errResp(400, err.Error())
	}
	if err := checkRequestLimits(cfg); err != nil {
		return errResp(400, err.Error())
	}

	var field *FieldModel
	if len(req.Field) > 0 {
		var err error
		if field, err = parseFieldModel(string(req.Field)); err != nil {
			return errResp(400, err.Error())
		}
	}

	r, err := runSimulation(cfg, field, runOptions{picks: req.Picks})
	if err != nil {
		if errors.Is(err, ErrConfig) {
			return errResp(400, err.Error())
		}
		return errResp(500, err.Error())
	}

	respJSON, _ := json.Marshal(r)
	return events.LambdaFunctionURLResponse{StatusCode: 200, Headers: jsonHeader, Body: string(respJSON)}, nil
}

// checkRequestLimits rejects configs a single invocation cannot hold in
// memory or finish in time. cfg must already be valid.
func checkRequestLimits(cfg Config) error {
	if cfg.AcreCount > maxFieldAcres {
		return fmt.Errorf("run too large: %d acres, limit %d", cfg.AcreCount, maxFieldAcres)
	}
	if cfg.SeedCount > maxLambdaSeeds {
		return fmt.Errorf("run too large: %d seeds, limit %d", cfg.SeedCount, maxLambdaSeeds)
	}
	if cfg.Seasons == 0 || cfg.Years == 0 {
		return nil
	}
	// multiply step by step so the product cannot wrap
	picks := cfg.ExperimentsPerSeason
	for _, f := range []int{cfg.Seasons, cfg.Years} {
		if picks > maxLambdaPicks/f {
			return fmt.Errorf("run too large: more than %d picks", maxLambdaPicks)
		}
		picks *= f
	}
	return nil
}

func errResp(code int, msg string) (events.LambdaFunctionURLResponse, error) {
	body, _ := json.Marshal(map[string]string{"error": msg})
	return events.LambdaFunctionURLResponse{StatusCode: code, Headers: jsonHeader, Body: string(body)}, nil
}
