//
// Tencent is pleased to support the open source community by making trpc-eval-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-eval-go is licensed under the Apache License Version 2.0.
//
//

package grading

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"text/template"

	"trpc.group/trpc-go/trpc-eval-go/model"
)

// defaultRubricPrompt instructs the judge model to emit its verdict as a JSON
// object matching the Result shape.
const defaultRubricPrompt = `You are grading output according to a user-specified rubric. If the statement in the rubric is true, then the output passes the test. You respond with a JSON object with this structure: {"pass": true/false, "reason": "..."}

Examples:

Output: Hello world
Rubric: Content contains a greeting
{"pass": true, "reason": "the content contains the word 'hello'"}

Output: Avast ye swabs, repel the invaders!
Rubric: Does not speak like a pirate
{"pass": false, "reason": "'avast ye' is a common pirate term"}

Output: {{.Output}}
Rubric: {{.Rubric}}`

// rubricPromptData feeds values into the judge prompt template.
type rubricPromptData struct {
	Output string // Output is the candidate output being judged.
	Rubric string // Rubric is the grading criteria text.
}

// MatchesLLMRubric grades the candidate output against the rubric using a
// judge model. The judge is expected to emit its verdict as JSON matching the
// Result shape; a malformed verdict is a graded failure carrying the raw
// output in the reason. The returned result's token usage reflects this
// grading call only.
//
// A nil config is a configuration error: rubric grading cannot proceed
// without one.
func (g *Grader) MatchesLLMRubric(ctx context.Context, rubric, output string, cfg *Config) (*Result, error) {
	if cfg == nil {
		return nil, fmt.Errorf("cannot grade output without grading config")
	}
	promptText := defaultRubricPrompt
	if cfg.RubricPrompt != "" {
		promptText = cfg.RubricPrompt
	}
	tmpl, err := template.New("rubricPrompt").Parse(promptText)
	if err != nil {
		return nil, fmt.Errorf("parse rubric prompt template: %w", err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, rubricPromptData{Output: output, Rubric: rubric}); err != nil {
		return nil, fmt.Errorf("execute rubric prompt template: %w", err)
	}

	judge, err := g.resolveJudge(cfg)
	if err != nil {
		return nil, err
	}
	req := &model.Request{
		Messages:         []model.Message{model.NewUserMessage(buf.String())},
		GenerationConfig: g.generation,
	}
	req.Stream = false

	rsp, err := finalResponse(ctx, judge, req)
	if err != nil {
		// A flaky judge fails the assertion, not the whole run.
		return &Result{Pass: false, Reason: err.Error(), TokensUsed: &TokenUsage{}}, nil
	}
	tokens := usageFromModel(rsp.Usage)
	if rsp.Error != nil {
		return &Result{Pass: false, Reason: rsp.Error.Message, TokensUsed: tokens}, nil
	}
	var content string
	if len(rsp.Choices) > 0 {
		content = rsp.Choices[0].Message.Content
	}
	if content == "" {
		return &Result{Pass: false, Reason: "No output", TokensUsed: tokens}, nil
	}

	var verdict Result
	if err := json.Unmarshal([]byte(content), &verdict); err != nil {
		return &Result{
			Pass:       false,
			Reason:     fmt.Sprintf("Output is not valid JSON: %s", content),
			TokensUsed: tokens,
		}, nil
	}
	// The verdict accounts for this grading call, not whatever usage the
	// judge may claim to have observed.
	verdict.TokensUsed = tokens
	return &verdict, nil
}

// resolveJudge resolves the judge model for a grading config: an explicit
// handle wins, then a provider identifier, then the Grader's default judge.
func (g *Grader) resolveJudge(cfg *Config) (model.Model, error) {
	if cfg.Provider.Model != nil {
		return cfg.Provider.Model, nil
	}
	if cfg.Provider.ID != "" {
		resolver := g.resolver
		if resolver == nil {
			resolver = ResolveProvider
		}
		judge, err := resolver(cfg.Provider.ID)
		if err != nil {
			return nil, fmt.Errorf("resolve provider %q: %w", cfg.Provider.ID, err)
		}
		return judge, nil
	}
	if g.judge != nil {
		return g.judge, nil
	}
	return nil, fmt.Errorf("no judge model configured for rubric grading")
}

// finalResponse calls the judge model and drains the response channel until
// the final response arrives.
func finalResponse(ctx context.Context, judge model.Model, req *model.Request) (*model.Response, error) {
	responses, err := judge.GenerateContent(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("generate response: %w", err)
	}
	for response := range responses {
		if response.IsFinalResponse() {
			return response, nil
		}
	}
	return nil, fmt.Errorf("no final response")
}
