package report

import "github.com/abhisek/aquasafe/internal/llm"

// Schema is the JSON schema the model must answer with.
var Schema = &llm.Schema{
	Name:        "water-report",
	Description: "Structured expert report on a water sample with treatment and reuse advice",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"classification": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"grade": map[string]any{
						"type":        "string",
						"description": "Overall quality grade, e.g. potable, marginal, industrial-grade, contaminated",
					},
					"summary": map[string]any{
						"type":        "string",
						"description": "One or two sentences describing the overall quality",
					},
				},
				"required":             []any{"grade", "summary"},
				"additionalProperties": false,
			},
			"key_issues": map[string]any{
				"type":        "array",
				"description": "Parameters that are out of range or borderline. Empty when none.",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"parameter": map[string]any{"type": "string"},
						"problem":   map[string]any{"type": "string", "description": "What is wrong with the value"},
						"impact":    map[string]any{"type": "string", "description": "Why it matters"},
					},
					"required":             []any{"parameter", "problem", "impact"},
					"additionalProperties": false,
				},
			},
			"treatments": map[string]any{
				"type":        "array",
				"description": "Suitable treatment or filtration methods, each with the reason it is recommended",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"method": map[string]any{"type": "string"},
						"reason": map[string]any{"type": "string"},
					},
					"required":             []any{"method", "reason"},
					"additionalProperties": false,
				},
			},
			"post_treatment_uses": map[string]any{
				"type":        "array",
				"description": "Uses after appropriate treatment, naming specific crops, plants or fish where relevant",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"category": map[string]any{"type": "string"},
						"examples": map[string]any{
							"type":  "array",
							"items": map[string]any{"type": "string"},
						},
					},
					"required":             []any{"category", "examples"},
					"additionalProperties": false,
				},
			},
			"health_environment": map[string]any{
				"type":        "array",
				"description": "Remaining risks or precautions",
				"items":       map[string]any{"type": "string"},
			},
			"conclusion": map[string]any{
				"type":        "array",
				"description": "Two concise lines on treatment feasibility and reuse potential",
				"items":       map[string]any{"type": "string"},
			},
		},
		"required": []any{
			"classification", "key_issues", "treatments",
			"post_treatment_uses", "health_environment", "conclusion",
		},
		"additionalProperties": false,
	},
}
