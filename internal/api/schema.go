package api

// Schemas for the payloads that feed session logic. Listing endpoints
// are tolerated as-is; a malformed exam or question must not reach the
// answer flow.

var questionDefinition = map[string]any{
	"type":     "object",
	"required": []any{"_id", "text", "type"},
	"properties": map[string]any{
		"_id":  map[string]any{"type": "string", "minLength": 1},
		"text": map[string]any{"type": "string"},
		"type": map[string]any{
			"type": "string",
			"enum": []any{"multiple-choice", "true-false", "short-answer"},
		},
		"options": map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string"},
		},
		"points": map[string]any{"type": "number"},
	},
}

var questionSchema = &responseSchema{
	Name:       "question",
	Definition: questionDefinition,
}

// examQuestionList tolerates both reference shapes the server sends.
var examQuestionList = map[string]any{
	"type": "array",
	"items": map[string]any{
		"anyOf": []any{
			map[string]any{"type": "string"},
			map[string]any{"type": "object"},
		},
	},
}

var examDefinition = map[string]any{
	"type":     "object",
	"required": []any{"_id", "title", "duration"},
	"properties": map[string]any{
		"_id":       map[string]any{"type": "string", "minLength": 1},
		"title":     map[string]any{"type": "string"},
		"duration":  map[string]any{"type": "number", "minimum": 0},
		"questions": examQuestionList,
	},
}

var examSchema = &responseSchema{
	Name:       "exam",
	Definition: examDefinition,
}

var startExamSchema = &responseSchema{
	Name: "start-exam",
	Definition: map[string]any{
		"type":     "object",
		"required": []any{"exam"},
		"properties": map[string]any{
			"exam":      examDefinition,
			"startTime": map[string]any{"type": "string"},
			"endTime":   map[string]any{"type": "string"},
		},
	},
}

var resultSchema = &responseSchema{
	Name: "result",
	Definition: map[string]any{
		"type":     "object",
		"required": []any{"score", "totalPoints"},
		"properties": map[string]any{
			"score":       map[string]any{"type": "number"},
			"totalPoints": map[string]any{"type": "number"},
		},
	},
}
