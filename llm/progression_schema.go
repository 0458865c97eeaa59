package llm

// ProgressionSchemaName names the structured output of the interpreter
const ProgressionSchemaName = "AccompanimentProgression"

// GetProgressionSchema returns the JSON schema for a chord progression answer.
// Field names match the HTTP request body of /v1/progression.
func GetProgressionSchema() *OutputSchema {
	chord := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"root": map[string]any{
				"type":        "string",
				"description": "Root note name, e.g. C, F#, Bb",
			},
			"mode": map[string]any{
				"type": "string",
				"enum": []string{"major", "minor"},
			},
			"seventh": map[string]any{
				"type": "string",
				"enum": []string{"diatonic", "minor", "major", "augmented"},
			},
			"includeSeventh": map[string]any{
				"type": "boolean",
			},
			"durationBeats": map[string]any{
				"type":        "number",
				"description": "Length of each arpeggio note in beats",
				"minimum":     0,
			},
		},
		"required":             []string{"root", "mode", "seventh", "includeSeventh", "durationBeats"},
		"additionalProperties": false,
	}

	return &OutputSchema{
		Name:        ProgressionSchemaName,
		Description: "Arpeggiated chord progression over a metronome",
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"chords": map[string]any{
					"type":  "array",
					"items": chord,
				},
				"timeSignature": map[string]any{
					"type":        "string",
					"description": "beats/unit, e.g. 4/4 or 6/8",
				},
				"tempoBpm": map[string]any{
					"type": "number",
				},
				"explanation": map[string]any{
					"type": "string",
				},
			},
			"required":             []string{"chords", "timeSignature", "tempoBpm", "explanation"},
			"additionalProperties": false,
		},
	}
}
