package service

import (
	"testing"

	"worksheet_arc_backend/internal/model"
	"worksheet_arc_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleResponse = `{
	"title": "Ocean Currents",
	"meta": { "level": "B1", "type": "comprehension", "duration": "20m" },
	"visual_theme": { "primary_color": "#0ea5e9", "mascot_prompt": "a friendly octopus" },
	"student_worksheet": {
		"instructions": "Answer the questions below.",
		"questions": [
			{ "question_text": "What drives ocean currents?" },
			{ "question_text": "Name one major current.", "hint": "It warms Europe." }
		],
		"glossary": [{ "word": "current", "definition": "a continuous flow of water" }]
	}
}`

func TestValidateActivity(t *testing.T) {
	activity, err := ValidateActivity(sampleResponse)
	require.NoError(t, err)

	assert.Equal(t, "Ocean Currents", activity.Title)
	assert.Equal(t, model.LevelB1, activity.Meta.Level)
	assert.NotZero(t, activity.ID)

	require.Len(t, activity.StudentWorksheet.Questions, 2)
	for _, q := range activity.StudentWorksheet.Questions {
		assert.NotEmpty(t, q.UID)
	}
	assert.NotEqual(t,
		activity.StudentWorksheet.Questions[0].UID,
		activity.StudentWorksheet.Questions[1].UID)
}

func TestValidateActivityStripsCodeFences(t *testing.T) {
	wrapped := "```json\n" + sampleResponse + "\n```"
	activity, err := ValidateActivity(wrapped)
	require.NoError(t, err)
	assert.Equal(t, "Ocean Currents", activity.Title)
}

func TestValidateActivityMalformed(t *testing.T) {
	_, err := ValidateActivity("not json")
	assert.ErrorIs(t, err, util.ErrMalformedResponse)
}

func TestValidateActivityMissingWorksheet(t *testing.T) {
	_, err := ValidateActivity(`{"title":"x"}`)
	assert.ErrorIs(t, err, util.ErrInvalidSchema)
}

func TestValidateActivityEmptyQuestionsAccepted(t *testing.T) {
	activity, err := ValidateActivity(`{"student_worksheet":{"instructions":"","questions":[]}}`)
	require.NoError(t, err)
	assert.Empty(t, activity.StudentWorksheet.Questions)
}

// 已有的 uid 永不改写，重复规范化是幂等的
func TestNormalizeActivityIdempotentUIDs(t *testing.T) {
	activity, err := ValidateActivity(sampleResponse)
	require.NoError(t, err)

	before := make([]string, 0, 2)
	for _, q := range activity.StudentWorksheet.Questions {
		before = append(before, q.UID)
	}
	id := activity.ID

	NormalizeActivity(activity)

	assert.Equal(t, id, activity.ID)
	for i, q := range activity.StudentWorksheet.Questions {
		assert.Equal(t, before[i], q.UID)
	}
}

func TestEnsureQuestionUIDsBackfillsOnlyMissing(t *testing.T) {
	questions := []model.Question{
		{UID: "keep-me", QuestionText: "a"},
		{QuestionText: "b"},
	}
	EnsureQuestionUIDs(questions)

	assert.Equal(t, "keep-me", questions[0].UID)
	assert.NotEmpty(t, questions[1].UID)
	assert.Len(t, questions[1].UID, questionUIDLength)
}
