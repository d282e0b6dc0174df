package store

import (
	"encoding/json"
	"fmt"

	"github.com/careloop/careloop/internal/record"
)

// questionnaireData is the persisted JSON shape of a questionnaire. The
// user id and timestamp live in their own columns; only the answers go in
// data_json.
type questionnaireData struct {
	FamilyHistory    string `json:"family_history"`
	ExerciseRoutines string `json:"exercise_routines"`
	DietaryHabits    string `json:"dietary_habits"`
	Medications      string `json:"medications"`
}

func marshalQuestionnaire(q *record.Questionnaire) (string, error) {
	data, err := json.Marshal(questionnaireData{
		FamilyHistory:    q.FamilyHistory,
		ExerciseRoutines: q.ExerciseRoutines,
		DietaryHabits:    q.DietaryHabits,
		Medications:      q.Medications,
	})
	if err != nil {
		return "", fmt.Errorf("marshal questionnaire: %w", err)
	}
	return string(data), nil
}

func unmarshalQuestionnaire(dataJSON string, q *record.Questionnaire) error {
	var data questionnaireData
	if err := json.Unmarshal([]byte(dataJSON), &data); err != nil {
		return fmt.Errorf("unmarshal questionnaire: %w", err)
	}
	q.FamilyHistory = data.FamilyHistory
	q.ExerciseRoutines = data.ExerciseRoutines
	q.DietaryHabits = data.DietaryHabits
	q.Medications = data.Medications
	return nil
}
