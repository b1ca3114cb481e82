package services

import (
	"bytes"
	"encoding/json"
	"lms/models"
	"strconv"
)

// ComputeProgress returns floor(100 * completed / total), 0 for an empty course
func ComputeProgress(completed, total int) int {
	if total <= 0 {
		return 0
	}
	if completed > total {
		completed = total
	}
	return completed * 100 / total
}

// Progress counts the completed ids that still belong to the course's current
// lectures, so lectures removed after completion no longer count
func Progress(completedIDs, lectureIDs []uint) int {
	current := make(map[uint]struct{}, len(lectureIDs))
	for _, id := range lectureIDs {
		current[id] = struct{}{}
	}
	done := make(map[uint]struct{}, len(completedIDs))
	for _, id := range completedIDs {
		if _, ok := current[id]; ok {
			done[id] = struct{}{}
		}
	}
	return ComputeProgress(len(done), len(current))
}

// QuestionID accepts a question id sent either as a JSON number or a string
type QuestionID string

func (q *QuestionID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*q = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*q = QuestionID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*q = QuestionID(n.String())
	return nil
}

// QuizAnswer is one submitted answer
type QuizAnswer struct {
	QuestionID     QuestionID `json:"questionId"`
	SelectedAnswer string     `json:"selectedAnswer"`
}

// ScoreQuiz awards one point per question whose first submitted answer matches
// the stored correct answer. Repeated answers to a question are ignored, as are
// answers for unknown question ids, so the score never exceeds len(questions).
func ScoreQuiz(questions []models.Question, answers []QuizAnswer) int {
	byID := make(map[string]*models.Question, len(questions))
	for i := range questions {
		byID[strconv.FormatUint(uint64(questions[i].ID), 10)] = &questions[i]
	}

	answered := make(map[string]bool, len(answers))
	score := 0
	for _, a := range answers {
		id := string(a.QuestionID)
		q, ok := byID[id]
		if !ok || answered[id] {
			continue
		}
		answered[id] = true
		if a.SelectedAnswer == q.CorrectAnswer {
			score++
		}
	}
	return score
}

// Percentage returns floor(100 * score / total)
func Percentage(score, total int) int {
	return ComputeProgress(score, total)
}
