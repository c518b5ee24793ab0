package models

import "time"

// QuizAttempt is one run through a set by a user. An attempt stays open
// until the client completes it; answers accumulate on the open attempt.
type QuizAttempt struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	UserID         uint            `gorm:"index;not null" json:"userId"`
	SetCode        string          `gorm:"size:50;index;not null" json:"setCode"`
	TotalQuestions int             `json:"totalQuestions"`
	CorrectAnswers int             `json:"correctAnswers"`
	Completed      bool            `gorm:"default:false" json:"completed"`
	CompletedAt    *time.Time      `json:"completedAt,omitempty"`
	Answers        []AttemptAnswer `gorm:"foreignKey:AttemptID" json:"answers,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// AttemptAnswer records the latest answer given for one question within an
// attempt. Re-answering the same question overwrites the previous record.
type AttemptAnswer struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	AttemptID  uint      `gorm:"index;not null" json:"attemptId"`
	QuestionID uint      `gorm:"index;not null" json:"questionId"`
	UserAnswer string    `gorm:"type:text" json:"userAnswer"`
	IsCorrect  bool      `json:"isCorrect"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Progress tracks how often a user has practiced a set. One row per
// user and set.
type Progress struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UserID         uint      `gorm:"uniqueIndex:idx_progress_user_set;not null" json:"userId"`
	SetCode        string    `gorm:"size:50;uniqueIndex:idx_progress_user_set;not null" json:"setCode"`
	TimesPracticed int       `gorm:"default:0" json:"timesPracticed"`
	LastPracticed  time.Time `json:"lastPracticed"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}
