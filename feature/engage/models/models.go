package models

import "time"

// Rating is a user's 1-5 scoring of a set, overall and by difficulty.
// One rating per user and set; re-rating overwrites.
type Rating struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	UserID           uint      `gorm:"uniqueIndex:idx_rating_user_set;not null" json:"userId"`
	SetCode          string    `gorm:"size:50;uniqueIndex:idx_rating_user_set;not null" json:"setCode"`
	OverallRating    int       `gorm:"not null" json:"overallRating"`
	DifficultyRating int       `gorm:"not null" json:"difficultyRating"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// Report flags a question for review.
type Report struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"index;not null" json:"userId"`
	QuestionID    uint      `gorm:"index;not null" json:"questionId"`
	QualityRating int       `json:"qualityRating"`
	Message       string    `gorm:"type:text" json:"message"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Comment is a user comment on a set or on a single question.
type Comment struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	SetCode    string    `gorm:"size:50;index" json:"setCode"`
	QuestionID uint      `gorm:"index" json:"questionId,omitempty"`
	UserID     uint      `gorm:"index;not null" json:"userId"`
	Username   string    `gorm:"size:100" json:"username"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Feedback is free-form product feedback.
type Feedback struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"index" json:"userId"`
	Message      string    `gorm:"type:text;not null" json:"message"`
	Improvements string    `gorm:"type:text" json:"improvements"`
	CreatedAt    time.Time `json:"createdAt"`
}
