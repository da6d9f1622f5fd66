package repository

import (
	"context"

	"gorm.io/gorm"

	"eventhub/internal/model"
)

type FeedbackRepository interface {
	Create(ctx context.Context, feedback *model.Feedback) error
	ListByEvent(ctx context.Context, eventID uint) ([]model.Feedback, error)
}

type feedbackRepository struct {
	db *gorm.DB
}

func NewFeedbackRepository(db *gorm.DB) FeedbackRepository {
	return &feedbackRepository{db: db}
}

func (r *feedbackRepository) Create(ctx context.Context, feedback *model.Feedback) error {
	return r.db.WithContext(ctx).Create(feedback).Error
}

func (r *feedbackRepository) ListByEvent(ctx context.Context, eventID uint) ([]model.Feedback, error) {
	var feedback []model.Feedback
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("created_at DESC").
		Find(&feedback).Error
	return feedback, err
}
