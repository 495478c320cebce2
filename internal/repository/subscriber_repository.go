package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"study-planner/internal/model"
)

// SubscriberRepository stores the chats that receive the daily digest.
type SubscriberRepository struct {
	db *gorm.DB
}

func NewSubscriberRepository(db *gorm.DB) *SubscriberRepository {
	return &SubscriberRepository{db: db}
}

// UpsertFromTelegram finds or creates a subscriber by chat ID and refreshes its profile info.
func (r *SubscriberRepository) UpsertFromTelegram(ctx context.Context, chatID int64, firstName, username string) (*model.Subscriber, error) {
	var sub model.Subscriber
	db := r.db.WithContext(ctx)
	err := db.Where("chat_id = ?", chatID).First(&sub).Error
	switch {
	case err == nil:
		updates := map[string]interface{}{
			"first_name": firstName,
			"username":   username,
		}
		if err := db.Model(&sub).Updates(updates).Error; err != nil {
			return nil, wrapErr("update subscriber", err)
		}
		return &sub, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		sub = model.Subscriber{ChatID: chatID, FirstName: firstName, Username: username}
		if err := db.Create(&sub).Error; err != nil {
			return nil, wrapErr("create subscriber", err)
		}
		return &sub, nil
	default:
		return nil, wrapErr("find subscriber", err)
	}
}

func (r *SubscriberRepository) Delete(ctx context.Context, chatID int64) error {
	if err := r.db.WithContext(ctx).Where("chat_id = ?", chatID).Delete(&model.Subscriber{}).Error; err != nil {
		return wrapErr("delete subscriber", err)
	}
	return nil
}

func (r *SubscriberRepository) ListAll(ctx context.Context) ([]model.Subscriber, error) {
	var subs []model.Subscriber
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&subs).Error; err != nil {
		return nil, wrapErr("list subscribers", err)
	}
	return subs, nil
}
