package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Zh-Andrew/foodgram-project-react/internal/apperr"
	"github.com/Zh-Andrew/foodgram-project-react/internal/models"
	"github.com/Zh-Andrew/foodgram-project-react/internal/pagination"
)

// SubscriptionService manages the follower -> author edges of the social
// graph. Like the membership sets, the unique index is the real duplicate
// guard; the checks here produce the messages.
type SubscriptionService struct {
	db *gorm.DB
}

func NewSubscriptionService(db *gorm.DB) *SubscriptionService {
	return &SubscriptionService{db: db}
}

// Subscribe creates the edge and returns the author.
func (s *SubscriptionService) Subscribe(ctx context.Context, userID, authorID uint) (*models.User, error) {
	if userID == authorID {
		return nil, apperr.Validation("cannot subscribe to yourself")
	}

	author, err := s.author(ctx, authorID)
	if err != nil {
		return nil, err
	}

	var existing models.Subscription
	err = s.db.WithContext(ctx).Where("user_id = ? AND author_id = ?", userID, authorID).First(&existing).Error
	if err == nil {
		return nil, apperr.AlreadyExists("already subscribed to this author")
	}

	edge := models.Subscription{UserID: userID, AuthorID: authorID}
	if err := s.db.WithContext(ctx).Create(&edge).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.AlreadyExists("already subscribed to this author")
		}
		return nil, err
	}
	return author, nil
}

// Unsubscribe deletes the edge; a missing edge is a not-found error.
func (s *SubscriptionService) Unsubscribe(ctx context.Context, userID, authorID uint) error {
	if _, err := s.author(ctx, authorID); err != nil {
		return err
	}

	result := s.db.WithContext(ctx).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&models.Subscription{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("subscription not found")
	}
	return nil
}

// Authors returns a page of the authors the user follows, in subscription
// order, plus the total count.
func (s *SubscriptionService) Authors(ctx context.Context, userID uint, page pagination.Params) ([]models.User, int64, error) {
	base := s.db.WithContext(ctx).Model(&models.Subscription{}).Where("subscriptions.user_id = ?", userID)

	var count int64
	if err := base.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var authors []models.User
	err := s.db.WithContext(ctx).Model(&models.User{}).
		Joins("JOIN subscriptions ON subscriptions.author_id = users.id").
		Where("subscriptions.user_id = ?", userID).
		Order("subscriptions.id").
		Scopes(page.Scope()).
		Find(&authors).Error
	if err != nil {
		return nil, 0, err
	}
	return authors, count, nil
}

// IsSubscribed reports whether follower follows author. Always false for an
// anonymous follower.
func (s *SubscriptionService) IsSubscribed(ctx context.Context, followerID *uint, authorID uint) (bool, error) {
	if followerID == nil {
		return false, nil
	}
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Subscription{}).
		Where("user_id = ? AND author_id = ?", *followerID, authorID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// SubscribedAuthorIDs returns the set of author ids the follower follows
// among the given candidates. Empty for anonymous followers.
func (s *SubscriptionService) SubscribedAuthorIDs(ctx context.Context, followerID *uint, authorIDs []uint) (map[uint]bool, error) {
	subscribed := map[uint]bool{}
	if followerID == nil || len(authorIDs) == 0 {
		return subscribed, nil
	}

	var edges []models.Subscription
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND author_id IN ?", *followerID, authorIDs).
		Find(&edges).Error
	if err != nil {
		return nil, err
	}
	for _, edge := range edges {
		subscribed[edge.AuthorID] = true
	}
	return subscribed, nil
}

func (s *SubscriptionService) author(ctx context.Context, authorID uint) (*models.User, error) {
	var author models.User
	if err := s.db.WithContext(ctx).First(&author, authorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, err
	}
	return &author, nil
}
