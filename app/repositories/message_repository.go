package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/eburutu/mart/app/models"
)

// MessageRepository answers the message counts used by the dashboards.
type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Message{}).Count(&n).Error
	return n, err
}

// CountReceivedBy counts messages addressed to userID.
func (r *MessageRepository) CountReceivedBy(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Message{}).Where("receiver_id = ?", userID).Count(&n).Error
	return n, err
}

// ConversationCounts maps product id to its number of conversations.
func (r *MessageRepository) ConversationCounts(ctx context.Context, productIDs []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(productIDs))
	if len(productIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		ProductID string
		N         int64
	}
	err := r.db.WithContext(ctx).Model(&models.Conversation{}).
		Select("product_id, COUNT(*) AS n").
		Where("product_id IN ?", productIDs).
		Group("product_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.ProductID] = row.N
	}
	return counts, nil
}
