package models

// Conversation is a buyer/seller thread, optionally about one product.
// Threads are only read for counts here.
type Conversation struct {
	Base
	ProductID *string   `gorm:"type:varchar(36);index" json:"productId"`
	Subject   *string   `gorm:"size:255" json:"subject"`
	IsActive  bool      `gorm:"not null" json:"isActive"`
	Messages  []Message `gorm:"foreignKey:ConversationID;constraint:OnDelete:CASCADE" json:"messages,omitempty"`
}

type Message struct {
	Base
	ConversationID string `gorm:"type:varchar(36);not null;index" json:"conversationId"`
	SenderID       string `gorm:"type:varchar(36);not null;index" json:"senderId"`
	ReceiverID     string `gorm:"type:varchar(36);not null;index" json:"receiverId"`
	Content        string `gorm:"type:text;not null" json:"content"`
	IsRead         bool   `gorm:"not null" json:"isRead"`
}
