package sqlstore

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"

	"github.com/zhouzirui/fredke/backend/internal/model/chat"
)

type messageModel struct {
	ID            int64          `gorm:"primaryKey;autoIncrement;column:id"`
	SessionID     string         `gorm:"index:idx_messages_session_created,priority:1;size:255;not null;column:session_id"`
	Content       string         `gorm:"type:text;not null;column:content"`
	Role          string         `gorm:"size:20;not null;column:role"`
	GeneratedCode datatypes.JSON `gorm:"column:generated_code"`
	CreatedAt     time.Time      `gorm:"index:idx_messages_session_created,priority:2;not null;column:created_at"`
}

func (messageModel) TableName() string { return "messages" }

func toMessageModel(msg chat.NewMessage, createdAt time.Time) (*messageModel, error) {
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	m := &messageModel{
		SessionID: msg.SessionID,
		Content:   msg.Content,
		Role:      string(msg.Role),
		CreatedAt: createdAt,
	}
	if msg.GeneratedCode != nil {
		raw, err := json.Marshal(msg.GeneratedCode)
		if err != nil {
			return nil, fmt.Errorf("marshal generated code: %w", err)
		}
		m.GeneratedCode = datatypes.JSON(raw)
	}
	return m, nil
}

func (m *messageModel) toDomain() (chat.Message, error) {
	msg := chat.Message{
		ID:        m.ID,
		Content:   m.Content,
		Role:      chat.Role(m.Role),
		SessionID: m.SessionID,
		CreatedAt: m.CreatedAt.UTC(),
	}
	if len(m.GeneratedCode) > 0 && string(m.GeneratedCode) != "null" {
		var site chat.GeneratedWebsite
		if err := json.Unmarshal(m.GeneratedCode, &site); err != nil {
			return chat.Message{}, fmt.Errorf("unmarshal generated code of message %d: %w", m.ID, err)
		}
		msg.GeneratedCode = &site
	}
	return msg, nil
}
