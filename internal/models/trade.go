package models

import (
	"time"

	"github.com/google/uuid"
)

// Статусы предложения обмена
const (
	TradeStatusPending  = "pending"
	TradeStatusAccepted = "accepted"
	TradeStatusRejected = "rejected"
)

// Trade представляет предложение об обмене работами
type Trade struct {
	ID            uuid.UUID `json:"id"`
	SenderID      uuid.UUID `json:"sender_id"`
	ReceiverID    uuid.UUID `json:"receiver_id"`
	SenderArtID   uuid.UUID `json:"sender_art_id"`
	ReceiverArtID uuid.UUID `json:"receiver_art_id"`
	Status        string    `json:"status"` // pending, accepted, rejected
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// Дополнительные поля для API
	SenderArt   *Artwork    `json:"sender_art,omitempty"`
	ReceiverArt *Artwork    `json:"receiver_art,omitempty"`
	Sender      *PublicUser `json:"sender,omitempty"`
	Receiver    *PublicUser `json:"receiver,omitempty"`
}

// IsPending сообщает, находится ли предложение в ожидании
func (t *Trade) IsPending() bool {
	return t.Status == TradeStatusPending
}

// IsTerminalStatus проверяет, является ли статус конечным
func IsTerminalStatus(status string) bool {
	return status == TradeStatusAccepted || status == TradeStatusRejected
}
