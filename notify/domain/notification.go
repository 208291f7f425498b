package domain

import (
	"time"

	"github.com/google/uuid"
)

// Type enumera os tipos de notificação de produto que o núcleo conhece.
type Type string

const (
	TypeNewMessage      Type = "new_message"
	TypeListingApproved Type = "listing_approved"
	TypeListingRejected Type = "listing_rejected"
	TypeListingExpired  Type = "listing_expired"
	TypeSystem          Type = "system"
)

// Record é a notificação persistida de um usuário.
//
// Criada pelo fan-out; a única mutação permitida é marcar como lida (pelo
// próprio destinatário). Retenção/remoção é responsabilidade externa.
type Record struct {
	ID        uuid.UUID
	UserID    int64
	Type      Type
	Title     string
	Body      string
	Link      string
	Read      bool
	CreatedAt time.Time
}
