package domain

import (
	"time"

	"github.com/google/uuid"
)

type Hotel struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	Name        string
	Description *string
	Address     string
	CreatedAt   time.Time
}
