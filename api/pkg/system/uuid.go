package system

import (
	"fmt"

	"github.com/google/uuid"
)

const (
	EscalationPrefix = "esc_"
)

func GenerateUUID() string {
	return uuid.New().String()
}

func GenerateEscalationID() string {
	return fmt.Sprintf("%s%s", EscalationPrefix, uuid.New().String())
}
