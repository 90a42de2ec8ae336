package model

import (
	"encoding/json"

	"gorm.io/gorm"
)

// Tunnel is a persisted tunnel definition. Spec holds the engine-specific
// configuration record produced by the spec compiler, stored opaquely; the
// panel never interprets it outside the matching adapter.
type Tunnel struct {
	gorm.Model
	PublicID     string          `gorm:"uniqueIndex" json:"id"`
	Name         string          `gorm:"unique" json:"name"`
	Engine       string          `json:"engine"`
	Transport    string          `json:"transport"`
	Spec         json.RawMessage `gorm:"type:text" json:"spec"`
	Status       string          `json:"status" gorm:"default:'pending'"`
	ErrorMessage string          `json:"error_message,omitempty"`
	Revision     int             `json:"revision" gorm:"default:1"`
}
