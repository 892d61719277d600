package model

import (
	"gorm.io/datatypes"
)

// ModuleRegistryEntry is the seed-time snapshot of the platform module
// catalog. The in-process catalog in the registry package is authoritative;
// these rows exist so the catalog is queryable alongside the rest of the
// schema.
type ModuleRegistryEntry struct {
	ID             string         `gorm:"primaryKey;type:varchar(50)" json:"id"`
	Name           string         `gorm:"not null" json:"name"`
	Description    string         `gorm:"type:text" json:"description"`
	Icon           string         `gorm:"type:varchar(50)" json:"icon"`
	DefaultEnabled bool           `gorm:"default:false" json:"default_enabled"`
	ConfigSchema   datatypes.JSON `gorm:"type:jsonb;default:'{}'" json:"config_schema"`
	SortOrder      int            `gorm:"default:0" json:"sort_order"`
}

// TableName keeps the table name aligned with the platform convention
func (ModuleRegistryEntry) TableName() string {
	return "module_registry"
}
