package models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type PropertyType string

const (
	PropertySelect      PropertyType = "select"
	PropertyMultiSelect PropertyType = "multi_select"
	PropertyDate        PropertyType = "date"
	PropertyPerson      PropertyType = "person"
)

func (t PropertyType) Valid() bool {
	switch t {
	case PropertySelect, PropertyMultiSelect, PropertyDate, PropertyPerson:
		return true
	}
	return false
}

// PropertyOption is one allowed value of a select or multi_select definition.
type PropertyOption struct {
	ID    string `json:"id" validate:"required"`
	Label string `json:"label" validate:"required"`
	Color string `json:"color,omitempty"`
}

// PropertyDefinition is a workspace-scoped, named and typed property.
type PropertyDefinition struct {
	Base
	WorkspaceID uuid.UUID                           `gorm:"type:uuid;not null;uniqueIndex:idx_property_definition_name" json:"workspace_id"`
	Name        string                              `gorm:"not null;uniqueIndex:idx_property_definition_name" json:"name"`
	Type        PropertyType                        `gorm:"type:varchar(16);not null" json:"type"`
	Options     datatypes.JSONSlice[PropertyOption] `json:"options"`
}

// HasOption reports whether id names one of the definition's options.
func (d PropertyDefinition) HasOption(id string) bool {
	for _, o := range d.Options {
		if o.ID == id {
			return true
		}
	}
	return false
}

// EntityPropertyValue holds the value of one dynamic property on one entity.
type EntityPropertyValue struct {
	Base
	WorkspaceID          uuid.UUID      `gorm:"type:uuid;index;not null" json:"workspace_id"`
	EntityType           EntityType     `gorm:"type:varchar(24);not null;uniqueIndex:idx_entity_property_value" json:"entity_type"`
	EntityID             uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_entity_property_value" json:"entity_id"`
	PropertyDefinitionID uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_entity_property_value;index" json:"property_definition_id"`
	Value                datatypes.JSON `gorm:"not null" json:"value"`
}
