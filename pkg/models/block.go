package models

// AttributeDefinition declares a block attribute. Instances supply values
// for it through BlockInstanceElement.AttributeValues, keyed by Tag.
type AttributeDefinition struct {
	Tag          string `json:"tag"`
	Prompt       string `json:"prompt,omitempty"`
	DefaultValue string `json:"defaultValue,omitempty"`
	IsConstant   bool   `json:"isConstant"`
}

// DucBlock is a reusable template. Elements is owned by the block and never
// shares element values with the document element list.
type DucBlock struct {
	ID                   string                `json:"id"`
	Label                string                `json:"label"`
	Description          string                `json:"description,omitempty"`
	Version              int32                 `json:"version"`
	Elements             ElementList           `json:"elements"`
	AttributeDefinitions []AttributeDefinition `json:"attributeDefinitions,omitempty"`
}

// Definition looks up an attribute definition by tag.
func (b *DucBlock) Definition(tag string) (AttributeDefinition, bool) {
	for _, def := range b.AttributeDefinitions {
		if def.Tag == tag {
			return def, true
		}
	}
	return AttributeDefinition{}, false
}
