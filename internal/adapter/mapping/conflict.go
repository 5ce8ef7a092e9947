package mapping

import "github.com/eslsoft/lingvo/internal/entity"

// Conflict is the 409 body returned when a submitted object already exists.
// The positional fields are present for conflicts inside a word's lists only.
type Conflict struct {
	ExceptionCode       string `json:"exception_code"`
	Detail              string `json:"detail"`
	ExistingObject      any    `json:"existing_object"`
	NewObject           any    `json:"new_object"`
	ConflictNestedField string `json:"conflict_nested_field,omitempty"`
	ConflictObjectIndex *int   `json:"conflict_object_index,omitempty"`
	ConflictField       string `json:"conflict_field,omitempty"`
}

// ConflictBody builds the response for c. The existing object is serialized
// like a normal read so clients can render it and resubmit with its id.
func ConflictBody(c *entity.ConflictError) Conflict {
	body := Conflict{
		ExceptionCode:  c.Code(),
		Detail:         c.Detail,
		ExistingObject: ToObject(c.Existing),
		NewObject:      c.New,
	}
	if c.Nested() {
		index := c.Index
		body.ConflictNestedField = c.NestedField
		body.ConflictObjectIndex = &index
		body.ConflictField = c.Field
	}
	return body
}
