package declaration

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Document is the payload of one package's declaration file
type Document struct {
	Extensions []ClassExtension `json:"extensions" yaml:"extensions" validate:"dive"`
}

// ClassExtension declares methods one package adds to one or more classes
type ClassExtension struct {
	Namespace string    `json:"namespace" yaml:"namespace" validate:"namespace"`
	Class     ClassList `json:"class" yaml:"class" validate:"min=1,dive,required,identifier"`
	Uses      []string  `json:"uses,omitempty" yaml:"uses,omitempty"`
	Methods   []Method  `json:"methods,omitempty" yaml:"methods,omitempty" validate:"dive"`
}

// Method is a single extension method signature
type Method struct {
	Name    string     `json:"name" yaml:"name" validate:"required"`
	Doc     string     `json:"doc,omitempty" yaml:"doc,omitempty"`
	Returns string     `json:"returns,omitempty" yaml:"returns,omitempty"`
	Args    []Argument `json:"args,omitempty" yaml:"args,omitempty" validate:"dive"`
}

// Argument is one parameter of a method, kept in call-signature order
type Argument struct {
	Name         string `json:"name" yaml:"name" validate:"required"`
	Type         string `json:"type,omitempty" yaml:"type,omitempty"`
	DefaultValue string `json:"defaultValue,omitempty" yaml:"defaultValue,omitempty"`
}

// ClassList holds the class names a ClassExtension applies to.
// A declaration may give either a single name or a list of names;
// both decode to a ClassList.
type ClassList []string

// UnmarshalJSON accepts `"User"` as well as `["User", "Admin"]`.
func (c *ClassList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*c = ClassList{single}
		return nil
	}

	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("class must be a string or a list of strings: %w", err)
	}
	*c = ClassList(many)
	return nil
}

// UnmarshalYAML accepts a scalar or a sequence of scalars.
func (c *ClassList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*c = ClassList{node.Value}
		return nil
	case yaml.SequenceNode:
		var many []string
		if err := node.Decode(&many); err != nil {
			return fmt.Errorf("class must be a string or a list of strings: %w", err)
		}
		*c = ClassList(many)
		return nil
	default:
		return fmt.Errorf("line %d: class must be a string or a list of strings", node.Line)
	}
}
