package config

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// StringList decodes either a single string or a list of strings.
//
// ".ncurc" files written for npm-check-updates use both forms for "dep":
//
//	dep: prod,dev
//	dep: [prod, dev]
type StringList []string

// UnmarshalJSON implements json.Unmarshaler.
func (l *StringList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*l = StringList{single}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("expected string or list of strings: %w", err)
	}
	*l = list
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *StringList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		*l = StringList{value.Value}
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := value.Decode(&list); err != nil {
			return err
		}
		*l = list
		return nil
	default:
		return fmt.Errorf("line %d: expected string or list of strings", value.Line)
	}
}

// UnmarshalTOML implements toml.Unmarshaler.
func (l *StringList) UnmarshalTOML(data interface{}) error {
	switch v := data.(type) {
	case string:
		*l = StringList{v}
		return nil
	case []interface{}:
		list := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return fmt.Errorf("expected string in list, got %T", item)
			}
			list = append(list, s)
		}
		*l = list
		return nil
	default:
		return fmt.Errorf("expected string or list of strings, got %T", data)
	}
}
