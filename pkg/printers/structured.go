package printers

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// JSON prints v as indented JSON.
func (pp *PrettyPrint) JSON(v interface{}) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(pp.out(), string(b))
	return nil
}

// YAML prints v as a YAML document.
func (pp *PrettyPrint) YAML(v interface{}) error {
	b, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprint(pp.out(), string(b))
	return nil
}

// Emit prints v in format, or calls pretty when format is empty.
func (pp *PrettyPrint) Emit(format string, v interface{}, pretty func()) error {
	switch format {
	case "":
		pretty()
		return nil
	case "json":
		return pp.JSON(v)
	case "yaml":
		return pp.YAML(v)
	}
	return fmt.Errorf("unknown output format %q, use json or yaml", format)
}
