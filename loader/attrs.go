package loader

import (
	"reflect"

	stgpsr "github.com/yuin/stagparser"

	erf "github.com/sixy6e/go-erf"
)

// requireAttrs walks the `erf:"attr=...,required"` struct tags on elem
// and returns a ParseError for the first field tagged required whose Go
// value is still its zero value after encoding/xml.Unmarshal.
// encoding/xml silently leaves missing attributes at their zero value
// instead of erroring, so this is the loader's one enforcement point
// for missing required attributes.
func requireAttrs(elem any, file, element string) error {
	defs, err := stgpsr.ParseStruct(elem, "erf")
	if err != nil {
		return nil
	}

	values := reflect.ValueOf(elem)
	if values.Kind() == reflect.Ptr {
		values = values.Elem()
	}
	types := values.Type()

	for i := 0; i < types.NumField(); i++ {
		var (
			attrName string
			required bool
		)
		for _, def := range defs[types.Field(i).Name] {
			switch def.Name() {
			case "required":
				required = true
			case "attr":
				if v, ok := def.Attribute("attr"); ok {
					attrName, _ = v.(string)
				}
			}
		}
		if required && values.Field(i).IsZero() {
			return &erf.ParseError{File: file, Element: element, Reason: "missing required attribute " + attrName}
		}
	}
	return nil
}
