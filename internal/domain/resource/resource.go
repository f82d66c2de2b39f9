package resource

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/khoahotran/portfolio-api/pkg/apperror"
)

type FieldType int

const (
	TypeString FieldType = iota
	TypeBool
	TypeStringList
	TypeDate
	TypeObject
)

// Field describes one attribute of a resource kind: its wire name, expected
// JSON type, and the normalization applied before storage.
type Field struct {
	Name           string
	Type           FieldType
	Required       bool
	Lowercase      bool
	Pattern        *regexp.Regexp
	PatternMessage string
	Default        any
	Sub            []Field
}

// Kind is the per-resource configuration table the generic handler, use case
// and repository are parameterized over.
type Kind struct {
	Name       string
	Path       string
	Collection string
	Fields     []Field
	SortKey    string
	Singleton  bool
	Deletable  bool
}

// LowerName is the resource name as it appears in client-facing messages.
func (k Kind) LowerName() string {
	return strings.ToLower(k.Name)
}

func (k Kind) requiredNames() []string {
	var names []string
	for _, f := range k.Fields {
		if f.Required {
			names = append(names, f.Name)
		}
	}
	return names
}

func (k Kind) requiredStringNames() []string {
	var names []string
	for _, f := range k.Fields {
		if f.Required && f.Type == TypeString {
			names = append(names, f.Name)
		}
	}
	return names
}

// joinAnd renders a field list the way the API has always phrased it:
// "title", "title and date", "title, description, and type".
func joinAnd(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	case 2:
		return names[0] + " and " + names[1]
	}
	return strings.Join(names[:len(names)-1], ", ") + ", and " + names[len(names)-1]
}

func (k Kind) missingFieldsMessage() string {
	return fmt.Sprintf("Missing required fields: %s are required", joinAnd(k.requiredNames()))
}

func (k Kind) requiredTypesMessage() string {
	return fmt.Sprintf("Invalid data types: %s must be strings", joinAnd(k.requiredStringNames()))
}

func typeMismatchMessage(name string, t FieldType) string {
	switch t {
	case TypeBool:
		return fmt.Sprintf("Invalid data type: %s must be a boolean", name)
	case TypeStringList:
		return fmt.Sprintf("Invalid data type: %s must be an array", name)
	case TypeDate:
		return fmt.Sprintf("Invalid data type: %s must be a valid date", name)
	case TypeObject:
		return fmt.Sprintf("Invalid data type: %s must be an object", name)
	}
	return fmt.Sprintf("Invalid data type: %s must be a string", name)
}

var dateLayouts = []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04:05"}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// ValidateCreate checks a full request body against the kind's field table and
// returns the sanitized document to store: strings trimmed, email lowered,
// dates parsed, defaults applied. Missing required fields and required-string
// type mismatches are reported with the kind-level combined messages; every
// other mismatch names the single offending field. No storage is touched here.
func (k Kind) ValidateCreate(body map[string]any) (bson.M, error) {
	for _, f := range k.Fields {
		if !f.Required {
			continue
		}
		v, ok := body[f.Name]
		if !ok || v == nil {
			return nil, apperror.NewInvalidInput(k.missingFieldsMessage())
		}
		if s, isStr := v.(string); isStr && strings.TrimSpace(s) == "" {
			return nil, apperror.NewInvalidInput(k.missingFieldsMessage())
		}
	}

	requiredStrings := k.requiredStringNames()
	for _, f := range k.Fields {
		if !f.Required || f.Type != TypeString {
			continue
		}
		if _, isStr := body[f.Name].(string); !isStr {
			if len(requiredStrings) > 1 {
				return nil, apperror.NewInvalidInput(k.requiredTypesMessage())
			}
			return nil, apperror.NewInvalidInput(typeMismatchMessage(f.Name, TypeString))
		}
	}

	doc := bson.M{}
	for _, f := range k.Fields {
		v, ok := body[f.Name]
		if !ok || v == nil {
			if f.Default != nil {
				doc[f.Name] = f.Default
			}
			continue
		}
		clean, err := sanitizeField(f, v)
		if err != nil {
			return nil, err
		}
		doc[f.Name] = clean
	}
	return doc, nil
}

// ValidateUpdate checks a partial body: only fields present are verified, and
// every mismatch is reported per-field. A required field supplied as blank is
// a validation failure with details, not a type error.
func (k Kind) ValidateUpdate(body map[string]any) (bson.M, error) {
	doc := bson.M{}
	for _, f := range k.Fields {
		v, ok := body[f.Name]
		if !ok || v == nil {
			continue
		}
		clean, err := sanitizeField(f, v)
		if err != nil {
			return nil, err
		}
		if f.Required {
			if s, isStr := clean.(string); isStr && s == "" {
				return nil, apperror.NewInvalidInput("Validation failed",
					fmt.Sprintf("%s is required and cannot be empty", f.Name))
			}
		}
		doc[f.Name] = clean
	}
	return doc, nil
}

func sanitizeField(f Field, v any) (any, error) {
	switch f.Type {
	case TypeString:
		s, ok := v.(string)
		if !ok {
			return nil, apperror.NewInvalidInput(typeMismatchMessage(f.Name, TypeString))
		}
		s = strings.TrimSpace(s)
		if f.Lowercase {
			s = strings.ToLower(s)
		}
		if s != "" && f.Pattern != nil && !f.Pattern.MatchString(s) {
			return nil, apperror.NewInvalidInput(f.PatternMessage)
		}
		return s, nil

	case TypeBool:
		b, ok := v.(bool)
		if !ok {
			return nil, apperror.NewInvalidInput(typeMismatchMessage(f.Name, TypeBool))
		}
		return b, nil

	case TypeStringList:
		items, ok := v.([]any)
		if !ok {
			return nil, apperror.NewInvalidInput(typeMismatchMessage(f.Name, TypeStringList))
		}
		list := bson.A{}
		for _, item := range items {
			s, ok := item.(string)
			if !ok {
				return nil, apperror.NewInvalidInput(typeMismatchMessage(f.Name, TypeStringList))
			}
			list = append(list, strings.TrimSpace(s))
		}
		return list, nil

	case TypeDate:
		s, ok := v.(string)
		if !ok {
			return nil, apperror.NewInvalidInput(typeMismatchMessage(f.Name, TypeDate))
		}
		t, ok := parseDate(strings.TrimSpace(s))
		if !ok {
			return nil, apperror.NewInvalidInput(typeMismatchMessage(f.Name, TypeDate))
		}
		return t, nil

	case TypeObject:
		m, ok := v.(map[string]any)
		if !ok {
			return nil, apperror.NewInvalidInput(typeMismatchMessage(f.Name, TypeObject))
		}
		obj := bson.M{}
		for _, sub := range f.Sub {
			sv, ok := m[sub.Name]
			if !ok || sv == nil {
				continue
			}
			s, ok := sv.(string)
			if !ok {
				return nil, apperror.NewInvalidInput(
					fmt.Sprintf("Invalid data type: %s.%s must be a string", f.Name, sub.Name))
			}
			obj[sub.Name] = strings.TrimSpace(s)
		}
		return obj, nil
	}
	return nil, apperror.NewInternal(fmt.Sprintf("unknown field type for %s", f.Name), nil)
}
