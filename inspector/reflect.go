// Package inspector turns component structs into display rows for the
// creature inspector panel. It has no rendering dependency.
package inspector

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"unicode"
)

// Widget types for rendering fields.
type Widget int

const (
	WidgetAuto Widget = iota
	WidgetLabel
	WidgetBar
	WidgetAngle
	WidgetBool
	WidgetSkip
)

// Row is one rendered line of the inspector.
type Row struct {
	Label    string
	Text     string
	Widget   Widget
	Fraction float32 // fill in [0, 1]; bars only
}

// ParseTag parses an inspect struct tag.
// Format: `inspect:"widget[,option:value...]"`
//
//	`inspect:"bar,max:150"`
//	`inspect:"label,fmt:%.1fs"`
//	`inspect:"skip"`
func ParseTag(tag string) (Widget, map[string]string) {
	options := make(map[string]string)
	if tag == "" {
		return WidgetAuto, options
	}

	parts := strings.Split(tag, ",")
	var widget Widget
	switch strings.TrimSpace(parts[0]) {
	case "label":
		widget = WidgetLabel
	case "bar":
		widget = WidgetBar
	case "angle":
		widget = WidgetAngle
	case "bool":
		widget = WidgetBool
	case "skip":
		widget = WidgetSkip
	}

	for _, part := range parts[1:] {
		if k, v, ok := strings.Cut(strings.TrimSpace(part), ":"); ok {
			options[k] = v
		}
	}
	return widget, options
}

// Rows extracts a row for every exported, non-skipped field of a struct or
// struct pointer. Anything else yields nil.
func Rows(component any) []Row {
	v := reflect.ValueOf(component)
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil
	}

	t := v.Type()
	var rows []Row
	for i := 0; i < v.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		widget, options := ParseTag(sf.Tag.Get("inspect"))
		if widget == WidgetSkip {
			continue
		}
		fv := v.Field(i)
		if widget == WidgetAuto {
			widget = autoDetectWidget(fv)
		}

		row := Row{
			Label:  SplitName(sf.Name),
			Widget: widget,
			Text:   formatField(fv.Interface(), widget, options["fmt"]),
		}
		if widget == WidgetBar {
			if f, ok := GetFloatValue(fv.Interface()); ok {
				row.Fraction = clamp01(f / GetMax(options))
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// autoDetectWidget chooses a widget based on the field type.
func autoDetectWidget(v reflect.Value) Widget {
	if v.Kind() == reflect.Bool {
		return WidgetBool
	}
	return WidgetLabel
}

func formatField(value any, widget Widget, fmtStr string) string {
	switch widget {
	case WidgetBool:
		if b, ok := value.(bool); ok {
			if b {
				return "yes"
			}
			return "no"
		}
	case WidgetAngle:
		if f, ok := GetFloatValue(value); ok {
			return fmt.Sprintf("%.0f°", f)
		}
	}
	return FormatValue(value, fmtStr)
}

// FormatValue formats a field value as a string.
func FormatValue(value any, fmtStr string) string {
	if fmtStr != "" {
		return fmt.Sprintf(fmtStr, value)
	}
	switch v := value.(type) {
	case float32:
		return fmt.Sprintf("%.2f", v)
	case float64:
		return fmt.Sprintf("%.2f", v)
	default:
		return fmt.Sprintf("%v", value)
	}
}

// GetMax returns the max option as a float, defaulting to 1.0.
func GetMax(options map[string]string) float32 {
	if s, ok := options["max"]; ok {
		if m, err := strconv.ParseFloat(s, 32); err == nil && m > 0 {
			return float32(m)
		}
	}
	return 1.0
}

// GetFloatValue extracts a float32 from numeric types.
func GetFloatValue(value any) (float32, bool) {
	switch v := value.(type) {
	case float32:
		return v, true
	case float64:
		return float32(v), true
	case int:
		return float32(v), true
	case int32:
		return float32(v), true
	case uint32:
		return float32(v), true
	default:
		return 0, false
	}
}

// SplitName turns a Go field name into a display label: "ReproCooldown"
// becomes "Repro Cooldown". Runs of capitals stay together ("ID").
func SplitName(name string) string {
	runes := []rune(name)
	var b strings.Builder
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prevLower := unicode.IsLower(runes[i-1])
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1]) && unicode.IsUpper(runes[i-1])
			if prevLower || nextLower {
				b.WriteByte(' ')
			}
		}
		b.WriteRune(r)
	}
	return b.String()
}

func clamp01(x float32) float32 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
