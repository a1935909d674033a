package export

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// MarshalCSV renders a slice of flat records as CSV. The header row is the
// struct field names in declaration order; string values containing a comma
// are wrapped in double quotes; time values serialize as ISO-8601; nil
// pointers serialize as the empty string.
func MarshalCSV(records any) (string, error) {
	v := reflect.ValueOf(records)
	if v.Kind() != reflect.Slice {
		return "", fmt.Errorf("expected a slice of records, got %T", records)
	}

	elem := v.Type().Elem()
	for elem.Kind() == reflect.Pointer {
		elem = elem.Elem()
	}

	if elem.Kind() != reflect.Struct {
		return "", fmt.Errorf("expected struct records, got %s", elem.Kind())
	}

	var b strings.Builder

	for i := range elem.NumField() {
		if i > 0 {
			b.WriteByte(',')
		}

		b.WriteString(fieldName(elem.Field(i).Name))
	}

	for i := range v.Len() {
		b.WriteByte('\n')

		row := v.Index(i)
		for row.Kind() == reflect.Pointer {
			row = row.Elem()
		}

		for j := range elem.NumField() {
			if j > 0 {
				b.WriteByte(',')
			}

			b.WriteString(formatCell(row.Field(j)))
		}
	}

	return b.String(), nil
}

// fieldName lowercases the leading rune, matching the record field naming the
// register has always exported (saleDate, lineTotal, ...).
func fieldName(name string) string {
	if name == "ID" {
		return "id"
	}

	if strings.HasSuffix(name, "ID") {
		name = strings.TrimSuffix(name, "ID") + "Id"
	}

	return strings.ToLower(name[:1]) + name[1:]
}

func formatCell(v reflect.Value) string {
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return ""
		}

		v = v.Elem()
	}

	switch val := v.Interface().(type) {
	case time.Time:
		return val.UTC().Format(time.RFC3339)
	case decimal.Decimal:
		return val.String()
	case string:
		if strings.Contains(val, ",") {
			return `"` + val + `"`
		}

		return val
	default:
		return fmt.Sprintf("%v", val)
	}
}
