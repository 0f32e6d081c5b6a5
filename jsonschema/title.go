package jsonschema

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Titleize derives a display title from a snake_case name: underscores become
// spaces and each word is capitalized with the rest lower-cased
// ("full_name" -> "Full Name", "item_id" -> "Item Id").
func Titleize(name string) string {
	if name == "" {
		return ""
	}
	return cases.Title(language.Und).String(strings.ReplaceAll(name, "_", " "))
}
