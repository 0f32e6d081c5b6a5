// Package i18n holds the message catalog used for validation issues.
package i18n

import (
	"strings"
	"sync"
)

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "limit_value").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

var catalog = map[string]map[string]string{
	"en": {
		"value_error.missing":         "field required",
		"value_error.extra":           "extra fields not permitted",
		"value_error.jsondecode":      "Expecting value",
		"value_error.duplicate_key":   "duplicate key",
		"value_error.too_deep":        "nesting too deep",
		"value_error.too_large":       "request body too large",
		"value_error.number.not_ge":   "ensure this value is greater than or equal to {limit_value}",
		"value_error.number.not_le":   "ensure this value is less than or equal to {limit_value}",
		"value_error.list.min_items":  "ensure this value has at least {limit_value} items",
		"value_error.list.max_items":  "ensure this value has at most {limit_value} items",
		"type_error.integer":          "value is not a valid integer",
		"type_error.float":            "value is not a valid float",
		"type_error.str":              "str type expected",
		"type_error.bool":             "value could not be parsed to a boolean",
		"type_error.dict":             "value is not a valid dict",
		"type_error.list":             "value is not a valid list",
		"type_error.none.not_allowed": "none is not an allowed value",
		"type_error.union":            "value did not match any allowed type",
		"internal_error":              "internal error",
	},
	"ja": {
		"value_error.missing":         "必須フィールドです",
		"value_error.extra":           "未知のフィールドは許可されていません",
		"value_error.jsondecode":      "JSONとして解析できません",
		"value_error.duplicate_key":   "キーが重複しています",
		"value_error.too_deep":        "ネストが深すぎます",
		"value_error.too_large":       "リクエストボディが大きすぎます",
		"value_error.number.not_ge":   "{limit_value} 以上である必要があります",
		"value_error.number.not_le":   "{limit_value} 以下である必要があります",
		"value_error.list.min_items":  "{limit_value} 件以上の要素が必要です",
		"value_error.list.max_items":  "{limit_value} 件以下の要素である必要があります",
		"type_error.integer":          "整数ではありません",
		"type_error.float":            "数値ではありません",
		"type_error.str":              "文字列が必要です",
		"type_error.bool":             "真偽値として解釈できません",
		"type_error.dict":             "オブジェクトではありません",
		"type_error.list":             "配列ではありません",
		"type_error.none.not_allowed": "null は許可されていません",
		"type_error.union":            "どの型にも一致しません",
		"internal_error":              "内部エラー",
	},
}

func (t dictTranslator) Message(code string, data map[string]string) string {
	msg, ok := catalog[t.lang][code]
	if !ok {
		return code
	}
	if len(data) == 0 || !strings.Contains(msg, "{") {
		return msg
	}
	for k, v := range data {
		msg = strings.ReplaceAll(msg, "{"+k+"}", v)
	}
	return msg
}

var (
	mu                sync.RWMutex
	currentTranslator Translator = dictTranslator{lang: "en"}
)

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if _, ok := catalog[lang]; !ok {
		lang = "en"
	}
	SetTranslator(dictTranslator{lang: lang})
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version). nil restores the English catalog.
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: "en"}
	}
	mu.Lock()
	currentTranslator = tr
	mu.Unlock()
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string {
	mu.RLock()
	tr := currentTranslator
	mu.RUnlock()
	return tr.Message(code, data)
}
