package pagelingo

import "strings"

// LanguageNames maps language codes to human-readable names, used by AI
// backends that take the target language as prose.
var LanguageNames = map[string]string{
	"en": "English",
	"de": "German",
	"es": "Spanish",
	"fr": "French",
	"it": "Italian",
	"ja": "Japanese",
	"pt": "Portuguese",
	"zh": "Chinese",
	"ko": "Korean",
	"ru": "Russian",
	"ar": "Arabic",
	"he": "Hebrew",
	"hi": "Hindi",
	"nl": "Dutch",
	"pl": "Polish",
	"tr": "Turkish",
	"vi": "Vietnamese",
	"uk": "Ukrainian",
	"sv": "Swedish",
	"fa": "Persian",
	"th": "Thai",
	"id": "Indonesian",
	"cs": "Czech",
	"el": "Greek",
	"ro": "Romanian",
	"hu": "Hungarian",
	"da": "Danish",
	"fi": "Finnish",
}

// GetLanguageName returns the human-readable name for a language code.
// Falls back to the code itself if not found.
func GetLanguageName(langCode string) string {
	if name, ok := LanguageNames[baseLang(langCode)]; ok {
		return name
	}
	return langCode
}

// GetDirection returns "rtl" for right-to-left languages, "ltr" otherwise.
func GetDirection(langCode string) string {
	if RTLLanguages[baseLang(langCode)] {
		return "rtl"
	}
	return "ltr"
}

// IsRTL returns true if the language uses right-to-left text direction.
func IsRTL(langCode string) bool {
	return GetDirection(langCode) == "rtl"
}

// ToHTMLLang converts a language code to HTML lang attribute format
// (e.g., "pt_BR" → "pt-BR").
func ToHTMLLang(langCode string) string {
	return strings.ReplaceAll(langCode, "_", "-")
}

// baseLang extracts the lowercase base language code, accepting both
// "pt_BR" and "pt-BR" forms.
func baseLang(langCode string) string {
	code := strings.ReplaceAll(langCode, "-", "_")
	if i := strings.Index(code, "_"); i >= 0 {
		code = code[:i]
	}
	return strings.ToLower(code)
}
