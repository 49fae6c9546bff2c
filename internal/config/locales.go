package config

const (
	LangEN = "en"
	LangES = "es"
)

// SupportedLanguages lists the UI languages with a message bundle.
var SupportedLanguages = []string{LangEN, LangES}

// GetLocaleConfig returns lang when a bundle exists for it and English
// otherwise.
func GetLocaleConfig(lang string) string {
	if IsSupportedLanguage(lang) {
		return lang
	}
	return LangEN
}

func IsSupportedLanguage(lang string) bool {
	for _, l := range SupportedLanguages {
		if l == lang {
			return true
		}
	}
	return false
}
