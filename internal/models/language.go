package models

// Language identifies the dominant implementation language of a checkout.
type Language string

const (
	LanguageCSharp  Language = "C#"
	LanguagePython  Language = "Python"
	LanguageJava    Language = "Java"
	LanguageUnknown Language = "Unknown"
)

func (l Language) String() string {
	return string(l)
}
