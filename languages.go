package tlgate

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed languages.yaml
var defaultLanguagesYAML []byte

// Language is one entry of the supported language list.
type Language struct {
	Code string `yaml:"code" json:"code"`
	Name string `yaml:"name" json:"name"`
}

type languageFile struct {
	Languages []Language `yaml:"languages"`
}

// RTLLanguages contains language codes that use right-to-left text direction.
var RTLLanguages = map[string]bool{
	"ar": true, // Arabic
	"he": true, // Hebrew
	"fa": true, // Persian/Farsi
	"ur": true, // Urdu
	"ps": true, // Pashto
	"sd": true, // Sindhi
	"ug": true, // Uyghur
}

// DefaultLanguages returns the built-in language list.
func DefaultLanguages() []Language {
	langs, err := ParseLanguages(bytes.NewReader(defaultLanguagesYAML))
	if err != nil {
		panic(fmt.Sprintf("tlgate: embedded languages.yaml: %v", err))
	}
	return langs
}

// LoadLanguages reads a language list from a YAML file. An empty path
// returns the built-in list.
func LoadLanguages(path string) ([]Language, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultLanguages(), nil
	}

	f, err := os.Open(path) // #nosec G304 - path comes from operator configuration
	if err != nil {
		return nil, fmt.Errorf("opening languages file: %w", err)
	}
	defer f.Close()

	return ParseLanguages(f)
}

// ParseLanguages decodes a YAML language list. Codes must be non-empty and
// unique.
func ParseLanguages(r io.Reader) ([]Language, error) {
	var file languageFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("decoding languages: %w", err)
	}

	seen := make(map[string]bool, len(file.Languages))
	langs := make([]Language, 0, len(file.Languages))
	for i, lang := range file.Languages {
		code := strings.TrimSpace(lang.Code)
		if code == "" {
			return nil, fmt.Errorf("languages[%d]: code is required", i)
		}
		if seen[code] {
			return nil, fmt.Errorf("languages[%d]: duplicate code %q", i, code)
		}
		seen[code] = true

		name := strings.TrimSpace(lang.Name)
		if name == "" {
			name = code
		}
		langs = append(langs, Language{Code: code, Name: name})
	}

	if len(langs) == 0 {
		return nil, fmt.Errorf("no languages defined")
	}
	return langs, nil
}

// LanguageMap converts a language list to a code → name map.
func LanguageMap(langs []Language) map[string]string {
	m := make(map[string]string, len(langs))
	for _, lang := range langs {
		m[lang.Code] = lang.Name
	}
	return m
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

// ToHTMLLang converts a locale code to HTML lang attribute format (e.g., "es_ES" → "es-ES").
func ToHTMLLang(langCode string) string {
	return strings.ReplaceAll(strings.TrimSpace(langCode), "_", "-")
}

// baseLang extracts the base language code (e.g., "ar" from "ar_SA" or "ar-SA").
func baseLang(langCode string) string {
	code := strings.TrimSpace(langCode)
	if i := strings.IndexAny(code, "_-"); i >= 0 {
		code = code[:i]
	}
	return strings.ToLower(code)
}
