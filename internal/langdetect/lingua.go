// Package langdetect guesses the language of a text sample, restricted to
// the gateway's supported languages.
package langdetect

import (
	"fmt"
	"strings"
	"sync"
	"unicode"

	lingua "github.com/pemistahl/lingua-go"
)

// MinLetters is the shortest sample, in letters, worth detecting.
const MinLetters = 6

type Detector struct {
	languages []lingua.Language
	codes     map[lingua.Language]string
	preload   bool

	once     sync.Once
	detector lingua.LanguageDetector
}

type Option func(*Detector)

// WithPreload loads every language model when the detector is first used
// instead of on demand.
func WithPreload() Option {
	return func(d *Detector) {
		d.preload = true
	}
}

// New builds a detector for the given language codes. Codes are matched on
// their base ISO 639-1 part, so "zh" and "zh-Hant" share one model and
// detection reports the first code listed. Codes lingua does not know are
// skipped; at least two must remain.
func New(codes []string, opts ...Option) (*Detector, error) {
	known := make(map[string]lingua.Language)
	for _, lang := range lingua.AllLanguages() {
		known[strings.ToLower(lang.IsoCode639_1().String())] = lang
	}

	d := &Detector{codes: make(map[lingua.Language]string)}
	for _, code := range codes {
		lang, ok := known[baseCode(code)]
		if !ok {
			continue
		}
		if _, dup := d.codes[lang]; dup {
			continue
		}
		d.codes[lang] = strings.TrimSpace(code)
		d.languages = append(d.languages, lang)
	}
	if len(d.languages) < 2 {
		return nil, fmt.Errorf("language detection needs at least two supported languages, got %d", len(d.languages))
	}

	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Detect returns the code of the most likely language of text. It reports
// false for samples with fewer than MinLetters letters or when no language
// is a confident match.
func (d *Detector) Detect(text string) (string, bool) {
	sample := strings.TrimSpace(text)
	if sample == "" {
		return "", false
	}

	letterCount := 0
	for _, r := range sample {
		if unicode.IsLetter(r) {
			letterCount++
		}
	}
	if letterCount < MinLetters {
		return "", false
	}

	language, exists := d.getDetector().DetectLanguageOf(sample)
	if !exists {
		return "", false
	}

	code, ok := d.codes[language]
	return code, ok
}

// Languages returns the codes the detector can report, in input order.
func (d *Detector) Languages() []string {
	out := make([]string, 0, len(d.languages))
	for _, lang := range d.languages {
		out = append(out, d.codes[lang])
	}
	return out
}

func (d *Detector) getDetector() lingua.LanguageDetector {
	d.once.Do(func() {
		builder := lingua.NewLanguageDetectorBuilder().FromLanguages(d.languages...)
		if d.preload {
			builder = builder.WithPreloadedLanguageModels()
		}
		d.detector = builder.Build()
	})
	return d.detector
}

func baseCode(code string) string {
	code = strings.TrimSpace(code)
	if i := strings.IndexAny(code, "_-"); i >= 0 {
		code = code[:i]
	}
	return strings.ToLower(code)
}
