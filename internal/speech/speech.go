// Package speech exposes the narration language registry. Narration itself
// runs on the device; the service only tells clients which languages the
// content can be read in.
package speech

import (
	"context"

	dErrors "sahayak/pkg/domain-errors"
)

// Language is one supported narration language.
type Language struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Native string `json:"native"`
}

// Narrator speaks a text in a given language. The no-op implementation stands
// in on deployments without a TTS engine.
type Narrator interface {
	Speak(ctx context.Context, languageCode string, text string) error
}

// NoopNarrator accepts every request and does nothing.
type NoopNarrator struct{}

func (NoopNarrator) Speak(context.Context, string, string) error { return nil }

// languages lists the scheduled Indian languages plus English, in the order
// the client presents them.
var languages = []Language{
	{Code: "en-IN", Name: "English", Native: "English"},
	{Code: "hi-IN", Name: "Hindi", Native: "हिन्दी"},
	{Code: "bn-IN", Name: "Bengali", Native: "বাংলা"},
	{Code: "te-IN", Name: "Telugu", Native: "తెలుగు"},
	{Code: "mr-IN", Name: "Marathi", Native: "मराठी"},
	{Code: "ta-IN", Name: "Tamil", Native: "தமிழ்"},
	{Code: "gu-IN", Name: "Gujarati", Native: "ગુજરાતી"},
	{Code: "kn-IN", Name: "Kannada", Native: "ಕನ್ನಡ"},
	{Code: "ml-IN", Name: "Malayalam", Native: "മലയാളം"},
	{Code: "or-IN", Name: "Odia", Native: "ଓଡ଼ିଆ"},
	{Code: "pa-IN", Name: "Punjabi", Native: "ਪੰਜਾਬੀ"},
	{Code: "as-IN", Name: "Assamese", Native: "অসমীয়া"},
	{Code: "ur-IN", Name: "Urdu", Native: "اردو"},
	{Code: "ne-IN", Name: "Nepali", Native: "नेपाली"},
	{Code: "sa-IN", Name: "Sanskrit", Native: "संस्कृतम्"},
	{Code: "ks-IN", Name: "Kashmiri", Native: "कॉशुर"},
	{Code: "sd-IN", Name: "Sindhi", Native: "سنڌي"},
	{Code: "kok-IN", Name: "Konkani", Native: "कोंकणी"},
	{Code: "doi-IN", Name: "Dogri", Native: "डोगरी"},
	{Code: "mni-IN", Name: "Manipuri", Native: "মৈতৈলোন্"},
	{Code: "sat-IN", Name: "Santali", Native: "ᱥᱟᱱᱛᱟᱲᱤ"},
	{Code: "mai-IN", Name: "Maithili", Native: "मैथिली"},
	{Code: "brx-IN", Name: "Bodo", Native: "बड़ो"},
}

// Languages returns the supported narration languages.
func Languages() []Language {
	out := make([]Language, len(languages))
	copy(out, languages)
	return out
}

// Lookup finds a language by its code.
func Lookup(code string) (Language, error) {
	for _, l := range languages {
		if l.Code == code {
			return l, nil
		}
	}
	return Language{}, dErrors.New(dErrors.CodeNotFound, "unsupported language code")
}
