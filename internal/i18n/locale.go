package i18n

import (
	"os"
	"strings"

	"golang.org/x/text/language"
)

// LocaleSource reports the user's language preferences, most preferred first.
type LocaleSource interface {
	Preferences() []string
}

// EnvLocale reads the POSIX locale variables.
type EnvLocale struct {
	// Getenv defaults to os.Getenv.
	Getenv func(string) string
}

// Preferences returns LC_ALL, LC_MESSAGES and LANG in that order, skipping
// unset values and the C/POSIX locales.
func (e EnvLocale) Preferences() []string {
	getenv := e.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}

	var prefs []string
	for _, name := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		v := getenv(name)
		if v == "" || v == "C" || v == "POSIX" || strings.HasPrefix(v, "C.") {
			continue
		}
		prefs = append(prefs, v)
	}
	return prefs
}

// StaticLocale is a fixed preference list.
type StaticLocale []string

// Preferences returns the list itself.
func (s StaticLocale) Preferences() []string {
	return s
}

// BaseLanguage reduces a locale such as "de_DE.UTF-8@euro" to its two-letter
// base "de". It returns "" if the value is not a language tag.
func BaseLanguage(locale string) string {
	if i := strings.IndexAny(locale, ".@"); i >= 0 {
		locale = locale[:i]
	}
	locale = strings.ReplaceAll(strings.TrimSpace(locale), "_", "-")
	if locale == "" {
		return ""
	}

	tag, err := language.Parse(locale)
	if err != nil {
		return ""
	}
	base, confidence := tag.Base()
	if confidence == language.No {
		return ""
	}
	return base.String()
}
