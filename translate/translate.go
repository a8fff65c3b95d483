// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package translate formats user-visible messages for the host locale.
package translate

import (
	"log"
	"sync"

	"github.com/jeandeaual/go-locale"

	"golang.org/x/text/message"
)

// DEFAULT_LOCALE is used when the host reports no locale.
const DEFAULT_LOCALE = "en-US"

var (
	lock    sync.RWMutex
	printer *message.Printer
)

func init() {
	locales, err := locale.GetLocales()
	if err != nil {
		log.Printf("rxvm: locale: %v", err)
	}

	SetLocale(locales...)
}

// SetLocale selects the printer used by From. With no arguments,
// DEFAULT_LOCALE is used.
func SetLocale(locales ...string) {
	if len(locales) == 0 {
		locales = []string{DEFAULT_LOCALE}
	}

	p := message.NewPrinter(message.MatchLanguage(locales...))

	lock.Lock()
	printer = p
	lock.Unlock()
}

// From an en-US Sprintf() format, translate to string.
func From(key message.Reference, args ...any) string {
	lock.RLock()
	p := printer
	lock.RUnlock()

	return p.Sprintf(key, args...)
}
