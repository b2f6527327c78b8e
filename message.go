package mira

import (
	"fmt"
	"strings"
)

// User-facing message templates.
const (
	FoundMessage       = "Ich habe etwas gefunden: %s. Möchtest du mehr darüber erfahren?"
	NotFoundMessage    = "Ich habe keine passende Antwort gefunden."
	SearchErrorMessage = "Fehler bei der Internetsuche: %s"
	StoreErrorMessage  = "Fehler beim Zugriff auf die Wissensdatenbank: %s"
	ImportOKMessage    = "Import erfolgreich!"
	ImportErrorMessage = "Fehler beim Import: %s"
)

// FormatFallback renders a fallback result as answer text. A blank answer
// renders as NotFoundMessage.
func FormatFallback(r FallbackResult) string {
	switch r.Kind {
	case FallbackAnswer:
		if strings.TrimSpace(r.Text) == "" {
			return NotFoundMessage
		}
		return r.Text
	case FallbackFound:
		return fmt.Sprintf(FoundMessage, r.Title)
	case FallbackTransportError:
		return fmt.Sprintf(SearchErrorMessage, r.Message)
	default:
		return NotFoundMessage
	}
}

// FormatStoreError renders a failed store access as answer text.
func FormatStoreError(err error) string {
	return fmt.Sprintf(StoreErrorMessage, ErrorMessage(err))
}

// ImportStatus renders the outcome of an import.
func ImportStatus(err error) string {
	if err == nil {
		return ImportOKMessage
	}
	return fmt.Sprintf(ImportErrorMessage, ErrorMessage(err))
}
