package chat

// Locale carries all user-facing strings for one language. The chat core
// never prints directly; it hands these strings to the UI layer.
type Locale struct {
	Lang string

	NewChatTitle     string
	ErrTimeout       string
	ErrConnection    string
	ErrNotFound      string
	ErrServiceFmt    string // one %s verb for the upstream detail
	Undecodable      string
	BackgroundTooBig string

	ExportHeaderFmt string // session title
	ExportDateFmt   string // formatted date
	ExportRoleUser  string
	ExportRoleBot   string
}

var locales = map[string]Locale{
	"en": {
		Lang:             "en",
		NewChatTitle:     "New chat",
		ErrTimeout:       "The assistant took too long to reply. Please try again.",
		ErrConnection:    "Connection lost. Check your network and try again.",
		ErrNotFound:      "The chat endpoint was not found. Check the configured URL.",
		ErrServiceFmt:    "The chat service reported an error: %s",
		Undecodable:      "I received a reply I could not read.",
		BackgroundTooBig: "The background image is too large (2 MB max).",
		ExportHeaderFmt:  "Conversation: %s",
		ExportDateFmt:    "Exported: %s",
		ExportRoleUser:   "You",
		ExportRoleBot:    "Assistant",
	},
	"es": {
		Lang:             "es",
		NewChatTitle:     "Nueva conversación",
		ErrTimeout:       "El asistente tardó demasiado en responder. Inténtalo de nuevo.",
		ErrConnection:    "Conexión perdida. Comprueba tu red e inténtalo de nuevo.",
		ErrNotFound:      "No se encontró el punto de acceso del chat. Revisa la URL configurada.",
		ErrServiceFmt:    "El servicio de chat devolvió un error: %s",
		Undecodable:      "Recibí una respuesta que no pude leer.",
		BackgroundTooBig: "La imagen de fondo es demasiado grande (máximo 2 MB).",
		ExportHeaderFmt:  "Conversación: %s",
		ExportDateFmt:    "Exportado: %s",
		ExportRoleUser:   "Tú",
		ExportRoleBot:    "Asistente",
	},
}

// placeholderTitles is the fixed set of titles that still count as "unset".
// A stored title matching any language's placeholder is re-derived at
// display time.
var placeholderTitles = map[string]struct{}{}

func init() {
	for _, loc := range locales {
		placeholderTitles[loc.NewChatTitle] = struct{}{}
	}
}

func isPlaceholderTitle(title string) bool {
	if title == "" {
		return true
	}
	_, ok := placeholderTitles[title]
	return ok
}

// LocaleFor returns the string table for lang, falling back to English.
func LocaleFor(lang string) Locale {
	if loc, ok := locales[lang]; ok {
		return loc
	}
	return locales["en"]
}
