package clip

// Prebuilt voices used for narration.
const (
	VoiceDefault = "Algenib"
	VoiceHindi   = "Achird"
	VoiceTelugu  = "Sadachbia"
)

// VoiceFor returns the voice for a narration language. Unknown languages
// get VoiceDefault.
func VoiceFor(lang Language) string {
	switch lang {
	case LanguageHindi:
		return VoiceHindi
	case LanguageTelugu:
		return VoiceTelugu
	default:
		return VoiceDefault
	}
}

// Locale returns the BCP-47 locale for a narration language.
func (l Language) Locale() string {
	switch l {
	case LanguageHindi:
		return "hi-IN"
	case LanguageTelugu:
		return "te-IN"
	default:
		return "en-US"
	}
}
