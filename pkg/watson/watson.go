// Package watson holds the plumbing shared by all Watson service clients:
// credentials, service endpoints, and the error taxonomy. Individual
// capability packages (stt, tone, vision, dialog, tts) build on it.
package watson

import "net/http"

// Default service base URLs for the classic Watson API family.
const (
	SpeechToTextURL      = "https://stream.watsonplatform.net/speech-to-text/api"
	SpeechToTextWSURL    = "wss://stream.watsonplatform.net/speech-to-text/api"
	ToneAnalyzerURL      = "https://gateway.watsonplatform.net/tone-analyzer/api"
	VisualRecognitionURL = "https://gateway-a.watsonplatform.net/visual-recognition/api"
	ConversationURL      = "https://gateway.watsonplatform.net/conversation/api"
	TextToSpeechURL      = "https://stream.watsonplatform.net/text-to-speech/api"
)

// Credentials carries a basic-auth username/password pair for one service.
// Visual Recognition uses a single API key instead; see APIKey.
type Credentials struct {
	Username string
	Password string
}

// Apply sets basic auth on the request.
func (c Credentials) Apply(req *http.Request) {
	req.SetBasicAuth(c.Username, c.Password)
}

// Empty reports whether no credentials are set.
func (c Credentials) Empty() bool {
	return c.Username == "" && c.Password == ""
}
