// Package ollama implements [rework.Gateway] for Ollama-compatible
// text-generation servers.
//
// A request is a single non-streaming POST of {model, prompt, stream:false};
// the answer is read from the "response" field of the JSON reply. The same
// wire format is accepted by relays that forward requests to a model server,
// so the client can target either one.
package ollama

const (
	// DefaultBaseURL is the address of a locally running Ollama server.
	DefaultBaseURL = "http://localhost:11434"
	// DefaultModel is the model used when none is configured.
	DefaultModel = "codegemma"

	generatePath = "/api/generate"
	tagsPath     = "/api/tags"
)

// Endpoint selects how the request URL is derived from the base URL.
type Endpoint int

const (
	// Direct targets a model server; requests go to <base>/api/generate.
	Direct Endpoint = iota
	// Relay targets an intermediary; requests go to the base URL verbatim.
	Relay
)

func (e Endpoint) String() string {
	switch e {
	case Direct:
		return "direct"
	case Relay:
		return "relay"
	default:
		return "unknown"
	}
}

// ParseEndpoint maps a configuration value to an Endpoint.
func ParseEndpoint(s string) (Endpoint, bool) {
	switch s {
	case "", "direct":
		return Direct, true
	case "relay":
		return Relay, true
	default:
		return Direct, false
	}
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

// generateResponse keeps Response as a pointer so an absent field can be told
// apart from an empty answer.
type generateResponse struct {
	Response *string `json:"response"`
	Done     bool    `json:"done"`
}

type tagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}
