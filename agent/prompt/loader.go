package prompt

import (
	_ "embed"
	"strings"
)

var (
	//go:embed template/router.txt
	routerRaw string

	//go:embed template/dispatcher.txt
	dispatcherRaw string

	//go:embed template/synthesizer.txt
	synthesizerRaw string

	//go:embed template/general.txt
	generalRaw string
)

// PromptSet holds loaded prompt content.
type PromptSet struct {
	Router      string
	Dispatcher  string
	Synthesizer string
	General     string
}

// LoadPromptSet returns a PromptSet with trimmed prompt strings. Safe to
// call concurrently; the embed is compile-time and trimming is cheap.
func LoadPromptSet() PromptSet {
	return PromptSet{
		Router:      strings.TrimSpace(routerRaw),
		Dispatcher:  strings.TrimSpace(dispatcherRaw),
		Synthesizer: strings.TrimSpace(synthesizerRaw),
		General:     strings.TrimSpace(generalRaw),
	}
}

// Fill substitutes {name} placeholders in a template.
func Fill(template string, values map[string]string) string {
	pairs := make([]string, 0, len(values)*2)
	for name, value := range values {
		pairs = append(pairs, "{"+name+"}", value)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}
