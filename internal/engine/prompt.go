package engine

import (
	"embed"
	"strings"
	"text/template"
)

//go:embed templates/engine_prompt.tmpl
var promptTemplates embed.FS

var promptTmpl = template.Must(
	template.New("engine_prompt.tmpl").
		Funcs(template.FuncMap{"join": joinOrNone}).
		ParseFS(promptTemplates, "templates/engine_prompt.tmpl"),
)

type promptData struct {
	Config  EngineConfig
	Context *Context
}

// Render builds the final prompt for one engine invocation. The full
// context is included verbatim, every character field and every scene:
// insufficient context visibly degrades output quality, so nothing is
// truncated here. Deterministic, no I/O.
func Render(cfg EngineConfig, ec *Context) string {
	var sb strings.Builder
	if err := promptTmpl.Execute(&sb, promptData{Config: cfg, Context: ec}); err != nil {
		// The template is static and the data is plain structs; execution
		// cannot realistically fail. Degrade to the bare task prompt so the
		// engine still runs.
		return cfg.TaskPrompt + "\n\n" + cfg.Instructions
	}
	return sb.String()
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "none on file"
	}
	return strings.Join(items, "; ")
}
