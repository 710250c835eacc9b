package server

import (
	_ "embed"
	"fmt"
	"net/http"
	"text/template"
)

//go:embed assets/bridge.user.js
var bridgeScript string

var bridgeScriptTemplate = template.Must(template.New("bridge.user.js").Parse(bridgeScript))

// bridgeUserScript serves the userscript pointed at the address the browser used to fetch it.
func (s *HttpServer) bridgeUserScript(w http.ResponseWriter, r *http.Request) {
	host := r.Host
	if host == "" {
		host = s.addr
	}

	w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
	err := bridgeScriptTemplate.Execute(w, struct{ BridgeURL string }{BridgeURL: "ws://" + host + "/bridge"})
	if err != nil {
		s.logger.Warn(fmt.Sprintf("Error rendering bridge userscript: %v", err))
	}
}
