package websocket

import (
	"log/slog"
	"net/http"
	"strings"

	ws "github.com/coder/websocket"
)

// HandleWebSocket upgrades requests and runs them as hub clients. An
// "entities" query parameter (comma separated, e.g. shopping_list,shopping_item)
// narrows what the client receives. originPatterns follows coder/websocket's
// host pattern syntax; a single "*" accepts any origin.
func HandleWebSocket(hub *Hub, originPatterns []string, logger *slog.Logger) http.HandlerFunc {
	opts := &ws.AcceptOptions{}
	if len(originPatterns) == 1 && originPatterns[0] == "*" {
		opts.InsecureSkipVerify = true
	} else {
		opts.OriginPatterns = originPatterns
	}

	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := ws.Accept(w, r, opts)
		if err != nil {
			logger.Warn("websocket accept", "error", err)
			return
		}

		var entities []string
		if q := r.URL.Query().Get("entities"); q != "" {
			entities = strings.Split(q, ",")
		}
		logger.Debug("websocket connected", "remote", r.RemoteAddr, "entities", entities)
		NewClient(hub, conn, entities...).Run(r.Context())
	}
}
