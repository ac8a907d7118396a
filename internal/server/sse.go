package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/sells-group/lead-intel/internal/concierge"
)

// doneSentinel terminates a successful stream. A stream that closes without
// it signals failure to the client.
const doneSentinel = "[DONE]"

// handleStream replays a run's events as Server-Sent Events. Each fragment
// becomes one data message; completion appends the [DONE] sentinel. If the
// client disconnects mid-stream the run is canceled server-side.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")

	events, err := s.manager.Events(runID)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, fmt.Errorf("streaming unsupported"))
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case ev, open := <-events:
			if !open {
				// The channel can close with the completed event never
				// taken (delivery timed out before this subscriber
				// attached). Run state decides whether this was a success.
				if snap, err := s.manager.Get(runID); err == nil && snap.State == concierge.StateCompleted {
					writeSSE(w, doneSentinel)
					flusher.Flush()
				}
				return
			}
			switch ev.Kind {
			case concierge.EventFragment:
				writeSSE(w, ev.Text)
				flusher.Flush()
			case concierge.EventCompleted:
				writeSSE(w, doneSentinel)
				flusher.Flush()
				return
			case concierge.EventFailed:
				zap.L().Warn("server: stream ended in failure",
					zap.String("run_id", runID),
					zap.String("reason", ev.Reason),
				)
				return
			}
		case <-r.Context().Done():
			zap.L().Info("server: stream client disconnected", zap.String("run_id", runID))
			s.manager.Cancel(runID)
			return
		}
	}
}

// writeSSE emits one SSE message. Multi-line payloads become consecutive
// data fields of the same message, per the SSE framing rules.
func writeSSE(w http.ResponseWriter, text string) {
	for _, line := range strings.Split(text, "\n") {
		fmt.Fprintf(w, "data: %s\n", line)
	}
	fmt.Fprint(w, "\n")
}
