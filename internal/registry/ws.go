package registry

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/DrFlowerkick/fk-tournament-planer/internal/utils"
)

const (
	writeTimeout = 10 * time.Second
	pingInterval = 50 * time.Second
)

// Serve upgrades GET /api/cr/subscribe/{kind}/{id} to a websocket and
// streams change notices for that one resource until the client hangs up.
func Serve(reg *Registry) http.HandlerFunc {
	upgr := &websocket.Upgrader{
		// same-origin policy is enforced by the CORS layer in front
		CheckOrigin: func(r *http.Request) bool { return true },
	}
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		kind, ok := ParseKind(vars["kind"])
		if !ok {
			utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Unknown subscription kind", nil)
			return
		}
		id, err := uuid.Parse(vars["id"])
		if err != nil || id == uuid.Nil {
			utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid subscription id", nil, err)
			return
		}

		wc, err := upgr.Upgrade(w, r, nil)
		if err != nil {
			utils.Logger.WithError(err).Warn("subscription upgrade failed")
			return
		}
		defer wc.Close()

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		ch, err := reg.Subscribe(ctx, Topic{Kind: kind, ID: id})
		if err != nil {
			utils.Logger.WithError(err).Warn("subscription rejected")
			return
		}
		utils.Logger.Debugf("subscriber connected: %s/%s", kind, id)

		// reader only detects the client going away
		go func() {
			for {
				if _, _, err := wc.ReadMessage(); err != nil {
					cancel()
					return
				}
			}
		}()

		t := time.NewTicker(pingInterval)
		defer t.Stop()
		for {
			select {
			case n, ok := <-ch:
				if !ok {
					return
				}
				wc.SetWriteDeadline(time.Now().Add(writeTimeout))
				if err := wc.WriteJSON(n); err != nil {
					return
				}
			case <-t.C:
				wc.SetWriteDeadline(time.Now().Add(writeTimeout))
				if err := wc.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}
}
