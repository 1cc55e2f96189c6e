package feed

import (
	"net/http"

	gorillaWS "github.com/gorilla/websocket"

	"github.com/vincentyono/icp-smart-contract/internal/common/constants"
	commonhttp "github.com/vincentyono/icp-smart-contract/internal/common/http"
	"github.com/vincentyono/icp-smart-contract/internal/common/logger"
)

type Handler struct {
	hub        *Hub
	upgrader   gorillaWS.Upgrader
	sendBuffer int
	log        *logger.Logger
}

func NewHandler(hub *Hub, sendBuffer int, log *logger.Logger) *Handler {
	return &Handler{
		hub:        hub,
		sendBuffer: sendBuffer,
		log:        log,
		upgrader: gorillaWS.Upgrader{
			ReadBufferSize:  constants.FeedReadBufferSize,
			WriteBufferSize: constants.FeedWriteBufferSize,
			CheckOrigin:     sameOrigin,
		},
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithFields(r.Context(), logger.Fields{
			"action": "feed_upgrade_failed",
		}).Warnf("feed websocket upgrade failed: %v", err)
		return
	}

	client := NewClient(h.hub, conn, commonhttp.GetClientIP(r), h.sendBuffer, h.log)
	h.hub.Register(client)
	client.Start()
}

func sameOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	host := r.Host
	if host == "" {
		host = r.URL.Host
	}
	return origin == "http://"+host || origin == "https://"+host
}
