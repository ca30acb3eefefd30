package webd

import (
	"encoding/json"
	"log"
	"log/slog"

	"github.com/olahol/melody"

	"github.com/mikkohei13/biotools/api"
)

type websocketAction string

var websocketActionAnalyzed websocketAction = "analyzed"

type broadcast struct {
	Action websocketAction `json:"action"`
	Result *api.Result     `json:"result"`
}

// initMelody sets up the websocket handler.
func (s *WebDaemon) initMelody() {
	s.melodyInstance = melody.New()

	// New subscribers get a replay of recent results.
	s.melodyInstance.HandleConnect(func(sess *melody.Session) {
		log.Println("[websocket] connected", sess.Request.RemoteAddr)
		for _, v := range s.resultCache.Items() {
			bc := broadcast{
				Action: websocketActionAnalyzed,
				Result: v.Value(),
			}
			b, _ := json.Marshal(bc)
			sess.Write(b)
		}
	})

	// Right now don't care about incoming messages from clients. Log and drop.
	s.melodyInstance.HandleMessage(loggingHandler)

	s.melodyInstance.HandleDisconnect(func(sess *melody.Session) {
		log.Println("[websocket] disconnected", sess.Request.RemoteAddr)
	})

	s.melodyInstance.HandleError(func(sess *melody.Session, e error) {
		log.Println("[websocket] error", e, sess.Request.RemoteAddr)
	})

	// Broadcast finished analyses to all connected clients.
	results := make(chan *api.Result)
	sub := s.feedAnalyzed.Subscribe(results)
	go func() {
		for {
			select {
			case result := <-results:
				bc := broadcast{
					Action: websocketActionAnalyzed,
					Result: result,
				}
				b, err := json.Marshal(bc)
				if err != nil {
					slog.Error("Failed to marshal analyzed event", "error", err)
					continue
				}
				if err := s.melodyInstance.Broadcast(b); err != nil {
					slog.Warn("Failed to broadcast analyzed event", "error", err)
				}
			case err := <-sub.Err():
				slog.Error("Failed to subscribe to analyzed feed", "error", err)
				return
			}
		}
	}()
	return
}

// on request
func loggingHandler(s *melody.Session, msg []byte) {
	log.Println("[websocket] message", string(msg))
}
