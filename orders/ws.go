package orders

import (
	"context"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"sambok/middleware"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/mongo"
)

// StatusUpdate is pushed to watchers whenever an order changes state.
type StatusUpdate struct {
	OrderID string `json:"orderId"`
	Status  string `json:"status"`
}

var (
	watchMu  sync.Mutex
	watchers = make(map[string]map[chan StatusUpdate]struct{})
)

func subscribe(orderID string) chan StatusUpdate {
	ch := make(chan StatusUpdate, 8)
	watchMu.Lock()
	if watchers[orderID] == nil {
		watchers[orderID] = make(map[chan StatusUpdate]struct{})
	}
	watchers[orderID][ch] = struct{}{}
	watchMu.Unlock()
	return ch
}

func unsubscribe(orderID string, ch chan StatusUpdate) {
	watchMu.Lock()
	if subs, ok := watchers[orderID]; ok {
		delete(subs, ch)
		if len(subs) == 0 {
			delete(watchers, orderID)
		}
	}
	watchMu.Unlock()
}

// Broadcast pushes an update to everyone watching the order. Non-blocking:
// a slow watcher drops the update rather than stalling the caller.
func Broadcast(orderID string, update StatusUpdate) {
	watchMu.Lock()
	defer watchMu.Unlock()
	for ch := range watchers[orderID] {
		select {
		case ch <- update:
		default:
			log.Printf("Warning: order %s watcher is full, dropping update", orderID)
		}
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// OrderStream streams status updates for one order over a websocket.
// GET /ws/orders/:orderid?token=Bearer%20...
func OrderStream(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	orderID := ps.ByName("orderid")

	claims, err := middleware.ValidateJWT(r.URL.Query().Get("token"))
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()
	if _, err := loadOrderForUser(ctx, orderID, claims.UserID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			http.Error(w, "Order not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Could not retrieve order", http.StatusInternalServerError)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("OrderStream upgrade error:", err)
		return
	}
	defer conn.Close()

	ch := subscribe(orderID)
	defer unsubscribe(orderID, ch)

	// Drain reads so close frames are processed.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case update := <-ch:
			if err := conn.WriteJSON(update); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
