package notify

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/BeltranHC/ecomerce-akemy-sub000/models"
)

// Hub tracks connected websocket clients and broadcasts order events to
// all of them.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]bool
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]bool)}
}

func (h *Hub) Register(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[conn] = true
}

func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, conn)
}

func (h *Hub) Broadcast(v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		if err := client.WriteMessage(websocket.TextMessage, data); err != nil {
			client.Close()
			delete(h.clients, client)
		}
	}
	return nil
}

type pushEvent struct {
	Type        string `json:"type"`
	UserID      string `json:"user_id"`
	OrderNumber string `json:"order_number"`
	Status      string `json:"status,omitempty"`
	Message     string `json:"message,omitempty"`
}

// PushNotifier publishes order events on the websocket hub.
type PushNotifier struct {
	hub *Hub
}

func NewPushNotifier(hub *Hub) *PushNotifier {
	return &PushNotifier{hub: hub}
}

func (p *PushNotifier) OrderConfirmed(order *models.Order) error {
	return p.hub.Broadcast(pushEvent{
		Type:        "order_confirmed",
		UserID:      order.UserID,
		OrderNumber: order.OrderNumber,
		Status:      string(order.Status),
	})
}

func (p *PushNotifier) StatusChanged(order *models.Order, status models.OrderStatus, message string) error {
	return p.hub.Broadcast(pushEvent{
		Type:        "order_status",
		UserID:      order.UserID,
		OrderNumber: order.OrderNumber,
		Status:      string(status),
		Message:     message,
	})
}

func (p *PushNotifier) ReadyForPickup(userID, orderNumber string) error {
	return p.hub.Broadcast(pushEvent{
		Type:        "ready_for_pickup",
		UserID:      userID,
		OrderNumber: orderNumber,
		Message:     "Your order is ready for pickup",
	})
}
