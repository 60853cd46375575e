package events

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/chronocapsule/chrono-capsule/models"
)

// Event types
const (
	EventCapsuleReleased     = "capsule_released"
	EventNotificationCreated = "notification_created"
	EventBadgeAwarded        = "badge_awarded"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Hub menampung semua client websocket per user untuk push realtime
type Hub struct {
	clients map[*websocket.Conn]uint // conn -> user id
	mutex   sync.Mutex
}

var hub = Hub{
	clients: make(map[*websocket.Conn]uint),
}

// RegisterClient -> menambahkan connection ke set
func RegisterClient(conn *websocket.Conn, userID uint) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	hub.clients[conn] = userID
}

// UnregisterClient -> melepaskan connection
func UnregisterClient(conn *websocket.Conn) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	delete(hub.clients, conn)
	conn.Close()
}

// BroadcastCapsuleReleased -> kapsul sudah lewat release date
func BroadcastCapsuleReleased(capsule models.Capsule) {
	broadcastToUser(capsuleOwner(capsule), Message{
		Event: EventCapsuleReleased,
		Data:  capsule,
	})
}

// BroadcastNotificationCreated -> notifikasi baru untuk user
func BroadcastNotificationCreated(notif models.Notification) {
	broadcastToUser(notif.UserID, Message{
		Event: EventNotificationCreated,
		Data:  notif,
	})
}

// BroadcastBadgeAwarded -> badge baru untuk user
func BroadcastBadgeAwarded(userID uint, data interface{}) {
	broadcastToUser(userID, Message{
		Event: EventBadgeAwarded,
		Data:  data,
	})
}

func capsuleOwner(capsule models.Capsule) uint {
	if capsule.OwnerID == nil {
		return 0
	}
	return *capsule.OwnerID
}

// broadcastToUser mengirim pesan hanya ke koneksi milik user terkait;
// userID 0 tidak pernah cocok.
func broadcastToUser(userID uint, msg Message) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()

	if userID == 0 || len(hub.clients) == 0 {
		return
	}

	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Error marshaling message: %v", err)
		return
	}

	for conn, uid := range hub.clients {
		if uid != userID {
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Printf("Error sending message to client: %v", err)
			continue
		}
	}
}
