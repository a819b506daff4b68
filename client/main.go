package main

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"flag"
	"log"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

const (
	MsgTypeHeartbeat    = 1
	MsgTypeCreateRoom   = 101
	MsgTypeJoinRoom     = 102
	MsgTypeLeaveRoom    = 103
	MsgTypeSetReady     = 104
	MsgTypeStartGame    = 105
	MsgTypeMove         = 201
	MsgTypeDoubleMove   = 202
	MsgTypeRematchReady = 203
)

// send formats and sends a message to the WebSocket server.
func send(c *websocket.Conn, msgID uint16, data []byte) error {
	packet := make([]byte, 4+len(data))
	binary.BigEndian.PutUint16(packet[0:2], msgID)
	binary.BigEndian.PutUint16(packet[2:4], uint16(len(data)))
	copy(packet[4:], data)

	return c.WriteMessage(websocket.BinaryMessage, packet)
}

func main() {
	addr := flag.String("addr", "localhost:8080", "server address")
	name := flag.String("name", "player", "display name")
	identity := flag.String("identity", "", "durable identity for reconnects")
	flag.Parse()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	u := url.URL{Scheme: "ws", Host: *addr, Path: "/ws"}
	log.Printf("Connecting to %s", u.String())

	c, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatalf("Dial failed: %v", err)
	}
	defer c.Close()

	done := make(chan struct{})

	// Read loop
	go func() {
		defer close(done)
		for {
			_, message, err := c.ReadMessage()
			if err != nil {
				log.Println("Read error:", err)
				return
			}
			if len(message) < 4 {
				log.Printf("Received invalid packet of size %d", len(message))
				continue
			}
			msgID := binary.BigEndian.Uint16(message[0:2])
			data := message[4:]
			log.Printf("<- RECV (ID: %d): %s", msgID, string(data))
		}
	}()

	// Heartbeat loop
	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				send(c, MsgTypeHeartbeat, nil)
			}
		}
	}()

	log.Println("Commands: create | join <code> | leave | ready | unready | start | move <stop> <route> | double | rematch")

	reader := bufio.NewReader(os.Stdin)
	for {
		select {
		case <-done:
			return
		case <-interrupt:
			log.Println("Interrupt received, closing connection.")
			err := c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			if err != nil {
				log.Println("Write close error:", err)
			}
			select {
			case <-done:
			case <-time.After(time.Second):
			}
			return
		default:
			text, _ := reader.ReadString('\n')
			fields := strings.Fields(text)
			if len(fields) == 0 {
				continue
			}

			var msgID uint16
			var payload interface{}

			switch fields[0] {
			case "create":
				msgID = MsgTypeCreateRoom
				payload = map[string]string{"identity": *identity, "name": *name}
			case "join":
				if len(fields) < 2 {
					log.Println("Usage: join <code>")
					continue
				}
				msgID = MsgTypeJoinRoom
				payload = map[string]string{"room_code": strings.ToUpper(fields[1]), "identity": *identity, "name": *name}
			case "leave":
				msgID = MsgTypeLeaveRoom
				payload = map[string]string{}
			case "ready":
				msgID = MsgTypeSetReady
				payload = map[string]bool{"ready": true}
			case "unready":
				msgID = MsgTypeSetReady
				payload = map[string]bool{"ready": false}
			case "start":
				msgID = MsgTypeStartGame
				payload = map[string]string{}
			case "move":
				if len(fields) < 3 {
					log.Println("Usage: move <stop> <ground_short|ground_long|rail|water|wildcard>")
					continue
				}
				dest, err := strconv.Atoi(fields[1])
				if err != nil {
					log.Println("Destination must be a stop number")
					continue
				}
				msgID = MsgTypeMove
				payload = map[string]interface{}{"destination": dest, "route_type": fields[2]}
			case "double":
				msgID = MsgTypeDoubleMove
				payload = map[string]string{}
			case "rematch":
				msgID = MsgTypeRematchReady
				payload = map[string]bool{"ready": true}
			default:
				log.Printf("Unknown command: %s", fields[0])
				continue
			}

			data, _ := json.Marshal(payload)
			if err := send(c, msgID, data); err != nil {
				log.Println("Write error:", err)
				return
			}
			log.Printf("-> SENT: %s", fields[0])
		}
	}
}
