// Command client is a terminal probe for the game server: it joins a room
// over the websocket endpoint, prints everything the server broadcasts, and
// forwards typed commands as actions.
//
// Usage:
//
//	client -room ABCDEF -user alice [-name Alice] [-addr localhost:10000]
//
// Commands on stdin:
//
//	start              start the game (host only)
//	guess <lat> <lng>  submit a guess
//	reroll             reroll the location (host only)
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"log"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/gorilla/websocket"
)

func send(c *websocket.Conn, v interface{}) {
	if err := c.WriteJSON(v); err != nil {
		log.Printf("send failed: %v", err)
	}
}

func main() {
	addr := flag.String("addr", "localhost:10000", "server address")
	roomCode := flag.String("room", "", "room code")
	user := flag.String("user", "", "user id")
	name := flag.String("name", "", "display name")
	sig := flag.String("sig", "", "join signature (optional)")
	flag.Parse()

	if *roomCode == "" || *user == "" {
		log.Fatal("-room and -user are required")
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	query := url.Values{}
	query.Set("room", *roomCode)
	query.Set("user", *user)
	query.Set("name", *name)
	query.Set("sig", *sig)
	u := url.URL{Scheme: "ws", Host: *addr, Path: "/ws", RawQuery: query.Encode()}
	log.Printf("Connecting to %s", u.String())

	c, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatalf("Dial failed: %v", err)
	}
	defer c.Close()

	done := make(chan struct{})

	go func() {
		defer close(done)
		for {
			_, message, err := c.ReadMessage()
			if err != nil {
				log.Printf("read failed: %v", err)
				return
			}
			var pretty map[string]interface{}
			if err := json.Unmarshal(message, &pretty); err != nil {
				log.Printf("<- %s", message)
				continue
			}
			log.Printf("<- [%v] %s", pretty["t"], message)
		}
	}()

	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			fields := strings.Fields(scanner.Text())
			if len(fields) == 0 {
				continue
			}
			switch fields[0] {
			case "start":
				send(c, map[string]interface{}{"t": "start_game"})
			case "reroll":
				send(c, map[string]interface{}{"t": "reroll"})
			case "guess":
				if len(fields) != 3 {
					log.Println("usage: guess <lat> <lng>")
					continue
				}
				lat, err1 := strconv.ParseFloat(fields[1], 64)
				lng, err2 := strconv.ParseFloat(fields[2], 64)
				if err1 != nil || err2 != nil {
					log.Println("usage: guess <lat> <lng>")
					continue
				}
				send(c, map[string]interface{}{"t": "guess", "lat": lat, "lng": lng})
			default:
				log.Printf("unknown command %q", fields[0])
			}
		}
	}()

	select {
	case <-done:
	case <-interrupt:
		log.Println("interrupted")
		c.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	}
}
