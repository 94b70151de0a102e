package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/apper-canvas/impact-sketch-rush/logger"
)

const messagesPerClient = 100

var guesses = []string{"apple", "tiger", "pizza", "guitar", "rainbow", "soccer", "banana", "kite"}

type WSMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type client struct {
	id    string
	token string
}

func main() {
	args := os.Args
	if len(args) < 2 {
		logger.Error("Usage: loadtest <number_of_clients> [session_id] [base_url]")
		os.Exit(2)
	}

	numClients, err := strconv.Atoi(args[1])
	if err != nil || numClients < 1 {
		logger.Error("Invalid number of clients: %s", args[1])
		os.Exit(2)
	}
	base := "http://localhost:3000"
	if len(args) >= 4 {
		base = strings.TrimRight(args[3], "/")
	}

	clients := make([]client, numClients)
	for i := range clients {
		if clients[i], err = register(base, fmt.Sprintf("bot%d", i)); err != nil {
			logger.Error("register bot%d: %v", i, err)
			os.Exit(1)
		}
	}

	var sessionID int64
	joiners := clients
	if len(args) >= 3 {
		if sessionID, err = strconv.ParseInt(args[2], 10, 64); err != nil {
			logger.Error("Invalid session id: %s", args[2])
			os.Exit(2)
		}
	} else {
		if sessionID, err = createSession(base, clients[0]); err != nil {
			logger.Error("create session: %v", err)
			os.Exit(1)
		}
		joiners = clients[1:]
		logger.Info("Created session: %d", sessionID)
	}

	for _, c := range joiners {
		if err := post(base, fmt.Sprintf("/sessions/%d/join", sessionID), c.token, nil, nil); err != nil {
			logger.Error("%s join: %v", c.id, err)
		}
	}
	if len(args) < 3 && numClients >= 2 {
		if err := post(base, fmt.Sprintf("/sessions/%d/start", sessionID), clients[0].token, nil, nil); err != nil {
			logger.Error("start: %v", err)
		}
	}

	var wg sync.WaitGroup
	for _, c := range clients {
		wg.Add(1)
		go func() {
			defer wg.Done()
			connectAndSpam(base, sessionID, c)
		}()
	}
	wg.Wait()
}

func register(base, name string) (client, error) {
	var res struct {
		Player struct {
			ID string `json:"id"`
		} `json:"player"`
		Token string `json:"token"`
	}
	if err := post(base, "/players", "", map[string]string{"name": name}, &res); err != nil {
		return client{}, err
	}
	return client{id: res.Player.ID, token: res.Token}, nil
}

func createSession(base string, host client) (int64, error) {
	var res struct {
		ID int64 `json:"id"`
	}
	if err := post(base, "/sessions", host.token, nil, &res); err != nil {
		return 0, err
	}
	return res.ID, nil
}

func post(base, path, token string, body, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequest(http.MethodPost, base+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		return fmt.Errorf("%s %s: %d %s", http.MethodPost, path, resp.StatusCode, e.Error)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func wsURL(base string, sessionID int64, token string) string {
	u, _ := url.Parse(base)
	u.Scheme = strings.Replace(u.Scheme, "http", "ws", 1)
	u.Path = fmt.Sprintf("/ws/%d", sessionID)
	u.RawQuery = url.Values{"token": {token}}.Encode()
	return u.String()
}

func connectAndSpam(base string, sessionID int64, c client) {
	conn, _, err := websocket.DefaultDialer.Dial(wsURL(base, sessionID, c.token), nil)
	if err != nil {
		logger.Error("%s ws connect: %v", c.id, err)
		return
	}
	defer conn.Close()
	logger.Info("%s joined", c.id)

	go func() {
		for {
			var msg WSMessage
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}
			switch msg.Type {
			case "guess_result", "turn_started", "session_finished", "error":
				logger.Debug("%s <- %s %s", c.id, msg.Type, msg.Data)
			}
		}
	}()

	for i := 0; i < messagesPerClient; i++ {
		if err := conn.WriteJSON(randomMessage()); err != nil {
			logger.Error("%s write: %v", c.id, err)
			return
		}
		// Random delay between 100-1000ms
		time.Sleep(time.Duration(100+rand.IntN(900)) * time.Millisecond)
	}

	logger.Info("%s finished sending messages", c.id)
}

func randomMessage() WSMessage {
	switch rand.IntN(3) {
	case 0:
		return WSMessage{
			Type: "stroke",
			Data: json.RawMessage(fmt.Sprintf(`{"strokeColor":"#000000","strokeWidth":4,"paths":[{"x":%d,"y":%d},{"x":%d,"y":%d}]}`,
				rand.IntN(800), rand.IntN(600), rand.IntN(800), rand.IntN(600))),
		}
	case 1:
		return WSMessage{
			Type: "draw_point",
			Data: json.RawMessage(fmt.Sprintf(`{"x":%d,"y":%d}`, rand.IntN(800), rand.IntN(600))),
		}
	default:
		data, _ := json.Marshal(map[string]string{"guess": guesses[rand.IntN(len(guesses))]})
		return WSMessage{Type: "guess", Data: data}
	}
}
