package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"wars/communication"
	"wars/game"
	"wars/gamemaster"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// ErrRejected wraps the server's reason when an intent is not accepted.
var ErrRejected = errors.New("intent rejected")

type ClientCommunicator struct {
	serverURL  string
	httpClient *http.Client
}

var _ communication.Communicator = (*ClientCommunicator)(nil)

// NewClientCommunicator initializes and returns a new ClientCommunicator.
func NewClientCommunicator(serverURL string) *ClientCommunicator {
	return &ClientCommunicator{
		serverURL:  strings.TrimSuffix(serverURL, "/"),
		httpClient: http.DefaultClient,
	}
}

func (cc *ClientCommunicator) GetState(ctx context.Context) (game.Snapshot, error) {
	var snap game.Snapshot
	err := cc.do(ctx, http.MethodGet, "/state", nil, &snap)
	return snap, err
}

func (cc *ClientCommunicator) SendIntent(ctx context.Context, intent game.Intent) (game.Snapshot, error) {
	data, err := json.Marshal(intent)
	if err != nil {
		return game.Snapshot{}, err
	}
	var snap game.Snapshot
	err = cc.do(ctx, http.MethodPost, "/intent", bytes.NewReader(data), &snap)
	return snap, err
}

func (cc *ClientCommunicator) GetSave(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, cc.serverURL+"/save", nil)
	if err != nil {
		return "", err
	}
	resp, err := cc.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("get save: %s", resp.Status)
	}
	return string(body), nil
}

// Updates dials the websocket stream. The channel closes when the server
// ends the stream or ctx is done.
func (cc *ClientCommunicator) Updates(ctx context.Context) (<-chan gamemaster.Update, error) {
	wsURL := "ws" + strings.TrimPrefix(cc.serverURL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", wsURL, err)
	}

	out := make(chan gamemaster.Update)
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()
	go func() {
		defer close(out)
		defer close(done)
		defer conn.Close()
		for {
			var u gamemaster.Update
			if err := conn.ReadJSON(&u); err != nil {
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure) && ctx.Err() == nil {
					log.Warn().Err(err).Msg("update stream ended")
				}
				return
			}
			select {
			case out <- u:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

func (cc *ClientCommunicator) do(ctx context.Context, method, path string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, cc.serverURL+path, body)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := cc.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var e communication.ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&e); err != nil || e.Error == "" {
			return fmt.Errorf("%s %s: %s", method, path, resp.Status)
		}
		return fmt.Errorf("%w: %s", ErrRejected, e.Error)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
