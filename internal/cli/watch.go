package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
)

func newWatchCmd() *cobra.Command {
	var (
		roomID     string
		pseudo     string
		jsonOutput bool
		count      int
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Stream websocket events from the server",
		Long: `Connect to the server's websocket endpoint and stream events in real-time.

With --room the connection joins that room as a player and also receives its
room-scoped broadcasts:
  - rooms_list: Lobby room list changed
  - player_joined: A member joined the room
  - game_started: Game has started
  - roll_dice_update: A player rolled the dice
  - turn_update: The active player changed
  - game_state_sync: Snapshot of a game already in progress

Press Ctrl+C to disconnect.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return streamEvents(roomID, pseudo, jsonOutput, count)
		},
	}

	cmd.Flags().StringVar(&roomID, "room", "", "Join this room before streaming")
	cmd.Flags().StringVar(&pseudo, "pseudo", "", "Display name to join with (default: server-assigned guest name)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output events as JSON lines")
	cmd.Flags().IntVar(&count, "count", 0, "Disconnect after this many events (0: stream forever)")

	return cmd
}

// wireEvent is the server's websocket envelope
type wireEvent struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// loggedEvent is the JSON-lines output shape
type loggedEvent struct {
	Time    time.Time       `json:"time"`
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

func streamEvents(roomID, pseudo string, jsonOutput bool, count int) error {
	conn, _, err := websocket.DefaultDialer.Dial(client.WebsocketURL(), nil)
	if err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}
	defer func() { _ = conn.Close() }()

	// Handle interrupt
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			cancel()
			_ = conn.Close()
		case <-ctx.Done():
		}
	}()

	if roomID != "" {
		payload, err := json.Marshal(map[string]string{"roomId": roomID, "pseudo": pseudo})
		if err != nil {
			return err
		}
		join := wireEvent{Type: "join_room", Payload: payload}
		if err := conn.WriteJSON(join); err != nil {
			return fmt.Errorf("join failed: %w", err)
		}
	}

	if !jsonOutput {
		if roomID != "" {
			fmt.Printf("Watching room %s\n", roomID)
		} else {
			fmt.Println("Watching lobby")
		}
	}

	seen := 0
	for {
		var evt wireEvent
		if err := conn.ReadJSON(&evt); err != nil {
			// Interrupt closes the socket underneath the read
			if ctx.Err() != nil {
				if !jsonOutput {
					fmt.Println("\nDisconnected")
				}
				return nil
			}
			return fmt.Errorf("stream error: %w", err)
		}

		printWireEvent(evt, jsonOutput)

		seen++
		if count > 0 && seen >= count {
			if !jsonOutput {
				fmt.Println("Disconnected")
			}
			return nil
		}
	}
}

func printWireEvent(evt wireEvent, jsonOutput bool) {
	now := time.Now()

	if jsonOutput {
		data, _ := json.Marshal(loggedEvent{Time: now, Event: evt.Type, Payload: evt.Payload})
		fmt.Println(string(data))
	} else {
		display := string(evt.Payload)
		if len(display) > 100 {
			display = display[:100] + "..."
		}
		fmt.Printf("[%s] %s: %s\n", now.Format("2006-01-02 15:04:05"), evt.Type, display)
	}
}
