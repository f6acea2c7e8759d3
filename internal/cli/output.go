package cli

import (
	"encoding/json"
	"fmt"
	"os"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case []Room:
		o.printRooms(v)
	case Room:
		o.printRoom(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Room response type (matches API)
type Room struct {
	ID                 string       `json:"id"`
	Name               string       `json:"name"`
	Players            []RoomMember `json:"players"`
	MaxPlayers         int          `json:"maxPlayers"`
	IsPrivate          bool         `json:"isPrivate"`
	GameState          string       `json:"gameState"`
	CurrentPlayerIndex int          `json:"currentPlayerIndex"`
}

// RoomMember response type
type RoomMember struct {
	ID       string `json:"id"`
	Pseudo   string `json:"pseudo"`
	Money    int    `json:"money"`
	Position int    `json:"position"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printRooms(rooms []Room) {
	fmt.Printf("Rooms (%d):\n", len(rooms))
	for _, r := range rooms {
		o.printRoom(r)
	}
}

func (o *Output) printRoom(r Room) {
	privateStr := ""
	if r.IsPrivate {
		privateStr = " [private]"
	}
	fmt.Printf("%s (%s) - %s, %d/%d players%s\n", r.Name, r.ID, r.GameState, len(r.Players), r.MaxPlayers, privateStr)
	for i, m := range r.Players {
		activeStr := ""
		if r.GameState == "playing" && i == r.CurrentPlayerIndex {
			activeStr = " [active]"
		}
		fmt.Printf("  - %s: %d on square %d%s\n", m.Pseudo, m.Money, m.Position, activeStr)
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
