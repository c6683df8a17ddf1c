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
	case []Game:
		o.printGames(v)
	case []TranscriptEntry:
		o.printTranscript(v)
	case HealthResult:
		fmt.Printf("Status: %s\n", v.Status)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Room response type (matches API)
type Room struct {
	ID           string `json:"id"`
	FriendlyName string `json:"friendly_name"`
	Type         string `json:"type"`
	MemberCount  int    `json:"member_count"`
}

// Game response type
type Game struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	DisplayName string `json:"display_name"`
	MemberCount int    `json:"member_count"`
}

// TranscriptEntry response type
type TranscriptEntry struct {
	SenderName string `json:"sender_name,omitempty"`
	SenderTag  string `json:"sender_tag,omitempty"`
	Scope      string `json:"scope"`
	Body       string `json:"body"`
	At         string `json:"at"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printRoom(r Room) {
	name := r.FriendlyName
	if name == "" {
		name = "(unnamed)"
	}
	fmt.Printf("%s  %-20s %-10s %d members\n", r.ID, name, r.Type, r.MemberCount)
}

func (o *Output) printRooms(rooms []Room) {
	if len(rooms) == 0 {
		fmt.Println("No rooms")
		return
	}
	for _, r := range rooms {
		o.printRoom(r)
	}
}

func (o *Output) printGames(games []Game) {
	if len(games) == 0 {
		fmt.Println("No games")
		return
	}
	for _, g := range games {
		fmt.Printf("%s  %-24s %-8s %d members\n", g.ID, g.DisplayName, g.Type, g.MemberCount)
	}
}

func (o *Output) printTranscript(entries []TranscriptEntry) {
	if len(entries) == 0 {
		fmt.Println("No transcript entries")
		return
	}
	for _, e := range entries {
		if e.SenderName != "" {
			fmt.Printf("[%s] (%s) %s: %s\n", e.At, e.Scope, e.SenderName, e.Body)
		} else {
			fmt.Printf("[%s] (%s) %s\n", e.At, e.Scope, e.Body)
		}
	}
}
