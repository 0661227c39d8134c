package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/jkbrsn/textcomp"
)

func main() {
	args := os.Args
	if len(args) < 2 {
		log.Fatalf("Usage: go run main.go PLAYER")
	}
	player := args[1]

	// Build a chat line the way a server would announce a join
	msg := textcomp.Translate("multiplayer.player.joined",
		textcomp.Plain(player).
			ColorNamed(textcomp.Yellow).
			ClickEvent(textcomp.SuggestCommand("/msg "+player+" ")).
			Text(),
	).ColorNamed(textcomp.Yellow)

	// Structural form, as sent in JSON payloads
	data, err := json.Marshal(msg)
	if err != nil {
		log.Fatalf("Failed to marshal component: %v", err)
	}
	fmt.Printf("JSON:    %s\n", data)

	// Binary form, as embedded in NBT payloads
	record, err := msg.MarshalBinary()
	if err != nil {
		log.Fatalf("Failed to encode component: %v", err)
	}
	fmt.Printf("NBT:     %s\n", hex.EncodeToString(record))

	// Round trip through the binary form
	decoded, err := textcomp.DecodeBinary(record)
	if err != nil {
		log.Fatalf("Failed to decode component: %v", err)
	}
	fmt.Printf("Console: %s\n", decoded.ConsoleString())
}
