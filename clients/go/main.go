// SwapSouq CLI - command line client for the messaging API.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"
	"unicode/utf8"

	"github.com/swapsouq/messaging/clients/go/swapsouq"
	"github.com/swapsouq/messaging/internal/audio"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	baseURL := os.Getenv("SOUQ_URL")
	userID := os.Getenv("SOUQ_USER")

	client := swapsouq.NewClient(baseURL, userID)
	cmd := os.Args[1]

	switch cmd {
	case "health":
		resp, err := client.Health()
		exitOnError(err)
		printJSON(resp)

	case "stats":
		resp, err := client.Stats()
		exitOnError(err)
		printJSON(resp)

	case "inbox":
		resp, err := client.Inbox()
		exitOnError(err)
		for _, row := range resp.Conversations {
			ts := time.UnixMilli(row.LastMessage.Timestamp).Format("2006-01-02 15:04")
			badge := ""
			if row.Unread > 0 {
				badge = fmt.Sprintf(" (%d unread)", row.Unread)
			}
			fmt.Printf("[%s] %s · %s%s\n    %s\n", ts, row.Partner.Name, row.Listing.Title, badge, preview(row.LastMessage))
		}

	case "read":
		if len(os.Args) < 4 {
			fmt.Fprintln(os.Stderr, "Usage: souq read <partner_id> <listing_id>")
			os.Exit(1)
		}
		resp, err := client.Conversation(os.Args[2], os.Args[3])
		exitOnError(err)
		fmt.Printf("%s · %s\n", resp.Partner.Name, resp.Listing.Title)
		for _, msg := range resp.Messages {
			ts := time.UnixMilli(msg.Timestamp).Format("15:04:05")
			fmt.Printf("[%s] %s: %s\n", ts, shortID(msg.SenderID), msg.Content)
		}

	case "send":
		if len(os.Args) < 5 {
			fmt.Fprintln(os.Stderr, "Usage: souq send <partner_id> <listing_id> <message>")
			os.Exit(1)
		}
		msg, err := client.SendText(os.Args[2], os.Args[3], os.Args[4])
		exitOnError(err)
		fmt.Printf("Sent: %s\n", msg.ID)

	case "voice":
		if len(os.Args) < 5 {
			fmt.Fprintln(os.Stderr, "Usage: souq voice <partner_id> <listing_id> <file>")
			os.Exit(1)
		}
		payload, mime, err := recordVoice(context.Background(), os.Args[4])
		if errors.Is(err, audio.ErrRecordingTooShort) {
			fmt.Fprintln(os.Stderr, "Recording too short, nothing sent")
			os.Exit(1)
		}
		exitOnError(err)
		msg, err := client.SendAudio(os.Args[2], os.Args[3], mime, payload)
		exitOnError(err)
		fmt.Printf("Sent voice message: %s\n", msg.ID)

	case "unread":
		resp, err := client.Unread()
		exitOnError(err)
		fmt.Printf("%d unread\n", resp.Unread)

	case "search":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "Usage: souq search <query>")
			os.Exit(1)
		}
		resp, err := client.Find(os.Args[2], 20, "")
		exitOnError(err)
		for _, res := range resp.Results {
			ts := time.UnixMilli(res.Timestamp).Format("2006-01-02 15:04")
			fmt.Printf("[%s] %s: %s\n", ts, shortID(res.SenderID), res.Body)
		}

	case "register":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "Usage: souq register <name>")
			os.Exit(1)
		}
		user, err := client.CreateUser(os.Args[2])
		exitOnError(err)
		fmt.Printf("Created user: %s\n", user.ID)

	default:
		usage()
		os.Exit(1)
	}
}

// preview renders a one-line inbox preview for any message type.
func preview(msg swapsouq.Message) string {
	switch msg.Type {
	case "image":
		return "[image]"
	case "audio":
		return "[voice message]"
	}
	body := msg.Content
	if utf8.RuneCountInString(body) > 60 {
		body = string([]rune(body)[:57]) + "..."
	}
	return body
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func printJSON(v interface{}) {
	data, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(data))
}

func exitOnError(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `SwapSouq messaging CLI

Usage: souq <command> [args]

Environment:
  SOUQ_URL   API base URL (default http://localhost:8080)
  SOUQ_USER  viewer user ID for authenticated commands

Commands:
  health                                  check service health
  stats                                   show platform counts
  register <name>                         create a user record
  inbox                                   list conversations
  read <partner_id> <listing_id>          read a conversation
  send <partner_id> <listing_id> <text>   send a text message
  voice <partner_id> <listing_id> <file>  send a pre-encoded voice recording
  unread                                  show unread count
  search <query>                          search your messages`)
}
