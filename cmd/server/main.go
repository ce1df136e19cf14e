// Package main implements the lingua-bot server: the HTTP surface the chat
// transport drives, its database migrations and token issuing for the bot.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
