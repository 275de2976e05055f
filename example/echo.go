package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tgaillar/linenoise"
)

var words = []string{"help", "history", "quit", "hello", "hello-there"}

func completer(line, word string, start, end int, sink *linenoise.Sink) {
	for _, w := range words {
		if strings.HasPrefix(strings.ToLower(w), strings.ToLower(word)) {
			sink.Add(w)
		}
	}
}

func main() {
	histfile := ".echo_history"

	e := linenoise.NewEditor()
	e.SetCompletionCallback(completer)
	if err := e.LoadHistory(histfile); err != nil {
		fmt.Fprintln(os.Stderr, "load history:", err)
	}

	for {
		line, err := e.ReadLine("> ")
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, linenoise.ErrInterrupted) {
				break
			}
			fmt.Fprintln(os.Stderr, err)
			break
		}
		if line == "" {
			continue
		}
		e.AddToHistory(line)
		fmt.Println(line)
	}

	if err := e.SaveHistory(histfile); err != nil {
		fmt.Fprintln(os.Stderr, "save history:", err)
	}
}
