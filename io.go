package main

import (
	"bufio"
	"fmt"
)

func printPrompt() {
	fmt.Print("db > ")
}

// readInput reads one line from reader, stripping the trailing newline. The
// caller distinguishes a normal read from io.EOF.
func readInput(reader *bufio.Reader) (string, error) {
	input, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	for len(input) > 0 && (input[len(input)-1] == '\n' || input[len(input)-1] == '\r') {
		input = input[:len(input)-1]
	}
	return input, nil
}
