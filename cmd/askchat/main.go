// Command askchat is a terminal client for a question-answering chat service.
package main

import "github.com/diogo/askchat/internal/commands"

func main() {
	commands.Execute()
}
