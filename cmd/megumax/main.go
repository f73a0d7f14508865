// Command megumax is a UCI chess engine binary wiring internal/uci's
// dispatcher to the process's stdin/stdout.
package main

import (
	"log"
	"os"

	"github.com/cpirc/megumax/internal/uci"
)

func main() {
	log.SetOutput(os.Stderr)
	log.SetPrefix("megumax: ")

	dispatcher, err := uci.New(os.Stdin, os.Stdout)
	if err != nil {
		log.Fatalf("init: %v", err)
	}
	dispatcher.Run()
}
