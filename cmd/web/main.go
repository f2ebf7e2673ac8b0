package main

import (
	"log"

	"github.com/fayzullarakhmatullayev/cosmo-fox-mini/internal/server"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	if err := server.Run(); err != nil {
		log.Fatal(err.Error())
	}
}
