package main

import (
	"context"
	"log"

	"github.com/gabapcia/depositwatch/internal/handlers/cli"
)

func main() {
	if err := cli.Run(context.Background()); err != nil {
		log.Fatal(err)
	}
}
