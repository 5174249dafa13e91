package main

import (
	"log"

	"github.com/dalemusser/reliefhub/internal/app/bootstrap"
)

func main() {
	if err := bootstrap.Run(); err != nil {
		log.Fatal(err)
	}
}
