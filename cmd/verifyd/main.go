package main

import (
	"flag"
	"log"

	"github.com/tech-arch1tect/verifycode"
)

func main() {
	mode := flag.String("mode", "", "all, verify or gateway; overrides APP_MODE")
	flag.Parse()

	application, err := verifycode.New(verifycode.WithMode(*mode))
	if err != nil {
		log.Fatalf("failed to build application: %v", err)
	}

	if err := application.Run(); err != nil {
		log.Fatalf("application error: %v", err)
	}
}
