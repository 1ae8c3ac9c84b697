package main

import (
	"github.com/caesium-cloud/dolphin/cmd"
	"github.com/caesium-cloud/dolphin/pkg/env"
	"github.com/caesium-cloud/dolphin/pkg/log"
)

func main() {
	if err := env.Process(); err != nil {
		log.Fatal("environment failure", "error", err)
	}

	if err := cmd.Execute(); err != nil {
		log.Fatal("dolphin failure", "error", err)
	}
}
