package main

import (
	"github.com/Imm0bilize/carbon-predict-client/internal/app"
	"github.com/Imm0bilize/carbon-predict-client/internal/config"
	"log"
	"os"
)

func main() {
	cfg, err := config.New(".env.public")
	if err != nil {
		log.Fatal(err)
	}

	if err = app.Run(cfg, os.Stdout); err != nil {
		log.Fatal(err)
	}
}
