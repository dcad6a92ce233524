package main

import (
	"log"
	"os"

	"github.com/Renal37/karigar-desk/internal/logger"
)

func main() {
	if err := logger.Initialize("warn", "development"); err != nil {
		log.Fatalf("Logger wasn't initialized due to %s", err)
	}

	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
