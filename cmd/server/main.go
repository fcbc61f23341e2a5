package main

import (
	"fmt"
	"os"

	"github.com/videoshowcase/backend/internal/app"
)

func main() {
	application, err := app.New()
	if err != nil {
		fmt.Printf("Failed to start: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	if err := application.Run(); err != nil {
		application.Log.Fatal("Server exited", "error", err)
	}
}
