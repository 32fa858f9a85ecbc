package main

import (
	"context"
	"log"
	"time"

	"github.com/yungbote/learnpath-backend/internal/app"
)

func main() {
	a, err := app.New()
	if err != nil {
		log.Fatalf("startup: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		a.Close(ctx)
	}()

	if err := a.Run(); err != nil {
		a.Log.Fatal("server exited", "error", err)
	}
}
