package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"

	"github.com/joho/godotenv"

	"github.com/EmpoweredVote/bookshelf/internal/cli"
	"github.com/EmpoweredVote/bookshelf/internal/client"
	"github.com/EmpoweredVote/bookshelf/internal/store"
)

func main() {
	_ = godotenv.Load(".env.local")

	def := os.Getenv("BOOKSHELF_API")
	if def == "" {
		def = "http://localhost:3001/api"
	}
	api := flag.String("api", def, "base URL of the catalog API")
	flag.Parse()

	c, err := client.New(*api)
	if err != nil {
		log.Fatalf("%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	app := cli.NewApp(store.New(c), os.Stdin, os.Stdout)
	if err := app.Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}
}
