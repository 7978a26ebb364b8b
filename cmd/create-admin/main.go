package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/antonetteqpkkkkk/Fish-Price-Monitoring-System/internal/infrastructure/config"
	"github.com/antonetteqpkkkkk/Fish-Price-Monitoring-System/internal/tools/createadmin"
)

func main() {
	ctx := context.Background()

	env, err := config.Load(ctx)
	if err != nil {
		exitf("load config: %v", err)
	}
	cfg, err := createadmin.ParseConfig(flag.CommandLine, os.Args[1:], env.DatabaseURL)
	if err != nil {
		exitf("parse flags: %v", err)
	}
	if err := createadmin.Run(ctx, cfg, os.Stdout); err != nil {
		exitf("create admin: %v", err)
	}
}

func exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
