package main

import (
	"github.com/alphaf42/keralamla/backend/internal/server"
	"github.com/alphaf42/keralamla/backend/internal/util"
	"github.com/alphaf42/keralamla/backend/pkg/logger"
	"github.com/alphaf42/keralamla/backend/pkg/logger/console"
)

func main() {
	util.LoadEnv()

	debug := util.GetEnvBool("DEBUG", false)

	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug: debug,
	})
	logger.Init(consoleLogger)

	server.Init()
}
