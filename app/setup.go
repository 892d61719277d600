package app

import (
	"fmt"

	"github.com/campusflow/api/api"
	"github.com/campusflow/api/config"
	"github.com/campusflow/api/database"
	"github.com/campusflow/api/router"
)

// SetupAndRunServer boots the full stack: env, database, routes, listener
func SetupAndRunServer() error {
	if err := config.LoadENV(); err != nil {
		return err
	}

	getEnv, err := config.Get()
	if err != nil {
		return err
	}

	store, err := database.StartGORM()
	if err != nil {
		print("Check whether Postgres is running or not\n")
		return err
	}

	if err := store.Init(); err != nil {
		print("Failed to initialize database tables\n")
		return err
	}

	defer store.Close()

	server := api.NewAPIServer(fmt.Sprintf(":%d", getEnv.PORT))
	app := server.GetEngine()

	router.SetupRoutes(app, store)

	return server.Run()
}
