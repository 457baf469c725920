package main

import (
	"log"
	"math/rand"
	"net/http"
	"os"
	"time"

	"github.com/shopshap/shopshap/app/cmd"
	"github.com/shopshap/shopshap/app/configs"
	"github.com/shopshap/shopshap/app/routes"
	"github.com/shopshap/shopshap/app/services"
)

func main() {

	env := configs.LoadEnv()
	if len(os.Args) > 1 {
		cmd.RunCli()
		return
	}

	rand.Seed(time.Now().UnixNano())

	keys, err := configs.LoadSessionKeysFromEnv()
	if err != nil {
		log.Fatalf("Session keys not usable: %v. Run 'generate-keys' and update your .env file.", err)
	}

	db, err := configs.OpenConnection()
	if err != nil {
		log.Fatal("DB connection failed:", err)

	}
	log.Println("✅ Database connected.")

	storage, err := services.NewS3StorageService(env)
	if err != nil {
		log.Fatal("Storage client failed:", err)
	}
	log.Println("✅ Storage client initialized.")

	router := routes.NewRouter(db, keys, storage)

	server := http.Server{
		Addr:    env.Port,
		Handler: router,
	}

	log.Printf("🚀 Server starting on %s", server.Addr)
	if err := server.ListenAndServe(); err != nil {
		log.Println("failed to connecting to the server")
	}

}
