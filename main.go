package main

import (
	"fmt"
	"log"
	"net/http"

	"go.uber.org/zap"

	"github.com/wecarehhcs/homecare-api/api/handlers"
	"github.com/wecarehhcs/homecare-api/api/scheduler"
	"github.com/wecarehhcs/homecare-api/config"
	"github.com/wecarehhcs/homecare-api/databases"
	"github.com/wecarehhcs/homecare-api/providers"
)

func main() {
	a := handlers.App{}
	a.Config = *config.New()

	if err := a.Initialize(); err != nil {
		log.Fatal(err)
	}

	dbHelper := a.DatabaseHelper()
	s := scheduler.NewScheduler(
		databases.NewVerificationJobDatabase(dbHelper),
		databases.NewNurseProfileDatabase(dbHelper),
		databases.NewSchedulerLockDatabase(dbHelper),
		providers.NewAadhaarVerifier(&a.Config),
	)
	s.Start()
	defer s.Stop()

	zap.S().Infow("homecare-api is up and running",
		"port", a.Config.Port,
		"url", a.Config.BaseUrl,
	)
	log.Fatal(http.ListenAndServe(fmt.Sprintf(":%v", a.Config.Port), a.Router))
}
