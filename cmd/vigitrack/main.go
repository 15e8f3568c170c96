package main

import (
	"fmt"
	"os"

	_ "github.com/abhishekpnaik05/vigitrack/docs"
)

// @title VigiTrack API
// @version 1.0
// @description VigiTrack fleet tracking dashboard API: devices, trips, geofences, notifications and assistant flows.

// @contact.name API Support
// @contact.email support@vigitrack.local

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:3000
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	rootcmd.AddCommand(servecmd, migratecmd, seedcmd)

	if err := rootcmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
