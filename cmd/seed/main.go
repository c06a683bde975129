// Command seed inserts demo users with pre-resolved locations, so local
// development works without an OpenWeather API key.
package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/brookse/smartdoc-backend/config"
)

type seedUser struct {
	name      string
	zipcode   string
	latitude  float64
	longitude float64
	timezone  string
}

var demoUsers = []seedUser{
	{"Ana", "10001", 40.7484, -73.9967, "America/New_York"},
	{"Marcus", "94103", 37.7725, -122.4147, "America/Los_Angeles"},
	{"Priya", "60614-1234", 41.9230, -87.6487, "America/Chicago"},
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	for _, u := range demoUsers {
		var id string
		err := db.QueryRow(`
			INSERT INTO users (name, zipcode, latitude, longitude, timezone)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`, u.name, u.zipcode, u.latitude, u.longitude, u.timezone).Scan(&id)
		if err != nil {
			log.Fatalf("failed to seed user %q: %v", u.name, err)
		}
		fmt.Printf("seeded user: id=%s name=%s zipcode=%s timezone=%s\n", id, u.name, u.zipcode, u.timezone)
	}
}
