package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apri1221/localpulse-api/config"
	"github.com/Apri1221/localpulse-api/models"
)

// Creates the poi_density schema and loads a JSON array of POI records into
// the configured sqlite file. Safe to re-run: existing rows are replaced by
// primary key.
func main() {
	dataFile := flag.String("file", "data/poi.json", "path to the POI JSON file")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.LoadConfig()

	db, err := gorm.Open(sqlite.Open(cfg.Database.Path), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to open database:", err)
	}

	if err := db.AutoMigrate(&models.POI{}); err != nil {
		log.Fatal("failed to migrate schema:", err)
	}

	payload, err := os.ReadFile(*dataFile)
	if err != nil {
		log.Fatal("failed to read data file:", err)
	}

	var pois []models.POI
	if err := json.Unmarshal(payload, &pois); err != nil {
		log.Fatal("failed to parse data file:", err)
	}
	if len(pois) == 0 {
		log.Fatal("no poi records in data file")
	}

	if err := db.Clauses(clause.OnConflict{UpdateAll: true}).CreateInBatches(pois, 500).Error; err != nil {
		log.Fatal("failed to insert poi records:", err)
	}

	log.Printf("seeded %d poi records into %s", len(pois), cfg.Database.Path)
}
