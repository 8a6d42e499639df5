// Command importingredients loads the ingredient catalog from a CSV file
// with "name,measurement_unit" rows. Safe to re-run: existing rows are left
// alone.
package main

import (
	"context"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/Zh-Andrew/foodgram-project-react/config"
	"github.com/Zh-Andrew/foodgram-project-react/internal/database"
	"github.com/Zh-Andrew/foodgram-project-react/internal/service"
)

func main() {
	path := "data/ingredients.csv"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load configuration")
	}

	db, err := database.New(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("failed to connect to database")
	}
	defer func() { _ = db.Close() }()

	if err := database.AutoMigrate(db.Gorm); err != nil {
		logrus.WithError(err).Fatal("migration failed")
	}

	f, err := os.Open(path)
	if err != nil {
		logrus.WithError(err).Fatalf("cannot open %s", path)
	}
	defer func() { _ = f.Close() }()

	catalog := service.NewCatalogService(db.Gorm)
	created, err := catalog.ImportIngredients(context.Background(), f)
	if err != nil {
		logrus.WithError(err).Fatal("import failed")
	}
	logrus.WithFields(logrus.Fields{"file": path, "created": created}).Info("ingredients imported")
}
