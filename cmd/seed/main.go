package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/raqtkosh/backend/internal/config"
	"github.com/raqtkosh/backend/internal/db"
	"github.com/raqtkosh/backend/internal/model"
	"github.com/raqtkosh/backend/internal/repository"
)

func main() {
	file := flag.String("file", "", "catalog YAML; the embedded catalog is used when empty")
	flag.Parse()
	if err := run(*file); err != nil {
		log.Fatalf("seed failed: %v", err)
	}
}

func run(file string) error {
	ctx := context.Background()
	_ = godotenv.Load()

	raw := defaultCatalog
	if file != "" {
		b, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("read catalog: %w", err)
		}
		raw = b
	}
	cat, err := parseCatalog(raw)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	gdb, err := db.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	if err := db.Migrate(gdb); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	centers := repository.NewCenterRepository(gdb)
	rewards := repository.NewRewardRepository(gdb)
	inventory := repository.NewInventoryRepository(gdb)

	ids := map[string]uint64{}
	for _, c := range cat.Centers {
		row := &model.DonationCenter{
			Name:       c.Name,
			Address:    c.Address,
			City:       c.City,
			State:      c.State,
			PostalCode: c.PostalCode,
			Phone:      c.Phone,
		}
		if err := centers.Upsert(ctx, row); err != nil {
			return fmt.Errorf("upsert center %q: %w", c.Name, err)
		}
	}
	all, err := centers.List(ctx)
	if err != nil {
		return err
	}
	for _, c := range all {
		ids[c.Name] = c.ID
	}

	for _, r := range cat.Rewards {
		row := &model.Reward{
			Name:        r.Name,
			Description: r.Description,
			PointsCost:  r.PointsCost,
			ImageURL:    r.ImageURL,
			Active:      true,
		}
		if err := rewards.UpsertCatalog(ctx, row); err != nil {
			return fmt.Errorf("upsert reward %q: %w", r.Name, err)
		}
	}

	seedStock, err := shouldSeedStock(ctx, inventory)
	if err != nil {
		return err
	}
	if seedStock {
		for _, s := range cat.Stock {
			if _, err := inventory.AddStock(ctx, ids[s.Center], s.BloodType, s.Quantity); err != nil {
				return fmt.Errorf("add stock %s@%s: %w", s.BloodType, s.Center, err)
			}
		}
	} else {
		log.Printf("inventory already exists; skipping stock (set FORCE_SEED=true to override)")
	}

	log.Printf("seeded %d centers, %d rewards", len(cat.Centers), len(cat.Rewards))
	return nil
}

// shouldSeedStock keeps reruns from adding the same stock twice.
func shouldSeedStock(ctx context.Context, inv repository.InventoryRepository) (bool, error) {
	list, err := inv.List(ctx)
	if err != nil {
		return false, fmt.Errorf("list inventory: %w", err)
	}
	if len(list) == 0 {
		return true, nil
	}
	return strings.EqualFold(os.Getenv("FORCE_SEED"), "true"), nil
}
