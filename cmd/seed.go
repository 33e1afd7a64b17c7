package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"

	"github.com/keviiweb/VBS-sub000/internal/domain"
	"github.com/keviiweb/VBS-sub000/pkg/types"
)

// seedFile справочные данные: площадки и CCA
type seedFile struct {
	Venues []seedVenue `toml:"venues" validate:"dive"`
	CCAs   []seedCCA   `toml:"ccas" validate:"dive"`
}

type seedVenue struct {
	ID          string `toml:"id" validate:"required"`
	Name        string `toml:"name" validate:"required"`
	Description string `toml:"description"`
	Capacity    int    `toml:"capacity" validate:"min=0"`
	ParentID    string `toml:"parent_id"`
	Hidden      bool   `toml:"hidden"`
	OpenTime    string `toml:"open_time" validate:"required,datetime=15:04"`
	CloseTime   string `toml:"close_time" validate:"required,datetime=15:04"`
}

type seedCCA struct {
	ID          string `toml:"id" validate:"required"`
	Name        string `toml:"name" validate:"required"`
	Description string `toml:"description"`
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed <file>",
		Short: "Load venues and CCAs from a TOML seed file into Postgres",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			storage, err := openPostgresStorage(ctx)
			if err != nil {
				return err
			}
			defer storage.Close()

			return seedFromFile(ctx, storage, args[0])
		},
	}
}

// seedFromFile читает файл и сохраняет его содержимое одной транзакцией
func seedFromFile(ctx context.Context, storage *Storage, path string) error {
	seed, err := loadSeed(path)
	if err != nil {
		return err
	}

	err = storage.TxManager.Do(ctx, func(ctx context.Context) error {
		return applySeed(ctx, storage.Venues, storage.CCAs, seed)
	})
	if err != nil {
		return fmt.Errorf("failed to seed %s: %w", path, err)
	}

	app.log.Info("Seeded %d venue(s) and %d CCA(s) from %s", len(seed.Venues), len(seed.CCAs), path)
	return nil
}

// loadSeed декодирует и проверяет файл
func loadSeed(path string) (*seedFile, error) {
	var seed seedFile
	if _, err := toml.DecodeFile(path, &seed); err != nil {
		return nil, fmt.Errorf("failed to decode seed file %s: %w", path, err)
	}

	if err := validator.New().Struct(&seed); err != nil {
		return nil, fmt.Errorf("invalid seed file %s: %w", path, err)
	}

	return &seed, nil
}

// applySeed сохраняет площадки и CCA; родительская площадка должна идти раньше дочерней
func applySeed(ctx context.Context, venues venueStore, ccas ccaStore, seed *seedFile) error {
	for _, v := range seed.Venues {
		venue := &domain.Venue{
			ID:          v.ID,
			Name:        v.Name,
			Description: v.Description,
			Capacity:    v.Capacity,
			Visible:     !v.Hidden,
			OpenTime:    types.TimeString(strings.TrimSpace(v.OpenTime)),
			CloseTime:   types.TimeString(strings.TrimSpace(v.CloseTime)),
		}
		if v.ParentID != "" {
			parentID := v.ParentID
			venue.ParentID = &parentID
			venue.IsChildVenue = true
		}

		if _, err := venue.SlotLayout(); err != nil {
			return fmt.Errorf("venue %s: %w", v.ID, err)
		}

		if _, err := venues.Create(ctx, venue); err != nil {
			return fmt.Errorf("venue %s: %w", v.ID, err)
		}
	}

	for _, c := range seed.CCAs {
		cca := &domain.CCA{
			ID:          c.ID,
			Name:        c.Name,
			Description: c.Description,
		}
		if _, err := ccas.Create(ctx, cca); err != nil {
			return fmt.Errorf("cca %s: %w", c.ID, err)
		}
	}

	return nil
}
