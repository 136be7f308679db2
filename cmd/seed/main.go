// Package main loads kennel fixture data into the database.
//
// Fixtures are YAML; see seed.yaml for the shape. Seeding is idempotent on
// dog and client names, so re-running against a populated database only
// fills gaps.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"kennelbook.io/kennelbook/internal/config"
	"kennelbook.io/kennelbook/internal/cycle"
	"kennelbook.io/kennelbook/internal/domain"
	"kennelbook.io/kennelbook/internal/infrastructure"
	"kennelbook.io/kennelbook/internal/pkg/logger"
	"kennelbook.io/kennelbook/internal/service"
)

type fixtureFile struct {
	Clients []clientFixture `yaml:"clients"`
	Dogs    []dogFixture    `yaml:"dogs"`
	Cycles  []cycleFixture  `yaml:"cycles"`
}

type clientFixture struct {
	Name  string `yaml:"name"`
	Email string `yaml:"email"`
	Phone string `yaml:"phone"`
}

type dogFixture struct {
	Name      string `yaml:"name"`
	CallName  string `yaml:"call_name"`
	Sex       string `yaml:"sex"`
	Breed     string `yaml:"breed"`
	BirthDate string `yaml:"birth_date"`
}

type cycleFixture struct {
	Dog       string         `yaml:"dog"`
	StartDate string         `yaml:"start_date"`
	EndDate   string         `yaml:"end_date"`
	Notes     string         `yaml:"notes"`
	Events    []eventFixture `yaml:"events"`
}

type eventFixture struct {
	Date              string   `yaml:"date"`
	Kind              string   `yaml:"kind"`
	ProgesteroneValue *float64 `yaml:"progesterone_value"`
	SireName          string   `yaml:"sire_name"`
	Notes             string   `yaml:"notes"`
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "seed error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	file := flag.String("file", "seed.yaml", "fixture file to load")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	raw, err := os.ReadFile(*file)
	if err != nil {
		return fmt.Errorf("read fixtures: %w", err)
	}
	fixtures, err := parseFixtures(raw)
	if err != nil {
		return err
	}

	ctx := context.Background()
	db, err := infrastructure.NewDatabaseClients(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := db.AutoMigrate(ctx); err != nil {
			return fmt.Errorf("auto-migrate: %w", err)
		}
	}

	store := service.NewStorage(db.Store)
	seeder := &seeder{
		records: service.NewRecordService(store),
		cycles:  service.NewCycleService(store, nil),
	}
	return seeder.load(ctx, fixtures)
}

func parseFixtures(raw []byte) (*fixtureFile, error) {
	var f fixtureFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}
	for i, c := range f.Cycles {
		if c.Dog == "" || c.StartDate == "" {
			return nil, fmt.Errorf("cycles[%d]: dog and start_date are required", i)
		}
	}
	return &f, nil
}

func parseDate(value string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", value, time.UTC)
}

type seeder struct {
	records *service.RecordService
	cycles  *service.CycleService
}

func (s *seeder) load(ctx context.Context, f *fixtureFile) error {
	for _, c := range f.Clients {
		if err := s.seedClient(ctx, c); err != nil {
			return err
		}
	}

	// Dog names become the lookup key for cycle fixtures.
	dogIDs := map[string]string{}
	for _, d := range f.Dogs {
		id, err := s.seedDog(ctx, d)
		if err != nil {
			return err
		}
		dogIDs[d.Name] = id
	}

	for i, c := range f.Cycles {
		dogID, ok := dogIDs[c.Dog]
		if !ok {
			return fmt.Errorf("cycles[%d]: unknown dog %q", i, c.Dog)
		}
		if err := s.seedCycle(ctx, dogID, c); err != nil {
			return fmt.Errorf("cycles[%d]: %w", i, err)
		}
	}

	logger.Info("Seeding completed",
		zap.Int("clients", len(f.Clients)),
		zap.Int("dogs", len(f.Dogs)),
		zap.Int("cycles", len(f.Cycles)),
	)
	return nil
}

func (s *seeder) seedClient(ctx context.Context, c clientFixture) error {
	existing, err := s.records.ListClients(ctx)
	if err != nil {
		return err
	}
	for _, e := range existing {
		if strings.EqualFold(e.Name, c.Name) {
			return nil
		}
	}
	_, err = s.records.CreateClient(ctx, &domain.Client{
		Name:  c.Name,
		Email: c.Email,
		Phone: c.Phone,
	})
	return err
}

func (s *seeder) seedDog(ctx context.Context, d dogFixture) (string, error) {
	existing, err := s.records.ListDogs(ctx, domain.DogFilter{NameQuery: d.Name})
	if err != nil {
		return "", err
	}
	for _, e := range existing {
		if strings.EqualFold(e.Name, d.Name) {
			return e.ID, nil
		}
	}

	dog := &domain.Dog{
		Name:     d.Name,
		CallName: d.CallName,
		Sex:      domain.Sex(d.Sex),
		Breed:    d.Breed,
		Active:   true,
	}
	if d.BirthDate != "" {
		born, err := parseDate(d.BirthDate)
		if err != nil {
			return "", fmt.Errorf("dog %q: birth_date: %w", d.Name, err)
		}
		dog.BirthDate = &born
	}
	created, err := s.records.CreateDog(ctx, dog)
	if err != nil {
		return "", err
	}
	return created.ID, nil
}

func (s *seeder) seedCycle(ctx context.Context, dogID string, c cycleFixture) error {
	start, err := parseDate(c.StartDate)
	if err != nil {
		return fmt.Errorf("start_date: %w", err)
	}

	existing, err := s.cycles.ListByDog(ctx, dogID)
	if err != nil {
		return err
	}
	for _, e := range existing {
		if e.StartDate.Equal(start) {
			return nil
		}
	}

	rec, err := s.cycles.StartCycle(ctx, dogID, start, c.Notes)
	if err != nil {
		return err
	}

	for i, ev := range c.Events {
		day, err := parseDate(ev.Date)
		if err != nil {
			return fmt.Errorf("events[%d]: date: %w", i, err)
		}
		_, _, err = s.cycles.AddEvent(ctx, rec.ID, service.EventInput{
			Date:              day,
			Kind:              cycle.EventKind(ev.Kind),
			ProgesteroneValue: ev.ProgesteroneValue,
			SireName:          ev.SireName,
			Notes:             ev.Notes,
		})
		if err != nil {
			return fmt.Errorf("events[%d]: %w", i, err)
		}
	}

	if c.EndDate != "" {
		end, err := parseDate(c.EndDate)
		if err != nil {
			return fmt.Errorf("end_date: %w", err)
		}
		if _, err := s.cycles.EndCycle(ctx, rec.ID, end); err != nil {
			return err
		}
	}
	return nil
}
