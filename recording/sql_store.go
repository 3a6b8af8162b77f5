package recording

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/go-gl/mathgl/mgl64"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type demoRecord struct {
	ID         uint   `gorm:"primaryKey"`
	Name       string `gorm:"uniqueIndex;not null"`
	Entity     uint64
	FrameTime  float64
	RecordedAt time.Time
	Snapshots  []snapshotRecord `gorm:"foreignKey:DemoID"`
}

func (demoRecord) TableName() string { return "demos" }

type snapshotRecord struct {
	ID     uint `gorm:"primaryKey"`
	DemoID uint `gorm:"index;not null"`
	Seq    int

	VelocityX, VelocityY, VelocityZ float64
	PositionX, PositionY, PositionZ float64
	RotationW                       float64
	RotationX, RotationY, RotationZ float64
}

func (snapshotRecord) TableName() string { return "demo_snapshots" }

// SQLStore keeps demos in a SQLite database.
type SQLStore struct {
	db *gorm.DB
}

// OpenSQLStore opens (creating if needed) the database at path and migrates
// the schema.
func OpenSQLStore(path string) (*SQLStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("recording: create %s: %w", dir, err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		SkipDefaultTransaction: true,
		CreateBatchSize:        2000,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("recording: open %s: %w", path, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("recording: access sql interface: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&demoRecord{}, &snapshotRecord{}); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("recording: migrate: %w", err)
	}
	return &SQLStore{db: db}, nil
}

func (s *SQLStore) Save(ctx context.Context, demos ...Demo) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, demo := range demos {
			if err := deleteDemo(tx, demo.Name); err != nil {
				return fmt.Errorf("recording: replace %s: %w", demo.Name, err)
			}
			rec := toRecord(demo)
			if err := tx.Create(&rec).Error; err != nil {
				return fmt.Errorf("recording: insert %s: %w", demo.Name, err)
			}
		}
		return nil
	})
}

func deleteDemo(tx *gorm.DB, name string) error {
	ids := tx.Model(&demoRecord{}).Select("id").Where("name = ?", name)
	if err := tx.Where("demo_id IN (?)", ids).Delete(&snapshotRecord{}).Error; err != nil {
		return err
	}
	return tx.Where("name = ?", name).Delete(&demoRecord{}).Error
}

func (s *SQLStore) Load(ctx context.Context, name string) (Demo, error) {
	var rec demoRecord
	err := s.db.WithContext(ctx).
		Preload("Snapshots", func(db *gorm.DB) *gorm.DB { return db.Order("seq") }).
		Where("name = ?", name).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Demo{}, fmt.Errorf("recording: load %s: %w", name, ErrDemoNotFound)
	}
	if err != nil {
		return Demo{}, fmt.Errorf("recording: load %s: %w", name, err)
	}
	return fromRecord(rec), nil
}

func (s *SQLStore) List(ctx context.Context) ([]string, error) {
	var names []string
	if err := s.db.WithContext(ctx).Model(&demoRecord{}).Order("name").Pluck("name", &names).Error; err != nil {
		return nil, fmt.Errorf("recording: list: %w", err)
	}
	return names, nil
}

func (s *SQLStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func toRecord(d Demo) demoRecord {
	rec := demoRecord{
		Name:       d.Name,
		Entity:     d.Entity,
		FrameTime:  d.FrameTime,
		RecordedAt: d.RecordedAt,
		Snapshots:  make([]snapshotRecord, 0, len(d.Snapshots)),
	}
	for i, s := range d.Snapshots {
		rec.Snapshots = append(rec.Snapshots, snapshotRecord{
			Seq:       i,
			VelocityX: s.Velocity.X(), VelocityY: s.Velocity.Y(), VelocityZ: s.Velocity.Z(),
			PositionX: s.Position.X(), PositionY: s.Position.Y(), PositionZ: s.Position.Z(),
			RotationW: s.Rotation.W,
			RotationX: s.Rotation.V.X(), RotationY: s.Rotation.V.Y(), RotationZ: s.Rotation.V.Z(),
		})
	}
	return rec
}

func fromRecord(rec demoRecord) Demo {
	d := Demo{
		Name:       rec.Name,
		Entity:     rec.Entity,
		FrameTime:  rec.FrameTime,
		RecordedAt: rec.RecordedAt,
		Snapshots:  make([]Snapshot, 0, len(rec.Snapshots)),
	}
	for _, s := range rec.Snapshots {
		d.Snapshots = append(d.Snapshots, Snapshot{
			Velocity: mgl64.Vec3{s.VelocityX, s.VelocityY, s.VelocityZ},
			Position: mgl64.Vec3{s.PositionX, s.PositionY, s.PositionZ},
			Rotation: mgl64.Quat{W: s.RotationW, V: mgl64.Vec3{s.RotationX, s.RotationY, s.RotationZ}},
		})
	}
	return d
}
