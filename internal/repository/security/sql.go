package security

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	domain "github.com/oshokin/catpoint/internal/domain/security"
)

// statusRowID is the primary key of the single status row.
const statusRowID = 1

// sensorRecord is the database row of a sensor.
type sensorRecord struct {
	ID        string `gorm:"primaryKey"`
	Name      string `gorm:"index"`
	Type      string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName pins the table name.
func (sensorRecord) TableName() string { return "sensors" }

// statusRecord is the single row holding arming and alarm statuses.
type statusRecord struct {
	ID           uint `gorm:"primaryKey"`
	ArmingStatus string
	AlarmStatus  string
	UpdatedAt    time.Time
}

// TableName pins the table name.
func (statusRecord) TableName() string { return "statuses" }

// SQLRepository persists the controller state in a relational database via gorm.
type SQLRepository struct {
	// db is the gorm handle; every call derives a context-bound session from it.
	db *gorm.DB
}

// OpenSQLite opens (or creates) a sqlite database at the given DSN.
func OpenSQLite(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	return db, nil
}

// NewSQLRepository migrates the schema and returns a repository backed by db.
func NewSQLRepository(ctx context.Context, db *gorm.DB) (*SQLRepository, error) {
	if err := db.WithContext(ctx).AutoMigrate(&sensorRecord{}, &statusRecord{}); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}

	return &SQLRepository{db: db}, nil
}

// Close releases the underlying database connection.
func (r *SQLRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("get database handle: %w", err)
	}

	return sqlDB.Close()
}

// ArmingStatus returns the persisted arming status.
func (r *SQLRepository) ArmingStatus(ctx context.Context) (domain.ArmingStatus, error) {
	record, err := r.status(ctx)
	if err != nil {
		return domain.Disarmed, err
	}

	status, err := domain.ParseArmingStatus(record.ArmingStatus)
	if err != nil {
		return domain.Disarmed, fmt.Errorf("decode arming status: %w", err)
	}

	return status, nil
}

// SetArmingStatus persists the arming status.
func (r *SQLRepository) SetArmingStatus(ctx context.Context, status domain.ArmingStatus) error {
	return r.updateStatus(ctx, func(record *statusRecord) {
		record.ArmingStatus = status.String()
	})
}

// AlarmStatus returns the persisted alarm status.
func (r *SQLRepository) AlarmStatus(ctx context.Context) (domain.AlarmStatus, error) {
	record, err := r.status(ctx)
	if err != nil {
		return domain.NoAlarm, err
	}

	status, err := domain.ParseAlarmStatus(record.AlarmStatus)
	if err != nil {
		return domain.NoAlarm, fmt.Errorf("decode alarm status: %w", err)
	}

	return status, nil
}

// SetAlarmStatus persists the alarm status.
func (r *SQLRepository) SetAlarmStatus(ctx context.Context, status domain.AlarmStatus) error {
	return r.updateStatus(ctx, func(record *statusRecord) {
		record.AlarmStatus = status.String()
	})
}

// Sensors returns all sensors sorted by name.
func (r *SQLRepository) Sensors(ctx context.Context) ([]*domain.Sensor, error) {
	var records []sensorRecord
	if err := r.db.WithContext(ctx).Order("name, id").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("query sensors: %w", err)
	}

	sensors := make([]*domain.Sensor, 0, len(records))

	for i := range records {
		sensor, err := fromRecord(&records[i])
		if err != nil {
			return nil, err
		}

		sensors = append(sensors, sensor)
	}

	return sensors, nil
}

// Sensor returns the sensor with the given ID.
func (r *SQLRepository) Sensor(ctx context.Context, id string) (*domain.Sensor, error) {
	var record sensorRecord

	err := r.db.WithContext(ctx).Where("id = ?", id).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrSensorNotFound, id)
		}

		return nil, fmt.Errorf("query sensor: %w", err)
	}

	return fromRecord(&record)
}

// AddSensor inserts a new sensor.
func (r *SQLRepository) AddSensor(ctx context.Context, sensor *domain.Sensor) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&sensorRecord{}).Where("id = ?", sensor.ID).Count(&count).Error; err != nil {
			return fmt.Errorf("check sensor: %w", err)
		}

		if count > 0 {
			return fmt.Errorf("%w: %s", ErrSensorExists, sensor.ID)
		}

		record := toRecord(sensor)
		if err := tx.Create(record).Error; err != nil {
			return fmt.Errorf("insert sensor: %w", err)
		}

		return nil
	})
}

// RemoveSensor deletes the sensor with the given ID.
func (r *SQLRepository) RemoveSensor(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&sensorRecord{})
	if result.Error != nil {
		return fmt.Errorf("delete sensor: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrSensorNotFound, id)
	}

	return nil
}

// UpdateSensor overwrites name, type and active flag of an existing sensor.
func (r *SQLRepository) UpdateSensor(ctx context.Context, sensor *domain.Sensor) error {
	result := r.db.WithContext(ctx).
		Model(&sensorRecord{}).
		Where("id = ?", sensor.ID).
		Updates(map[string]any{
			"name":       sensor.Name,
			"type":       sensor.Type.String(),
			"active":     sensor.Active,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("update sensor: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrSensorNotFound, sensor.ID)
	}

	return nil
}

// status loads the status row, or the initial values when none is stored yet.
func (r *SQLRepository) status(ctx context.Context) (*statusRecord, error) {
	record := &statusRecord{
		ID:           statusRowID,
		ArmingStatus: domain.Disarmed.String(),
		AlarmStatus:  domain.NoAlarm.String(),
	}

	err := r.db.WithContext(ctx).Where("id = ?", statusRowID).Take(record).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("query status: %w", err)
	}

	return record, nil
}

// updateStatus applies fn to the status row and upserts it.
func (r *SQLRepository) updateStatus(ctx context.Context, fn func(record *statusRecord)) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		record := &statusRecord{
			ID:           statusRowID,
			ArmingStatus: domain.Disarmed.String(),
			AlarmStatus:  domain.NoAlarm.String(),
		}

		err := tx.Where("id = ?", statusRowID).Take(record).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("query status: %w", err)
		}

		fn(record)

		err = tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(record).Error
		if err != nil {
			return fmt.Errorf("save status: %w", err)
		}

		return nil
	})
}

func toRecord(sensor *domain.Sensor) *sensorRecord {
	return &sensorRecord{
		ID:     sensor.ID,
		Name:   sensor.Name,
		Type:   sensor.Type.String(),
		Active: sensor.Active,
	}
}

func fromRecord(record *sensorRecord) (*domain.Sensor, error) {
	sensorType, err := domain.ParseSensorType(record.Type)
	if err != nil {
		return nil, fmt.Errorf("decode sensor %s: %w", record.ID, err)
	}

	return &domain.Sensor{
		ID:     record.ID,
		Name:   record.Name,
		Type:   sensorType,
		Active: record.Active,
	}, nil
}
