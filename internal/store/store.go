package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"appliance-manager/internal/model"
)

// Store defines the interface for all database operations.
type Store interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUser(ctx context.Context, id int64) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	TouchLastLogin(ctx context.Context, userID int64, at time.Time) error

	CreateProperty(ctx context.Context, property *model.Property) error
	GetProperty(ctx context.Context, id int64) (*model.Property, error)
	ListProperties(ctx context.Context) ([]model.Property, error)
	DeleteProperty(ctx context.Context, id int64) error

	CreateAppliance(ctx context.Context, appliance *model.Appliance) error
	GetAppliance(ctx context.Context, id int64) (*model.Appliance, error)
	ListAppliances(ctx context.Context) ([]model.Appliance, error)
	ListAppliancesByType(ctx context.Context, t model.ApplianceType) ([]model.Appliance, error)
	DeleteAppliance(ctx context.Context, id int64) error

	AssignProperty(ctx context.Context, userID, propertyID int64, on time.Time) (*model.UserProperty, error)
	GetUserProperty(ctx context.Context, id int64) (*model.UserProperty, error)
	ListUserProperties(ctx context.Context, userID int64) ([]model.UserProperty, error)
	IsAssigned(ctx context.Context, userID, propertyID int64) (bool, error)

	CreatePropertyAppliance(ctx context.Context, pa *model.PropertyAppliance) error
	GetPropertyAppliance(ctx context.Context, id int64) (*model.PropertyAppliance, error)
	FindPropertyAppliance(ctx context.Context, propertyID, applianceID int64) (*model.PropertyAppliance, error)
	ListPropertyAppliances(ctx context.Context, propertyID int64) ([]model.PropertyAppliance, error)
	DeletePropertyAppliance(ctx context.Context, id int64) error

	CreateSchedule(ctx context.Context, schedule *model.Schedule) error
	GetSchedule(ctx context.Context, id int64) (*model.Schedule, error)
	ListSchedules(ctx context.Context, propertyApplianceID int64) ([]model.Schedule, error)
	DeleteSchedule(ctx context.Context, id int64) error

	SaveSubscription(ctx context.Context, sub *model.PushSubscription) error
	DeleteSubscription(ctx context.Context, userID int64, endpoint string) error
	ListSubscriptions(ctx context.Context, userID int64) ([]model.PushSubscription, error)
	SubscriptionsForProperty(ctx context.Context, propertyID int64) ([]model.PushSubscription, error)

	DB() *gorm.DB
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) DB() *gorm.DB {
	return s.db
}

// translate maps gorm sentinel errors onto the store's own.
func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// --- Users ---

func (s *gormStore) CreateUser(ctx context.Context, user *model.User) error {
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user %q: %w", user.Username, err)
	}
	return nil
}

func (s *gormStore) GetUser(ctx context.Context, id int64) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *gormStore) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *gormStore) TouchLastLogin(ctx context.Context, userID int64, at time.Time) error {
	return s.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", userID).Update("last_login", at).Error
}

// --- Properties ---

func (s *gormStore) CreateProperty(ctx context.Context, property *model.Property) error {
	if err := s.db.WithContext(ctx).Create(property).Error; err != nil {
		return fmt.Errorf("failed to create property %q: %w", property.Name, err)
	}
	return nil
}

func (s *gormStore) GetProperty(ctx context.Context, id int64) (*model.Property, error) {
	var property model.Property
	if err := s.db.WithContext(ctx).First(&property, id).Error; err != nil {
		return nil, translate(err)
	}
	return &property, nil
}

func (s *gormStore) ListProperties(ctx context.Context) ([]model.Property, error) {
	var properties []model.Property
	if err := s.db.WithContext(ctx).Order("name").Find(&properties).Error; err != nil {
		return nil, err
	}
	return properties, nil
}

// DeleteProperty removes the property together with its installations, their
// schedules and every landlord assignment.
func (s *gormStore) DeleteProperty(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		installations := tx.Model(&model.PropertyAppliance{}).Select("id").Where("property_id = ?", id)
		if err := tx.Where("property_appliance_id IN (?)", installations).Delete(&model.Schedule{}).Error; err != nil {
			return fmt.Errorf("failed to delete schedules of property %d: %w", id, err)
		}
		if err := tx.Where("property_id = ?", id).Delete(&model.PropertyAppliance{}).Error; err != nil {
			return fmt.Errorf("failed to delete installations of property %d: %w", id, err)
		}
		if err := tx.Where("property_id = ?", id).Delete(&model.UserProperty{}).Error; err != nil {
			return fmt.Errorf("failed to delete assignments of property %d: %w", id, err)
		}
		return deleteByID(tx, &model.Property{}, id)
	})
}

// --- Appliances ---

func (s *gormStore) CreateAppliance(ctx context.Context, appliance *model.Appliance) error {
	if err := s.db.WithContext(ctx).Create(appliance).Error; err != nil {
		return fmt.Errorf("failed to create appliance %s: %w", appliance, err)
	}
	return nil
}

func (s *gormStore) GetAppliance(ctx context.Context, id int64) (*model.Appliance, error) {
	var appliance model.Appliance
	if err := s.db.WithContext(ctx).First(&appliance, id).Error; err != nil {
		return nil, translate(err)
	}
	return &appliance, nil
}

func (s *gormStore) ListAppliances(ctx context.Context) ([]model.Appliance, error) {
	var appliances []model.Appliance
	if err := s.db.WithContext(ctx).Order("id").Find(&appliances).Error; err != nil {
		return nil, err
	}
	return appliances, nil
}

func (s *gormStore) ListAppliancesByType(ctx context.Context, t model.ApplianceType) ([]model.Appliance, error) {
	var appliances []model.Appliance
	if err := s.db.WithContext(ctx).
		Where("appliance_type = ?", t).
		Order("matching_score DESC, id").
		Find(&appliances).Error; err != nil {
		return nil, err
	}
	return appliances, nil
}

// DeleteAppliance removes a catalog entry, every installation of it and every
// schedule that either replaces one of those installations or installs it.
func (s *gormStore) DeleteAppliance(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		installations := tx.Model(&model.PropertyAppliance{}).Select("id").Where("appliance_id = ?", id)
		if err := tx.Where("property_appliance_id IN (?) OR replacement_appliance_id = ?", installations, id).
			Delete(&model.Schedule{}).Error; err != nil {
			return fmt.Errorf("failed to delete schedules of appliance %d: %w", id, err)
		}
		if err := tx.Where("appliance_id = ?", id).Delete(&model.PropertyAppliance{}).Error; err != nil {
			return fmt.Errorf("failed to delete installations of appliance %d: %w", id, err)
		}
		return deleteByID(tx, &model.Appliance{}, id)
	})
}

// --- Landlord assignments ---

// AssignProperty links a user to a property. A second assignment of the same
// pair fails with ErrAlreadyAssigned.
func (s *gormStore) AssignProperty(ctx context.Context, userID, propertyID int64, on time.Time) (*model.UserProperty, error) {
	assignment := model.UserProperty{
		UserID:         userID,
		PropertyID:     propertyID,
		AssignmentDate: model.NewDate(on),
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.UserProperty{}).
			Where("user_id = ? AND property_id = ?", userID, propertyID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrAlreadyAssigned
		}
		return tx.Omit(clause.Associations).Create(&assignment).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, ErrAlreadyAssigned
	}
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (s *gormStore) GetUserProperty(ctx context.Context, id int64) (*model.UserProperty, error) {
	var up model.UserProperty
	if err := s.db.WithContext(ctx).
		Preload("User").
		Preload("Property").
		Preload("Property.Appliances", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Property.Appliances.Appliance").
		Preload("Property.Appliances.Schedules", func(db *gorm.DB) *gorm.DB { return db.Order("date, hour, minute") }).
		Preload("Property.Appliances.Schedules.ReplacementAppliance").
		First(&up, id).Error; err != nil {
		return nil, translate(err)
	}
	return &up, nil
}

func (s *gormStore) ListUserProperties(ctx context.Context, userID int64) ([]model.UserProperty, error) {
	var ups []model.UserProperty
	if err := s.db.WithContext(ctx).
		Preload("Property").
		Where("user_id = ?", userID).
		Order("id").
		Find(&ups).Error; err != nil {
		return nil, err
	}
	return ups, nil
}

// IsAssigned reports whether the user is a landlord of the property.
func (s *gormStore) IsAssigned(ctx context.Context, userID, propertyID int64) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&model.UserProperty{}).
		Where("user_id = ? AND property_id = ?", userID, propertyID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// --- Installations ---

func (s *gormStore) CreatePropertyAppliance(ctx context.Context, pa *model.PropertyAppliance) error {
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(pa).Error; err != nil {
		return fmt.Errorf("failed to create property appliance: %w", err)
	}
	return nil
}

func (s *gormStore) GetPropertyAppliance(ctx context.Context, id int64) (*model.PropertyAppliance, error) {
	var pa model.PropertyAppliance
	if err := s.preloadInstallation(ctx).First(&pa, id).Error; err != nil {
		return nil, translate(err)
	}
	return &pa, nil
}

func (s *gormStore) FindPropertyAppliance(ctx context.Context, propertyID, applianceID int64) (*model.PropertyAppliance, error) {
	var pa model.PropertyAppliance
	if err := s.preloadInstallation(ctx).
		Where("property_id = ? AND appliance_id = ?", propertyID, applianceID).
		First(&pa).Error; err != nil {
		return nil, translate(err)
	}
	return &pa, nil
}

func (s *gormStore) preloadInstallation(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Preload("Property").
		Preload("Appliance").
		Preload("Schedules", func(db *gorm.DB) *gorm.DB { return db.Order("date, hour, minute") }).
		Preload("Schedules.ReplacementAppliance")
}

func (s *gormStore) ListPropertyAppliances(ctx context.Context, propertyID int64) ([]model.PropertyAppliance, error) {
	var pas []model.PropertyAppliance
	if err := s.db.WithContext(ctx).
		Preload("Appliance").
		Where("property_id = ?", propertyID).
		Order("id").
		Find(&pas).Error; err != nil {
		return nil, err
	}
	return pas, nil
}

// DeletePropertyAppliance removes the installation and its schedules.
func (s *gormStore) DeletePropertyAppliance(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("property_appliance_id = ?", id).Delete(&model.Schedule{}).Error; err != nil {
			return fmt.Errorf("failed to delete schedules of property appliance %d: %w", id, err)
		}
		return deleteByID(tx, &model.PropertyAppliance{}, id)
	})
}

// --- Schedules ---

func (s *gormStore) CreateSchedule(ctx context.Context, schedule *model.Schedule) error {
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(schedule).Error; err != nil {
		return fmt.Errorf("failed to create schedule: %w", err)
	}
	return nil
}

func (s *gormStore) GetSchedule(ctx context.Context, id int64) (*model.Schedule, error) {
	var schedule model.Schedule
	if err := s.db.WithContext(ctx).
		Preload("PropertyAppliance.Property").
		Preload("PropertyAppliance.Appliance").
		Preload("ReplacementAppliance").
		First(&schedule, id).Error; err != nil {
		return nil, translate(err)
	}
	return &schedule, nil
}

func (s *gormStore) ListSchedules(ctx context.Context, propertyApplianceID int64) ([]model.Schedule, error) {
	var schedules []model.Schedule
	if err := s.db.WithContext(ctx).
		Preload("ReplacementAppliance").
		Where("property_appliance_id = ?", propertyApplianceID).
		Order("date, hour, minute").
		Find(&schedules).Error; err != nil {
		return nil, err
	}
	return schedules, nil
}

func (s *gormStore) DeleteSchedule(ctx context.Context, id int64) error {
	return deleteByID(s.db.WithContext(ctx), &model.Schedule{}, id)
}

// --- Push subscriptions ---

// SaveSubscription creates the subscription or refreshes its keys and owner.
func (s *gormStore) SaveSubscription(ctx context.Context, sub *model.PushSubscription) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "endpoint"}},
		DoUpdates: clause.AssignmentColumns([]string{"user_id", "p256dh", "auth"}),
	}).Omit(clause.Associations).Create(sub).Error
}

func (s *gormStore) DeleteSubscription(ctx context.Context, userID int64, endpoint string) error {
	res := s.db.WithContext(ctx).
		Where("endpoint = ? AND user_id = ?", endpoint, userID).
		Delete(&model.PushSubscription{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *gormStore) ListSubscriptions(ctx context.Context, userID int64) ([]model.PushSubscription, error) {
	var subs []model.PushSubscription
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}

// SubscriptionsForProperty returns the subscriptions of every landlord
// assigned to the property.
func (s *gormStore) SubscriptionsForProperty(ctx context.Context, propertyID int64) ([]model.PushSubscription, error) {
	var subs []model.PushSubscription
	err := s.db.WithContext(ctx).
		Joins("JOIN user_properties up ON up.user_id = push_subscriptions.user_id").
		Where("up.property_id = ?", propertyID).
		Find(&subs).Error
	if err != nil {
		return nil, err
	}
	return subs, nil
}

func deleteByID(tx *gorm.DB, value any, id int64) error {
	res := tx.Delete(value, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
