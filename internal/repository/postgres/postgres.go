package postgres

import (
	"github.com/jmoiron/sqlx"

	"github.com/bloodlink/bloodlink-api/internal/repository"
)

type sosRequestRepository struct {
	db *sqlx.DB
}

type notificationRepository struct {
	db *sqlx.DB
}

type inventoryRepository struct {
	db *sqlx.DB
}

type profileRepository struct {
	db *sqlx.DB
}

type sosResponseRepository struct {
	db *sqlx.DB
}

func NewSOSRequestRepository(db *sqlx.DB) repository.SOSRequestRepository {
	return &sosRequestRepository{db: db}
}

func NewNotificationRepository(db *sqlx.DB) repository.NotificationRepository {
	return &notificationRepository{db: db}
}

func NewInventoryRepository(db *sqlx.DB) repository.InventoryRepository {
	return &inventoryRepository{db: db}
}

func NewProfileRepository(db *sqlx.DB) repository.ProfileRepository {
	return &profileRepository{db: db}
}

func NewSOSResponseRepository(db *sqlx.DB) repository.SOSResponseRepository {
	return &sosResponseRepository{db: db}
}
