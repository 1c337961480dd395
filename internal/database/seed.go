package database

import (
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
)

func SeedUsers(db *sqlx.DB) error {
	var count int
	if err := db.Get(&count, "SELECT COUNT(*) FROM users"); err != nil {
		return err
	}

	if count > 0 {
		log.Println("✓ Users already seeded, skipping...")
		return nil
	}

	log.Println("🌱 Seeding default users...")

	users := []struct {
		Email    string
		Password string
		FName    string
		LName    string
		Role     string
	}{
		{"admin@binwatch.io", "admin123", "Ada", "Admin", "admin"},
		{"kaur@binwatch.io", "driver123", "Kaur", "Tamm", "employee"},
		{"mari@binwatch.io", "driver123", "Mari", "Sepp", "employee"},
	}

	now := time.Now().Unix()
	for _, u := range users {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		_, err = db.Exec(`
			INSERT INTO users (id, email, password, fname, lname, role, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		`, uuid.New().String(), u.Email, string(hash), u.FName, u.LName, u.Role, now)
		if err != nil {
			return err
		}
	}

	log.Printf("✓ Seeded %d users", len(users))
	return nil
}

func SeedDevices(db *sqlx.DB) error {
	var count int
	if err := db.Get(&count, "SELECT COUNT(*) FROM devices"); err != nil {
		return err
	}

	if count > 0 {
		log.Println("✓ Devices already seeded, skipping...")
		return nil
	}

	log.Println("🌱 Seeding devices...")

	// level is the raw distance in cm: a 100cm bin with level 20 is 80% full.
	devices := []struct {
		UniqueID  int64
		Level     int
		Battery   int
		BinHeight int
		Lat       string
		Lng       string
	}{
		{1001, 20, 87, 100, "59.43696", "24.75357"},
		{1002, 55, 64, 120, "59.43529", "24.74412"},
		{1003, 78, 91, 100, "59.43911", "24.75712"},
		{1004, 10, 18, 100, "59.43305", "24.74894"},
		{1005, 92, 73, 110, "59.44021", "24.74601"},
		{1006, 47, 22, 100, "59.43118", "24.75533"},
		{1007, 63, 95, 90, "59.43820", "24.73988"},
		{1008, 31, 55, 100, "59.43455", "24.76102"},
	}

	now := time.Now().Unix()
	for _, d := range devices {
		_, err := db.Exec(`
			INSERT INTO devices (unique_id, level, battery, bin_height, lat, lng, is_registered, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, TRUE, $7, $7)
		`, d.UniqueID, d.Level, d.Battery, d.BinHeight, d.Lat, d.Lng, now)
		if err != nil {
			return err
		}
	}

	log.Printf("✓ Seeded %d devices", len(devices))
	return nil
}
