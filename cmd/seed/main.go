package main

import (
	"log"
	"os"

	"homeservices/internal/database"
	"homeservices/internal/domain"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "homeservices.db"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := database.Migrate(db); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	// Cleanup old data (in safe order to avoid foreign key errors)
	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM notifications")
	db.Exec("DELETE FROM service_requests")
	db.Exec("DELETE FROM providers")
	db.Exec("DELETE FROM users")

	// ================== USERS ==================
	log.Println("Creating users...")

	admin := domain.User{
		Email:        "admin@homeservices.local",
		PasswordHash: hash("admin123"),
		Role:         domain.RoleAdmin,
		Name:         "Admin",
	}
	db.Create(&admin)

	customers := []domain.User{
		{Email: "alice@example.com", PasswordHash: hash("password1"), Role: domain.RoleCustomer, Name: "Alice Johnson", Phone: "555-0101"},
		{Email: "bob@example.com", PasswordHash: hash("password1"), Role: domain.RoleCustomer, Name: "Bob Martin", Phone: "555-0102"},
	}
	for i := range customers {
		db.Create(&customers[i])
	}

	// ================== PROVIDERS ==================
	log.Println("Creating providers...")

	providerSeeds := []struct {
		email       string
		name        string
		location    string
		age         int
		serviceType string
	}{
		{"mario@example.com", "Mario Rossi", "Springfield", 38, "Plumbing"},
		{"anna@example.com", "Anna Petrova", "Springfield", 29, "Wall Painting"},
		{"rick@example.com", "Rick Dawson", "Shelbyville", 45, "Roofing"},
		{"olga@example.com", "Olga Kim", "Springfield", 33, "Appliance Repair"},
		{"juan@example.com", "Juan Ortega", "Shelbyville", 41, "Electrical"},
	}

	var providers []domain.Provider
	for _, ps := range providerSeeds {
		u := domain.User{
			Email:        ps.email,
			PasswordHash: hash("password1"),
			Role:         domain.RoleProvider,
			Name:         ps.name,
		}
		db.Create(&u)

		p := domain.Provider{
			UserID:      u.ID,
			Name:        ps.name,
			Phone:       "555-0200",
			Location:    ps.location,
			Age:         ps.age,
			ServiceType: ps.serviceType,
			IsVerified:  true,
		}
		db.Create(&p)
		providers = append(providers, p)
	}

	// ================== REQUESTS ==================
	log.Println("Creating service requests...")

	requests := []domain.ServiceRequest{
		{UserID: customers[0].ID, Service: "pipe-repair", Description: "Kitchen pipe is leaking under the sink", Location: "Springfield", Status: domain.RequestPending},
		{UserID: customers[0].ID, Service: "wall-painting", Description: "Two bedrooms, light grey", Location: "Springfield", Status: domain.RequestPending},
		{UserID: customers[1].ID, Service: "roofing", Description: "Shingles blown off after the storm", Location: "Shelbyville", Status: domain.RequestPending},
		{UserID: customers[1].ID, Service: "washing-machine", Description: "Drum does not spin", Location: "Shelbyville", Status: domain.RequestPending},
		{UserID: customers[0].ID, Service: "electrical", Description: "Install three ceiling lights", Location: "Springfield", Status: domain.RequestPending},
	}
	for i := range requests {
		db.Create(&requests[i])
	}

	// one already-approved request so the dashboard has history
	approved := domain.ServiceRequest{
		UserID:      customers[1].ID,
		Service:     "drain-cleaning",
		Description: "Bathroom drain is slow",
		Location:    "Shelbyville",
		Status:      domain.RequestApproved,
		ProviderID:  &providers[0].ID,
	}
	db.Create(&approved)

	log.Println("Seed complete.")
	log.Println("  admin:    admin@homeservices.local / admin123")
	log.Println("  customer: alice@example.com / password1")
	log.Println("  provider: mario@example.com / password1")
}

func hash(password string) string {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal(err)
	}
	return string(h)
}
