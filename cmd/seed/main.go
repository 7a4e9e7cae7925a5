package main

import (
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"

	"ecommerce-recs-be/internal/model"
	"ecommerce-recs-be/pkg/database"
	"ecommerce-recs-be/pkg/events"

	"github.com/joho/godotenv"
)

var categories = []string{"electronics", "books", "clothing", "home", "sports"}

var productNames = []string{
	"Wireless Headphones", "Mechanical Keyboard", "USB-C Hub", "Desk Lamp",
	"Running Shoes", "Yoga Mat", "Water Bottle", "Backpack",
	"Novel Bundle", "Cookbook", "Notebook Set", "Desk Organizer",
	"Smart Watch", "Phone Stand", "Travel Mug", "Hoodie",
	"Tennis Racket", "Camping Chair", "Reading Light", "Puzzle Set",
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Seeding demo data...")

	// Categories
	cats := make([]model.Category, 0, len(categories))
	for _, name := range categories {
		c := model.Category{Name: name}
		if err := db.Where(model.Category{Name: name}).FirstOrCreate(&c).Error; err != nil {
			log.Fatal("Error: Failed to seed category:", err)
		}
		cats = append(cats, c)
	}

	// Products
	products := make([]model.Product, 0, len(productNames))
	for i, name := range productNames {
		p := model.Product{
			Id:          uuid.New(),
			Name:        name,
			Description: fmt.Sprintf("Demo catalog item: %s", name),
			Price:       float64(10 + rand.Intn(190)),
			Stock:       10 + rand.Intn(90),
			Categories:  []model.Category{cats[i%len(cats)]},
		}
		var existing model.Product
		err := db.Where("name = ?", name).First(&existing).Error
		if err == nil {
			products = append(products, existing)
			continue
		}
		if err := db.Create(&p).Error; err != nil {
			log.Fatal("Error: Failed to seed product:", err)
		}
		products = append(products, p)
	}

	// Users
	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	users := []model.User{
		{Id: uuid.New(), Email: "admin@example.com", FullName: "Demo Admin", PasswordHash: string(hash), IsAdmin: true},
		{Id: uuid.New(), Email: "alice@example.com", FullName: "Alice Demo", PasswordHash: string(hash)},
		{Id: uuid.New(), Email: "bob@example.com", FullName: "Bob Demo", PasswordHash: string(hash)},
	}
	seeded := make([]model.User, 0, len(users))
	for _, u := range users {
		var existing model.User
		if err := db.Where("email = ?", u.Email).First(&existing).Error; err == nil {
			seeded = append(seeded, existing)
			continue
		}
		if err := db.Create(&u).Error; err != nil {
			log.Fatal("Error: Failed to seed user:", err)
		}
		seeded = append(seeded, u)
	}

	// Interaction history: random views with occasional cart adds and purchases
	eventTypes := []string{events.TypeView, events.TypeView, events.TypeView, events.TypeCartAdd, events.TypePurchase}
	count := 0
	for _, u := range seeded[1:] {
		for i := 0; i < 40; i++ {
			p := products[rand.Intn(len(products))]
			userId := u.Id
			productId := p.Id
			e := model.UserEvent{
				Id:         uuid.New(),
				UserId:     &userId,
				SessionId:  fmt.Sprintf("seed-session-%s", u.Id.String()[:8]),
				EventType:  eventTypes[rand.Intn(len(eventTypes))],
				ProductId:  &productId,
				Timestamp:  time.Now().Add(-time.Duration(rand.Intn(29*24)) * time.Hour),
				Attributes: datatypes.JSON([]byte(`{"source":"seed"}`)),
			}
			if err := db.Create(&e).Error; err != nil {
				log.Fatal("Error: Failed to seed event:", err)
			}
			count++
		}
	}

	log.Printf("Seed complete: %d categories, %d products, %d users, %d events",
		len(cats), len(products), len(seeded), count)
}
