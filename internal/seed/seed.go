// Package seed provides helpers to create demo data for the application
// database. Intended for development only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"inkwell/internal/models"
	"inkwell/internal/slug"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options controls how much demo data is generated.
type Options struct {
	Users           int
	PostsPerUser    int
	CommentsPerPost int
	Password        string
}

// DefaultOptions returns a small, readable data set.
func DefaultOptions() Options {
	return Options{
		Users:           8,
		PostsPerUser:    4,
		CommentsPerPost: 3,
		Password:        "password123",
	}
}

var categoryNames = []string{
	"Technology", "Web Development", "Programming Languages",
	"Career", "Open Source", "Databases",
}

// Run populates the database with fake users, categories, posts, and
// comments. The first created user is an admin.
func Run(db *gorm.DB, opts Options) error {
	gofakeit.Seed(time.Now().UnixNano())
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	hashed, err := bcrypt.GenerateFromPassword([]byte(opts.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing seed password: %w", err)
	}

	var categories []models.Category
	for _, name := range categoryNames {
		category := models.Category{
			Name:        name,
			Slug:        slug.Generate(name),
			Description: gofakeit.Sentence(8),
			Color:       gofakeit.HexColor(),
			IsActive:    true,
		}
		if err := db.Create(&category).Error; err != nil {
			return fmt.Errorf("seeding category %q: %w", name, err)
		}
		categories = append(categories, category)
	}

	var users []models.User
	for i := 0; i < opts.Users; i++ {
		role := models.RoleUser
		if i == 0 {
			role = models.RoleAdmin
		}
		user := models.User{
			Username:  fmt.Sprintf("%s%d", gofakeit.Username(), i),
			Email:     gofakeit.Email(),
			Password:  string(hashed),
			FirstName: gofakeit.FirstName(),
			LastName:  gofakeit.LastName(),
			Role:      role,
			Bio:       gofakeit.Sentence(10),
		}
		if err := db.Create(&user).Error; err != nil {
			return fmt.Errorf("seeding user: %w", err)
		}
		users = append(users, user)
	}

	var posts []models.Post
	for _, user := range users {
		for i := 0; i < opts.PostsPerUser; i++ {
			content := gofakeit.Paragraph(3, 5, 12, "\n\n")
			post := models.Post{
				Title:       gofakeit.Sentence(6),
				Content:     content,
				Excerpt:     models.DeriveExcerpt("", content),
				AuthorID:    user.ID,
				CategoryID:  categories[r.Intn(len(categories))].ID,
				Tags:        models.StringList{gofakeit.HackerNoun(), gofakeit.HackerNoun()},
				IsPublished: r.Intn(10) > 1, // mostly published, some drafts
				ViewCount:   int64(r.Intn(500)),
				CreatedAt:   time.Now().Add(-time.Duration(r.Intn(90*24)) * time.Hour),
			}
			if err := db.Create(&post).Error; err != nil {
				return fmt.Errorf("seeding post: %w", err)
			}
			posts = append(posts, post)
		}
	}

	for _, post := range posts {
		for i := 0; i < r.Intn(opts.CommentsPerPost+1); i++ {
			comment := models.Comment{
				PostID:    post.ID,
				UserID:    users[r.Intn(len(users))].ID,
				Content:   gofakeit.Sentence(12),
				CreatedAt: post.CreatedAt.Add(time.Duration(i+1) * time.Hour),
			}
			if err := db.Create(&comment).Error; err != nil {
				return fmt.Errorf("seeding comment: %w", err)
			}
		}
	}

	log.Printf("Seeded %d categories, %d users, %d posts", len(categories), len(users), len(posts))
	return nil
}
