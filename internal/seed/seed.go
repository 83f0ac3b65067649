// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"glimpse/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Options configures the seeder.
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
}

// DefaultPassword is the password every seeded user gets.
const DefaultPassword = "Password123!seed"

// Seed populates the database with test data: users, a friend mesh, posts
// and likes.
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("Seeding %d users and %d posts...", opts.NumUsers, opts.NumPosts)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("Warning: could not clear all existing data, continuing anyway")
		}
	}

	gofakeit.Seed(time.Now().UnixNano())
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	users, err := seedUsers(db, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("seeding users: %w", err)
	}

	if err := seedFriendMesh(db, users, r); err != nil {
		return fmt.Errorf("seeding friend edges: %w", err)
	}

	posts, err := seedPosts(db, users, opts.NumPosts, r)
	if err != nil {
		return fmt.Errorf("seeding posts: %w", err)
	}

	if err := seedLikes(db, users, posts, r); err != nil {
		return fmt.Errorf("seeding likes: %w", err)
	}

	log.Printf("Seeding complete: %d users, %d posts", len(users), len(posts))
	return nil
}

func clearData(db *gorm.DB) error {
	for _, model := range []interface{}{
		&models.Like{}, &models.Post{}, &models.FriendEdge{}, &models.User{},
	} {
		if err := db.Unscoped().Where("1 = 1").Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}

func seedUsers(db *gorm.DB, count int) ([]*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}

	users := make([]*models.User, 0, count)
	for i := 0; i < count; i++ {
		user := &models.User{
			Email:    models.NormalizeEmail(fmt.Sprintf("%s.%s.%d@%s", gofakeit.FirstName(), gofakeit.LastName(), i, gofakeit.DomainName())),
			Password: string(hashed),
		}
		if err := db.Create(user).Error; err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

// seedFriendMesh gives every user a handful of outgoing edges. Edges are
// directed, so mutual friendships only appear when the dice land both ways.
func seedFriendMesh(db *gorm.DB, users []*models.User, r *rand.Rand) error {
	if len(users) < 2 {
		return nil
	}
	for _, user := range users {
		outgoing := 1 + r.Intn(5)
		for j := 0; j < outgoing; j++ {
			target := users[r.Intn(len(users))]
			if target.ID == user.ID {
				continue
			}
			edge := models.FriendEdge{OwnerID: user.ID, FriendID: target.ID}
			if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&edge).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

func seedPosts(db *gorm.DB, users []*models.User, count int, r *rand.Rand) ([]*models.Post, error) {
	posts := make([]*models.Post, 0, count)
	for i := 0; i < count; i++ {
		owner := users[r.Intn(len(users))]
		post := &models.Post{
			UserID:    owner.ID,
			MediaPath: gofakeit.UUID() + ".jpg",
			MediaType: models.MediaTypeImage,
			Caption:   gofakeit.Sentence(8),
			CreatedAt: time.Now().Add(-time.Duration(r.Intn(90*24)) * time.Hour),
		}
		if err := db.Create(post).Error; err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func seedLikes(db *gorm.DB, users []*models.User, posts []*models.Post, r *rand.Rand) error {
	for _, post := range posts {
		likers := r.Intn(len(users)/2 + 1)
		for j := 0; j < likers; j++ {
			liker := users[r.Intn(len(users))]
			like := models.Like{UserID: liker.ID, PostID: post.ID}
			if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&like).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
