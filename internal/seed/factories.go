// Package seed provides helpers to create demo and test data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"mafather/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configures the seeder.
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
	// SkipBcrypt replaces password hashing with a plain marker for fast
	// local seeding. Never enable outside development.
	SkipBcrypt bool
}

var categoryNames = map[string][]string{
	models.PostTypeQuestion: {"Sleep", "Feeding", "Health", "Development", "Behavior"},
	models.PostTypeStory:    {"Daily Life", "Milestones", "Wins and Fails"},
	models.PostTypeTip:      {"Gear", "Routines", "Recipes"},
}

var chatTitles = []string{
	"Night feeding questions",
	"Is this rash normal?",
	"Picky eater advice",
	"Tantrums at bedtime",
	"When do babies start walking?",
}

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db *gorm.DB
	r  *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{db: db, r: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// CreateUser constructs and persists a sample user. Optional override
// functions may modify the generated user before saving.
func (f *Factory) CreateUser(opts Options, overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		Email:        gofakeit.Email(),
		Name:         gofakeit.Name(),
		ProfileImage: fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
		AuthProvider: models.AuthProviderLocal,
		IsActive:     true,
	}

	if opts.SkipBcrypt {
		user.Password = "password123"
	} else {
		hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		user.Password = string(hashed)
	}

	for _, override := range overrides {
		override(user)
	}
	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateChild persists a child profile with an age under five years.
func (f *Factory) CreateChild(user *models.User) (*models.UserChild, error) {
	monthsOld := f.r.Intn(60) + 1
	child := &models.UserChild{
		UserID:    user.ID,
		Name:      gofakeit.FirstName(),
		BirthDate: time.Now().AddDate(0, -monthsOld, -f.r.Intn(28)),
		Gender:    []string{"male", "female"}[f.r.Intn(2)],
	}
	if err := f.db.Create(child).Error; err != nil {
		return nil, err
	}
	return child, nil
}

// CreatePost persists a post under the given category with a realistic
// created_at spread over the last 90 days.
func (f *Factory) CreatePost(user *models.User, category *models.Category) (*models.Post, error) {
	post := &models.Post{
		UserID:      user.ID,
		CategoryID:  category.ID,
		PostType:    category.PostType,
		Title:       gofakeit.Sentence(6),
		Content:     gofakeit.Paragraph(1, 3, 8, "\n"),
		Status:      models.PostStatusPublished,
		IsAnonymous: f.r.Intn(5) == 0,
		CreatedAt:   randomPastTime(f.r, 90),
	}
	if post.PostType == models.PostTypeQuestion {
		solved := f.r.Intn(3) == 0
		post.IsSolved = &solved
	}
	if err := f.db.Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// CreateComment persists a comment, optionally as a reply to parent.
func (f *Factory) CreateComment(user *models.User, post *models.Post, parent *models.Comment) (*models.Comment, error) {
	comment := &models.Comment{
		UserID:  user.ID,
		PostID:  post.ID,
		Content: gofakeit.Sentence(10),
		Depth:   models.DepthTopLevel,
	}
	if parent != nil {
		comment.ParentID = &parent.ID
		comment.Depth = models.DepthReply
	}
	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// CreateChatSession persists a session with a handful of messages and a
// consistent running token total.
func (f *Factory) CreateChatSession(user *models.User) (*models.ChatSession, error) {
	session := &models.ChatSession{
		UserID:   user.ID,
		Title:    chatTitles[f.r.Intn(len(chatTitles))],
		Category: models.ChatCategoryGeneral,
		Status:   models.ChatStatusActive,
	}
	if err := f.db.Create(session).Error; err != nil {
		return nil, err
	}

	turns := f.r.Intn(4) + 1
	at := session.CreatedAt
	for i := 0; i < turns; i++ {
		for _, role := range []string{models.ChatRoleUser, models.ChatRoleAssistant} {
			at = at.Add(time.Duration(f.r.Intn(120)+10) * time.Second)
			tokens := f.r.Intn(80) + 5
			message := &models.ChatMessage{
				SessionID: session.ID,
				Role:      role,
				Content:   gofakeit.Sentence(12),
				Tokens:    tokens,
				CreatedAt: at,
			}
			if err := f.db.Create(message).Error; err != nil {
				return nil, err
			}
			session.TotalTokens += tokens
		}
	}
	session.LastMessageAt = &at
	if err := f.db.Save(session).Error; err != nil {
		return nil, err
	}
	return session, nil
}

func randomPastTime(r *rand.Rand, maxDays int) time.Time {
	return time.Now().
		Add(-time.Duration(r.Intn(maxDays)) * 24 * time.Hour).
		Add(-time.Duration(r.Intn(24)) * time.Hour).
		Add(-time.Duration(r.Intn(60)) * time.Minute)
}

// Seed populates the database with demo data.
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("Starting database seeding with %d users and %d posts...", opts.NumUsers, opts.NumPosts)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("Warning: could not clear all existing data, continuing anyway...")
		}
	}

	if err := Milestones(db); err != nil {
		return fmt.Errorf("failed to seed milestones: %w", err)
	}

	categories, err := createCategories(db)
	if err != nil {
		return fmt.Errorf("failed to create categories: %w", err)
	}
	log.Printf("%d categories available", len(categories))

	f := NewFactory(db)

	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		user, err := f.CreateUser(opts)
		if err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		if _, err := f.CreateChild(user); err != nil {
			return fmt.Errorf("failed to create child: %w", err)
		}
		users = append(users, user)
	}
	log.Printf("%d users created", len(users))

	posts := make([]*models.Post, 0, opts.NumPosts)
	for i := 0; i < opts.NumPosts; i++ {
		user := users[f.r.Intn(len(users))]
		category := categories[f.r.Intn(len(categories))]
		post, err := f.CreatePost(user, category)
		if err != nil {
			return fmt.Errorf("failed to create post: %w", err)
		}
		posts = append(posts, post)
	}
	log.Printf("%d posts created", len(posts))

	if err := sprinkleEngagement(f, users, posts); err != nil {
		return fmt.Errorf("failed to create engagement: %w", err)
	}

	for _, user := range users {
		if f.r.Intn(3) == 0 {
			if _, err := f.CreateChatSession(user); err != nil {
				return fmt.Errorf("failed to create chat session: %w", err)
			}
		}
	}

	log.Println("Seeding complete")
	return nil
}

// sprinkleEngagement adds comments and likes, then rewrites the denormalized
// counters from full counts so seeded data obeys the same consistency rule
// as live traffic.
func sprinkleEngagement(f *Factory, users []*models.User, posts []*models.Post) error {
	for _, post := range posts {
		for i := 0; i < f.r.Intn(4); i++ {
			user := users[f.r.Intn(len(users))]
			comment, err := f.CreateComment(user, post, nil)
			if err != nil {
				return err
			}
			if f.r.Intn(3) == 0 {
				replier := users[f.r.Intn(len(users))]
				if _, err := f.CreateComment(replier, post, comment); err != nil {
					return err
				}
			}
		}

		for _, user := range users {
			if f.r.Intn(4) != 0 {
				continue
			}
			like := &models.Like{
				UserID:     user.ID,
				TargetType: models.TargetPost,
				TargetID:   post.ID,
			}
			if err := f.db.Create(like).Error; err != nil {
				return err
			}
		}

		var commentCount, likeCount int64
		if err := f.db.Model(&models.Comment{}).Where("post_id = ?", post.ID).Count(&commentCount).Error; err != nil {
			return err
		}
		if err := f.db.Model(&models.Like{}).
			Where("target_type = ? AND target_id = ?", models.TargetPost, post.ID).
			Count(&likeCount).Error; err != nil {
			return err
		}
		err := f.db.Model(&models.Post{}).Where("id = ?", post.ID).Updates(map[string]any{
			"comment_count": commentCount,
			"like_count":    likeCount,
			"view_count":    f.r.Intn(500),
		}).Error
		if err != nil {
			return err
		}
	}
	return nil
}

func createCategories(db *gorm.DB) ([]*models.Category, error) {
	var categories []*models.Category
	for postType, names := range categoryNames {
		for i, name := range names {
			category := &models.Category{
				Name:         name,
				PostType:     postType,
				DisplayOrder: i,
				IsActive:     true,
			}
			err := db.Where(models.Category{Name: name, PostType: postType}).
				FirstOrCreate(category).Error
			if err != nil {
				return nil, err
			}
			categories = append(categories, category)
		}
	}
	return categories, nil
}

func clearData(db *gorm.DB) error {
	// Children of other rows go first so the wipe never trips a constraint.
	for _, model := range []any{
		&models.ChildMilestone{},
		&models.DevelopmentRecordImage{},
		&models.DevelopmentRecord{},
		&models.ChatMessage{},
		&models.ChatSession{},
		&models.Like{},
		&models.Comment{},
		&models.PostImage{},
		&models.Post{},
		&models.SearchLog{},
		&models.Session{},
		&models.UserChild{},
		&models.User{},
	} {
		if err := db.Unscoped().Where("1 = 1").Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}
