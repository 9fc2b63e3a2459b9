package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"quorum/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by seed presets and tests.
type Factory struct {
	db  *gorm.DB
	rnd *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	// seed gofakeit for richer content
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		db:  db,
		rnd: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// titleTemplates per category; %s slots are filled with a fake topic word.
var titleTemplates = map[string][]string{
	"JavaScript": {
		"Why does %s behave differently in strict mode?",
		"Cleanest way to debounce %s handlers",
		"Is %s still worth learning in 2026?",
		"Stop using %s for everything",
	},
	"React": {
		"useEffect vs %s: what am I missing?",
		"How do you structure %s in a large React app?",
		"My %s component re-renders constantly, help",
		"Server components and %s, a field report",
	},
	"Node.js": {
		"Streaming %s without blowing up memory",
		"Worker threads for %s, benchmarks inside",
		"%s in production: lessons learned",
		"Express vs Fastify for a %s API",
	},
	"Next.js": {
		"App router and %s, finally makes sense",
		"ISR broke my %s pages, here is the fix",
		"Deploying %s with Next.js middleware",
		"Do you really need SSR for %s?",
	},
}

// BuildUser constructs an unpersisted user with fake identity fields.
// All seeded accounts share passwordHash so demo logins are predictable.
func (f *Factory) BuildUser(passwordHash string) *models.User {
	first := strings.ToLower(gofakeit.FirstName())
	last := strings.ToLower(gofakeit.LastName())
	username := fmt.Sprintf("%s%s%d", first, last, f.rnd.Intn(1000))

	return &models.User{
		Username: username,
		Email:    fmt.Sprintf("%s@%s", username, gofakeit.DomainName()),
		Password: passwordHash,
		Bio:      gofakeit.Sentence(8),
	}
}

// BuildPost constructs an unpersisted post authored by the given user.
// The category is picked at random when empty.
func (f *Factory) BuildPost(user *models.User, category string) *models.Post {
	if category == "" {
		category = models.AllowedCategories[f.rnd.Intn(len(models.AllowedCategories))]
	}

	templates := titleTemplates[category]
	title := fmt.Sprintf(templates[f.rnd.Intn(len(templates))], strings.ToLower(gofakeit.HackerNoun()))

	post := &models.Post{
		Title:    title,
		Content:  gofakeit.Paragraph(2, 4, 8, "\n\n"),
		Category: category,
		UserID:   user.ID,
	}
	post.CreatedAt = f.pastTimestamp(90)
	return post
}

// BuildReply constructs an unpersisted reply on the given post.
func (f *Factory) BuildReply(user *models.User, post *models.Post) *models.Reply {
	reply := &models.Reply{
		Content: gofakeit.Sentence(6 + f.rnd.Intn(20)),
		UserID:  user.ID,
		PostID:  post.ID,
	}
	// keep thread chronology plausible
	reply.CreatedAt = post.CreatedAt.Add(time.Duration(1+f.rnd.Intn(72)) * time.Hour)
	if reply.CreatedAt.After(time.Now()) {
		reply.CreatedAt = time.Now()
	}
	return reply
}

// pastTimestamp returns a random moment within the last maxDays days.
func (f *Factory) pastTimestamp(maxDays int) time.Time {
	daysBack := f.rnd.Intn(maxDays)
	hoursBack := f.rnd.Intn(24)
	minsBack := f.rnd.Intn(60)
	return time.Now().
		Add(-time.Duration(daysBack) * 24 * time.Hour).
		Add(-time.Duration(hoursBack) * time.Hour).
		Add(-time.Duration(minsBack) * time.Minute)
}
